// Package engine is a minimal built-in execution engine: it parses real
// movie headers and presents the stage at the declared size and rate,
// but runs no scripts. It exists so the harness and the bridge have a
// working engine without linking a full implementation, which plugs in
// through the same factory interface.
package engine

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	swfcore "github.com/user-none/eflash/api"
)

const (
	tagEnd                = 0
	tagSetBackgroundColor = 9

	twipsPerPixel = 20
)

// Factory creates preview players.
type Factory struct{}

// NewFactory returns the built-in engine factory.
func NewFactory() *Factory {
	return &Factory{}
}

// SampleRateRange reports the rates the silent mixer can run at.
func (*Factory) SampleRateRange() (min, max int) {
	return 8000, 192000
}

// Create parses the movie header and builds a player.
func (*Factory) Create(movie []byte, cfg swfcore.Config) (swfcore.Player, error) {
	hdr, body, err := parseHeader(movie)
	if err != nil {
		return nil, err
	}

	p := &player{
		info: swfcore.MovieInfo{
			Width:     hdr.width,
			Height:    hdr.height,
			FrameRate: hdr.frameRate,
			Version:   hdr.version,
		},
		frames:     hdr.frameCount,
		sampleRate: cfg.SampleRate,
		background: [3]byte{0xff, 0xff, 0xff},
		playing:    cfg.Autoplay,
	}
	if r, g, b, ok := findBackgroundColor(body); ok {
		p.background = [3]byte{r, g, b}
	}
	return p, nil
}

type header struct {
	version    int
	width      int
	height     int
	frameRate  float64
	frameCount int
}

// parseHeader validates the signature and reads the movie header,
// inflating the body when it is compressed. Returns the decompressed
// body starting at the stage rectangle.
func parseHeader(movie []byte) (header, []byte, error) {
	var hdr header

	if len(movie) < 8 {
		return hdr, nil, fmt.Errorf("%w: %d byte file", swfcore.ErrMalformedMovie, len(movie))
	}

	sig := string(movie[0:3])
	hdr.version = int(movie[3])
	body := movie[8:]

	switch sig {
	case "FWS":
	case "CWS":
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return hdr, nil, fmt.Errorf("%w: bad zlib stream: %v", swfcore.ErrMalformedMovie, err)
		}
		defer zr.Close()
		body, err = io.ReadAll(zr)
		if err != nil {
			return hdr, nil, fmt.Errorf("%w: bad zlib stream: %v", swfcore.ErrMalformedMovie, err)
		}
	case "ZWS":
		return hdr, nil, fmt.Errorf("%w: lzma compression", swfcore.ErrUnsupportedFeature)
	default:
		return hdr, nil, fmt.Errorf("%w: bad signature %q", swfcore.ErrMalformedMovie, movie[0:3])
	}

	rect, rest, err := readRect(body)
	if err != nil {
		return hdr, nil, err
	}
	hdr.width = (rect[1] - rect[0]) / twipsPerPixel
	hdr.height = (rect[3] - rect[2]) / twipsPerPixel
	if hdr.width <= 0 || hdr.height <= 0 {
		return hdr, nil, fmt.Errorf("%w: stage %dx%d", swfcore.ErrMalformedMovie, hdr.width, hdr.height)
	}

	if len(rest) < 4 {
		return hdr, nil, fmt.Errorf("%w: truncated header", swfcore.ErrMalformedMovie)
	}
	// Frame rate is 8.8 fixed point, fraction byte first.
	hdr.frameRate = float64(rest[1]) + float64(rest[0])/256
	if hdr.frameRate == 0 {
		hdr.frameRate = 12
	}
	hdr.frameCount = int(binary.LittleEndian.Uint16(rest[2:4]))

	return hdr, rest[4:], nil
}

// readRect decodes the variable-width stage rectangle: a 5-bit field
// size followed by xmin, xmax, ymin, ymax in twips.
func readRect(data []byte) ([4]int, []byte, error) {
	var rect [4]int

	if len(data) < 1 {
		return rect, nil, fmt.Errorf("%w: truncated rect", swfcore.ErrMalformedMovie)
	}
	nbits := int(data[0] >> 3)
	totalBits := 5 + 4*nbits
	byteLen := (totalBits + 7) / 8
	if len(data) < byteLen {
		return rect, nil, fmt.Errorf("%w: truncated rect", swfcore.ErrMalformedMovie)
	}

	bitPos := 5
	for i := 0; i < 4; i++ {
		v := 0
		for j := 0; j < nbits; j++ {
			v <<= 1
			if data[bitPos/8]&(0x80>>(bitPos%8)) != 0 {
				v |= 1
			}
			bitPos++
		}
		// Sign-extend.
		if nbits > 0 && v&(1<<(nbits-1)) != 0 {
			v -= 1 << nbits
		}
		rect[i] = v
	}
	return rect, data[byteLen:], nil
}

// findBackgroundColor scans the tag stream for SetBackgroundColor.
func findBackgroundColor(tags []byte) (r, g, b byte, ok bool) {
	for len(tags) >= 2 {
		v := binary.LittleEndian.Uint16(tags[0:2])
		code := int(v >> 6)
		length := int(v & 0x3f)
		tags = tags[2:]

		if length == 0x3f {
			if len(tags) < 4 {
				return 0, 0, 0, false
			}
			length = int(binary.LittleEndian.Uint32(tags[0:4]))
			tags = tags[4:]
		}
		if len(tags) < length {
			return 0, 0, 0, false
		}

		switch code {
		case tagSetBackgroundColor:
			if length >= 3 {
				return tags[0], tags[1], tags[2], true
			}
			return 0, 0, 0, false
		case tagEnd:
			return 0, 0, 0, false
		}
		tags = tags[length:]
	}
	return 0, 0, 0, false
}

// player presents the parsed stage. Frame advancement only moves the
// playhead and emits silence.
type player struct {
	info       swfcore.MovieInfo
	frames     int
	sampleRate int
	background [3]byte
	playing    bool

	playhead      int
	elapsed       time.Duration
	pendingAudio  int
	audioFraction float64

	frameBuf []byte
}

func (p *player) Info() swfcore.MovieInfo {
	return p.info
}

func (p *player) Advance(delta time.Duration) error {
	p.elapsed += delta
	if p.playing && p.frames > 0 {
		p.playhead = (p.playhead + 1) % p.frames
	}

	if p.sampleRate > 0 {
		exact := delta.Seconds()*float64(p.sampleRate) + p.audioFraction
		whole := int(exact)
		p.audioFraction = exact - float64(whole)
		p.pendingAudio += whole * 2 // stereo
	}
	return nil
}

func (p *player) Render(target swfcore.RenderTarget) error {
	soft, ok := target.(swfcore.SoftwareTarget)
	if !ok {
		// Hardware targets have nothing to draw without a real renderer.
		return nil
	}

	w, h := soft.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	stride := w * 4
	if len(p.frameBuf) != stride*h {
		p.frameBuf = make([]byte, stride*h)
	}
	for i := 0; i < len(p.frameBuf); i += 4 {
		p.frameBuf[i+0] = p.background[0]
		p.frameBuf[i+1] = p.background[1]
		p.frameBuf[i+2] = p.background[2]
		p.frameBuf[i+3] = 0xff
	}
	soft.WritePixels(p.frameBuf, stride)
	return nil
}

func (p *player) HandleEvent(ev swfcore.Event) {
	// A click starts a stopped movie, like the classic play gesture.
	if _, ok := ev.(swfcore.MouseDown); ok {
		p.playing = true
	}
}

func (p *player) DrainAudio(buf []int16) int {
	n := p.pendingAudio
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		buf[i] = 0
	}
	p.pendingAudio -= n
	return n
}

func (p *player) Close() {
	p.frameBuf = nil
}

// Serialize captures the playhead. The preview engine has no script or
// display list state beyond it.
func (p *player) Serialize() ([]byte, error) {
	out := make([]byte, 0, 24)
	out = binary.LittleEndian.AppendUint64(out, uint64(p.playhead))
	out = binary.LittleEndian.AppendUint64(out, uint64(p.elapsed))
	if p.playing {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	return out, nil
}

func (p *player) Deserialize(data []byte) error {
	if len(data) < 17 {
		return fmt.Errorf("%w: short engine state", swfcore.ErrMalformedMovie)
	}
	p.playhead = int(binary.LittleEndian.Uint64(data[0:8]))
	p.elapsed = time.Duration(binary.LittleEndian.Uint64(data[8:16]))
	p.playing = data[16] == 1
	return nil
}

var (
	_ swfcore.Factory    = (*Factory)(nil)
	_ swfcore.SaveStater = (*player)(nil)
)
