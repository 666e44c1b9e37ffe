package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	swfcore "github.com/user-none/eflash/api"
)

// Save-state format version. The major is compared on load; a mismatch
// is a hard failure. Minor revisions only append metadata, which older
// majors never see and newer minors ignore when absent.
const (
	saveStateMajor = 1
	saveStateMinor = 0

	saveStateVersion = saveStateMajor<<16 | saveStateMinor
)

// bridgeMetadataLen is the serialized size of the bridge-owned metadata:
// frame count, elapsed time, frame rate, mouse position.
const bridgeMetadataLen = 8 + 8 + 8 + 2 + 2

// saveStateHeaderLen covers the version and metadata length fields.
const saveStateHeaderLen = 4 + 4

// Save captures the player state plus bridge-owned metadata into an
// opaque blob the host can persist. Valid only while Running or
// Suspended.
func (b *Bridge) Save() ([]byte, error) {
	switch b.state {
	case StateTornDown:
		return nil, ErrTornDown
	case StateRunning, StateSuspended:
	default:
		return nil, fmt.Errorf("%w: save in %s", ErrInvalidState, b.state)
	}

	if b.saver == nil {
		return nil, ErrSaveUnsupportedByContent
	}

	playerState, err := b.saver.Serialize()
	if err != nil {
		if errors.Is(err, swfcore.ErrNotSerializable) {
			return nil, fmt.Errorf("%w: %v", ErrNotSerializable, err)
		}
		return nil, fmt.Errorf("core: serialize player: %w", err)
	}

	blob := make([]byte, 0, saveStateHeaderLen+bridgeMetadataLen+4+len(playerState))
	blob = binary.LittleEndian.AppendUint32(blob, saveStateVersion)
	blob = binary.LittleEndian.AppendUint32(blob, bridgeMetadataLen)
	blob = binary.LittleEndian.AppendUint64(blob, b.frameCount)
	blob = binary.LittleEndian.AppendUint64(blob, uint64(b.elapsed))
	blob = binary.LittleEndian.AppendUint64(blob, math.Float64bits(b.frameRate))
	blob = binary.LittleEndian.AppendUint16(blob, uint16(int16(b.mouse.x)))
	blob = binary.LittleEndian.AppendUint16(blob, uint16(int16(b.mouse.y)))
	blob = binary.LittleEndian.AppendUint32(blob, uint32(len(playerState)))
	blob = append(blob, playerState...)
	return blob, nil
}

// LoadState restores player and bridge state from a Save blob. The
// format version is validated before the player is touched; any failure
// leaves player and bridge state unmodified. On success the lifecycle
// state is unchanged. Valid only while Running or Suspended.
func (b *Bridge) LoadState(blob []byte) error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateRunning, StateSuspended:
	default:
		return fmt.Errorf("%w: load state in %s", ErrInvalidState, b.state)
	}

	if b.saver == nil {
		return ErrSaveUnsupportedByContent
	}

	meta, playerState, err := parseSaveState(blob)
	if err != nil {
		return err
	}

	if err := b.saver.Deserialize(playerState); err != nil {
		return fmt.Errorf("core: deserialize player: %w", err)
	}

	b.frameCount = meta.frameCount
	b.elapsed = meta.elapsed
	b.mouse.x = int(meta.mouseX)
	b.mouse.y = int(meta.mouseY)
	b.mouse.clamp(b.movie.Width, b.movie.Height)
	if meta.frameRate > 0 {
		b.frameRate = meta.frameRate
		b.frameDelta = time.Duration(float64(time.Second) / meta.frameRate)
	}
	return nil
}

type saveStateMeta struct {
	frameCount uint64
	elapsed    time.Duration
	frameRate  float64
	mouseX     int16
	mouseY     int16
}

func parseSaveState(blob []byte) (saveStateMeta, []byte, error) {
	var meta saveStateMeta

	if len(blob) < saveStateHeaderLen {
		return meta, nil, ErrTruncatedBlob
	}

	version := binary.LittleEndian.Uint32(blob[0:4])
	if version>>16 != saveStateMajor {
		return meta, nil, fmt.Errorf("%w: blob major %d, bridge major %d",
			ErrVersionMismatch, version>>16, saveStateMajor)
	}

	metaLen := int(binary.LittleEndian.Uint32(blob[4:8]))
	if metaLen < bridgeMetadataLen || len(blob) < saveStateHeaderLen+metaLen+4 {
		return meta, nil, ErrTruncatedBlob
	}

	m := blob[saveStateHeaderLen:]
	meta.frameCount = binary.LittleEndian.Uint64(m[0:8])
	meta.elapsed = time.Duration(binary.LittleEndian.Uint64(m[8:16]))
	meta.frameRate = math.Float64frombits(binary.LittleEndian.Uint64(m[16:24]))
	meta.mouseX = int16(binary.LittleEndian.Uint16(m[24:26]))
	meta.mouseY = int16(binary.LittleEndian.Uint16(m[26:28]))
	// Bytes beyond bridgeMetadataLen belong to a newer minor revision
	// and are ignored.

	rest := blob[saveStateHeaderLen+metaLen:]
	playerLen := int(binary.LittleEndian.Uint32(rest[0:4]))
	if len(rest) < 4+playerLen {
		return meta, nil, ErrTruncatedBlob
	}
	// Trailing bytes after the player state are ignored for forward
	// compatibility within the same major.
	return meta, rest[4 : 4+playerLen], nil
}
