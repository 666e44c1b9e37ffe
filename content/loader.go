// Package content handles loading Flash movies from various sources,
// including compressed archives (ZIP, 7z, gzip, tar.gz, RAR). Archive
// members are selected by extension, preferring the largest match; the
// movie bytes themselves are handed to the player unmodified.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"

	// SWF signatures: uncompressed, zlib, LZMA. The compressed variants
	// are self-contained movies, not archives; they load as-is.
	magicSWF  = []byte{0x46, 0x57, 0x53} // "FWS"
	magicSWFZ = []byte{0x43, 0x57, 0x53} // "CWS"
	magicSWFL = []byte{0x5A, 0x57, 0x53} // "ZWS"
)

// Extensions accepted as movie files inside archives and on disk.
var movieExtensions = []string{".swf"}

// Maximum movie size (64MB safety limit)
const maxMovieSize = 64 * 1024 * 1024

// ErrNoMovieFile is returned when no movie file is found in an archive
var ErrNoMovieFile = errors.New("no movie file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected file format
type formatType int

const (
	formatUnknown formatType = iota
	formatMovie
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Load reads a movie from a file path. It auto-detects compressed
// archives via magic bytes and extracts the largest .swf member. Raw
// SWF files (FWS/CWS/ZWS) load as-is regardless of extension.
//
// Returns the movie data, the filename (basename only, useful for
// display), and any error.
func Load(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// Read header for magic byte detection
	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	format := detectFormat(header, path)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch format {
	case formatMovie:
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read movie: %w", err)
		}
		return data, filepath.Base(path), nil

	case formatZIP:
		return extractFromZIP(path)

	case format7z:
		return extractFrom7z(path)

	case formatGzip:
		return extractFromGzip(path)

	case formatRAR:
		return extractFromRAR(path)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// IsMovie reports whether data starts with a SWF signature.
func IsMovie(data []byte) bool {
	if len(data) < 3 {
		return false
	}
	return bytes.HasPrefix(data, magicSWF) ||
		bytes.HasPrefix(data, magicSWFZ) ||
		bytes.HasPrefix(data, magicSWFL)
}

// detectFormat determines the file format based on magic bytes and
// extension.
func detectFormat(header []byte, path string) formatType {
	ext := strings.ToLower(filepath.Ext(path))

	// Check magic bytes first (more reliable)
	if IsMovie(header) {
		return formatMovie
	}
	if len(header) >= 4 {
		if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
			return formatZIP
		}
		if bytes.HasPrefix(header, magicRAR) {
			return formatRAR
		}
	}
	if len(header) >= 6 && bytes.HasPrefix(header, magic7z) {
		return format7z
	}
	if len(header) >= 2 && bytes.HasPrefix(header, magicGzip) {
		return formatGzip
	}

	// Fall back to extension
	switch ext {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	case ".swf":
		return formatMovie
	}

	if strings.HasSuffix(strings.ToLower(path), ".tar.gz") {
		return formatGzip
	}

	return formatUnknown
}

// isMovieFile checks if a filename has a movie extension (case-insensitive)
func isMovieFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range movieExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxMovieSize bytes, returning an error
// if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxMovieSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxMovieSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
