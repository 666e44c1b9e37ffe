package content

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractFromGzip extracts the first movie file from a gzip or tar.gz
// archive
func extractFromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	// Check if this is a tar.gz or just a .gz
	lowerPath := strings.ToLower(path)
	if strings.HasSuffix(lowerPath, ".tar.gz") || strings.HasSuffix(lowerPath, ".tgz") {
		return extractFromTar(gr)
	}

	// Plain .gz file - assume the decompressed content is the movie.
	// Use the base name without .gz extension
	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

// extractFromTar extracts the main movie from a tar archive, reading
// every matching member and keeping the largest.
func extractFromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)

	var best []byte
	var bestName string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if !isMovieFile(header.Name) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		if best == nil || len(data) > len(best) {
			best = data
			bestName = header.Name
		}
	}

	if best == nil {
		return nil, "", ErrNoMovieFile
	}
	return best, filepath.Base(bestName), nil
}
