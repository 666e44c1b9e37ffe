package content

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the main movie from a RAR archive. The
// decoder is sequential, so every matching member is read and the
// largest one wins.
func extractFromRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	var best []byte
	var bestName string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir {
			continue
		}
		if !isMovieFile(header.Name) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
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
