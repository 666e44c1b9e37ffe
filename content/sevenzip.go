package content

import (
	"fmt"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the main movie from a 7z archive. As with ZIP,
// the largest matching member wins when the archive holds several.
func extractFrom7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	var best *sevenzip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !isMovieFile(f.Name) {
			continue
		}
		if best == nil || f.FileInfo().Size() > best.FileInfo().Size() {
			best = f
		}
	}
	if best == nil {
		return nil, "", ErrNoMovieFile
	}

	rc, err := best.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s in archive: %w", best.Name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", best.Name, err)
	}
	return data, filepath.Base(best.Name), nil
}
