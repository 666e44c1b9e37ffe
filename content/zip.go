package content

import (
	"archive/zip"
	"fmt"
	"path/filepath"
)

// extractFromZIP extracts the main movie from a ZIP archive. Bundles
// often pack preloader stubs next to the real movie, so when several
// members match the largest one wins.
func extractFromZIP(path string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	var best *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !isMovieFile(f.Name) {
			continue
		}
		if best == nil || f.UncompressedSize64 > best.UncompressedSize64 {
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
