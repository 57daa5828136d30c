// Package seed reads the song dataset used to reset the collection at startup.
package seed

import (
	"fmt"
	"os"

	"github.com/annazecevic/song-service/domain"
)

// Load reads a JSON array of song documents from path.
func Load(path string) ([]domain.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	songs, err := domain.DecodeSongs(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return songs, nil
}
