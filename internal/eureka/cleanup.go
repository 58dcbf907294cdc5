package eureka

import (
	"context"
	"fmt"

	"github.com/eureka-audio/eureka/internal/store"
)

// Cleanup removes duplicate songs from the catalog, keeping the
// lowest-id entry for each (name, artist) pair. This is housekeeping on
// top of the core, not a core operation: the core itself never deletes,
// but a CLI-driven catalog accumulates duplicate ingests over time.
func (e *Eureka) Cleanup(ctx context.Context) (int, error) {
	songs, err := e.db.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("eureka: cleanup: list: %w", err)
	}

	seen := make(map[string]store.Song)
	var duplicates []store.Song
	for _, song := range songs {
		key := song.Name + "\x00" + song.Artist
		if existing, ok := seen[key]; ok {
			if song.ID < existing.ID {
				duplicates = append(duplicates, existing)
				seen[key] = song
			} else {
				duplicates = append(duplicates, song)
			}
			continue
		}
		seen[key] = song
	}

	for _, dup := range duplicates {
		if err := e.db.DeleteSong(ctx, dup.ID); err != nil {
			return 0, fmt.Errorf("eureka: cleanup: delete song %d: %w", dup.ID, err)
		}
		e.log.Infof("cleanup: removed duplicate song %d (%s)", dup.ID, dup.Name)
	}
	return len(duplicates), nil
}
