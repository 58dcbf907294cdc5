package eureka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eureka-audio/eureka/internal/config"
	"github.com/eureka-audio/eureka/internal/dsp"
	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/logging"
	"github.com/eureka-audio/eureka/internal/store"
)

// memStore is a minimal in-memory store.Database for facade-level tests
// that don't need a real SQL engine.
type memStore struct {
	nextID   int64
	songs    map[int64]store.Song
	postings map[fingerprint.Hash][]store.Posting
}

func newMemStore() *memStore {
	return &memStore{
		songs:    make(map[int64]store.Song),
		postings: make(map[fingerprint.Hash][]store.Posting),
	}
}

func (m *memStore) InsertSong(ctx context.Context, name, artist string, hashes []fingerprint.HashRecord) (int64, error) {
	m.nextID++
	id := m.nextID
	m.songs[id] = store.Song{ID: id, Name: name, Artist: artist, TotalHashes: len(hashes)}
	for _, rec := range hashes {
		m.postings[rec.Hash] = append(m.postings[rec.Hash], store.Posting{SongID: id, TAnchor: rec.AnchorTime})
	}
	return id, nil
}

func (m *memStore) Probe(ctx context.Context, hashes []fingerprint.Hash) ([]store.ProbeHit, error) {
	var hits []store.ProbeHit
	for _, h := range hashes {
		for _, p := range m.postings[h] {
			hits = append(hits, store.ProbeHit{Hash: h, Posting: p})
		}
	}
	return hits, nil
}

func (m *memStore) Name(ctx context.Context, id int64) (store.Song, error) {
	song, ok := m.songs[id]
	if !ok {
		return store.Song{}, store.ErrSongNotFound
	}
	return song, nil
}

func (m *memStore) List(ctx context.Context) ([]store.Song, error) {
	var out []store.Song
	for id := int64(1); id <= m.nextID; id++ {
		if song, ok := m.songs[id]; ok {
			out = append(out, song)
		}
	}
	return out, nil
}

func (m *memStore) Counts(ctx context.Context) (int64, int64, error) {
	var fps int64
	for _, postings := range m.postings {
		fps += int64(len(postings))
	}
	return int64(len(m.songs)), fps, nil
}

func (m *memStore) DeleteSong(ctx context.Context, id int64) error {
	delete(m.songs, id)
	for h, postings := range m.postings {
		var kept []store.Posting
		for _, p := range postings {
			if p.SongID != id {
				kept = append(kept, p)
			}
		}
		m.postings[h] = kept
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestEureka(db store.Database) *Eureka {
	return New(db, config.Default(), logging.New(logging.LevelError))
}

func TestFingerprintEmptySignalYieldsNoHashes(t *testing.T) {
	e := newTestEureka(newMemStore())
	hashes := e.Fingerprint(dsp.Signal{})
	require.Empty(t, hashes)
}

func TestCleanupRemovesDuplicatesKeepingLowestID(t *testing.T) {
	db := newMemStore()
	e := newTestEureka(db)
	ctx := context.Background()

	id1, err := db.InsertSong(ctx, "Same Song", "Same Artist", nil)
	require.NoError(t, err)
	id2, err := db.InsertSong(ctx, "Same Song", "Same Artist", nil)
	require.NoError(t, err)
	_, err = db.InsertSong(ctx, "Different Song", "", nil)
	require.NoError(t, err)

	removed, err := e.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	songs, err := e.List(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 2)

	_, err = db.Name(ctx, id1)
	require.NoError(t, err)
	_, err = db.Name(ctx, id2)
	require.ErrorIs(t, err, store.ErrSongNotFound)
}

func TestCleanupNoDuplicatesRemovesNothing(t *testing.T) {
	db := newMemStore()
	e := newTestEureka(db)
	ctx := context.Background()

	_, err := db.InsertSong(ctx, "A", "", nil)
	require.NoError(t, err)
	_, err = db.InsertSong(ctx, "B", "", nil)
	require.NoError(t, err)

	removed, err := e.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}

func TestDeleteRemovesSong(t *testing.T) {
	db := newMemStore()
	e := newTestEureka(db)
	ctx := context.Background()

	id, err := db.InsertSong(ctx, "Gone", "", nil)
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, id))
	_, err = db.Name(ctx, id)
	require.ErrorIs(t, err, store.ErrSongNotFound)
}
