package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/store"
	"github.com/eureka-audio/eureka/internal/store/sqlstore"
)

func openTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fingerprints.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndProbeRoundTrip(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	hashes := []fingerprint.HashRecord{
		{Hash: fixedHash(1), AnchorTime: 10},
		{Hash: fixedHash(2), AnchorTime: 20},
		{Hash: fixedHash(1), AnchorTime: 30}, // duplicate hash, different anchor
	}

	id, err := db.InsertSong(ctx, "Song A", "Artist A", hashes)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	song, err := db.Name(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Song A", song.Name)
	require.Equal(t, "Artist A", song.Artist)

	hits, err := db.Probe(ctx, []fingerprint.Hash{fixedHash(1)})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		require.Equal(t, id, h.Posting.SongID)
	}
}

func TestInsertEmptyHashesStillCreatesSong(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	id, err := db.InsertSong(ctx, "Empty Song", "", nil)
	require.NoError(t, err)

	songs, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.Equal(t, id, songs[0].ID)

	nSongs, nFps, err := db.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), nSongs)
	require.Equal(t, int64(0), nFps)
}

func TestNameUnknownIDReturnsErrSongNotFound(t *testing.T) {
	db := openTestStore(t)
	_, err := db.Name(context.Background(), 12345)
	require.ErrorIs(t, err, store.ErrSongNotFound)
}

func TestDeleteSongRemovesFingerprints(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	hashes := []fingerprint.HashRecord{{Hash: fixedHash(1), AnchorTime: 0}}
	id, err := db.InsertSong(ctx, "Doomed", "", hashes)
	require.NoError(t, err)

	require.NoError(t, db.DeleteSong(ctx, id))

	_, err = db.Name(ctx, id)
	require.ErrorIs(t, err, store.ErrSongNotFound)

	hits, err := db.Probe(ctx, []fingerprint.Hash{fixedHash(1)})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestListOrdersByID(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	idA, err := db.InsertSong(ctx, "A", "", nil)
	require.NoError(t, err)
	idB, err := db.InsertSong(ctx, "B", "", nil)
	require.NoError(t, err)

	songs, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	require.Equal(t, idA, songs[0].ID)
	require.Equal(t, idB, songs[1].ID)
}

func fixedHash(n byte) fingerprint.Hash {
	var h fingerprint.Hash
	h[0] = n
	return h
}
