// Package store defines the catalog interface shared by every backing
// database driver: a Songs relation and a Fingerprints relation with a
// secondary index on hash, per the reference schema.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/eureka-audio/eureka/internal/fingerprint"
)

// ErrSongNotFound is returned by Name when no song has the given id.
var ErrSongNotFound = errors.New("store: song not found")

// Song is an identity row: a stable, monotonically assigned id and a
// human-readable name/artist pair. Songs are immutable once written.
type Song struct {
	ID          int64
	Name        string
	Artist      string
	CreatedAt   time.Time
	TotalHashes int
}

// Posting is one stored occurrence of a hash: the song and anchor time
// it was observed at in that reference.
type Posting struct {
	SongID  int64
	TAnchor int
}

// Database is the Index Store contract. Every operation is safe to call
// from a single connection/handle kept open for the life of the
// process; InsertSong is all-or-nothing, Probe is a read snapshot that
// need not be isolated from concurrent inserts.
type Database interface {
	// InsertSong allocates a new song id, writes one Songs row, and
	// bulk-inserts every hash record under that id, atomically. An
	// empty hashes slice is not an error — it inserts a song with zero
	// fingerprints.
	InsertSong(ctx context.Context, name, artist string, hashes []fingerprint.HashRecord) (int64, error)

	// Probe looks up every posting stored under each of hashes and
	// returns them concatenated, duplicates included. Order is
	// unspecified.
	Probe(ctx context.Context, hashes []fingerprint.Hash) ([]ProbeHit, error)

	// Name returns the song row for id, or ErrSongNotFound.
	Name(ctx context.Context, id int64) (Song, error)

	// List returns every song ordered by id ascending.
	List(ctx context.Context) ([]Song, error)

	// Counts returns the total number of songs and fingerprint rows.
	Counts(ctx context.Context) (songs int64, fingerprints int64, err error)

	// DeleteSong removes a song and all of its fingerprint rows,
	// atomically. The core has no other delete operation.
	DeleteSong(ctx context.Context, id int64) error

	Close() error
}

// ProbeHit is one (hash, posting) pair returned by Probe: the hash it
// matched, plus where it was stored.
type ProbeHit struct {
	Hash    fingerprint.Hash
	Posting Posting
}
