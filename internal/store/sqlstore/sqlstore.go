// Package sqlstore implements the store.Database contract once, over
// database/sql, parameterized by a small per-engine Dialect. The three
// concrete drivers (mysqlstore, postgresstore, sqlitestore) each supply
// a Dialect and a driver name; this file carries every query.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eureka-audio/eureka/internal/fingerprint"
	"github.com/eureka-audio/eureka/internal/store"
)

// insertBatchSize and probeBatchSize bound how many placeholders go
// into a single statement, a MySQL placeholder-limit workaround
// generalized to every engine.
const (
	insertBatchSize = 500
	probeBatchSize  = 1000
)

// Dialect captures the handful of ways SQL engines disagree that matter
// here: parameter syntax, auto-increment DDL, and whether INSERT can
// return the new id directly.
type Dialect struct {
	Name string

	// Placeholder returns the parameter marker for the n-th (1-based)
	// argument of a statement.
	Placeholder func(n int) string

	CreateSongs        string
	CreateFingerprints string
	// CreateIndex is run after CreateFingerprints; leave it empty if the
	// index is already declared inline in CreateFingerprints (e.g. an
	// engine with no CREATE INDEX IF NOT EXISTS).
	CreateIndex string

	// InsertSongSQL must use Placeholder(1..3) for (name, artist, total_hashes).
	InsertSongSQL string
	// UseReturningID is true when InsertSongSQL ends in "RETURNING id"
	// and the id should be read via QueryRowContext instead of
	// sql.Result.LastInsertId.
	UseReturningID bool
}

// Store is the shared implementation; each concrete driver's Open
// returns one configured with that driver's Dialect.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects via driverName/dsn, applies the schema, and returns a
// ready Store.
func Open(driverName, dsn string, dialect Dialect) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dialect.Name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", dialect.Name, err)
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate runs the dialect's DDL in order, skipping any statement the
// dialect leaves empty (mysql folds its index into CreateFingerprints
// since it has no CREATE INDEX IF NOT EXISTS).
func (s *Store) migrate() error {
	for _, stmt := range []string{s.dialect.CreateSongs, s.dialect.CreateFingerprints, s.dialect.CreateIndex} {
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlstore: migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) InsertSong(ctx context.Context, name, artist string, hashes []fingerprint.HashRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer tx.Rollback()

	songID, err := s.insertSongRow(ctx, tx, name, artist, len(hashes))
	if err != nil {
		return 0, err
	}

	if err := s.insertFingerprintRows(ctx, tx, songID, hashes); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlstore: commit: %w", err)
	}
	return songID, nil
}

func (s *Store) insertSongRow(ctx context.Context, tx *sql.Tx, name, artist string, totalHashes int) (int64, error) {
	if s.dialect.UseReturningID {
		var id int64
		err := tx.QueryRowContext(ctx, s.dialect.InsertSongSQL, name, artist, totalHashes).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("sqlstore: insert song: %w", err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, s.dialect.InsertSongSQL, name, artist, totalHashes)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: insert song: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: last insert id: %w", err)
	}
	return id, nil
}

func (s *Store) insertFingerprintRows(ctx context.Context, tx *sql.Tx, songID int64, hashes []fingerprint.HashRecord) error {
	for start := 0; start < len(hashes); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(hashes) {
			end = len(hashes)
		}
		batch := hashes[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO fingerprints (hash, song_id, t_anchor) VALUES ")
		args := make([]any, 0, len(batch)*3)
		n := 0
		for i, rec := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "(%s, %s, %s)",
				s.dialect.Placeholder(n+1), s.dialect.Placeholder(n+2), s.dialect.Placeholder(n+3))
			args = append(args, rec.Hash.String(), songID, rec.AnchorTime)
			n += 3
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("sqlstore: insert fingerprints: %w", err)
		}
	}
	return nil
}

func (s *Store) Probe(ctx context.Context, hashes []fingerprint.Hash) ([]store.ProbeHit, error) {
	var hits []store.ProbeHit

	for start := 0; start < len(hashes); start += probeBatchSize {
		end := start + probeBatchSize
		if end > len(hashes) {
			end = len(hashes)
		}
		batch := hashes[start:end]

		var sb strings.Builder
		sb.WriteString("SELECT hash, song_id, t_anchor FROM fingerprints WHERE hash IN (")
		args := make([]any, 0, len(batch))
		for i, h := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.dialect.Placeholder(i + 1))
			args = append(args, h.String())
		}
		sb.WriteString(")")

		rows, err := s.db.QueryContext(ctx, sb.String(), args...)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: probe: %w", err)
		}

		for rows.Next() {
			var hexHash string
			var hit store.ProbeHit
			if err := rows.Scan(&hexHash, &hit.Posting.SongID, &hit.Posting.TAnchor); err != nil {
				rows.Close()
				return nil, fmt.Errorf("sqlstore: scan probe row: %w", err)
			}
			h, err := fingerprint.ParseHash(hexHash)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("sqlstore: parse stored hash: %w", err)
			}
			hit.Hash = h
			hits = append(hits, hit)
		}
		closeErr := rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("sqlstore: probe rows: %w", err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("sqlstore: close probe rows: %w", closeErr)
		}
	}

	return hits, nil
}

func (s *Store) Name(ctx context.Context, id int64) (store.Song, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, name, artist, created_at, total_hashes FROM songs WHERE id = %s", s.dialect.Placeholder(1)),
		id)

	var song store.Song
	if err := row.Scan(&song.ID, &song.Name, &song.Artist, &song.CreatedAt, &song.TotalHashes); err != nil {
		if err == sql.ErrNoRows {
			return store.Song{}, store.ErrSongNotFound
		}
		return store.Song{}, fmt.Errorf("sqlstore: name: %w", err)
	}
	return song, nil
}

func (s *Store) List(ctx context.Context) ([]store.Song, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, artist, created_at, total_hashes FROM songs ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list: %w", err)
	}
	defer rows.Close()

	var songs []store.Song
	for rows.Next() {
		var song store.Song
		if err := rows.Scan(&song.ID, &song.Name, &song.Artist, &song.CreatedAt, &song.TotalHashes); err != nil {
			return nil, fmt.Errorf("sqlstore: scan list row: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (s *Store) Counts(ctx context.Context) (int64, int64, error) {
	var songs, fps int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&songs); err != nil {
		return 0, 0, fmt.Errorf("sqlstore: count songs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fingerprints").Scan(&fps); err != nil {
		return 0, 0, fmt.Errorf("sqlstore: count fingerprints: %w", err)
	}
	return songs, fps, nil
}

func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer tx.Rollback()

	ph := s.dialect.Placeholder(1)
	if _, err := tx.ExecContext(ctx, "DELETE FROM fingerprints WHERE song_id = "+ph, id); err != nil {
		return fmt.Errorf("sqlstore: delete fingerprints: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM songs WHERE id = "+ph, id); err != nil {
		return fmt.Errorf("sqlstore: delete song: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
