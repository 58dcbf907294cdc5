// Package postgresstore is the PostgreSQL-backed store.Database driver,
// wired through the shared sqlstore.Store implementation.
package postgresstore

import (
	"fmt"

	_ "github.com/lib/pq"

	"github.com/eureka-audio/eureka/internal/store/sqlstore"
)

var dialect = sqlstore.Dialect{
	Name: "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },

	CreateSongs: `CREATE TABLE IF NOT EXISTS songs (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		artist TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		total_hashes INTEGER NOT NULL DEFAULT 0
	)`,
	CreateFingerprints: `CREATE TABLE IF NOT EXISTS fingerprints (
		hash CHAR(20) NOT NULL,
		song_id BIGINT NOT NULL REFERENCES songs(id),
		t_anchor INTEGER NOT NULL
	)`,
	CreateIndex: `CREATE INDEX IF NOT EXISTS idx_hash ON fingerprints (hash)`,

	InsertSongSQL:  `INSERT INTO songs (name, artist, total_hashes) VALUES ($1, $2, $3) RETURNING id`,
	UseReturningID: true,
}

// Open connects to a PostgreSQL database at dsn (a standard lib/pq
// connection string or URL) and ensures the schema exists.
func Open(dsn string) (*sqlstore.Store, error) {
	return sqlstore.Open("postgres", dsn, dialect)
}
