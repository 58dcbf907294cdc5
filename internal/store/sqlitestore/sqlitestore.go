// Package sqlitestore is the zero-config store.Database driver backing
// the CLI's --db fingerprints.db default, so `add`/`identify` work
// without any server to stand up first.
package sqlitestore

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/eureka-audio/eureka/internal/store/sqlstore"
)

var dialect = sqlstore.Dialect{
	Name: "sqlite3",
	Placeholder: func(int) string { return "?" },

	CreateSongs: `CREATE TABLE IF NOT EXISTS songs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		artist TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_hashes INTEGER NOT NULL DEFAULT 0
	)`,
	CreateFingerprints: `CREATE TABLE IF NOT EXISTS fingerprints (
		hash TEXT NOT NULL,
		song_id INTEGER NOT NULL REFERENCES songs(id),
		t_anchor INTEGER NOT NULL
	)`,
	CreateIndex: `CREATE INDEX IF NOT EXISTS idx_hash ON fingerprints (hash)`,

	InsertSongSQL:  `INSERT INTO songs (name, artist, total_hashes) VALUES (?, ?, ?)`,
	UseReturningID: false,
}

// Open opens (or creates) a SQLite database file at path and ensures
// the schema exists.
func Open(path string) (*sqlstore.Store, error) {
	return sqlstore.Open("sqlite3", path, dialect)
}
