// Package mysqlstore is the MySQL-backed store.Database driver, wired
// through the shared sqlstore.Store implementation.
package mysqlstore

import (
	_ "github.com/go-sql-driver/mysql"

	"github.com/eureka-audio/eureka/internal/store/sqlstore"
)

var dialect = sqlstore.Dialect{
	Name: "mysql",
	Placeholder: func(int) string { return "?" },

	CreateSongs: `CREATE TABLE IF NOT EXISTS songs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(512) NOT NULL,
		artist VARCHAR(512) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		total_hashes INT NOT NULL DEFAULT 0
	)`,
	CreateFingerprints: `CREATE TABLE IF NOT EXISTS fingerprints (
		hash CHAR(20) NOT NULL,
		song_id BIGINT NOT NULL,
		t_anchor INT NOT NULL,
		FOREIGN KEY (song_id) REFERENCES songs(id),
		KEY idx_hash (hash)
	)`,
	// MySQL has no CREATE INDEX IF NOT EXISTS, so the index lives in the
	// table DDL above instead of here; IF NOT EXISTS on CreateFingerprints
	// keeps a second Open idempotent.

	InsertSongSQL:  `INSERT INTO songs (name, artist, total_hashes) VALUES (?, ?, ?)`,
	UseReturningID: false,
}

// Open connects to a MySQL database at dsn (a standard
// go-sql-driver/mysql DSN, e.g. "user:pass@tcp(host:3306)/dbname") and
// ensures the schema exists.
func Open(dsn string) (*sqlstore.Store, error) {
	return sqlstore.Open("mysql", dsn, dialect)
}
