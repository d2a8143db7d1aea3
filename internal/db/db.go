// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection. Callers own the
// returned handle; there is no package-level singleton.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return conn, nil
}
