package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	dbInstance *sql.DB
	dbOnce     sync.Once
	dbErr      error
)

// GetDB returns a singleton in-memory DuckDB connection. History files are
// read in place with read_json, nothing is persisted by DuckDB itself.
func GetDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		dbInstance, dbErr = openInMemory()
	})
	return dbInstance, dbErr
}

// openInMemory opens DuckDB and makes sure read_json is available
func openInMemory() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// A single connection keeps the loaded extension visible to every query
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, stmt := range []string{"INSTALL json", "LOAD json"} {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to %s: %w", strings.ToLower(stmt), err)
		}
	}

	return conn, nil
}

// QuoteLiteral renders s as a DuckDB string literal. Table function
// arguments such as the read_json path cannot be bound as parameters.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
