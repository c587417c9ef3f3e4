package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcboeker/go-duckdb/v2"
)

const ReportsTableSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id VARCHAR PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		start_date VARCHAR NOT NULL,
		end_date VARCHAR NOT NULL,
		payers VARCHAR NOT NULL,
		report_type VARCHAR NOT NULL,
		location VARCHAR NOT NULL
	);
`

const ReportsCreatedAtIndex = `
	CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at);
`

var bootQueries = []string{
	ReportsTableSchema,
	ReportsCreatedAtIndex,
}

const (
	MemoryPath     = ":memory:"
	defaultThreads = 4
)

type Settings struct {
	// DbPath is a database file or MemoryPath
	DbPath  string
	Threads int
}

// NewDB opens the report history database, creating its directory and tables when missing
func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if settings.DbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(settings.DbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history database directory: %w", err)
		}
	}

	threads := settings.Threads
	if threads <= 0 {
		threads = defaultThreads
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return fmt.Errorf("history schema setup failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", settings.DbPath, err)
	}

	return sql.OpenDB(c), nil
}
