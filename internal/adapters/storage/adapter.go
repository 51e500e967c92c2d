// Package storage opens the bun database backing the node repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	ErrDriverUnsupported = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Options selects the database driver.
type Options struct {
	Driver string
	DSN    string
	// MaxOpenConns limits the pool; zero keeps the driver default. SQLite
	// memory databases are pinned to one connection.
	MaxOpenConns int
}

// Open connects to the database and wraps it in bun with the matching
// dialect. The connection is verified with a ping.
func Open(ctx context.Context, opts Options) (*bun.DB, error) {
	dsn := strings.TrimSpace(opts.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	driver, err := NormalizeDriver(opts.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	} else if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}

	switch driver {
	case DriverPostgres:
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	}
}

// NormalizeDriver maps driver aliases onto the registered database/sql
// driver names.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrDriverUnsupported, driver)
	}
}
