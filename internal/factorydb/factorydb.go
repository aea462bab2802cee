// Package factorydb reads factory telemetry from SQL storage backends.
package factorydb

import (
	"database/sql"
	"fmt"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"   // PostgreSQL driver
	_ "modernc.org/sqlite"               // SQLite driver
)

// Store handles factory data access using various database backends.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.DataSource = &Store{} // Compile-time check

// Open initializes and returns a new Store for the given backend.
// The returned handle owns the connection; callers must Close it when done.
func Open(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDefaultFactoryDBPath()
		}
		connStr = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the file exists and is readable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=factory
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=factory", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database backend: %s. Must be sqlite, mysql or postgresql", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	return &Store{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// Identity returns a stable identifier for the underlying database, used as
// part of result cache keys.
func (s *Store) Identity() string {
	return fmt.Sprintf("%s:%s", s.backend, s.connStr)
}

// Backend returns the configured database backend.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
