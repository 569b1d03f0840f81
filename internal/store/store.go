// Package store owns the persistent marketplace catalog: product rows with
// their ordered image and additional-info children, the per-user rating
// ledger, and the rating aggregate derived from it. Every multi-row write
// runs inside a single transaction scoped to the call.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"bee-market/internal/catalog"
	"bee-market/internal/productid"
)

// Store is the shared storage handle. It holds no in-process locks; many
// request handlers share one Store over one connection pool.
type Store struct {
	db    *sqlx.DB
	codec productid.Codec
}

// New opens a database connection and verifies it.
func New(connString string, codec productid.Codec) (*Store, error) {
	db, err := sqlx.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if pingErr := db.Ping(); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}
	return &Store{db: db, codec: codec}, nil
}

// NewFromDB constructs a Store from an existing *sql.DB. Useful for tests.
func NewFromDB(db *sql.DB, codec productid.Codec) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres"), codec: codec}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// InitDB initializes the database schema from the SQL file at schemaPath.
func (s *Store) InitDB(ctx context.Context, schemaPath string) error {
	sqlBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read SQL file: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to execute init SQL: %w", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return &catalog.StoreError{Op: op, Err: err}
}
