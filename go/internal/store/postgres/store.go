// Package postgres is the store.DB backed by Postgres through database/sql
// and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/mcdev12/pronos/go/internal/dbconfig"
	"github.com/mcdev12/pronos/go/internal/sqlutil"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/mcdev12/pronos/go/internal/store/postgres/db"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schema string

// Store runs units of work in Postgres transactions.
type Store struct {
	db *sql.DB
}

var (
	_ store.DB      = (*Store)(nil)
	_ store.Queries = (*queries)(nil)
)

// New wraps an open connection pool.
func New(database *sql.DB) *Store {
	return &Store{db: database}
}

// Open connects with cfg, applies its pool limits and verifies the connection.
func Open(ctx context.Context, cfg dbconfig.Config) (*sql.DB, error) {
	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	cfg.Configure(database)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return database, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info().Msg("database schema applied")
	return nil
}

func (s *Store) InTx(ctx context.Context, fn func(q store.Queries) error) error {
	return sqlutil.Run(ctx, s.db, nil, newQueries, func(q *queries) error {
		return fn(q)
	})
}

func (s *Store) View(ctx context.Context, fn func(q store.Queries) error) error {
	return sqlutil.Run(ctx, s.db, sqlutil.ReadOnly, newQueries, func(q *queries) error {
		return fn(q)
	})
}

func newQueries(tx *sql.Tx) *queries {
	return &queries{q: db.New(tx)}
}
