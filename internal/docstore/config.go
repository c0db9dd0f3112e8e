package docstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// Config holds the document store connection settings.
type Config struct {
	// URL is the Postgres connection string. The target database must have
	// the pgvector extension and the documents table provisioned.
	URL string

	// SearchTimeoutMs bounds a single store operation, embedding included.
	SearchTimeoutMs int
}

// DefaultConfig returns the store defaults used when no environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		URL:             "postgres://localhost:5432/bulario",
		SearchTimeoutMs: 10000,
	}
}

// LoadConfig builds the store configuration from the environment:
//
//	BULARIO_DB_URL                connection string
//	BULARIO_DB_SEARCH_TIMEOUT_MS  per-operation deadline
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("BULARIO_DB_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("BULARIO_DB_SEARCH_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.SearchTimeoutMs = ms
		}
	}
	return cfg
}

// SearchTimeout returns the per-operation deadline as a duration.
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMs) * time.Millisecond
}

// NewPool opens a pgx connection pool against cfg.URL and verifies
// connectivity before returning. The caller owns the pool's lifetime.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}
