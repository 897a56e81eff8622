package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresConfig carries the connection settings for a postgres-backed
// marketplace deployment.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingAttempts    int
	PingBackoff     time.Duration
}

func (c PostgresConfig) withDefaults() PostgresConfig {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.PingAttempts <= 0 {
		c.PingAttempts = 5
	}
	if c.PingBackoff <= 0 {
		c.PingBackoff = 2 * time.Second
	}
	return c
}

// OpenPostgres opens a postgres connection pool and wraps it in a bun DB
// handle. It retries the initial ping so deployments that start the database
// and the service together converge instead of failing on the first probe.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*bun.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	cfg = cfg.withDefaults()

	sqldb, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres connection: %w", err)
	}
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(ctx, sqldb, cfg.PingAttempts, cfg.PingBackoff); err != nil {
		sqldb.Close()
		return nil, err
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// NewRepositoryFactoryFromPostgres opens a postgres connection and builds the
// marketplace stores on top of it.
func NewRepositoryFactoryFromPostgres(ctx context.Context, cfg PostgresConfig) (*RepositoryFactory, error) {
	db, err := OpenPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRepositoryFactoryFromDB(db)
}

func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, backoff time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("sqlstore: ping postgres: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("sqlstore: ping postgres after %d attempts: %w", attempts, err)
}
