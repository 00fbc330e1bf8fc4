package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/user-registry/database"
)

var errNilPool = errors.New("connection pool is nil")

// Connection is the pool shared by the email, user and saga repositories.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection migrates the schema at dsn and opens a pool of at most
// maxConns connections. A non-positive maxConns keeps the pgx default.
func NewConnection(ctx context.Context, dsn string, maxConns int32) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		conf.MaxConns = maxConns
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

func (c *Connection) Close() error {
	if c.Pool != nil {
		c.Pool.Close()
	}
	return nil
}

// Ping checks that the database answers.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return errNilPool
	}
	return c.Pool.Ping(ctx)
}
