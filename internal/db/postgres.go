package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open opens a bounded Postgres connection pool using the given DSN.
// minConns connections are kept warm; acquisition beyond maxConns blocks
// until a connection is released or ctx is done. Caller must call Close when done.
func Open(ctx context.Context, dsn string, minConns, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: parse config: %w", err)
	}
	if minConns < 0 || maxConns < 1 || minConns > maxConns {
		return nil, fmt.Errorf("db: invalid pool bounds min=%d max=%d", minConns, maxConns)
	}
	cfg.MinConns = int32(minConns)
	cfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
