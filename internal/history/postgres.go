package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kanhucharan/controllermon/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS status_history (
    id         BIGSERIAL PRIMARY KEY,
    host       TEXT        NOT NULL,
    state      TEXT        NOT NULL,
    changed_at TIMESTAMPTZ NOT NULL
)`

// Postgres persists transitions to a status_history table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Record(ctx context.Context, tr domain.Transition) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO status_history (host, state, changed_at)
		 VALUES ($1, $2, $3)`,
		tr.Host, string(tr.To), tr.At)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

var _ Recorder = (*Postgres)(nil)
