package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSlotsTablePG = `
CREATE TABLE IF NOT EXISTS slots (
    name       TEXT PRIMARY KEY,
    payload    BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresSlot struct {
	pool *pgxpool.Pool
}

var _ Slot = (*PostgresSlot)(nil)

func NewPostgresSlot(ctx context.Context, dsn string) (*PostgresSlot, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createSlotsTablePG); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &PostgresSlot{pool: pool}, nil
}

func (p *PostgresSlot) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresSlot) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM slots WHERE name = $1`, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %s: %w", name, err)
	}
	return payload, true, nil
}

func (p *PostgresSlot) Put(ctx context.Context, name string, payload []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO slots (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		name, payload)
	if err != nil {
		return fmt.Errorf("put slot %s: %w", name, err)
	}
	return nil
}
