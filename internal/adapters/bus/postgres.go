package bus

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"courtfinder/internal/domain"
)

const outboxSchema = `
	CREATE TABLE IF NOT EXISTS domain_events (
		id          UUID PRIMARY KEY,
		type        TEXT NOT NULL,
		payload     JSONB NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		relayed_at  TIMESTAMPTZ
	)
`

// PostgresPublisher appends notifications to a domain_events outbox table for
// a relay process to forward.
type PostgresPublisher struct {
	DB *sql.DB
}

// NewPostgresPublisher opens databaseURL and ensures the outbox table exists.
func NewPostgresPublisher(databaseURL string) (*PostgresPublisher, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	p := &PostgresPublisher{DB: db}
	if err := p.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// EnsureSchema creates the outbox table when missing.
func (p *PostgresPublisher) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, outboxSchema); err != nil {
		return fmt.Errorf("create domain_events: %w", err)
	}
	return nil
}

func (p *PostgresPublisher) Publish(ctx context.Context, n domain.Notification) error {
	env := newEnvelope(n)
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	query := `
		INSERT INTO domain_events (id, type, payload, occurred_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = p.DB.ExecContext(ctx, query, env.ID, env.Type, payload, env.OccurredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
			return fmt.Errorf("domain_events table missing: %w", err)
		}
		return fmt.Errorf("insert %s: %w", env.Type, err)
	}
	return nil
}

func (p *PostgresPublisher) Close() error {
	return p.DB.Close()
}
