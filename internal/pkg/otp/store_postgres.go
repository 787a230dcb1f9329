package otp

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the Postgres store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps records in identity_otps. The (email, purpose) primary
// key makes Replace an upsert, and Take is a single DELETE ... RETURNING.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	replaceSQL = `
INSERT INTO identity_otps (id, email, purpose, code_digest, issued_at, retain_until)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email, purpose) DO UPDATE SET
    id = EXCLUDED.id,
    code_digest = EXCLUDED.code_digest,
    issued_at = EXCLUDED.issued_at,
    retain_until = EXCLUDED.retain_until`

	takeSQL = `
DELETE FROM identity_otps
WHERE email = $1 AND purpose = $2 AND code_digest = $3
RETURNING id, issued_at`

	lookupSQL = `
SELECT id, code_digest, issued_at FROM identity_otps
WHERE email = $1 AND purpose = $2`

	sweepSQL = `DELETE FROM identity_otps WHERE retain_until < $1`
)

func (s *PostgresStore) Replace(ctx context.Context, rec Record, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, replaceSQL,
		rec.ID, rec.Identity, string(rec.Purpose), rec.Code, rec.IssuedAt, rec.IssuedAt.Add(ttl))
	return err
}

func (s *PostgresStore) Take(ctx context.Context, identity string, purpose Purpose, code string) (*Record, error) {
	rec := Record{Identity: identity, Purpose: purpose, Code: code}

	err := s.db.QueryRow(ctx, takeSQL, identity, string(purpose), code).Scan(&rec.ID, &rec.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *PostgresStore) Lookup(ctx context.Context, identity string, purpose Purpose) (*Record, error) {
	rec := Record{Identity: identity, Purpose: purpose}

	err := s.db.QueryRow(ctx, lookupSQL, identity, string(purpose)).Scan(&rec.ID, &rec.Code, &rec.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *PostgresStore) Sweep(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, sweepSQL, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
