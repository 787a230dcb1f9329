package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
)

const updatePassword = `
UPDATE identity_users
SET password_hash = $2, updated_at = $3
WHERE id = $1`

func (s *DB) UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, updatePassword, id, hash, at)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}
