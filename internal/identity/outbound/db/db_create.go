package db

import (
	"context"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
)

const createIdentity = `
INSERT INTO identity_users (id, name, email, phone, address, apartment_number, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (s *DB) CreateIdentity(ctx context.Context, in entity.Identity) (err error) {
	ctx, span := s.startSpan(ctx, "CreateIdentity")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createIdentity,
		in.ID,
		in.Name,
		in.Email,
		in.Phone,
		in.Address,
		in.ApartmentNumber,
		in.PasswordHash,
		in.Role.String(),
		in.CreatedAt,
		in.UpdatedAt,
	)
	err = s.mapError(err)
	return err
}
