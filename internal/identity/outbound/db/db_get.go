package db

import (
	"context"

	"github.com/shandysiswandi/greenvista/internal/identity/entity"
)

const getIdentityByEmail = `
SELECT id, name, email, phone, address, apartment_number, password_hash, role, created_at, updated_at
FROM identity_users
WHERE lower(email) = lower($1)`

func (s *DB) GetIdentityByEmail(ctx context.Context, email string) (_ *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentityByEmail")
	defer func() { s.endSpan(span, err) }()

	var (
		out  entity.Identity
		role string
	)
	err = s.conn.QueryRow(ctx, getIdentityByEmail, email).Scan(
		&out.ID,
		&out.Name,
		&out.Email,
		&out.Phone,
		&out.Address,
		&out.ApartmentNumber,
		&out.PasswordHash,
		&role,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	out.Role = entity.RoleFromString(role)
	return &out, nil
}
