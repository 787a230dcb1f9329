package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
)

const (
	createRequest = `
INSERT INTO service_requests (id, owner_id, type, details, status, images, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	requestColumns = `id, owner_id, type, details, status, images, created_at, updated_at`

	listRequests = `
SELECT ` + requestColumns + `, count(*) OVER ()
FROM service_requests
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	listRequestsByOwner = `
SELECT ` + requestColumns + `, count(*) OVER ()
FROM service_requests
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	getOwner = `SELECT id, name, email FROM identity_users WHERE id = $1`
)

func (s *DB) CreateRequest(ctx context.Context, in entity.ServiceRequest) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRequest")
	defer func() { s.endSpan(span, err) }()

	images := in.Images
	if images == nil {
		images = []string{}
	}

	_, err = s.conn.Exec(ctx, createRequest,
		in.ID,
		in.OwnerID,
		in.Type,
		in.Details,
		in.Status.String(),
		images,
		in.CreatedAt,
		in.UpdatedAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) ListRequests(ctx context.Context, f entity.Filter) (_ []entity.ServiceRequest, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListRequests")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listRequests, f.Status.String(), f.Limit, f.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return collect(rows)
}

func (s *DB) ListRequestsByOwner(ctx context.Context, ownerID int64, limit, offset int) (_ []entity.ServiceRequest, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListRequestsByOwner")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listRequestsByOwner, ownerID, limit, offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return collect(rows)
}

func (s *DB) GetOwner(ctx context.Context, id int64) (_ *entity.Owner, err error) {
	ctx, span := s.startSpan(ctx, "GetOwner")
	defer func() { s.endSpan(span, err) }()

	var out entity.Owner
	if err = s.conn.QueryRow(ctx, getOwner, id).Scan(&out.ID, &out.Name, &out.Email); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &out, nil
}

// collect scans rows carrying a trailing window count. An empty page reports
// a zero total.
func collect(rows pgx.Rows) ([]entity.ServiceRequest, int64, error) {
	var total int64

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.ServiceRequest, error) {
		var (
			out    entity.ServiceRequest
			status string
		)
		err := row.Scan(
			&out.ID,
			&out.OwnerID,
			&out.Type,
			&out.Details,
			&status,
			&out.Images,
			&out.CreatedAt,
			&out.UpdatedAt,
			&total,
		)
		out.Status = entity.Status(status)
		return out, err
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
