//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/database"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestDB_ServiceRequests(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("greenvista"),
		postgres.WithUsername("greenvista"),
		postgres.WithPassword("greenvista"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.ConnectPostgres(ctx, database.PostgresConfig{URL: dsn, MaxConns: 4})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, database.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `
INSERT INTO identity_users (id, name, email, phone, address, password_hash, role, created_at, updated_at)
VALUES (7, 'Alice', 'alice@example.com', '1', 'Garden Road', 'x', 'owner', now(), now()),
       (8, 'Bob', 'bob@example.com', '2', 'Garden Road', 'x', 'owner', now(), now())`)
	require.NoError(t, err)

	repo := NewDB(pool, instrument.NewNoop())

	owner, err := repo.GetOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.Owner{ID: 7, Name: "Alice", Email: "alice@example.com"}, *owner)

	_, err = repo.GetOwner(ctx, 99)
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, sr := range []entity.ServiceRequest{
		{ID: 1, OwnerID: 7, Type: "plumbing", Details: "a", Status: entity.StatusPending, Images: []string{"u1"}},
		{ID: 2, OwnerID: 7, Type: "electrical", Details: "b", Status: entity.StatusAssigned},
		{ID: 3, OwnerID: 8, Type: "cleaning", Details: "c", Status: entity.StatusPending},
	} {
		sr.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		sr.UpdatedAt = sr.CreatedAt
		require.NoError(t, repo.CreateRequest(ctx, sr))
	}

	assert.ErrorIs(t, repo.CreateRequest(ctx, entity.ServiceRequest{ID: 4, OwnerID: 99, Type: "t", Details: "d", Status: entity.StatusPending}),
		goerror.ErrNotFound)
	assert.ErrorIs(t, repo.CreateRequest(ctx, entity.ServiceRequest{ID: 1, OwnerID: 7, Type: "t", Details: "d", Status: entity.StatusPending}),
		goerror.ErrConflict)

	mine, total, err := repo.ListRequestsByOwner(ctx, 7, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(2), mine[0].ID, "newest first")
	assert.Equal(t, []string{"u1"}, mine[1].Images)
	assert.Empty(t, mine[0].Images)

	all, total, err := repo.ListRequests(ctx, entity.Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 1)
	assert.Equal(t, int64(2), all[0].ID)

	pending, total, err := repo.ListRequests(ctx, entity.Filter{Status: entity.StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)

	none, total, err := repo.ListRequestsByOwner(ctx, 8, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, total)
}
