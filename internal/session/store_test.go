package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gvctl", "session.json")
	fs := NewFileStore(path)
	assert.Equal(t, path, fs.Path())

	_, err := fs.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, fs.Clear(ctx))

	st := owner()
	st.Role = "owner"
	st.SessionStart = t0
	require.NoError(t, fs.Save(ctx, st))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.True(t, t0.Equal(got.SessionStart))
	assert.Equal(t, st.User, got.User)

	require.NoError(t, fs.Clear(ctx))
	_, err = fs.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStore_EmptyTokenIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":""}`), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	require.NoError(t, ms.Save(ctx, owner()))

	got, err := ms.Load(ctx)
	require.NoError(t, err)
	got.Token = "changed"

	again, err := ms.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token)
}
