package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_GenerateV7(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestSnowflake_Unique(t *testing.T) {
	t.Setenv("NODE_ID", "7")

	s, err := NewSnowflake()
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	for range 1000 {
		id := s.Generate()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestSnowflake_BadNode(t *testing.T) {
	t.Setenv("NODE_ID", "abc")
	_, err := NewSnowflake()
	assert.Error(t, err)

	t.Setenv("NODE_ID", "5000")
	_, err = NewSnowflake()
	assert.Error(t, err)
}
