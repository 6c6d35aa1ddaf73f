package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/persistence/file"
	"example.com/workoutlog/internal/persistence/memory"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, Settings{Driver: "Memory"})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &memory.Store{}, store)

	store, closeFn, err = Open(ctx, Settings{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &file.Store{}, store)

	_, closeFn, err = Open(ctx, Settings{Driver: "redis"})
	require.Error(t, err)
	require.NotNil(t, closeFn)
}
