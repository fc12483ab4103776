package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/testutil"
)

func TestPGRepo(t *testing.T) {
	dsn, cleanup := testutil.SetupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	r, err := NewPGRepo(ctx, dsn)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Migrate(ctx))

	runContract(t, func(t *testing.T) TaskRepository {
		_, err := r.pool.Exec(ctx, "TRUNCATE todos RESTART IDENTITY")
		require.NoError(t, err)
		return r
	})
}
