package credstore

import (
	"context"
	"testing"

	"venmoctl/lib/scrapers/venmo/credstore/db"
	"venmoctl/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "scrapers/venmo/credstore",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	store, err := New(result.DB)
	require.NoError(t, err)

	// round trip
	{
		err := store.Put(ctx, "session_id", "session_id=abc; Path=/")
		require.NoError(t, err)
		err = store.Put(ctx, "api_access_token", "api_access_token=tok; Path=/; HttpOnly")
		require.NoError(t, err)

		value, err := store.Get(ctx, "session_id")
		require.NoError(t, err)
		require.Equal(t, "session_id=abc; Path=/", value)

		got := map[string]string{}
		err = store.ForEach(ctx, func(name, value string) error {
			got[name] = value
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"session_id":       "session_id=abc; Path=/",
			"api_access_token": "api_access_token=tok; Path=/; HttpOnly",
		}, got)
	}

	// last write wins
	{
		err := store.Put(ctx, "session_id", "session_id=def; Path=/")
		require.NoError(t, err)

		value, err := store.Get(ctx, "session_id")
		require.NoError(t, err)
		require.Equal(t, "session_id=def; Path=/", value)
	}

	// missing name
	{
		_, err := store.Get(ctx, "never_set")
		require.ErrorIs(t, err, ErrNotFound)
	}

	// clear empties everything
	{
		err := store.Clear(ctx)
		require.NoError(t, err)

		count := 0
		err = store.ForEach(ctx, func(name, value string) error {
			count++
			return nil
		})
		require.NoError(t, err)
		require.Zero(t, count)

		_, err = store.Get(ctx, "session_id")
		require.ErrorIs(t, err, ErrNotFound)
	}
}
