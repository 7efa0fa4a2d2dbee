package regstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registered_actors.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "greeter", "builtin:greeter"))
	require.NoError(t, s.Insert(ctx, "example", "builtin:example"))

	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Name: "example", Path: "builtin:example"},
		{Name: "greeter", Path: "builtin:greeter"},
	}, entries)
}

func TestInsertUpsertsOnConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "greeter", "builtin:greeter"))
	require.NoError(t, s.Insert(ctx, "greeter", "/plugins/greeter.so"))

	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "/plugins/greeter.so", entries[0].Path)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "greeter", "builtin:greeter"))
	require.NoError(t, s.Delete(ctx, "greeter"))
	require.NoError(t, s.Delete(ctx, "greeter"))

	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestReplaySkipsFailuresAndContinues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "bad", "builtin:nonexistent"))
	require.NoError(t, s.Insert(ctx, "good", "builtin:good"))

	var reloaded []string
	Replay(ctx, s, func(name, path string) error {
		reloaded = append(reloaded, name)
		if name == "bad" {
			return assert.AnError
		}
		return nil
	})

	require.ElementsMatch(t, []string{"bad", "good"}, reloaded)
}
