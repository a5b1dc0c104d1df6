package slots_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/byggkoll/internal/repository"
	"github.com/rpggio/byggkoll/internal/slots"
	"github.com/stretchr/testify/require"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	backend, err := slots.NewFileBackend(dir)
	require.NoError(t, err)

	_, err = backend.Get(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, backend.Put(ctx, slots.Entries, []byte(`[{"id":"e1"}]`)))
	require.NoError(t, backend.Put(ctx, slots.Entries, []byte(`[{"id":"e2"}]`)))

	got, err := backend.Get(ctx, slots.Entries)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"e2"}]`, string(got))

	raw, err := os.ReadFile(filepath.Join(dir, slots.Entries+".json"))
	require.NoError(t, err)
	require.Equal(t, got, raw)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, matches)

	require.NoError(t, backend.Delete(ctx, slots.Entries))
	require.NoError(t, backend.Delete(ctx, slots.Entries))
	_, err = backend.Get(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileBackend_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := slots.NewFileBackend(dir)
	require.NoError(t, err)
	adapter := slots.NewAdapter(first, nil)
	require.NoError(t, adapter.Save(ctx, slots.Workers, []item{{ID: "w1", Name: "Patrik"}}))

	second, err := slots.NewFileBackend(dir)
	require.NoError(t, err)
	var out []item
	require.NoError(t, slots.NewAdapter(second, nil).Decode(ctx, slots.Workers, &out))
	require.Equal(t, []item{{ID: "w1", Name: "Patrik"}}, out)
}
