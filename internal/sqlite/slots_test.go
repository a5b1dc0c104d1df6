package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
	"github.com/rpggio/byggkoll/internal/repository"
	"github.com/rpggio/byggkoll/internal/slots"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository_PutGetDelete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, slots.Entries, []byte(`[{"id":"e1"}]`)))
	require.NoError(t, repo.Put(ctx, slots.Entries, []byte(`[{"id":"e2"}]`)))

	data, err := repo.Get(ctx, slots.Entries)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"e2"}]`, string(data))

	version, err := repo.SchemaVersion(ctx, slots.Entries)
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)

	names, err := repo.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{slots.Entries}, names)

	require.NoError(t, repo.Delete(ctx, slots.Entries))
	require.NoError(t, repo.Delete(ctx, slots.Entries))
	_, err = repo.Get(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.SchemaVersion(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotRepository_BacksStore(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	adapter := slots.NewAdapter(NewSlotRepository(db), nil)

	store := tracking.NewStore(ctx, adapter, nil)
	worker, err := store.AddWorker(ctx, "Anna")
	require.NoError(t, err)
	_, err = store.AddEntry(ctx, tracking.CreateEntryRequest{
		Date: "2024-05-02", ProjectID: "1", Hours: 8, WorkType: tracking.WorkOvertime, WorkerName: worker.Name,
	})
	require.NoError(t, err)
	require.NoError(t, store.SetCurrentUser(ctx, &tracking.User{Email: "anna@example.se", Name: "Anna", Password: "x"}))

	reloaded := tracking.NewStore(ctx, adapter, nil)
	require.Equal(t, store.Snapshot(), reloaded.Snapshot())
	user, ok := reloaded.CurrentUser()
	require.True(t, ok)
	require.Empty(t, user.Password)
}
