package slots_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/byggkoll/internal/repository"
	"github.com/rpggio/byggkoll/internal/repository/mocks"
	"github.com/rpggio/byggkoll/internal/slots"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestAdapter_SaveAndDecode(t *testing.T) {
	ctx := context.Background()
	adapter := slots.NewAdapter(slots.NewMemoryBackend(), nil)

	in := []item{{ID: "1", Name: "Patrik"}, {ID: "2", Name: "Rickard"}}
	require.NoError(t, adapter.Save(ctx, slots.Workers, in))

	var out []item
	require.NoError(t, adapter.Decode(ctx, slots.Workers, &out))
	require.Equal(t, in, out)
}

func TestAdapter_DecodeEmpty(t *testing.T) {
	ctx := context.Background()
	backend := slots.NewMemoryBackend()
	adapter := slots.NewAdapter(backend, nil)

	var out []item
	require.ErrorIs(t, adapter.Decode(ctx, slots.Workers, &out), slots.ErrEmpty)

	require.NoError(t, backend.Put(ctx, slots.Workers, []byte(" null ")))
	require.ErrorIs(t, adapter.Decode(ctx, slots.Workers, &out), slots.ErrEmpty)

	require.NoError(t, backend.Put(ctx, slots.Workers, []byte("")))
	require.ErrorIs(t, adapter.Decode(ctx, slots.Workers, &out), slots.ErrEmpty)
}

func TestAdapter_DecodeMalformedLeavesTarget(t *testing.T) {
	ctx := context.Background()
	backend := slots.NewMemoryBackend()
	adapter := slots.NewAdapter(backend, nil)
	require.NoError(t, backend.Put(ctx, slots.Workers, []byte(`[{"id":"1","name":"A"},{"id":2}]`)))

	out := []item{{ID: "keep"}}
	err := adapter.Decode(ctx, slots.Workers, &out)
	require.Error(t, err)
	require.NotErrorIs(t, err, slots.ErrEmpty)
	require.Equal(t, []item{{ID: "keep"}}, out)
}

func TestAdapter_DecodeRequiresPointer(t *testing.T) {
	adapter := slots.NewAdapter(slots.NewMemoryBackend(), nil)
	var out []item
	require.Error(t, adapter.Decode(context.Background(), slots.Workers, out))
}

func TestAdapter_BackendErrors(t *testing.T) {
	ctx := context.Background()
	backend := &mocks.SlotBackend{}
	boom := errors.New("disk full")
	backend.On("Get", mock.Anything, slots.Entries).Return(nil, boom)
	backend.On("Put", mock.Anything, slots.Entries, mock.Anything).Return(boom)
	backend.On("Delete", mock.Anything, slots.Session).Return(repository.ErrNotFound)
	backend.On("Delete", mock.Anything, slots.Entries).Return(boom)

	adapter := slots.NewAdapter(backend, nil)

	var out []item
	require.ErrorIs(t, adapter.Decode(ctx, slots.Entries, &out), boom)
	require.ErrorIs(t, adapter.Save(ctx, slots.Entries, []item{}), boom)
	require.NoError(t, adapter.Clear(ctx, slots.Session))
	require.ErrorIs(t, adapter.Clear(ctx, slots.Entries), boom)
	backend.AssertExpectations(t)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	backend := slots.NewMemoryBackend()
	adapter := slots.NewAdapter(backend, nil)
	def := []item{{ID: "default"}}

	require.Equal(t, def, slots.Load(ctx, adapter, slots.Projects, def))

	require.NoError(t, backend.Put(ctx, slots.Projects, []byte(`{oops`)))
	require.Equal(t, def, slots.Load(ctx, adapter, slots.Projects, def))

	require.NoError(t, backend.Put(ctx, slots.Projects, []byte(`[]`)))
	require.Equal(t, []item{}, slots.Load(ctx, adapter, slots.Projects, def))
}

func TestMemoryBackend_CopiesData(t *testing.T) {
	ctx := context.Background()
	backend := slots.NewMemoryBackend()

	data := []byte(`[1]`)
	require.NoError(t, backend.Put(ctx, slots.Entries, data))
	data[1] = '2'

	got, err := backend.Get(ctx, slots.Entries)
	require.NoError(t, err)
	require.Equal(t, `[1]`, string(got))

	require.NoError(t, backend.Delete(ctx, slots.Entries))
	_, err = backend.Get(ctx, slots.Entries)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
