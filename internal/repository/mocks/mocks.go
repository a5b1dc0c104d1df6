package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SlotBackend is a mock for slots.Backend.
type SlotBackend struct {
	mock.Mock
}

func (m *SlotBackend) Get(ctx context.Context, slot string) ([]byte, error) {
	args := m.Called(ctx, slot)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SlotBackend) Put(ctx context.Context, slot string, data []byte) error {
	args := m.Called(ctx, slot, data)
	return args.Error(0)
}

func (m *SlotBackend) Delete(ctx context.Context, slot string) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

// SlotStore is a mock for tracking.SlotStore.
type SlotStore struct {
	mock.Mock
}

func (m *SlotStore) Decode(ctx context.Context, slot string, dst any) error {
	args := m.Called(ctx, slot, dst)
	return args.Error(0)
}

func (m *SlotStore) Save(ctx context.Context, slot string, v any) error {
	args := m.Called(ctx, slot, v)
	return args.Error(0)
}

func (m *SlotStore) Clear(ctx context.Context, slot string) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
