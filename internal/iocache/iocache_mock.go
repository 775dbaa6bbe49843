package iocache

import (
	"context"

	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Get implements the SnapshotStore interface.
func (m *MockSnapshotStore) Get(key string) ([]byte, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Set implements the SnapshotStore interface.
func (m *MockSnapshotStore) Set(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Delete implements the SnapshotStore interface.
func (m *MockSnapshotStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockRemoteStore is a mock implementation of RemoteStore for testing.
type MockRemoteStore struct {
	mock.Mock
}

var _ contract.RemoteStore = &MockRemoteStore{} // Compile-time check

// Fetch implements the RemoteStore interface.
func (m *MockRemoteStore) Fetch(ctx context.Context, code string) (schema.Snapshot, error) {
	args := m.Called(ctx, code)
	snap, _ := args.Get(0).(schema.Snapshot)
	return snap, args.Error(1)
}

// Insert implements the RemoteStore interface.
func (m *MockRemoteStore) Insert(ctx context.Context, code string, snap schema.Snapshot) error {
	args := m.Called(ctx, code, snap)
	return args.Error(0)
}

// Upsert implements the RemoteStore interface.
func (m *MockRemoteStore) Upsert(ctx context.Context, code string, snap schema.Snapshot) error {
	args := m.Called(ctx, code, snap)
	return args.Error(0)
}

// Delete implements the RemoteStore interface.
func (m *MockRemoteStore) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// Clear implements the RemoteStore interface.
func (m *MockRemoteStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus implements the RemoteStore interface.
func (m *MockRemoteStore) GetStatus() (schema.RemoteStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.RemoteStatus)
	return status, args.Error(1)
}

// Close implements the RemoteStore interface.
func (m *MockRemoteStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
