// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/mades/schema"
)

// Local snapshot keys.
const (
	TasksKey        = "mades-planner-tasks"
	ConfigKey       = "mades-planner-config"
	RecoveryCodeKey = "mades-recovery-code"
	LastDeletedKey  = "mades-last-deleted"
)

var (
	// ErrKeyNotFound is returned by a SnapshotStore when a key has never been written.
	ErrKeyNotFound = errors.New("key not found")

	// ErrRecordNotFound is returned by a RemoteStore when no record exists for a code.
	ErrRecordNotFound = errors.New("record not found")
)

// SnapshotStore is the durable local key-value store.
// This allows the persistence layer to be mocked for testing.
type SnapshotStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// RemoteStore keeps one snapshot per recovery code.
// This allows the sync coordinator to be tested without a database.
type RemoteStore interface {
	// Fetch returns the snapshot stored under code or ErrRecordNotFound.
	Fetch(ctx context.Context, code string) (schema.Snapshot, error)

	// Insert creates a new record for code.
	Insert(ctx context.Context, code string, snap schema.Snapshot) error

	// Upsert creates or replaces the record for code.
	Upsert(ctx context.Context, code string, snap schema.Snapshot) error

	// Delete removes the record for code, if any.
	Delete(ctx context.Context, code string) error

	// GetStatus returns status information about the remote store.
	GetStatus() (schema.RemoteStatus, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}
