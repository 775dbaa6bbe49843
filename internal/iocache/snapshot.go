package iocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// LoadSnapshot reads tasks and settings from the local store.
// Missing or malformed entries fall back to an empty task list and default settings.
func LoadSnapshot(store contract.SnapshotStore, now time.Time) (schema.Snapshot, error) {
	tasksRaw, err := getOptional(store, contract.TasksKey)
	if err != nil {
		return schema.Snapshot{}, err
	}
	configRaw, err := getOptional(store, contract.ConfigKey)
	if err != nil {
		return schema.Snapshot{}, err
	}
	return schema.Snapshot{
		Tasks:  core.DecodeTasks(tasksRaw, now),
		Config: core.DecodeSettings(configRaw),
	}, nil
}

// SaveSnapshot writes tasks and settings to the local store.
func SaveSnapshot(store contract.SnapshotStore, snap schema.Snapshot) error {
	tasks, err := core.EncodeTasks(snap.Tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	config, err := core.EncodeSettings(snap.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := store.Set(contract.TasksKey, tasks); err != nil {
		return err
	}
	return store.Set(contract.ConfigKey, config)
}

// LoadRecoveryCode returns the persisted recovery code, or "" if none was saved.
func LoadRecoveryCode(store contract.SnapshotStore) (string, error) {
	raw, err := getOptional(store, contract.RecoveryCodeKey)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// SaveRecoveryCode persists the recovery code.
func SaveRecoveryCode(store contract.SnapshotStore, code string) error {
	return store.Set(contract.RecoveryCodeKey, []byte(code))
}

// LoadLastDeleted returns the persisted undo candidate, if any.
func LoadLastDeleted(store contract.SnapshotStore, now time.Time) (*schema.Task, error) {
	raw, err := getOptional(store, contract.LastDeletedKey)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	tasks := core.DecodeTasks(append(append([]byte("["), raw...), ']'), now)
	if len(tasks) != 1 {
		return nil, nil
	}
	return &tasks[0], nil
}

// SaveLastDeleted persists the undo candidate. A nil task clears it.
func SaveLastDeleted(store contract.SnapshotStore, t *schema.Task) error {
	if t == nil {
		return store.Delete(contract.LastDeletedKey)
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode deleted task: %w", err)
	}
	return store.Set(contract.LastDeletedKey, raw)
}

// getOptional treats a missing key as empty.
func getOptional(store contract.SnapshotStore, key string) ([]byte, error) {
	raw, err := store.Get(key)
	if errors.Is(err, contract.ErrKeyNotFound) {
		return nil, nil
	}
	return raw, err
}

// removeFile deletes a file, ignoring if it doesn't exist.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
