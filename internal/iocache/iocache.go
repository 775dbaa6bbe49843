// Package iocache is for durable snapshot storage, locally and remotely.
package iocache

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// syncTable is the name of the table holding remote snapshots.
const syncTable = "mades_sync"

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ErrRemoteUnavailable wraps failures to open the remote store.
var ErrRemoteUnavailable = errors.New("remote storage unavailable")

// StoreManager holds the local and remote stores for the running process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	local        contract.SnapshotStore
	remote       contract.RemoteStore
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetLocalStore returns the local snapshot store.
func (mgr *StoreManager) GetLocalStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.local
}

// GetRemoteStore returns the remote store, or nil when sync is disabled.
func (mgr *StoreManager) GetRemoteStore() contract.RemoteStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.remote
}

// InitStores initializes the global manager. The local store always exists;
// the remote store is only opened for a backend other than none. When only the
// remote store fails, the local store is still installed and the error is
// returned so callers can continue offline.
func InitStores(dataDir string, backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		local, err := NewLocalStore(dataDir)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize local storage: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.local = local

		if backend == schema.NoneBackend || backend == "" {
			return
		}
		if backend == schema.SQLiteBackend && connStr == "" {
			connStr = contract.GetRemoteDBFilePath(dataDir)
		}
		remote, err := NewRecordStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
			return
		}
		Manager.remote = remote
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.remote != nil {
			_ = Manager.remote.Close()
		}
	})
}

// validateTableName guards identifiers interpolated into SQL.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
