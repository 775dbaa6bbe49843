// Package syncer mirrors the planner state to a remote record store under a
// recovery code.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/iocache"
	"github.com/huangsam/mades/internal/logging"
	"github.com/huangsam/mades/schema"
)

const (
	// DefaultDebounce is the quiet period after the last change before a remote write.
	DefaultDebounce = 800 * time.Millisecond

	// writeTimeout bounds remote writes started by the debounce timer.
	writeTimeout = 15 * time.Second
)

var (
	// ErrInvalidCode is returned when a recovery code is not 8 characters after normalization.
	ErrInvalidCode = errors.New("invalid recovery code: expected 8 characters")

	// ErrNoDataForCode is returned when a restore finds nothing under the code.
	ErrNoDataForCode = errors.New("no data found for recovery code")

	// ErrOffline is returned by remote operations when sync is disabled.
	ErrOffline = errors.New("remote sync is disabled")
)

// StatusListener receives every status transition.
type StatusListener func(schema.SyncStatus)

// Coordinator pushes planner snapshots to the remote store and restores them.
// Remote failures never touch local state: they flip the status to error and
// the next change retries with a full snapshot.
type Coordinator struct {
	mu        sync.Mutex
	planner   *core.Planner
	local     contract.SnapshotStore
	remote    contract.RemoteStore
	logger    *log.Logger
	debounce  time.Duration
	code      string
	status    schema.SyncStatus
	started   bool
	timer     *time.Timer
	pending   *schema.Snapshot
	listeners []StatusListener

	writeMu  sync.Mutex // serializes remote writes
	applying atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a coordinator and subscribes it to planner changes.
// A nil remote puts the coordinator permanently offline.
func New(planner *core.Planner, local contract.SnapshotStore, remote contract.RemoteStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		planner:  planner,
		local:    local,
		remote:   remote,
		debounce: DefaultDebounce,
		status:   schema.StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.New("sync")
	}
	if remote == nil {
		c.status = schema.StatusOffline
	}
	planner.OnChange(func(snap schema.Snapshot) {
		if c.applying.Load() {
			return
		}
		c.Notify(snap)
	})
	return c
}

// OnStatus registers a listener for status transitions.
func (c *Coordinator) OnStatus(l StatusListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Status returns the current sync status.
func (c *Coordinator) Status() schema.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Code returns the active recovery code, or "" before Start.
func (c *Coordinator) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// Report summarizes the coordinator for display.
func (c *Coordinator) Report(backend schema.DatabaseBackend) schema.SyncReport {
	c.mu.Lock()
	report := schema.SyncReport{Status: c.status, Code: c.code, Backend: string(backend)}
	remote := c.remote
	c.mu.Unlock()

	if remote != nil {
		if status, err := remote.GetStatus(); err == nil {
			report.Remote = &status
		} else {
			c.logger.Warn("failed to read remote status", "err", err)
		}
	}
	return report
}

// setStatus records a transition and returns a function that notifies listeners.
// Callers hold c.mu and invoke the returned function after unlocking.
func (c *Coordinator) setStatus(s schema.SyncStatus) func() {
	if c.status == s {
		return func() {}
	}
	c.logger.Debug("sync status", "from", c.status, "to", s)
	c.status = s
	listeners := append([]StatusListener(nil), c.listeners...)
	return func() {
		for _, l := range listeners {
			l(s)
		}
	}
}

func (c *Coordinator) transition(s schema.SyncStatus) {
	c.mu.Lock()
	notify := c.setStatus(s)
	c.mu.Unlock()
	notify()
}

// Start performs the initial load. Without a stored code it generates one and
// pushes the local state as a new record. With a code it fetches the record:
// remote data overwrites local data, and a missing record is created from
// local data. Remote errors are reported through the status and returned.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.remote == nil {
		c.started = true
		notify := c.setStatus(schema.StatusOffline)
		c.mu.Unlock()
		notify()
		return nil
	}
	notify := c.setStatus(schema.StatusLoading)
	c.mu.Unlock()
	notify()

	code, err := iocache.LoadRecoveryCode(c.local)
	if err != nil {
		c.logger.Warn("failed to read recovery code", "err", err)
	}
	code = NormalizeCode(code)
	if len(code) != CodeLength {
		code = ""
	}

	err = c.load(ctx, code)

	c.mu.Lock()
	c.started = true
	status := schema.StatusSynced
	if err != nil {
		status = schema.StatusError
	}
	notify = c.setStatus(status)
	c.mu.Unlock()
	notify()

	if err != nil {
		c.logger.Error("initial sync failed", "code", c.Code(), "err", err)
	}
	return err
}

func (c *Coordinator) load(ctx context.Context, code string) error {
	if code == "" {
		fresh, err := GenerateCode()
		if err != nil {
			return err
		}
		c.adopt(fresh)
		c.logger.Info("created recovery code", "code", fresh)
		return c.remote.Insert(ctx, fresh, c.planner.Snapshot())
	}

	c.adopt(code)
	snap, err := c.remote.Fetch(ctx, code)
	if errors.Is(err, contract.ErrRecordNotFound) {
		c.logger.Info("no remote record, uploading local state", "code", code)
		return c.remote.Insert(ctx, code, c.planner.Snapshot())
	}
	if err != nil {
		return err
	}
	c.apply(snap)
	c.logger.Debug("applied remote snapshot", "code", code, "tasks", len(snap.Tasks))
	return nil
}

// adopt makes code the active recovery code and persists it locally.
func (c *Coordinator) adopt(code string) {
	c.mu.Lock()
	c.code = code
	c.mu.Unlock()
	if err := iocache.SaveRecoveryCode(c.local, code); err != nil {
		c.logger.Warn("failed to persist recovery code", "err", err)
	}
}

// apply overwrites planner state without scheduling a write back.
func (c *Coordinator) apply(snap schema.Snapshot) {
	c.applying.Store(true)
	defer c.applying.Store(false)
	c.planner.ApplySnapshot(snap)
}

// Notify schedules a write of snap after the debounce window.
// Each call restarts the window; only the latest snapshot is written.
// Calls before Start, or while offline, are ignored.
func (c *Coordinator) Notify(snap schema.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.remote == nil {
		return
	}
	c.pending = &snap
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

func (c *Coordinator) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = c.writePending(ctx)
}

// writePending upserts the pending snapshot, if any.
func (c *Coordinator) writePending(ctx context.Context) error {
	c.mu.Lock()
	snap, code := c.pending, c.code
	c.pending = nil
	if snap == nil || code == "" {
		c.mu.Unlock()
		return nil
	}
	notify := c.setStatus(schema.StatusSaving)
	c.mu.Unlock()
	notify()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.remote.Upsert(ctx, code, *snap)
	if err != nil {
		c.logger.Error("failed to save to remote", "code", code, "err", err)
		c.transition(schema.StatusError)
		return err
	}
	c.logger.Debug("saved to remote", "code", code, "tasks", len(snap.Tasks))
	c.transition(schema.StatusSynced)
	return nil
}

// Flush writes any pending snapshot immediately and waits for in-flight
// writes. Short-lived processes call it before exiting.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	remote := c.remote
	c.mu.Unlock()
	if remote == nil {
		return nil
	}

	err := c.writePending(ctx)
	c.writeMu.Lock()
	c.writeMu.Unlock() //nolint:staticcheck // waits for a timer-fired write
	return err
}

// Restore replaces local state with the record stored under input.
// The code is validated before any remote call. An unknown code leaves
// local state and the active code unchanged.
func (c *Coordinator) Restore(ctx context.Context, input string) error {
	code := NormalizeCode(input)
	if len(code) != CodeLength {
		return ErrInvalidCode
	}

	c.mu.Lock()
	remote := c.remote
	c.mu.Unlock()
	if remote == nil {
		return ErrOffline
	}

	c.transition(schema.StatusLoading)
	snap, err := remote.Fetch(ctx, code)
	if errors.Is(err, contract.ErrRecordNotFound) {
		c.transition(schema.StatusSynced)
		return fmt.Errorf("%w: %s", ErrNoDataForCode, code)
	}
	if err != nil {
		c.logger.Error("failed to restore from remote", "code", code, "err", err)
		c.transition(schema.StatusError)
		return fmt.Errorf("failed to restore: %w", err)
	}

	// The old code's pending write is obsolete once the new data lands.
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.started = true
	c.mu.Unlock()

	c.apply(snap)
	c.adopt(code)
	c.logger.Info("restored from recovery code", "code", code, "tasks", len(snap.Tasks))
	c.transition(schema.StatusSynced)
	return nil
}
