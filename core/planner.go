// Package core has the task store, settings store and planner that keep scores current.
package core

import (
	"sync"
	"time"

	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/schema"
)

// DefaultCompletionDelay is how long a completing task stays in the queue
// before it moves to history.
const DefaultCompletionDelay = 700 * time.Millisecond

// ChangeListener receives the full state after every committed mutation.
type ChangeListener func(schema.Snapshot)

// pendingCompletion tracks a task between Complete and the delayed commit.
type pendingCompletion struct {
	timer *time.Timer
	done  chan struct{}
}

// Planner ties the task and settings stores together.
// It owns the transient "completing" state, which is never persisted,
// and notifies listeners after each mutation. All methods are safe for
// concurrent use; completion timers fire on their own goroutines.
type Planner struct {
	mu         sync.Mutex
	tasks      *TaskStore
	settings   *SettingsStore
	completing map[string]*pendingCompletion
	delay      time.Duration
	now        func() time.Time
	listeners  []ChangeListener
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithCompletionDelay overrides the completion delay.
func WithCompletionDelay(d time.Duration) PlannerOption {
	return func(p *Planner) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) PlannerOption {
	return func(p *Planner) {
		p.now = now
	}
}

// NewPlanner builds a planner over the given tasks and settings.
// Task scores are recomputed against the settings on construction.
func NewPlanner(tasks []schema.Task, settings schema.Settings, opts ...PlannerOption) *Planner {
	p := &Planner{
		tasks:      NewTaskStore(tasks),
		settings:   NewSettingsStore(settings),
		completing: make(map[string]*pendingCompletion),
		delay:      DefaultCompletionDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tasks.SetClock(p.now)
	p.tasks.RecomputeAllScores(p.settings.Weights())
	return p
}

// OnChange registers a listener for committed mutations.
func (p *Planner) OnChange(l ChangeListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// commit snapshots the state under the lock and returns a function that
// delivers it to listeners once the lock is released.
func (p *Planner) commit() func() {
	snap := p.snapshotLocked()
	listeners := append([]ChangeListener(nil), p.listeners...)
	return func() {
		for _, l := range listeners {
			l(snap)
		}
	}
}

// Add creates a task from the given fields.
func (p *Planner) Add(fields schema.TaskFields) (schema.Task, error) {
	p.mu.Lock()
	t, err := p.tasks.Create(fields, p.settings.Weights())
	if err != nil {
		p.mu.Unlock()
		return schema.Task{}, err
	}
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return t, nil
}

// Edit replaces the editable fields of a task.
func (p *Planner) Edit(id string, fields schema.TaskFields) (schema.Task, error) {
	p.mu.Lock()
	t, err := p.tasks.Update(id, fields, p.settings.Weights())
	if err != nil {
		p.mu.Unlock()
		return schema.Task{}, err
	}
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return t, nil
}

// Complete marks a task as completing and commits the completion after the
// configured delay. The task stays in the queue until then. The returned
// channel is closed once the task has moved to history or the completion
// was cancelled. Completing a finished or already completing task is a no-op.
func (p *Planner) Complete(id string) (<-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.tasks.Get(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if pc, pending := p.completing[id]; pending {
		return pc.done, nil
	}
	if t.Completed {
		done := make(chan struct{})
		close(done)
		return done, nil
	}

	pc := &pendingCompletion{done: make(chan struct{})}
	p.completing[id] = pc
	pc.timer = time.AfterFunc(p.delay, func() { p.finishCompletion(id, pc) })
	return pc.done, nil
}

func (p *Planner) finishCompletion(id string, pc *pendingCompletion) {
	p.mu.Lock()
	if p.completing[id] != pc {
		p.mu.Unlock()
		return
	}
	delete(p.completing, id)
	if _, err := p.tasks.SetCompleted(id, true); err != nil {
		p.mu.Unlock()
		close(pc.done)
		return
	}
	notify := p.commit()
	p.mu.Unlock()
	notify()
	close(pc.done)
}

// cancelCompletionLocked stops a pending completion, if any.
func (p *Planner) cancelCompletionLocked(id string) {
	pc, ok := p.completing[id]
	if !ok {
		return
	}
	pc.timer.Stop()
	delete(p.completing, id)
	close(pc.done)
}

// IsCompleting reports whether a task is waiting for its completion commit.
func (p *Planner) IsCompleting(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.completing[id]
	return ok
}

// Reopen moves a task back to the queue immediately.
func (p *Planner) Reopen(id string) (schema.Task, error) {
	p.mu.Lock()
	p.cancelCompletionLocked(id)
	t, err := p.tasks.SetCompleted(id, false)
	if err != nil {
		p.mu.Unlock()
		return schema.Task{}, err
	}
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return t, nil
}

// Remove deletes a task; it can be brought back with Undo until the next Remove.
func (p *Planner) Remove(id string) (schema.Task, error) {
	p.mu.Lock()
	t, err := p.tasks.Remove(id)
	if err != nil {
		p.mu.Unlock()
		return schema.Task{}, err
	}
	p.cancelCompletionLocked(id)
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return t, nil
}

// Undo restores the most recently removed task.
func (p *Planner) Undo() (schema.Task, error) {
	p.mu.Lock()
	t, err := p.tasks.Undo()
	if err != nil {
		p.mu.Unlock()
		return schema.Task{}, err
	}
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return t, nil
}

// LastDeleted returns the current undo candidate.
func (p *Planner) LastDeleted() (schema.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.LastDeleted()
}

// SetLastDeleted restores a persisted undo candidate without notifying.
func (p *Planner) SetLastDeleted(t *schema.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks.SetLastDeleted(t)
}

// Clear removes every task and cancels pending completions.
func (p *Planner) Clear() {
	p.mu.Lock()
	for id := range p.completing {
		p.cancelCompletionLocked(id)
	}
	p.tasks.Clear()
	notify := p.commit()
	p.mu.Unlock()
	notify()
}

// SaveSettings activates new settings and rescores every task.
func (p *Planner) SaveSettings(s schema.Settings) schema.Settings {
	p.mu.Lock()
	saved := p.settings.Save(s)
	p.tasks.RecomputeAllScores(saved.Weights)
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return saved
}

// EditSettings applies fn to a draft of the current settings and saves the
// draft only if fn succeeds, so a failed edit leaves everything untouched.
func (p *Planner) EditSettings(fn func(*SettingsStore) error) (schema.Settings, error) {
	p.mu.Lock()
	draft := NewSettingsStore(p.settings.Settings())
	if err := fn(draft); err != nil {
		p.mu.Unlock()
		return schema.Settings{}, err
	}
	saved := p.settings.Save(draft.Settings())
	p.tasks.RecomputeAllScores(saved.Weights)
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return saved, nil
}

// ResetSettings restores the built-in settings and rescores every task.
func (p *Planner) ResetSettings() schema.Settings {
	p.mu.Lock()
	saved := p.settings.ResetToDefaults()
	p.tasks.RecomputeAllScores(saved.Weights)
	notify := p.commit()
	p.mu.Unlock()
	notify()
	return saved
}

// Settings returns the active settings.
func (p *Planner) Settings() schema.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Settings()
}

// Task returns a task by id.
func (p *Planner) Task(id string) (schema.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.Get(id)
}

// Tasks returns all tasks in insertion order.
func (p *Planner) Tasks() []schema.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.Tasks()
}

// Queue returns incomplete tasks by descending score, completing ones included.
func (p *Planner) Queue() []schema.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.SortedQueue()
}

// QueueBy returns incomplete tasks using the given ordering.
func (p *Planner) QueueBy(by schema.SortOption) []schema.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return algo.RankQueueBy(p.tasks.Tasks(), by)
}

// History returns completed tasks, most recent first.
func (p *Planner) History() []schema.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.SortedHistory()
}

// HistoryGroups returns the history grouped under relative date headers.
func (p *Planner) HistoryGroups(now time.Time) []schema.HistoryGroup {
	return GroupHistory(p.History(), now)
}

// Validation returns the out-of-range dimension labels for a task.
func (p *Planner) Validation(t schema.Task) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ValidationErrors(t, p.settings.settings)
}

// Preview scores fields with the active weights without storing anything.
func (p *Planner) Preview(fields schema.TaskFields) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return algo.ScoreFields(fields, p.settings.Weights())
}

// Snapshot returns the persistable state.
func (p *Planner) Snapshot() schema.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Planner) snapshotLocked() schema.Snapshot {
	return schema.Snapshot{
		Tasks:  p.tasks.Tasks(),
		Config: p.settings.Settings(),
	}
}

// ApplySnapshot overwrites tasks and settings, e.g. when remote data wins on load.
// Scores are recomputed against the incoming settings.
func (p *Planner) ApplySnapshot(snap schema.Snapshot) {
	p.mu.Lock()
	for id := range p.completing {
		p.cancelCompletionLocked(id)
	}
	saved := p.settings.Save(snap.Config)
	p.tasks.Replace(snap.Tasks)
	p.tasks.RecomputeAllScores(saved.Weights)
	notify := p.commit()
	p.mu.Unlock()
	notify()
}
