package core

import (
	"sync"
	"testing"
	"time"

	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompletionDelay = 20 * time.Millisecond

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	return NewPlanner(nil, DefaultSettings(), WithCompletionDelay(testCompletionDelay))
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
}

func TestPlannerCompleteIsDelayed(t *testing.T) {
	p := newTestPlanner(t)
	task, err := p.Add(sampleFields("Ship release"))
	require.NoError(t, err)

	done, err := p.Complete(task.ID)
	require.NoError(t, err)

	// The task stays in the queue until the delay elapses.
	assert.True(t, p.IsCompleting(task.ID))
	require.Len(t, p.Queue(), 1)
	assert.Empty(t, p.History())

	again, err := p.Complete(task.ID)
	require.NoError(t, err)
	assert.Equal(t, done, again, "completing twice shares the pending completion")

	waitClosed(t, done)
	assert.False(t, p.IsCompleting(task.ID))
	assert.Empty(t, p.Queue())
	history := p.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Completed)
	assert.NotNil(t, history[0].CompletedAt)

	finished, err := p.Complete(task.ID)
	require.NoError(t, err)
	waitClosed(t, finished)

	_, err = p.Complete("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

// switchClock returns start until advance is called, then end.
type switchClock struct {
	mu       sync.Mutex
	current  time.Time
	switched time.Time
}

func (c *switchClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *switchClock) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.switched
}

func TestPlannerCompletedAtIsCommitTime(t *testing.T) {
	called := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	committed := called.Add(3 * time.Second)
	clock := &switchClock{current: called, switched: committed}

	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(200*time.Millisecond), WithClock(clock.Now))
	task, err := p.Add(sampleFields("Ship release"))
	require.NoError(t, err)

	done, err := p.Complete(task.ID)
	require.NoError(t, err)
	clock.advance()
	waitClosed(t, done)

	got, ok := p.Task(task.ID)
	require.True(t, ok)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, committed.UnixMilli(), *got.CompletedAt)
	assert.Equal(t, called.UnixMilli(), got.CreatedAt)
}

func TestPlannerReopenCancelsPendingCompletion(t *testing.T) {
	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(time.Hour))
	task, _ := p.Add(sampleFields("Maybe later"))

	done, err := p.Complete(task.ID)
	require.NoError(t, err)

	_, err = p.Reopen(task.ID)
	require.NoError(t, err)
	waitClosed(t, done)

	assert.False(t, p.IsCompleting(task.ID))
	got, ok := p.Task(task.ID)
	require.True(t, ok)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestPlannerRemoveCancelsPendingCompletion(t *testing.T) {
	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(time.Hour))
	task, _ := p.Add(sampleFields("Gone"))

	done, _ := p.Complete(task.ID)
	_, err := p.Remove(task.ID)
	require.NoError(t, err)
	waitClosed(t, done)
	assert.False(t, p.IsCompleting(task.ID))

	restored, err := p.Undo()
	require.NoError(t, err)
	assert.False(t, restored.Completed)
	assert.Len(t, p.Queue(), 1)
}

func TestPlannerOnChange(t *testing.T) {
	p := newTestPlanner(t)

	var mu sync.Mutex
	var snapshots []schema.Snapshot
	p.OnChange(func(s schema.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, s)
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(snapshots)
	}

	task, err := p.Add(sampleFields("Observed"))
	require.NoError(t, err)
	assert.Equal(t, 1, count())

	_, err = p.Add(sampleFields(""))
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, 1, count(), "failed mutations do not notify")

	done, _ := p.Complete(task.ID)
	assert.Equal(t, 1, count(), "starting a completion does not notify")
	waitClosed(t, done)
	assert.Equal(t, 2, count())

	mu.Lock()
	last := snapshots[len(snapshots)-1]
	mu.Unlock()
	require.Len(t, last.Tasks, 1)
	assert.True(t, last.Tasks[0].Completed)
}

func TestPlannerSaveSettingsRescores(t *testing.T) {
	p := newTestPlanner(t)
	task, _ := p.Add(sampleFields("Rescore me"))
	assert.InDelta(t, 10.2, task.Score, 1e-9)

	s := p.Settings()
	s.Weights = schema.Weights{M: 1, A: 1}
	saved := p.SaveSettings(s)
	assert.Equal(t, schema.Weights{M: 1, A: 1}, saved.Weights)

	got, _ := p.Task(task.ID)
	assert.InDelta(t, 10.5, got.Score, 1e-9)
	assert.InDelta(t, 10.5, p.Preview(sampleFields("x")), 1e-9)

	var notified int
	p.OnChange(func(schema.Snapshot) { notified++ })
	reset := p.ResetSettings()
	assert.Equal(t, DefaultSettings(), reset)
	assert.Equal(t, 1, notified)
	got, _ = p.Task(task.ID)
	assert.InDelta(t, 10.2, got.Score, 1e-9)
}

func TestPlannerEditSettingsIsAtomic(t *testing.T) {
	p := newTestPlanner(t)
	before := p.Settings()

	_, err := p.EditSettings(func(st *SettingsStore) error {
		if err := st.SetWeight(schema.Money, 3); err != nil {
			return err
		}
		return st.SetWeight(schema.Effort, 1)
	})
	assert.ErrorIs(t, err, ErrUnknownDimension)
	assert.Equal(t, before, p.Settings())

	saved, err := p.EditSettings(func(st *SettingsStore) error {
		return st.SetWeight(schema.Money, 3)
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, saved.Weights.M, 1e-9)
}

func TestPlannerValidationDoesNotModifyTasks(t *testing.T) {
	p := newTestPlanner(t)
	task, _ := p.Add(schema.TaskFields{Title: "Odd", M: 7.5, A: 4, D: 1.5, E: 3})

	assert.Equal(t, []string{"Money (7.5)"}, p.Validation(task))
	got, _ := p.Task(task.ID)
	assert.InDelta(t, 7.5, got.M, 1e-9)
}

func TestPlannerApplySnapshot(t *testing.T) {
	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(time.Hour))
	local, _ := p.Add(sampleFields("Local only"))
	done, _ := p.Complete(local.ID)

	remote := schema.Snapshot{
		Tasks: []schema.Task{
			{ID: "r1", Title: "Remote", M: 5, A: 4, D: 1.5, E: 3, Score: 999, CreatedAt: 1},
		},
		Config: DefaultSettings(),
	}
	remote.Config.Weights = schema.Weights{M: 1, A: 1}

	var notified schema.Snapshot
	p.OnChange(func(s schema.Snapshot) { notified = s })
	p.ApplySnapshot(remote)
	waitClosed(t, done)

	tasks := p.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "r1", tasks[0].ID)
	assert.InDelta(t, 10.5, tasks[0].Score, 1e-9, "scores follow the incoming weights")
	assert.Equal(t, schema.Weights{M: 1, A: 1}, p.Settings().Weights)
	assert.Equal(t, p.Snapshot(), notified)
}

func TestPlannerHistoryGroups(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	clock := now.Add(-26 * time.Hour)
	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(0), WithClock(func() time.Time { return clock }))

	older, _ := p.Add(sampleFields("Yesterday's work"))
	done, _ := p.Complete(older.ID)
	waitClosed(t, done)

	clock = now
	newer, _ := p.Add(sampleFields("Today's work"))
	done, _ = p.Complete(newer.ID)
	waitClosed(t, done)

	groups := p.HistoryGroups(now)
	require.Len(t, groups, 2)
	assert.Equal(t, "Today", groups[0].Label)
	assert.Equal(t, newer.ID, groups[0].Tasks[0].ID)
	assert.Equal(t, "Yesterday", groups[1].Label)
}

func TestPlannerQueueBy(t *testing.T) {
	base := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	clock := base
	p := NewPlanner(nil, DefaultSettings(), WithClock(func() time.Time { return clock }))

	high, _ := p.Add(schema.TaskFields{Title: "high", M: 10, A: 10, D: 2, E: 1})
	clock = base.Add(time.Minute)
	low, _ := p.Add(schema.TaskFields{Title: "low", M: 1, A: 1, D: 1, E: 5})

	byScore := p.QueueBy(schema.SortByScore)
	require.Len(t, byScore, 2)
	assert.Equal(t, high.ID, byScore[0].ID)

	byCreated := p.QueueBy(schema.SortByCreated)
	require.Len(t, byCreated, 2)
	assert.Equal(t, low.ID, byCreated[0].ID)
}

func TestPlannerClear(t *testing.T) {
	p := NewPlanner(nil, DefaultSettings(), WithCompletionDelay(time.Hour))
	a, _ := p.Add(sampleFields("A"))
	_, _ = p.Add(sampleFields("B"))
	done, _ := p.Complete(a.ID)

	p.Clear()
	waitClosed(t, done)
	assert.Empty(t, p.Tasks())
	assert.False(t, p.IsCompleting(a.ID))
}

func TestPlannerConcurrentAdds(t *testing.T) {
	p := newTestPlanner(t)

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			_, err := p.Add(sampleFields("parallel"))
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	tasks := p.Tasks()
	assert.Len(t, tasks, workers)
	ids := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = struct{}{}
	}
	assert.Len(t, ids, workers, "task ids must be unique")
}
