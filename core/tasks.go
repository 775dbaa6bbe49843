package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/schema"
)

// TaskStore is the in-memory task collection.
// It is not safe for concurrent use; the Planner serializes access.
type TaskStore struct {
	tasks       []schema.Task
	lastDeleted *schema.Task
	now         func() time.Time
}

// NewTaskStore returns a store holding a copy of tasks.
func NewTaskStore(tasks []schema.Task) *TaskStore {
	s := &TaskStore{now: time.Now}
	s.Replace(tasks)
	return s
}

// SetClock overrides the time source. Used by tests.
func (s *TaskStore) SetClock(now func() time.Time) {
	s.now = now
}

// NewTaskID returns a fresh opaque task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// Create appends a new, incomplete task scored with the given weights.
func (s *TaskStore) Create(fields schema.TaskFields, weights schema.Weights) (schema.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return schema.Task{}, ErrEmptyTitle
	}
	t := schema.Task{
		ID:          NewTaskID(),
		Title:       fields.Title,
		Description: fields.Description,
		M:           fields.M,
		A:           fields.A,
		D:           fields.D,
		E:           fields.E,
		Score:       algo.ScoreFields(fields, weights),
		CreatedAt:   s.now().UnixMilli(),
	}
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

// Update replaces the editable fields of a task and rescores it.
// Identity, creation time and completion state are left untouched.
func (s *TaskStore) Update(id string, fields schema.TaskFields, weights schema.Weights) (schema.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return schema.Task{}, ErrEmptyTitle
	}
	i := s.index(id)
	if i < 0 {
		return schema.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t := &s.tasks[i]
	t.Title = fields.Title
	t.Description = fields.Description
	t.M, t.A, t.D, t.E = fields.M, fields.A, fields.D, fields.E
	t.Score = algo.ScoreFields(fields, weights)
	return t.Clone(), nil
}

// SetCompleted commits a completion state change immediately.
// CompletedAt is stamped only on a false to true transition and cleared on reopen.
func (s *TaskStore) SetCompleted(id string, completed bool) (schema.Task, error) {
	i := s.index(id)
	if i < 0 {
		return schema.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t := &s.tasks[i]
	switch {
	case completed && !t.Completed:
		ts := s.now().UnixMilli()
		t.Completed = true
		t.CompletedAt = &ts
	case !completed:
		t.Completed = false
		t.CompletedAt = nil
	}
	return t.Clone(), nil
}

// Remove deletes a task and keeps it as the single undo candidate.
// A previous undo candidate is discarded.
func (s *TaskStore) Remove(id string) (schema.Task, error) {
	i := s.index(id)
	if i < 0 {
		return schema.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	removed := s.tasks[i].Clone()
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.lastDeleted = &removed
	return removed.Clone(), nil
}

// Undo reinserts the most recently removed task.
func (s *TaskStore) Undo() (schema.Task, error) {
	if s.lastDeleted == nil {
		return schema.Task{}, ErrNothingToUndo
	}
	t := *s.lastDeleted
	if s.index(t.ID) >= 0 {
		return schema.Task{}, fmt.Errorf("task %s already exists", t.ID)
	}
	s.lastDeleted = nil
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

// LastDeleted returns the undo candidate, if any.
func (s *TaskStore) LastDeleted() (schema.Task, bool) {
	if s.lastDeleted == nil {
		return schema.Task{}, false
	}
	return s.lastDeleted.Clone(), true
}

// SetLastDeleted restores a persisted undo candidate.
func (s *TaskStore) SetLastDeleted(t *schema.Task) {
	if t == nil {
		s.lastDeleted = nil
		return
	}
	c := t.Clone()
	s.lastDeleted = &c
}

// Clear removes every task. The undo candidate is kept.
func (s *TaskStore) Clear() {
	s.tasks = nil
}

// RecomputeAllScores rescores every task with the given weights.
func (s *TaskStore) RecomputeAllScores(weights schema.Weights) {
	for i := range s.tasks {
		s.tasks[i].Score = algo.ScoreTask(s.tasks[i], weights)
	}
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (schema.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return schema.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns a copy of all tasks in insertion order.
func (s *TaskStore) Tasks() []schema.Task {
	out := make([]schema.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Replace swaps the whole collection, e.g. when remote data wins on load.
func (s *TaskStore) Replace(tasks []schema.Task) {
	s.tasks = make([]schema.Task, len(tasks))
	for i, t := range tasks {
		s.tasks[i] = t.Clone()
	}
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// SortedQueue returns incomplete tasks by descending score.
func (s *TaskStore) SortedQueue() []schema.Task {
	return algo.RankQueue(s.tasks)
}

// SortedHistory returns completed tasks, most recently completed first.
func (s *TaskStore) SortedHistory() []schema.Task {
	return algo.RankHistory(s.tasks)
}

func (s *TaskStore) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t schema.Task) bool { return t.ID == id })
}
