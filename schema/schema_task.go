package schema

import "time"

// Task is a single unit of work scored along the MADE dimensions.
// CompletedAt is set if and only if Completed is true.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	M           float64 `json:"m"`
	A           float64 `json:"a"`
	D           float64 `json:"d"`
	E           float64 `json:"e"`
	Score       float64 `json:"score"`
	Completed   bool    `json:"completed"`
	CreatedAt   int64   `json:"createdAt"`             // epoch milliseconds
	CompletedAt *int64  `json:"completedAt,omitempty"` // epoch milliseconds
}

// TaskFields holds the user-editable subset of a Task.
type TaskFields struct {
	Title       string
	Description string
	M           float64
	A           float64
	D           float64
	E           float64
}

// Fields returns the editable fields of the task.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		M:           t.M,
		A:           t.A,
		D:           t.D,
		E:           t.E,
	}
}

// Value returns the task's stored value for a dimension.
func (t Task) Value(d Dimension) float64 {
	switch d {
	case Money:
		return t.M
	case Asset:
		return t.A
	case Deadline:
		return t.D
	default:
		return t.E
	}
}

// HistoryTime returns the timestamp used to order and group history entries.
func (t Task) HistoryTime() int64 {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.CreatedAt
}

// Clone returns a copy of the task that shares no pointers with the original.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		t.CompletedAt = &ts
	}
	return t
}

// HistoryGroup is a run of completed tasks that share one local calendar day.
type HistoryGroup struct {
	Label string    `json:"label"`
	Day   time.Time `json:"day"`
	Tasks []Task    `json:"tasks"`
}

// Snapshot is the unit exchanged with the remote record store.
type Snapshot struct {
	Tasks  []Task   `json:"tasks"`
	Config Settings `json:"config"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	tasks := make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		tasks[i] = t.Clone()
	}
	return Snapshot{Tasks: tasks, Config: s.Config.Clone()}
}

// MillisToTime converts epoch milliseconds to a local time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
