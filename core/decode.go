package core

import (
	"encoding/json"
	"time"

	"github.com/huangsam/mades/schema"
	"github.com/tailscale/hujson"
)

// DecodeTasks reads a persisted task list and fills in missing fields:
// id is generated, title becomes "Untitled Task", m/a/d/e default to
// 5/4/1.5/3, score to 0, createdAt to now. completedAt is derived from
// completed and createdAt when absent and dropped for incomplete tasks.
// Payloads that are not a JSON array decode to an empty list.
func DecodeTasks(raw []byte, now time.Time) []schema.Task {
	if len(raw) == 0 {
		return []schema.Task{}
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return []schema.Task{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(standardized, &items); err != nil {
		return []schema.Task{}
	}

	tasks := make([]schema.Task, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		obj, ok := decodeObject(item)
		if !ok {
			continue
		}
		t := decodeTask(obj, now)
		// Ids must stay unique across the store.
		if _, dup := seen[t.ID]; dup {
			t.ID = NewTaskID()
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks
}

func decodeTask(obj map[string]json.RawMessage, now time.Time) schema.Task {
	t := schema.Task{
		ID:          stringOr(obj["id"], ""),
		Title:       stringOr(obj["title"], ""),
		Description: stringOr(obj["description"], ""),
		M:           numberOr(obj["m"], DefaultTaskM),
		A:           numberOr(obj["a"], DefaultTaskA),
		D:           numberOr(obj["d"], DefaultTaskD),
		E:           numberOr(obj["e"], DefaultTaskE),
		Score:       numberOr(obj["score"], 0),
		Completed:   boolOr(obj["completed"], false),
	}
	if t.ID == "" {
		t.ID = NewTaskID()
	}
	if t.Title == "" {
		t.Title = DefaultTaskTitle
	}

	created := int64(numberOr(obj["createdAt"], 0))
	if created <= 0 {
		created = now.UnixMilli()
	}
	t.CreatedAt = created

	if t.Completed {
		completedAt := int64(numberOr(obj["completedAt"], 0))
		if completedAt <= 0 {
			completedAt = t.CreatedAt
		}
		t.CompletedAt = &completedAt
	}
	return t
}

func stringOr(raw json.RawMessage, fallback string) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return fallback
	}
	return s
}

func boolOr(raw json.RawMessage, fallback bool) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return fallback
	}
	return b
}

// EncodeTasks renders tasks in the persisted snapshot format.
func EncodeTasks(tasks []schema.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []schema.Task{}
	}
	return json.Marshal(tasks)
}

// EncodeSettings renders settings in the persisted snapshot format.
func EncodeSettings(s schema.Settings) ([]byte, error) {
	return json.Marshal(s)
}
