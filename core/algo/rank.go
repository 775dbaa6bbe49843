package algo

import (
	"sort"

	"github.com/huangsam/mades/schema"
)

// RankQueue returns the incomplete tasks ordered by score, highest first.
// Tasks with equal scores keep their original order.
func RankQueue(tasks []schema.Task) []schema.Task {
	return RankQueueBy(tasks, schema.SortByScore)
}

// RankQueueBy returns the incomplete tasks using the given ordering.
// SortByCreated puts the newest task first.
func RankQueueBy(tasks []schema.Task, by schema.SortOption) []schema.Task {
	queue := filter(tasks, false)
	switch by {
	case schema.SortByCreated:
		sort.SliceStable(queue, func(i, j int) bool {
			return queue[i].CreatedAt > queue[j].CreatedAt
		})
	default:
		sort.SliceStable(queue, func(i, j int) bool {
			return queue[i].Score > queue[j].Score
		})
	}
	return queue
}

// RankHistory returns the completed tasks, most recently completed first.
// Tasks without a completion time fall back to their creation time.
func RankHistory(tasks []schema.Task) []schema.Task {
	history := filter(tasks, true)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].HistoryTime() > history[j].HistoryTime()
	})
	return history
}

// Limit returns at most n tasks. A non-positive n returns everything.
func Limit(tasks []schema.Task, n int) []schema.Task {
	if n > 0 && len(tasks) > n {
		return tasks[:n]
	}
	return tasks
}

func filter(tasks []schema.Task, completed bool) []schema.Task {
	out := make([]schema.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t.Clone())
		}
	}
	return out
}
