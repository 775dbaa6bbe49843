package core

import (
	"time"

	"github.com/huangsam/mades/schema"
)

// localDay truncates t to midnight in its own location.
func localDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween counts local calendar days from a to b.
// Using dates instead of elapsed hours keeps 23:00 and 01:00 the next day apart.
func calendarDaysBetween(a, b time.Time) int {
	da, db := localDay(a), localDay(b.In(a.Location()))
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// RelativeDateLabel returns "Today", "Yesterday", a weekday name within the
// last week, or a full date such as "Jan 2, 2006".
func RelativeDateLabel(ts, now time.Time) string {
	ts = ts.In(now.Location())
	switch diff := calendarDaysBetween(ts, now); {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff > 1 && diff < 7:
		return ts.Weekday().String()
	default:
		return ts.Format("Jan 2, 2006")
	}
}

// GroupHistory groups an already sorted history by local calendar day.
// Each distinct day yields exactly one group.
func GroupHistory(history []schema.Task, now time.Time) []schema.HistoryGroup {
	var groups []schema.HistoryGroup
	for _, t := range history {
		ts := schema.MillisToTime(t.HistoryTime()).In(now.Location())
		day := localDay(ts)
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Tasks = append(groups[n-1].Tasks, t)
			continue
		}
		groups = append(groups, schema.HistoryGroup{
			Label: RelativeDateLabel(ts, now),
			Day:   day,
			Tasks: []schema.Task{t},
		})
	}
	return groups
}
