package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// PrintHistory outputs completed tasks grouped by day.
func PrintHistory(groups []schema.HistoryGroup, settings schema.Settings, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if groups == nil {
				groups = []schema.HistoryGroup{}
			}
			return writeJSON(w, groups)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, groups)
		}, "Wrote CSV")
	case schema.ParquetOut:
		var tasks []schema.Task
		for _, g := range groups {
			tasks = append(tasks, g.Tasks...)
		}
		return writeTasksParquet(tasks, settings, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, groups, cfg)
		}, "Wrote table")
	}
}

// writeHistoryTable prints one table where the day label heads each group.
func writeHistoryTable(w io.Writer, groups []schema.HistoryGroup, cfg *contract.Config) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No completed tasks yet.")
		return err
	}

	table := newTable(w, "Day", "Title", "Score", "Priority", "Completed")
	maxTitle := GetMaxTableTitleWidth(cfg)
	total := 0

	var data [][]string
	for _, g := range groups {
		for i, t := range g.Tasks {
			day := ""
			if i == 0 {
				day = g.Label
			}
			data = append(data, []string{
				day,
				contract.TruncateTitle(t.Title, maxTitle),
				algo.FormatScore(t.Score),
				contract.GetColorLabel(t.Score),
				schema.MillisToTime(t.HistoryTime()).Format("15:04"),
			})
			total++
		}
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d completed tasks over %d days\n", total, len(groups))
	return err
}

// writeHistoryCSV writes the history in CSV format, one row per task.
func writeHistoryCSV(w io.Writer, groups []schema.HistoryGroup) error {
	header := []string{"day", "id", "title", "score", "label", "completed_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range groups {
			for _, t := range g.Tasks {
				rec := []string{
					g.Label,
					t.ID,
					t.Title,
					strconv.FormatFloat(t.Score, 'f', 2, 64),
					contract.GetPlainLabel(t.Score),
					fmtMillis(t.HistoryTime()),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
