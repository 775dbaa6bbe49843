package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/parquet"
	"github.com/huangsam/mades/schema"
)

// BuildQueueRows adds rank, label, completion state and validation warnings to the queue.
// A nil completing func treats every task as idle.
func BuildQueueRows(queue []schema.Task, settings schema.Settings, completing func(id string) bool) []schema.QueueRow {
	rows := make([]schema.QueueRow, len(queue))
	for i, t := range queue {
		rows[i] = schema.QueueRow{
			Rank:       i + 1,
			Label:      contract.GetPlainLabel(t.Score),
			Completing: completing != nil && completing(t.ID),
			OutOfRange: core.ValidationErrors(t, settings),
			Task:       t,
		}
	}
	return rows
}

// PrintQueue outputs the queue, dispatching based on the output format configured.
func PrintQueue(rows []schema.QueueRow, settings schema.Settings, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQueueCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		tasks := make([]schema.Task, len(rows))
		for i, r := range rows {
			tasks[i] = r.Task
		}
		return writeTasksParquet(tasks, settings, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQueueTable(w, rows, settings, cfg)
		}, "Wrote table")
	}
}

// writeQueueTable generates and writes the human-readable queue table.
func writeQueueTable(w io.Writer, rows []schema.QueueRow, settings schema.Settings, cfg *contract.Config) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "🎉 Queue is empty. Add a task with `mades add`.")
		return err
	}

	table := newTable(w, "Rank", "Title", "Score", "Priority", "M", "A", "D", "E", "Flags")
	maxTitle := GetMaxTableTitleWidth(cfg)
	pending := 0

	var data [][]string
	for _, r := range rows {
		title := contract.TruncateTitle(r.Title, maxTitle)
		var flags []string
		if r.Completing {
			pending++
			title = contract.MutedColor.Sprint(title)
			flags = append(flags, contract.MutedColor.Sprint("completing"))
		}
		if len(r.OutOfRange) > 0 {
			flags = append(flags, contract.WarnColor.Sprintf("⚠ %s", strings.Join(r.OutOfRange, ", ")))
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			title,
			algo.FormatScore(r.Score),
			contract.GetColorLabel(r.Score),
			fmtValue(r.M),
			fmtValue(r.A),
			fmtValue(r.D),
			fmtValue(r.E),
			strings.Join(flags, " "),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d tasks in queue (pending completion: %d)\n", len(rows), pending); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, algo.FormulaString(settings.Weights))
	return err
}

// writeQueueCSV writes the queue in CSV format.
func writeQueueCSV(w io.Writer, rows []schema.QueueRow) error {
	header := []string{"rank", "id", "title", "description", "m", "a", "d", "e", "score", "label", "created_at", "out_of_range"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.ID,
				r.Title,
				r.Description,
				fmtValue(r.M),
				fmtValue(r.A),
				fmtValue(r.D),
				fmtValue(r.E),
				strconv.FormatFloat(r.Score, 'f', 2, 64),
				r.Label,
				fmtMillis(r.CreatedAt),
				strings.Join(r.OutOfRange, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTasksParquet exports tasks to the given Parquet file.
func writeTasksParquet(tasks []schema.Task, settings schema.Settings, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	records := parquet.ConvertTasks(tasks, settings, contract.GetPlainLabel)
	if err := parquet.WriteTasksParquet(records, outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d tasks to %s\n", len(records), outputFile)
	return nil
}
