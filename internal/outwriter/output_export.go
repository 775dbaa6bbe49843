package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/parquet"
	"github.com/huangsam/mades/schema"
)

// PrintExport writes every task and the settings.
// JSON output is the snapshot format used for persistence; text output falls back to it.
// Parquet output writes the tasks file plus a sibling "<name>_criteria" file.
func PrintExport(snap schema.Snapshot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExportCSV(w, snap.Tasks)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := writeTasksParquet(snap.Tasks, snap.Config, cfg.OutputFile); err != nil {
			return err
		}
		criteriaFile := CriteriaParquetPath(cfg.OutputFile)
		if err := parquet.WriteCriteriaParquet(parquet.ConvertCriteria(snap.Config), criteriaFile); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote criteria to %s\n", criteriaFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if snap.Tasks == nil {
				snap.Tasks = []schema.Task{}
			}
			return writeJSON(w, snap)
		}, "Wrote JSON")
	}
}

// CriteriaParquetPath derives the criteria file name from the tasks file name.
func CriteriaParquetPath(tasksFile string) string {
	ext := filepath.Ext(tasksFile)
	return strings.TrimSuffix(tasksFile, ext) + "_criteria" + ext
}

func writeExportCSV(w io.Writer, tasks []schema.Task) error {
	header := []string{"id", "title", "description", "m", "a", "d", "e", "score", "label", "completed", "created_at", "completed_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range tasks {
			completedAt := ""
			if t.CompletedAt != nil {
				completedAt = fmtMillis(*t.CompletedAt)
			}
			rec := []string{
				t.ID,
				t.Title,
				t.Description,
				fmtValue(t.M),
				fmtValue(t.A),
				fmtValue(t.D),
				fmtValue(t.E),
				strconv.FormatFloat(t.Score, 'f', 2, 64),
				contract.GetPlainLabel(t.Score),
				strconv.FormatBool(t.Completed),
				fmtMillis(t.CreatedAt),
				completedAt,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintTask shows one task with a per-dimension breakdown.
func PrintTask(task schema.Task, settings schema.Settings, cfg *contract.Config) error {
	preview := BuildScorePreview(task.Fields(), settings)
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				schema.Task
				Label      string                    `json:"label"`
				OutOfRange []string                  `json:"out_of_range,omitempty"`
				Dimensions []schema.DimensionPreview `json:"dimensions"`
			}{task, contract.GetPlainLabel(task.Score), core.ValidationErrors(task, settings), preview.Dimensions})
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		status := "queued"
		if task.Completed {
			status = "completed " + fmtMillis(task.HistoryTime())
		}
		lines := []string{
			fmt.Sprintf("%s  %s", contract.MutedColor.Sprint(task.ID), task.Title),
			fmt.Sprintf("Score: %s [%s]  Status: %s", algo.FormatScore(task.Score), contract.GetColorLabel(task.Score), status),
		}
		if task.Description != "" {
			lines = append(lines, task.Description)
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return writeScoreText(w, preview)
	}, "Wrote text")
}
