// Package parquet exports tasks and criteria tables to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/schema"
	"github.com/parquet-go/parquet-go"
)

// TaskRecord is one task as stored in a Parquet export.
type TaskRecord struct {
	// TaskID is the unique identifier of the task
	TaskID string `parquet:"task_id,snappy"`

	// Title is the task title
	Title string `parquet:"title,snappy"`

	// Description is the optional free text (nullable)
	Description *string `parquet:"description,optional,snappy"`

	// Money, Asset, Deadline and Effort are the dimension values
	Money    float64 `parquet:"money,snappy"`
	Asset    float64 `parquet:"asset,snappy"`
	Deadline float64 `parquet:"deadline,snappy"`
	Effort   float64 `parquet:"effort,snappy"`

	// Score is the computed priority score
	Score float64 `parquet:"score,snappy"`

	// ScoreLabel is the priority bucket of the score
	ScoreLabel string `parquet:"score_label,snappy"`

	// Completed reports whether the task is in history
	Completed bool `parquet:"completed,snappy"`

	// CreatedAt is when the task was created (stored as TIMESTAMP)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// CompletedAt is when the task was completed (nullable)
	CompletedAt *time.Time `parquet:"completed_at,optional,snappy"`

	// OutOfRange lists dimensions whose values are no longer valid, e.g. "Money (7)" (nullable)
	OutOfRange *string `parquet:"out_of_range,optional,snappy"`
}

// CriteriaRecord is one criteria table row as stored in a Parquet export.
type CriteriaRecord struct {
	Dimension   string  `parquet:"dimension,snappy"`
	Position    int32   `parquet:"position,snappy"`
	Range       string  `parquet:"range,snappy"`
	Label       string  `parquet:"label,snappy"`
	Description *string `parquet:"description,optional,snappy"`
	Weight      float64 `parquet:"weight,snappy"`
}

// ConvertTasks converts tasks to Parquet records, validating each against settings.
func ConvertTasks(tasks []schema.Task, settings schema.Settings, label func(float64) string) []TaskRecord {
	result := make([]TaskRecord, len(tasks))
	for i, t := range tasks {
		rec := TaskRecord{
			TaskID:     t.ID,
			Title:      t.Title,
			Money:      t.M,
			Asset:      t.A,
			Deadline:   t.D,
			Effort:     t.E,
			Score:      t.Score,
			ScoreLabel: label(t.Score),
			Completed:  t.Completed,
			CreatedAt:  schema.MillisToTime(t.CreatedAt).UTC(),
		}
		if t.Description != "" {
			desc := t.Description
			rec.Description = &desc
		}
		if t.CompletedAt != nil {
			done := schema.MillisToTime(*t.CompletedAt).UTC()
			rec.CompletedAt = &done
		}
		if errs := core.ValidationErrors(t, settings); len(errs) > 0 {
			joined := strings.Join(errs, ", ")
			rec.OutOfRange = &joined
		}
		result[i] = rec
	}
	return result
}

// ConvertCriteria flattens the criteria tables in dimension order.
// Deadline and Effort rows carry a weight of 1.
func ConvertCriteria(settings schema.Settings) []CriteriaRecord {
	var result []CriteriaRecord
	for _, d := range schema.AllDimensions {
		weight := 1.0
		switch d {
		case schema.Money:
			weight = settings.Weights.M
		case schema.Asset:
			weight = settings.Weights.A
		}
		for i, entry := range settings.Criteria.Entries(d) {
			rec := CriteriaRecord{
				Dimension: d.Name(),
				Position:  int32(i),
				Range:     entry.Range,
				Label:     entry.Label,
				Weight:    weight,
			}
			if entry.Description != "" {
				desc := entry.Description
				rec.Description = &desc
			}
			result = append(result, rec)
		}
	}
	return result
}

// WriteTasksParquet writes task records to a Parquet file.
func WriteTasksParquet(data []TaskRecord, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return writeRows(w, data)
	})
}

// WriteCriteriaParquet writes criteria records to a Parquet file.
func WriteCriteriaParquet(data []CriteriaRecord, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return writeRows(w, data)
	})
}

// writeRows streams rows through a schema-inferring writer.
// The schema is derived from the struct tags of T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func writeFile(outputPath string, write func(io.Writer) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
