package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// BuildScorePreview scores fields against settings and describes each value
// with its matching criteria entry.
func BuildScorePreview(fields schema.TaskFields, settings schema.Settings) schema.ScorePreview {
	score := algo.ScoreFields(fields, settings.Weights)
	preview := schema.ScorePreview{
		Score:   score,
		Label:   contract.GetPlainLabel(score),
		Formula: algo.FormulaString(settings.Weights),
	}
	values := schema.DimensionValues{M: fields.M, A: fields.A, D: fields.D, E: fields.E}
	for _, d := range schema.AllDimensions {
		v := values.Get(d)
		label, desc := core.Describe(v, settings.Criteria.Entries(d))
		preview.Dimensions = append(preview.Dimensions, schema.DimensionPreview{
			Dimension:   d,
			Name:        d.Name(),
			Value:       v,
			Label:       label,
			Description: desc,
			OutOfRange:  core.IsOutOfRange(v, settings.Ranges.Values(d)),
			Position:    core.PercentageWithinRange(v, settings.Ranges.Values(d)),
		})
	}
	return preview
}

// PrintScorePreview outputs a score preview.
func PrintScorePreview(preview schema.ScorePreview, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, preview)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, preview)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreText(w, preview)
		}, "Wrote text")
	}
}

func writeScoreText(w io.Writer, preview schema.ScorePreview) error {
	table := newTable(w, "Dimension", "Value", "Position", "Label", "Description")
	var data [][]string
	for _, d := range preview.Dimensions {
		name := d.Name
		if c, ok := contract.DimensionColors[d.Dimension]; ok {
			name = c.Sprint(name)
		}
		value := fmtValue(d.Value)
		if d.OutOfRange {
			value = contract.WarnColor.Sprintf("%s ⚠", value)
		}
		data = append(data, []string{name, value, fmtPercent(d.Position), d.Label, d.Description})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Score: %s [%s]\n", algo.FormatScore(preview.Score), contract.GetColorLabel(preview.Score)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, preview.Formula)
	return err
}

func writeScoreCSV(w io.Writer, preview schema.ScorePreview) error {
	header := []string{"dimension", "value", "label", "description", "out_of_range", "score", "position"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		score := strconv.FormatFloat(preview.Score, 'f', 2, 64)
		for _, d := range preview.Dimensions {
			rec := []string{d.Name, fmtValue(d.Value), d.Label, d.Description, strconv.FormatBool(d.OutOfRange), score, fmtValue(algo.Round2(d.Position))}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
