package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// Roles of each dimension in the score formula.
const (
	roleWeighted   = "weighted"
	roleMultiplier = "multiplier"
	roleSubtractor = "subtractor"
)

// BuildCriteriaGuide constructs the criteria guide from the live settings.
func BuildCriteriaGuide(settings schema.Settings) schema.CriteriaGuide {
	guide := schema.CriteriaGuide{
		Formula: algo.FormulaString(settings.Weights),
		Weights: settings.Weights,
	}
	for _, d := range schema.AllDimensions {
		section := schema.CriteriaSection{
			Dimension:    d,
			Weight:       1,
			DefaultValue: settings.DefaultValues.Get(d),
			ValidValues:  settings.Ranges.Values(d),
			SliderStops:  core.SliderStops(settings.Ranges.Values(d)),
			DefaultAt:    core.PercentageWithinRange(settings.DefaultValues.Get(d), settings.Ranges.Values(d)),
			Entries:      settings.Criteria.Entries(d),
		}
		switch d {
		case schema.Money:
			section.Weight, section.Role = settings.Weights.M, roleWeighted
			section.Title = fmt.Sprintf("%s (x%s)", d.Name(), fmtValue(settings.Weights.M))
		case schema.Asset:
			section.Weight, section.Role = settings.Weights.A, roleWeighted
			section.Title = fmt.Sprintf("%s (x%s)", d.Name(), fmtValue(settings.Weights.A))
		case schema.Deadline:
			section.Role = roleMultiplier
			section.Title = d.Name() + " (Multiplier)"
		case schema.Effort:
			section.Role = roleSubtractor
			section.Title = d.Name() + " (Subtractor)"
		}
		if section.Entries == nil {
			section.Entries = []schema.CriteriaEntry{}
		}
		if section.ValidValues == nil {
			section.ValidValues = []float64{}
		}
		guide.Sections = append(guide.Sections, section)
	}
	return guide
}

// PrintCriteriaGuide displays the criteria tables with weight annotations.
func PrintCriteriaGuide(guide schema.CriteriaGuide, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, guide)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCriteriaCSV(w, guide)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCriteriaText(w, guide)
		}, "Wrote text")
	}
}

// writeCriteriaText prints one table per dimension followed by the formula.
func writeCriteriaText(w io.Writer, guide schema.CriteriaGuide) error {
	if _, err := fmt.Fprintf(w, "📋 MADE Criteria Guide\n======================\n\n"); err != nil {
		return err
	}

	for _, section := range guide.Sections {
		title := section.Title
		if c, ok := contract.DimensionColors[section.Dimension]; ok {
			title = c.Sprint(title)
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}

		if len(section.Entries) == 0 {
			if _, err := fmt.Fprintln(w, "   (no criteria)"); err != nil {
				return err
			}
		} else {
			table := newTable(w, "#", "Range", "Label", "Description")
			var data [][]string
			for i, e := range section.Entries {
				data = append(data, []string{strconv.Itoa(i), e.Range, e.Label, e.Description})
			}
			if err := renderTable(table, data); err != nil {
				return err
			}
		}

		if len(section.ValidValues) == 0 {
			if _, err := fmt.Fprintf(w, "   Slider stops: %s (default %s)\n\n", joinValues(section.SliderStops), fmtValue(section.DefaultValue)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "   Valid values: %s (default %s)\n   Default position: %s\n\n",
			joinValues(section.ValidValues), fmtValue(section.DefaultValue), fmtPercent(section.DefaultAt)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Formula: %s\n", guide.Formula)
	return err
}

// writeCriteriaCSV writes one row per criteria entry.
func writeCriteriaCSV(w io.Writer, guide schema.CriteriaGuide) error {
	header := []string{"dimension", "position", "range", "label", "description", "weight", "role"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, section := range guide.Sections {
			for i, e := range section.Entries {
				rec := []string{
					section.Dimension.Name(),
					strconv.Itoa(i),
					e.Range,
					e.Label,
					e.Description,
					fmtValue(section.Weight),
					section.Role,
				}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

func joinValues(values []float64) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmtValue(v)
	}
	return strings.Join(out, ", ")
}
