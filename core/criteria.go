package core

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/mades/schema"
)

// Tolerances used when matching values against criteria and valid values.
const (
	DescribeTolerance = 0.05
	ValidTolerance    = 0.01
)

// firstNumberRe finds the first number-looking token in a range expression.
var firstNumberRe = regexp.MustCompile(`[\d.]+`)

// ParseRange parses a criteria range expression.
// "7" yields (7, 7, false, true); "1.1-1.2" and "9~10" yield inclusive ranges.
// Anything else, including an empty string, is reported with ok=false.
func ParseRange(expr string) (lo, hi float64, isRange bool, ok bool) {
	parts := strings.FieldsFunc(expr, func(r rune) bool { return r == '-' || r == '~' })
	if strings.ContainsAny(expr, "-~") && len(parts) != 2 {
		return 0, 0, false, false
	}
	switch len(parts) {
	case 1:
		v, err := parseNumber(parts[0])
		if err != nil {
			return 0, 0, false, false
		}
		return v, v, false, true
	case 2:
		a, errA := parseNumber(parts[0])
		b, errB := parseNumber(parts[1])
		if errA != nil || errB != nil {
			return 0, 0, false, false
		}
		return a, b, true, true
	default:
		return 0, 0, false, false
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// ExtractValidValues returns the selectable values of a criteria table.
// Single values are taken verbatim; ranges contribute only their two endpoints.
// The result is sorted ascending without duplicates.
func ExtractValidValues(entries []schema.CriteriaEntry) []float64 {
	values := make([]float64, 0, len(entries)*2)
	for _, e := range entries {
		lo, hi, isRange, ok := ParseRange(e.Range)
		if !ok {
			continue
		}
		values = append(values, lo)
		if isRange {
			values = append(values, hi)
		}
	}
	sort.Float64s(values)
	return slices.CompactFunc(values, func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	})
}

// matches reports whether value falls inside the entry's range expression.
func matches(value float64, entry schema.CriteriaEntry) bool {
	lo, hi, isRange, ok := ParseRange(entry.Range)
	if !ok {
		return false
	}
	if isRange {
		return value >= lo && value <= hi
	}
	return math.Abs(value-lo) < DescribeTolerance
}

// FindEntry returns the first entry, in list order, that matches value.
func FindEntry(value float64, entries []schema.CriteriaEntry) (schema.CriteriaEntry, bool) {
	for _, e := range entries {
		if matches(value, e) {
			return e, true
		}
	}
	return schema.CriteriaEntry{}, false
}

// Describe returns the label and description of the first matching entry.
// Both are empty when nothing matches.
func Describe(value float64, entries []schema.CriteriaEntry) (label, description string) {
	e, ok := FindEntry(value, entries)
	if !ok {
		return "", ""
	}
	return e.Label, e.Description
}

// Label returns the label of the first matching entry.
func Label(value float64, entries []schema.CriteriaEntry) string {
	label, _ := Describe(value, entries)
	return label
}

// Description returns the description of the first matching entry.
func Description(value float64, entries []schema.CriteriaEntry) string {
	_, desc := Describe(value, entries)
	return desc
}

// SliderStops returns the values a slider may land on.
// An empty set falls back to the integers 1 through 10.
func SliderStops(valid []float64) []float64 {
	if len(valid) > 0 {
		return slices.Clone(valid)
	}
	stops := make([]float64, 10)
	for i := range stops {
		stops[i] = float64(i + 1)
	}
	return stops
}

// NearestValue snaps value to the closest member of valid.
// Ties resolve to the smaller member. An empty set returns value unchanged.
func NearestValue(value float64, valid []float64) float64 {
	if len(valid) == 0 {
		return value
	}
	best := valid[0]
	for _, v := range valid[1:] {
		if math.Abs(v-value) < math.Abs(best-value) {
			best = v
		}
	}
	return best
}

// FirstNumber returns the first number found in a range expression, or 0.
func FirstNumber(expr string) float64 {
	m := firstNumberRe.FindString(expr)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// SortEntriesDesc orders entries by their first number, highest first.
// Entries with equal keys keep their relative order.
func SortEntriesDesc(entries []schema.CriteriaEntry) []schema.CriteriaEntry {
	sorted := slices.Clone(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return FirstNumber(sorted[i].Range) > FirstNumber(sorted[j].Range)
	})
	return sorted
}

// RecomputeRanges derives the valid values of every dimension from its criteria.
func RecomputeRanges(s *schema.Settings) {
	for _, d := range schema.AllDimensions {
		s.Ranges.SetValues(d, ExtractValidValues(s.Criteria.Entries(d)))
	}
}
