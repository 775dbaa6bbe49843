package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/huangsam/mades/schema"
)

// IsOutOfRange reports whether value is not within ValidTolerance of any valid value.
func IsOutOfRange(value float64, valid []float64) bool {
	for _, v := range valid {
		if math.Abs(v-value) < ValidTolerance {
			return false
		}
	}
	return true
}

// ValidationErrors lists the dimensions whose stored value is not in the
// configured valid set, formatted like "Money (7)". An empty result means the
// task is fully valid. The task is never modified.
func ValidationErrors(task schema.Task, settings schema.Settings) []string {
	var errs []string
	for _, d := range schema.AllDimensions {
		v := task.Value(d)
		if IsOutOfRange(v, settings.Ranges.Values(d)) {
			errs = append(errs, fmt.Sprintf("%s (%s)", d.Name(), strconv.FormatFloat(v, 'g', -1, 64)))
		}
	}
	return errs
}

// PercentageWithinRange maps value onto 0-100 using the min and max of valid.
// It is a display proportion only and says nothing about validity.
func PercentageWithinRange(value float64, valid []float64) float64 {
	if len(valid) == 0 {
		return 0
	}
	lo, hi := valid[0], valid[0]
	for _, v := range valid[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return 0
	}
	pct := (value - lo) / (hi - lo) * 100
	return math.Min(100, math.Max(0, pct))
}
