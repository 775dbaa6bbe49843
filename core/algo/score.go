// Package algo holds the pure scoring and ranking functions of mades.
package algo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/huangsam/mades/schema"
)

// Score computes the MADE priority score:
//
//	((Wm*M + Wa*A) * D) - E
//
// rounded to two decimals. Inputs are not range-checked.
func Score(m, a, d, e float64, w schema.Weights) float64 {
	weighted := (w.M * m) + (w.A * a)
	total := (weighted * d) - e
	return Round2(total)
}

// ScoreTask computes the score for a task's stored dimension values.
func ScoreTask(t schema.Task, w schema.Weights) float64 {
	return Score(t.M, t.A, t.D, t.E, w)
}

// ScoreFields computes the score for a set of editable task fields.
func ScoreFields(f schema.TaskFields, w schema.Weights) float64 {
	return Score(f.M, f.A, f.D, f.E, w)
}

// Round2 rounds half away from zero at two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatScore renders a score with exactly one decimal place.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// FormulaString renders the formula with the live weights substituted.
func FormulaString(w schema.Weights) string {
	return fmt.Sprintf("Score = ((%s·M + %s·A) × D − E)", formatWeight(w.M), formatWeight(w.A))
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
