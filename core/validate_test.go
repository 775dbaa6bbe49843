package core

import (
	"testing"

	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrors(t *testing.T) {
	settings := DefaultSettings()

	tests := []struct {
		name     string
		task     schema.Task
		expected []string
	}{
		{
			name: "all values valid",
			task: schema.Task{M: 7, A: 4, D: 1.5, E: 3},
		},
		{
			name: "value within tolerance",
			task: schema.Task{M: 7.005, A: 4, D: 1.5, E: 3},
		},
		{
			name:     "money between steps",
			task:     schema.Task{M: 7.5, A: 4, D: 1.5, E: 3},
			expected: []string{"Money (7.5)"},
		},
		{
			name:     "every dimension invalid",
			task:     schema.Task{M: 11, A: 0, D: 1.55, E: 6},
			expected: []string{"Money (11)", "Asset (0)", "Deadline (1.55)", "Effort (6)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidationErrors(tt.task, settings)
			if len(tt.expected) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.expected, errs)
		})
	}
}

func TestValidationFollowsCriteriaEdits(t *testing.T) {
	st := NewSettingsStore(DefaultSettings())
	task := schema.Task{M: 7, A: 4, D: 1.5, E: 3}
	assert.Empty(t, ValidationErrors(task, st.Settings()))

	// Dropping the "7" row makes the stored value invalid without touching the task.
	index := -1
	for i, e := range st.Settings().Criteria.M {
		if e.Range == "7" {
			index = i
		}
	}
	assert.NoError(t, st.RemoveCriteriaRow(schema.Money, index))
	assert.Equal(t, []string{"Money (7)"}, ValidationErrors(task, st.Settings()))
	assert.InDelta(t, 7.0, task.M, 1e-9)
}

func TestPercentageWithinRange(t *testing.T) {
	oneToTen := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name     string
		value    float64
		valid    []float64
		expected float64
	}{
		{name: "midpoint", value: 5.5, valid: oneToTen, expected: 50},
		{name: "minimum", value: 1, valid: oneToTen, expected: 0},
		{name: "maximum", value: 10, valid: oneToTen, expected: 100},
		{name: "clamped low", value: -3, valid: oneToTen, expected: 0},
		{name: "clamped high", value: 30, valid: oneToTen, expected: 100},
		{name: "empty set", value: 5, valid: nil, expected: 0},
		{name: "single value", value: 5, valid: []float64{5}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentageWithinRange(tt.value, tt.valid), 1e-9)
		})
	}
}
