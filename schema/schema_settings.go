package schema

import "slices"

// CriteriaEntry maps a value or an inclusive "lo-hi" range to a label.
type CriteriaEntry struct {
	Range       string `json:"range"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Weights holds the multipliers for the Money and Asset dimensions.
type Weights struct {
	M float64 `json:"m"`
	A float64 `json:"a"`
}

// Criteria holds the ordered criteria tables for each dimension.
type Criteria struct {
	M []CriteriaEntry `json:"m"`
	A []CriteriaEntry `json:"a"`
	D []CriteriaEntry `json:"d"`
	E []CriteriaEntry `json:"e"`
}

// RangeConfig is the set of selectable values derived from a criteria table.
type RangeConfig struct {
	Values []float64 `json:"values"`
}

// Ranges holds the derived valid values for each dimension.
type Ranges struct {
	M RangeConfig `json:"m"`
	A RangeConfig `json:"a"`
	D RangeConfig `json:"d"`
	E RangeConfig `json:"e"`
}

// DimensionValues holds one number per dimension, e.g. default slider positions.
type DimensionValues struct {
	M float64 `json:"m"`
	A float64 `json:"a"`
	D float64 `json:"d"`
	E float64 `json:"e"`
}

// Settings is the user-editable scoring configuration.
type Settings struct {
	Weights       Weights         `json:"weights"`
	Criteria      Criteria        `json:"criteria"`
	Ranges        Ranges          `json:"ranges"`
	DefaultValues DimensionValues `json:"defaultValues"`
}

// Entries returns the criteria table of a dimension.
func (c Criteria) Entries(d Dimension) []CriteriaEntry {
	switch d {
	case Money:
		return c.M
	case Asset:
		return c.A
	case Deadline:
		return c.D
	default:
		return c.E
	}
}

// SetEntries replaces the criteria table of a dimension.
func (c *Criteria) SetEntries(d Dimension, entries []CriteriaEntry) {
	switch d {
	case Money:
		c.M = entries
	case Asset:
		c.A = entries
	case Deadline:
		c.D = entries
	default:
		c.E = entries
	}
}

// Clone returns a deep copy of the criteria tables.
func (c Criteria) Clone() Criteria {
	return Criteria{
		M: slices.Clone(c.M),
		A: slices.Clone(c.A),
		D: slices.Clone(c.D),
		E: slices.Clone(c.E),
	}
}

// Values returns the valid values of a dimension.
func (r Ranges) Values(d Dimension) []float64 {
	switch d {
	case Money:
		return r.M.Values
	case Asset:
		return r.A.Values
	case Deadline:
		return r.D.Values
	default:
		return r.E.Values
	}
}

// SetValues replaces the valid values of a dimension.
func (r *Ranges) SetValues(d Dimension, values []float64) {
	switch d {
	case Money:
		r.M.Values = values
	case Asset:
		r.A.Values = values
	case Deadline:
		r.D.Values = values
	default:
		r.E.Values = values
	}
}

// Clone returns a deep copy of the ranges.
func (r Ranges) Clone() Ranges {
	return Ranges{
		M: RangeConfig{Values: slices.Clone(r.M.Values)},
		A: RangeConfig{Values: slices.Clone(r.A.Values)},
		D: RangeConfig{Values: slices.Clone(r.D.Values)},
		E: RangeConfig{Values: slices.Clone(r.E.Values)},
	}
}

// Get returns the value stored for a dimension.
func (v DimensionValues) Get(d Dimension) float64 {
	switch d {
	case Money:
		return v.M
	case Asset:
		return v.A
	case Deadline:
		return v.D
	default:
		return v.E
	}
}

// Set stores the value for a dimension.
func (v *DimensionValues) Set(d Dimension, val float64) {
	switch d {
	case Money:
		v.M = val
	case Asset:
		v.A = val
	case Deadline:
		v.D = val
	default:
		v.E = val
	}
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	return Settings{
		Weights:       s.Weights,
		Criteria:      s.Criteria.Clone(),
		Ranges:        s.Ranges.Clone(),
		DefaultValues: s.DefaultValues,
	}
}
