package core

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/huangsam/mades/schema"
	"github.com/tailscale/hujson"
)

// Criteria row fields accepted by EditCriteriaRow.
const (
	FieldRange       = "range"
	FieldLabel       = "label"
	FieldDescription = "description"
)

// newRowLabel is the label given to freshly added criteria rows.
const newRowLabel = "New Rule"

// SettingsStore holds the active scoring configuration.
// Every mutation keeps the derived ranges in step with the criteria.
type SettingsStore struct {
	settings schema.Settings
}

// NewSettingsStore returns a store initialized with sanitized settings.
func NewSettingsStore(s schema.Settings) *SettingsStore {
	st := &SettingsStore{}
	st.Save(s)
	return st
}

// Settings returns a deep copy of the active settings.
func (st *SettingsStore) Settings() schema.Settings {
	return st.settings.Clone()
}

// Weights returns the active weights.
func (st *SettingsStore) Weights() schema.Weights {
	return st.settings.Weights
}

// Load replaces the settings with a decoded persisted payload.
// Unreadable payloads fall back to the built-in defaults.
func (st *SettingsStore) Load(raw []byte) schema.Settings {
	st.settings = DecodeSettings(raw)
	return st.Settings()
}

// Save sanitizes s, recomputes every dimension's valid values and makes it active.
func (st *SettingsStore) Save(s schema.Settings) schema.Settings {
	st.settings = SanitizeSettings(s)
	return st.Settings()
}

// ResetToDefaults restores the built-in weights, criteria and default values.
func (st *SettingsStore) ResetToDefaults() schema.Settings {
	st.settings = DefaultSettings()
	return st.Settings()
}

// AddCriteriaRow appends an empty row to a dimension's criteria.
func (st *SettingsStore) AddCriteriaRow(d schema.Dimension) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	entries := slices.Clone(st.settings.Criteria.Entries(d))
	entries = append(entries, schema.CriteriaEntry{Label: newRowLabel})
	st.setEntries(d, entries)
	return nil
}

// RemoveCriteriaRow deletes the row at index from a dimension's criteria.
func (st *SettingsStore) RemoveCriteriaRow(d schema.Dimension, index int) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	entries := st.settings.Criteria.Entries(d)
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d (have %d rows)", ErrRowIndex, index, len(entries))
	}
	st.setEntries(d, slices.Delete(slices.Clone(entries), index, index+1))
	return nil
}

// EditCriteriaRow sets one field of the row at index.
func (st *SettingsStore) EditCriteriaRow(d schema.Dimension, index int, field, value string) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	entries := slices.Clone(st.settings.Criteria.Entries(d))
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d (have %d rows)", ErrRowIndex, index, len(entries))
	}
	switch field {
	case FieldRange:
		entries[index].Range = value
	case FieldLabel:
		entries[index].Label = value
	case FieldDescription:
		entries[index].Description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	st.setEntries(d, entries)
	return nil
}

// AutoSortCriteria orders a dimension's rows by their first number, descending.
func (st *SettingsStore) AutoSortCriteria(d schema.Dimension) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	st.setEntries(d, SortEntriesDesc(st.settings.Criteria.Entries(d)))
	return nil
}

// SetWeight changes the Money or Asset weight.
func (st *SettingsStore) SetWeight(d schema.Dimension, value float64) error {
	if !validWeight(value) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, value)
	}
	switch d {
	case schema.Money:
		st.settings.Weights.M = value
	case schema.Asset:
		st.settings.Weights.A = value
	default:
		return fmt.Errorf("%w: only m and a carry weights, got %q", ErrUnknownDimension, d)
	}
	return nil
}

// SetDefaultValue changes a dimension's starting value, snapped to a valid value.
func (st *SettingsStore) SetDefaultValue(d schema.Dimension, value float64) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	st.settings.DefaultValues.Set(d, NearestValue(value, st.settings.Ranges.Values(d)))
	return nil
}

func (st *SettingsStore) setEntries(d schema.Dimension, entries []schema.CriteriaEntry) {
	st.settings.Criteria.SetEntries(d, entries)
	st.settings.Ranges.SetValues(d, ExtractValidValues(entries))
}

func validWeight(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// SanitizeSettings fixes invalid weights, derives the ranges and snaps the
// default values onto them. Criteria are kept as given, including empty tables.
// Zero is a regular value here; missing fields are filled by DecodeSettings.
func SanitizeSettings(s schema.Settings) schema.Settings {
	out := s.Clone()
	if !validWeight(out.Weights.M) {
		out.Weights.M = DefaultWeights.M
	}
	if !validWeight(out.Weights.A) {
		out.Weights.A = DefaultWeights.A
	}
	RecomputeRanges(&out)
	for _, d := range schema.AllDimensions {
		v := out.DefaultValues.Get(d)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = DefaultDimensionValues.Get(d)
		}
		out.DefaultValues.Set(d, NearestValue(v, out.Ranges.Values(d)))
	}
	return out
}

// DecodeSettings reads a persisted settings payload, merging every recognized
// field with the built-in defaults. JSON with comments or trailing commas is
// accepted. Anything that cannot be read at all yields the defaults.
func DecodeSettings(raw []byte) schema.Settings {
	defaults := DefaultSettings()
	if len(raw) == 0 {
		return defaults
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return defaults
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(standardized, &top); err != nil {
		return defaults
	}

	out := defaults
	if w, ok := decodeObject(top["weights"]); ok {
		out.Weights.M = numberOr(w["m"], defaults.Weights.M)
		out.Weights.A = numberOr(w["a"], defaults.Weights.A)
	}
	if c, ok := decodeObject(top["criteria"]); ok {
		for _, d := range schema.AllDimensions {
			if entries, ok := decodeEntries(c[string(d)]); ok {
				out.Criteria.SetEntries(d, entries)
			}
		}
	}
	if v, ok := decodeObject(top["defaultValues"]); ok {
		for _, d := range schema.AllDimensions {
			out.DefaultValues.Set(d, numberOr(v[string(d)], defaults.DefaultValues.Get(d)))
		}
	}
	return SanitizeSettings(out)
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func numberOr(raw json.RawMessage, fallback float64) float64 {
	var v *float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return fallback
	}
	return *v
}

// decodeEntries reads a criteria list. Non-object items are skipped and
// numeric ranges are converted to their string form.
func decodeEntries(raw json.RawMessage) ([]schema.CriteriaEntry, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	entries := make([]schema.CriteriaEntry, 0, len(items))
	for _, item := range items {
		obj, ok := decodeObject(item)
		if !ok {
			continue
		}
		entries = append(entries, schema.CriteriaEntry{
			Range:       stringOrNumber(obj["range"]),
			Label:       stringOrNumber(obj["label"]),
			Description: stringOrNumber(obj["description"]),
		})
	}
	return entries, true
}

func stringOrNumber(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
