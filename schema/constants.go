package schema

import "strings"

// Custom string types for type safety.
type (
	// Dimension identifies one of the four MADE scoring dimensions.
	Dimension string

	// OutputMode represents the format of the output.
	OutputMode string

	// SortOption represents the ordering used for the queue view.
	SortOption string

	// SyncStatus represents the state of the remote sync coordinator.
	SyncStatus string

	// DatabaseBackend represents the database backend for remote sync.
	DatabaseBackend string
)

// The four MADE dimensions.
const (
	Money    Dimension = "m"
	Asset    Dimension = "a"
	Deadline Dimension = "d"
	Effort   Dimension = "e"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All queue orderings supported.
const (
	SortByScore   SortOption = "score" // default
	SortByCreated SortOption = "created"
)

// All sync states.
const (
	StatusIdle    SyncStatus = "idle"
	StatusLoading SyncStatus = "loading"
	StatusSaving  SyncStatus = "saving"
	StatusSynced  SyncStatus = "synced"
	StatusError   SyncStatus = "error"
	StatusOffline SyncStatus = "offline"
)

// All remote backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// AllDimensions lists the dimensions in display order.
var AllDimensions = []Dimension{Money, Asset, Deadline, Effort}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSortOptions lists all valid queue orderings.
var ValidSortOptions = map[SortOption]struct{}{
	SortByScore:   {},
	SortByCreated: {},
}

// ValidDatabaseBackends lists all valid remote backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Name returns the human-readable name of the dimension.
func (d Dimension) Name() string {
	switch d {
	case Money:
		return "Money"
	case Asset:
		return "Asset"
	case Deadline:
		return "Deadline"
	case Effort:
		return "Effort"
	default:
		return string(d)
	}
}

// Valid reports whether d is one of the four MADE dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case Money, Asset, Deadline, Effort:
		return true
	}
	return false
}

// ParseDimension accepts a short key ("m") or a name ("money"), case-insensitive.
func ParseDimension(s string) (Dimension, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "money":
		return Money, true
	case "a", "asset":
		return Asset, true
	case "d", "deadline":
		return Deadline, true
	case "e", "effort":
		return Effort, true
	}
	return "", false
}
