package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/mades/schema"
)

// Priority label constants.
const (
	CriticalValue = "Critical" // Critical priority
	HighValue     = "High"     // High priority
	ModerateValue = "Moderate" // Moderate priority
	LowValue      = "Low"      // Low priority
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
	WarnColor     = color.New(color.FgYellow, color.Bold)  // WarnColor marks out-of-range values.
	MutedColor    = color.New(color.FgHiBlack)             // MutedColor marks completing and completed rows.
)

// DimensionColors matches each dimension to its accent color.
var DimensionColors = map[schema.Dimension]*color.Color{
	schema.Money:    color.New(color.FgGreen),
	schema.Asset:    color.New(color.FgMagenta),
	schema.Deadline: color.New(color.FgRed),
	schema.Effort:   color.New(color.FgYellow),
}

// StatusColors matches each sync state to its color.
var StatusColors = map[schema.SyncStatus]*color.Color{
	schema.StatusIdle:    color.New(color.FgHiBlack),
	schema.StatusLoading: color.New(color.FgCyan),
	schema.StatusSaving:  color.New(color.FgCyan),
	schema.StatusSynced:  color.New(color.FgGreen),
	schema.StatusError:   color.New(color.FgRed, color.Bold),
	schema.StatusOffline: color.New(color.FgHiBlack),
}

// GetPlainLabel returns a plain text label indicating the priority level
// based on the task's score. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 25:
		return CriticalValue
	case score >= 15:
		return HighValue
	case score >= 5:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// ColorStatus renders a sync state with its color.
func ColorStatus(status schema.SyncStatus) string {
	if c, ok := StatusColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDataDir returns the default directory for local snapshots.
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mades"
	}
	return filepath.Join(homeDir, ".mades")
}

// GetRemoteDBFilePath returns the path to the SQLite DB file used as the remote store.
func GetRemoteDBFilePath(dataDir string) string {
	return filepath.Join(dataDir, "mades_sync.db")
}

// TruncateTitle truncates a title to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
func TruncateTitle(title string, maxWidth int) string {
	runes := []rune(title)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return title
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
