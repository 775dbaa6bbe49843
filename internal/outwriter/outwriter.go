// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteQueue prints the open tasks in rank order.
func (ow *OutWriter) WriteQueue(queue []schema.Task, settings schema.Settings, completing func(string) bool, cfg *contract.Config) error {
	return PrintQueue(BuildQueueRows(queue, settings, completing), settings, cfg)
}

// WriteHistory prints completed tasks grouped by local calendar day.
func (ow *OutWriter) WriteHistory(groups []schema.HistoryGroup, settings schema.Settings, cfg *contract.Config) error {
	return PrintHistory(groups, settings, cfg)
}

// WriteCriteria prints the criteria guide.
func (ow *OutWriter) WriteCriteria(settings schema.Settings, cfg *contract.Config) error {
	return PrintCriteriaGuide(BuildCriteriaGuide(settings), cfg)
}

// WriteScorePreview prints the score and criteria matches for unsaved fields.
func (ow *OutWriter) WriteScorePreview(fields schema.TaskFields, settings schema.Settings, cfg *contract.Config) error {
	return PrintScorePreview(BuildScorePreview(fields, settings), cfg)
}

// WriteTask prints a single task.
func (ow *OutWriter) WriteTask(task schema.Task, settings schema.Settings, cfg *contract.Config) error {
	return PrintTask(task, settings, cfg)
}

// WriteExport prints all tasks and settings.
func (ow *OutWriter) WriteExport(snap schema.Snapshot, cfg *contract.Config) error {
	return PrintExport(snap, cfg)
}

// WriteSyncReport prints the sync state.
func (ow *OutWriter) WriteSyncReport(report schema.SyncReport, cfg *contract.Config) error {
	return PrintSyncReport(report, cfg)
}
