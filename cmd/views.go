package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/schema"
	"github.com/spf13/cobra"
)

// queueCmd lists open tasks.
var queueCmd = &cobra.Command{
	Use:     "queue",
	Aliases: []string{"ls"},
	Short:   "Show open tasks ranked by score.",
	Long: `List incomplete tasks, highest score first. Ties keep insertion order.

Tasks whose values are no longer in the criteria tables are flagged; edit them
or the criteria to clear the warning.

Examples:
  mades queue
  mades queue --sort created --limit 5
  mades queue --output csv --output-file queue.csv`,
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sortBy, _ := cmd.Flags().GetString("sort")
		by := schema.SortOption(sortBy)
		if _, ok := schema.ValidSortOptions[by]; !ok {
			return fmt.Errorf("invalid sort option '%s'. must be score or created", sortBy)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("limit cannot be negative (received %d)", limit)
		}

		queue := sess.planner.QueueBy(by)
		if limit > 0 {
			queue = algo.Limit(queue, limit)
		}
		return writer.WriteQueue(queue, sess.planner.Settings(), sess.planner.IsCompleting, cfg)
	},
}

// historyCmd lists completed tasks grouped by day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed tasks grouped by day.",
	Long: `List completed tasks, most recent first, under Today, Yesterday,
weekday names for the past week, and dates beyond that.`,
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writer.WriteHistory(sess.planner.HistoryGroups(time.Now()), sess.planner.Settings(), cfg)
	},
}

// scoreCmd previews a score without saving a task.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Preview the score for a set of values.",
	Long: `Compute the MADE score and show the matching criteria for each value.
Values that are not given use the configured defaults.

Examples:
  mades score -m 5 -a 4 -d 1.5 -e 3`,
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings := sess.planner.Settings()
		fields, err := applyFieldFlags(cmd, defaultFields(settings))
		if err != nil {
			return err
		}
		return writer.WriteScorePreview(fields, settings, cfg)
	},
}

// exportCmd writes every task and the settings.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks and settings.",
	Long: `Write the full planner state.

Formats:
  text/json - the snapshot format used for sync
  csv       - one row per task
  parquet   - tasks plus a sibling <name>_criteria file

Examples:
  mades export --output-file backup.json
  mades export --output parquet --output-file tasks.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writer.WriteExport(sess.planner.Snapshot(), cfg)
	},
}
