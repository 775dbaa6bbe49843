package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/iocache"
	"github.com/spf13/cobra"
)

// addCmd creates a task.
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the queue.",
	Long: `Create a task and score it with the active weights.

Values that are not given start at the configured defaults (see 'mades config show').
Values outside the criteria tables are accepted and flagged with a warning.

Examples:
  # Add with default values
  mades add "Write onboarding doc"

  # Add with explicit values
  mades add "Close the renewal" -m 9 -a 6 -d 1.8 -e 2 --desc "Acme, Q3 contract"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := applyFieldFlags(cmd, defaultFields(sess.planner.Settings()))
		if err != nil {
			return err
		}
		if len(args) == 1 {
			fields.Title = args[0]
		}
		task, err := sess.planner.Add(fields)
		if err != nil {
			return err
		}
		cmd.Printf("➕ Added %s %q (score %s, %s)\n", shortID(task.ID), task.Title, algo.FormatScore(task.Score), contract.GetColorLabel(task.Score))
		if errs := sess.planner.Validation(task); len(errs) > 0 {
			_, _ = contract.WarnColor.Fprintf(cmd.ErrOrStderr(), "⚠ Out of range: %s\n", strings.Join(errs, ", "))
		}
		return nil
	},
}

// editCmd updates the editable fields of a task.
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title, description or values.",
	Long: `Change any subset of a task's fields and rescore it.

The id may be any unambiguous prefix. Fields without a flag keep their value.

Examples:
  mades edit 3f2a -d 2.0
  mades edit 3f2a --title "Close the Acme renewal"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveTaskID(sess.planner, args[0])
		if err != nil {
			return err
		}
		current, _ := sess.planner.Task(id)
		fields, err := applyFieldFlags(cmd, current.Fields())
		if err != nil {
			return err
		}
		task, err := sess.planner.Edit(id, fields)
		if err != nil {
			return err
		}
		cmd.Printf("✏️  Updated %q (score %s → %s)\n", task.Title, algo.FormatScore(current.Score), algo.FormatScore(task.Score))
		if errs := sess.planner.Validation(task); len(errs) > 0 {
			_, _ = contract.WarnColor.Fprintf(cmd.ErrOrStderr(), "⚠ Out of range: %s\n", strings.Join(errs, ", "))
		}
		return nil
	},
}

// showCmd prints one task with its criteria breakdown.
var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a task with its score breakdown.",
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := resolveTaskID(sess.planner, args[0])
		if err != nil {
			return err
		}
		task, _ := sess.planner.Task(id)
		return writer.WriteTask(task, sess.planner.Settings(), cfg)
	},
}

// doneCmd completes a task after the completion delay.
var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"complete"},
	Short:   "Mark a task as completed.",
	Long: `Complete a task. It stays in the queue as "completing" for the
completion delay, then moves to history. The command waits for the move so
the completion is saved before it exits.

Examples:
  mades done 3f2a
  MADES_COMPLETION_DELAY=0s mades done 3f2a`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveTaskID(sess.planner, args[0])
		if err != nil {
			return err
		}
		task, _ := sess.planner.Task(id)
		if task.Completed {
			cmd.Printf("Task %q is already completed.\n", task.Title)
			return nil
		}

		done, err := sess.planner.Complete(id)
		if err != nil {
			return err
		}
		cmd.Printf("⏳ Completing %q\n", task.Title)
		select {
		case <-done:
		case <-time.After(cfg.CompletionDelay + time.Second):
			return fmt.Errorf("completion of %q did not finish", task.Title)
		}
		cmd.Printf("✅ Completed %q\n", task.Title)
		return nil
	},
}

// reopenCmd moves a completed task back to the queue.
var reopenCmd = &cobra.Command{
	Use:     "reopen <id>",
	Short:   "Move a completed task back to the queue.",
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveTaskID(sess.planner, args[0])
		if err != nil {
			return err
		}
		task, err := sess.planner.Reopen(id)
		if err != nil {
			return err
		}
		cmd.Printf("↩️  Reopened %q\n", task.Title)
		return nil
	},
}

// rmCmd deletes a task and keeps it in the undo buffer.
var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task. Undo with 'mades undo'.",
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveTaskID(sess.planner, args[0])
		if err != nil {
			return err
		}
		task, err := sess.planner.Remove(id)
		if err != nil {
			return err
		}
		if err := iocache.SaveLastDeleted(sess.local, &task); err != nil {
			contract.LogWarn("Could not save undo buffer", err)
		}
		cmd.Printf("🗑️  Deleted %q. Run 'mades undo' to restore it.\n", task.Title)
		return nil
	},
}

// undoCmd restores the most recently deleted task.
var undoCmd = &cobra.Command{
	Use:     "undo",
	Short:   "Restore the most recently deleted task.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		task, err := sess.planner.Undo()
		if err != nil {
			return err
		}
		if err := iocache.SaveLastDeleted(sess.local, nil); err != nil {
			contract.LogWarn("Could not clear undo buffer", err)
		}
		cmd.Printf("♻️  Restored %q\n", task.Title)
		return nil
	},
}

// clearCmd removes every task.
var clearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete every task in the queue and history.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := confirmFlag(cmd, "clear all tasks"); err != nil {
			return err
		}
		n := len(sess.planner.Tasks())
		sess.planner.Clear()
		if err := iocache.SaveLastDeleted(sess.local, nil); err != nil {
			contract.LogWarn("Could not clear undo buffer", err)
		}
		cmd.Printf("🧹 Removed %d tasks.\n", n)
		return nil
	},
}
