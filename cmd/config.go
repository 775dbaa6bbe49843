package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/spf13/cobra"
)

// configCmd groups the settings commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit weights, criteria and default values.",
	Long: `Manage the planner settings.

Every change is saved immediately, rescores all tasks and is synced like any
task change. Tasks whose values fall outside edited criteria are flagged.

Subcommands:
  show        - Criteria guide with weights and valid values
  set-weight  - Change the Money or Asset weight
  default     - Change a dimension's starting value
  import      - Load settings from a JSON file
  criteria    - Add, remove, edit or sort criteria rows
  reset       - Restore the built-in settings`,
}

// configShowCmd prints the criteria guide.
var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the criteria guide.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writer.WriteCriteria(sess.planner.Settings(), cfg)
	},
}

// configWeightCmd changes a weight.
var configWeightCmd = &cobra.Command{
	Use:   "set-weight <m|a> <value>",
	Short: "Change the Money or Asset weight.",
	Long: `Set the multiplier for Money or Asset. Weights must be positive.

Examples:
  mades config set-weight m 1.0
  mades config set-weight asset 1.5`,
	Args:    cobra.ExactArgs(2),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		v, err := parseFloatArg("weight", args[1])
		if err != nil {
			return err
		}
		saved, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.SetWeight(d, v)
		})
		if err != nil {
			return err
		}
		cmd.Println(algo.FormulaString(saved.Weights))
		return nil
	},
}

// configDefaultCmd changes a starting value.
var configDefaultCmd = &cobra.Command{
	Use:   "default <dimension> <value>",
	Short: "Change the starting value of a dimension.",
	Long: `Set the value new tasks start with. It snaps to the nearest valid value.

Examples:
  mades config default d 1.8`,
	Args:    cobra.ExactArgs(2),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		v, err := parseFloatArg("value", args[1])
		if err != nil {
			return err
		}
		saved, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.SetDefaultValue(d, v)
		})
		if err != nil {
			return err
		}
		cmd.Printf("%s starts at %s\n", d.Name(), strconv.FormatFloat(saved.DefaultValues.Get(d), 'g', -1, 64))
		return nil
	},
}

// configImportCmd loads settings from a JSON file.
var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the settings with the contents of a JSON file.",
	Long: `Load weights, criteria and default values from a file shaped like the
"config" object of 'mades export --output json'. Comments and trailing commas
are allowed. Missing fields keep their built-in defaults.

Examples:
  mades config import settings.jsonc`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		saved, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			st.Load(raw)
			return nil
		})
		if err != nil {
			return err
		}
		cmd.Printf("Settings imported. %s\n", algo.FormulaString(saved.Weights))
		warnOutOfRange(sess.planner)
		return nil
	},
}

// configResetCmd restores the built-in settings.
var configResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Restore the built-in weights, criteria and defaults.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := confirmFlag(cmd, "reset settings"); err != nil {
			return err
		}
		saved := sess.planner.ResetSettings()
		cmd.Printf("Settings reset. %s\n", algo.FormulaString(saved.Weights))
		warnOutOfRange(sess.planner)
		return nil
	},
}

// criteriaCmd groups the criteria row commands.
var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Edit the criteria table of a dimension.",
	Long: `Criteria rows map a value or an inclusive range like "3-5" to a label.
The valid values of a dimension are derived from its rows; a range contributes
only its two endpoints. Row indexes are zero-based as shown by 'mades config show'.

Examples:
  mades config criteria add e
  mades config criteria edit e 5 range 6
  mades config criteria edit e 5 label "Epic"
  mades config criteria sort e
  mades config criteria rm e 5`,
}

// criteriaAddCmd appends a row.
var criteriaAddCmd = &cobra.Command{
	Use:     "add <dimension>",
	Short:   "Append an empty row.",
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		saved, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.AddCriteriaRow(d)
		})
		if err != nil {
			return err
		}
		cmd.Printf("Added row %d to %s\n", len(saved.Criteria.Entries(d))-1, d.Name())
		return nil
	},
}

// criteriaRmCmd deletes a row.
var criteriaRmCmd = &cobra.Command{
	Use:     "rm <dimension> <index>",
	Short:   "Remove a row.",
	Args:    cobra.ExactArgs(2),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		i, err := parseIndexArg(args[1])
		if err != nil {
			return err
		}
		if _, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.RemoveCriteriaRow(d, i)
		}); err != nil {
			return err
		}
		cmd.Printf("Removed row %d from %s\n", i, d.Name())
		warnOutOfRange(sess.planner)
		return nil
	},
}

// criteriaEditCmd sets one field of a row.
var criteriaEditCmd = &cobra.Command{
	Use:     "edit <dimension> <index> <range|label|description> <value>",
	Short:   "Change one field of a row.",
	Args:    cobra.ExactArgs(4),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		i, err := parseIndexArg(args[1])
		if err != nil {
			return err
		}
		if _, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.EditCriteriaRow(d, i, args[2], args[3])
		}); err != nil {
			return err
		}
		cmd.Printf("Updated %s row %d\n", d.Name(), i)
		warnOutOfRange(sess.planner)
		return nil
	},
}

// criteriaSortCmd orders rows by their first number, descending.
var criteriaSortCmd = &cobra.Command{
	Use:     "sort <dimension>",
	Short:   "Sort rows by value, highest first.",
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDimension(args[0])
		if err != nil {
			return err
		}
		if _, err := sess.planner.EditSettings(func(st *core.SettingsStore) error {
			return st.AutoSortCriteria(d)
		}); err != nil {
			return err
		}
		cmd.Printf("Sorted %s criteria\n", d.Name())
		return nil
	},
}
