package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
	"github.com/spf13/cobra"
)

// Flag names for the task fields.
const (
	flagTitle       = "title"
	flagDescription = "desc"
	flagMoney       = "money"
	flagAsset       = "asset"
	flagDeadline    = "deadline"
	flagEffort      = "effort"
)

// dimensionFlags maps each dimension to its flag name.
var dimensionFlags = map[schema.Dimension]string{
	schema.Money:    flagMoney,
	schema.Asset:    flagAsset,
	schema.Deadline: flagDeadline,
	schema.Effort:   flagEffort,
}

// addFieldFlags registers the MADE value flags, plus title and description when withText is set.
func addFieldFlags(cmd *cobra.Command, withText bool) {
	if withText {
		cmd.Flags().String(flagTitle, "", "Task title")
		cmd.Flags().String(flagDescription, "", "Task description")
	}
	cmd.Flags().Float64P(flagMoney, "m", 0, "Money: revenue impact")
	cmd.Flags().Float64P(flagAsset, "a", 0, "Asset: lasting value")
	cmd.Flags().Float64P(flagDeadline, "d", 0, "Deadline: urgency multiplier")
	cmd.Flags().Float64P(flagEffort, "e", 0, "Effort: cost subtracted from the score")
}

// applyFieldFlags overwrites base with every flag the user set explicitly.
func applyFieldFlags(cmd *cobra.Command, base schema.TaskFields) (schema.TaskFields, error) {
	flags := cmd.Flags()
	if flags.Lookup(flagTitle) != nil && flags.Changed(flagTitle) {
		base.Title, _ = flags.GetString(flagTitle)
	}
	if flags.Lookup(flagDescription) != nil && flags.Changed(flagDescription) {
		base.Description, _ = flags.GetString(flagDescription)
	}

	values := schema.DimensionValues{M: base.M, A: base.A, D: base.D, E: base.E}
	for _, d := range schema.AllDimensions {
		name := dimensionFlags[d]
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return base, fmt.Errorf("invalid --%s: %w", name, err)
		}
		values.Set(d, v)
	}
	base.M, base.A, base.D, base.E = values.M, values.A, values.D, values.E
	return base, nil
}

// defaultFields starts a new task at the configured default values.
func defaultFields(settings schema.Settings) schema.TaskFields {
	v := settings.DefaultValues
	return schema.TaskFields{M: v.M, A: v.A, D: v.D, E: v.E}
}

// resolveTaskID accepts a full task ID or an unambiguous prefix of one.
func resolveTaskID(planner *core.Planner, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if _, ok := planner.Task(arg); ok {
		return arg, nil
	}
	var matches []string
	for _, t := range planner.Tasks() {
		if arg != "" && strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", core.ErrTaskNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// parseDimension wraps schema.ParseDimension with a user-facing error.
func parseDimension(arg string) (schema.Dimension, error) {
	d, ok := schema.ParseDimension(arg)
	if !ok {
		return "", fmt.Errorf("%w: %q (use m, a, d or e)", core.ErrUnknownDimension, arg)
	}
	return d, nil
}

// parseFloatArg parses a positional numeric argument.
func parseFloatArg(name, arg string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return v, nil
}

// parseIndexArg parses a zero-based criteria row index.
func parseIndexArg(arg string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid row index %q: %w", arg, err)
	}
	return i, nil
}

// warnOutOfRange prints one warning per queued task whose values left the valid set.
func warnOutOfRange(planner *core.Planner) {
	for _, t := range planner.Queue() {
		if errs := planner.Validation(t); len(errs) > 0 {
			_, _ = contract.WarnColor.Fprintf(os.Stderr, "⚠ %s: %s out of range\n", t.Title, strings.Join(errs, ", "))
		}
	}
}

// confirmFlag returns an error unless --yes was passed.
func confirmFlag(cmd *cobra.Command, action string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("refusing to %s without --yes", action)
	}
	return nil
}

// shortID trims a task ID for display; any unique prefix is accepted back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
