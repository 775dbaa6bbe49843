package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/syncer"
	"github.com/spf13/cobra"
)

// syncCmd groups the recovery code commands.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync tasks across devices with a recovery code.",
	Long: `Sync keeps one remote snapshot per 8-character recovery code.

The first run with a remote backend generates a code and uploads local data.
Later runs fetch the record for the stored code; remote data replaces local
data. Every change is pushed after a short debounce. Concurrent devices sharing
a code overwrite each other (last write wins).

Enable sync by configuring a backend:
  MADES_REMOTE_BACKEND=sqlite mades sync status

Subcommands:
  status  - Sync state, recovery code and remote record counts
  code    - Print the recovery code
  restore - Load the data stored under another code`,
}

// syncStatusCmd prints the coordinator and remote state.
var syncStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show sync state and the recovery code.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writer.WriteSyncReport(sess.coord.Report(cfg.RemoteBackend), cfg)
	},
}

// syncCodeCmd prints the recovery code alone, for scripting.
var syncCodeCmd = &cobra.Command{
	Use:     "code",
	Short:   "Print the recovery code.",
	Args:    cobra.NoArgs,
	PreRunE: plannerSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		code := sess.coord.Code()
		if code == "" {
			return fmt.Errorf("no recovery code: %w", syncer.ErrOffline)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), code)
		return err
	},
}

// syncRestoreCmd switches to the data stored under another code.
var syncRestoreCmd = &cobra.Command{
	Use:   "restore <code>",
	Short: "Replace local data with the data stored under a recovery code.",
	Long: `Fetch the snapshot for a recovery code and make it the active one.

Input is case-insensitive and may contain separators, so "abcd-2345" works.
An unknown code leaves local data untouched.

Examples:
  mades sync restore K7QF3M2X`,
	Args:    cobra.ExactArgs(1),
	PreRunE: plannerSetupNoSync,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := sess.coord.Restore(rootCtx, args[0])
		switch {
		case errors.Is(err, syncer.ErrInvalidCode):
			return fmt.Errorf("invalid recovery code %q: expected %d characters from %s", args[0], syncer.CodeLength, syncer.CodeAlphabet)
		case errors.Is(err, syncer.ErrNoDataForCode):
			return fmt.Errorf("no data found for code %s", syncer.NormalizeCode(args[0]))
		case err != nil:
			return err
		}
		snap := sess.planner.Snapshot()
		cmd.Printf("🔄 Restored %d tasks from %s\n", len(snap.Tasks), contract.MutedColor.Sprint(sess.coord.Code()))
		return nil
	},
}
