package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/iocache"
	"github.com/huangsam/mades/internal/logging"
	"github.com/huangsam/mades/internal/outwriter"
	"github.com/huangsam/mades/internal/syncer"
	"github.com/huangsam/mades/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// flushTimeout bounds the final remote write before the process exits.
const flushTimeout = 15 * time.Second

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// writer renders every command's output.
var writer = outwriter.NewOutWriter()

// sess is the planner session opened by commands that touch tasks or settings.
var sess *session

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "mades",
	Short: "Prioritize tasks with the MADE method.",
	Long: `MADES ranks your tasks by Money, Asset, Deadline and Effort.

Score = ((W_m·M + W_a·A) × D − E). Higher scores come first in the queue.
Local data lives in ~/.mades and can be synced to a remote database under a
short recovery code.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".mades")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("MADES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("remote-backend", schema.NoneBackend)
	viper.SetDefault("remote-db-connect", "")
	viper.SetDefault("debounce", contract.DefaultDebounce.String())
	viper.SetDefault("completion-delay", contract.DefaultCompletionDelay.String())
	viper.SetDefault("color", "yes")
}

// loadConfig merges defaults, config file, env and flags, then validates them.
func loadConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	logging.Setup(cfg.Verbose, cfg.Quiet, cfg.LogJSON)
	if !cfg.UseColors {
		color.NoColor = true
	}
	return nil
}

// sharedSetup loads the configuration and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	err := iocache.InitStores(cfg.DataDir, cfg.RemoteBackend, cfg.RemoteDBConnect)
	if errors.Is(err, iocache.ErrRemoteUnavailable) {
		contract.LogWarn("Remote sync disabled, continuing offline", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// plannerSetup opens a session and runs the initial sync.
func plannerSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	s, err := openSession(rootCtx, true)
	if err != nil {
		return err
	}
	sess = s
	return nil
}

// plannerSetupNoSync opens a session without the initial sync.
// Used by commands that decide which remote record to load themselves.
func plannerSetupNoSync(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	s, err := openSession(rootCtx, false)
	if err != nil {
		return err
	}
	sess = s
	return nil
}

// session wires the planner to local persistence and the sync coordinator.
type session struct {
	planner *core.Planner
	coord   *syncer.Coordinator
	local   contract.SnapshotStore
}

// openSession loads the local snapshot into a planner. Every committed
// mutation is saved locally right away and pushed remotely after the debounce.
func openSession(ctx context.Context, startSync bool) (*session, error) {
	logger := logging.New("store")
	local := iocache.Manager.GetLocalStore()
	now := time.Now()

	snap, err := iocache.LoadSnapshot(local, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load local data: %w", err)
	}
	planner := core.NewPlanner(snap.Tasks, snap.Config, core.WithCompletionDelay(cfg.CompletionDelay))

	last, err := iocache.LoadLastDeleted(local, now)
	if err != nil {
		logger.Warn("failed to load undo buffer", "err", err)
	}
	planner.SetLastDeleted(last)

	planner.OnChange(func(s schema.Snapshot) {
		if err := iocache.SaveSnapshot(local, s); err != nil {
			logger.Error("failed to save snapshot", "err", err)
		}
	})

	coord := syncer.New(planner, local, iocache.Manager.GetRemoteStore(), syncer.WithDebounce(cfg.Debounce))
	if startSync {
		if err := coord.Start(ctx); err != nil {
			contract.LogWarn("Remote sync unavailable, continuing with local data", err)
		}
	}
	return &session{planner: planner, coord: coord, local: local}, nil
}

// close pushes any pending remote write.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(rootCtx, flushTimeout)
	defer cancel()
	return s.coord.Flush(ctx)
}

// Execute runs the root command, then flushes the session and closes the stores.
func Execute() error {
	err := rootCmd.Execute()
	if sess != nil {
		if flushErr := sess.close(); flushErr != nil {
			contract.LogWarn("Remote sync failed, local data is saved", flushErr)
		}
	}
	iocache.CloseStores()
	return err
}
