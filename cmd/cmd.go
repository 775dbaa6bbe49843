// Package cmd defines the command-line interface for mades.
package cmd

import (
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Task commands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(clearCmd)

	// Views
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(exportCmd)

	// Settings
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configWeightCmd)
	configCmd.AddCommand(configDefaultCmd)
	configCmd.AddCommand(configImportCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(criteriaCmd)
	criteriaCmd.AddCommand(criteriaAddCmd)
	criteriaCmd.AddCommand(criteriaRmCmd)
	criteriaCmd.AddCommand(criteriaEditCmd)
	criteriaCmd.AddCommand(criteriaSortCmd)

	// Sync and remote storage
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncCodeCmd)
	syncCmd.AddCommand(syncRestoreCmd)
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteStatusCmd)
	remoteCmd.AddCommand(remoteClearCmd)
	remoteCmd.AddCommand(remoteMigrateCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for local data (default ~/.mades)")
	rootCmd.PersistentFlags().String("remote-backend", string(schema.NoneBackend), "Remote sync backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("remote-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("debounce", contract.DefaultDebounce.String(), "Delay before local changes are pushed to the remote store")
	rootCmd.PersistentFlags().String("completion-delay", contract.DefaultCompletionDelay.String(), "Delay before a completed task moves to history")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Task field flags are per invocation and are not bound to Viper
	addFieldFlags(addCmd, true)
	addFieldFlags(editCmd, true)
	addFieldFlags(scoreCmd, false)

	queueCmd.Flags().String("sort", string(schema.SortByScore), "Queue ordering: score or created")
	queueCmd.Flags().IntP("limit", "l", 0, "Number of tasks to display (0 = all)")
	clearCmd.Flags().Bool("yes", false, "Confirm removal of every task")
	configResetCmd.Flags().Bool("yes", false, "Confirm reset of weights, criteria and defaults")

	// Bind all flags of remoteMigrateCmd to Viper
	remoteMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(remoteMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding remote migrate flags", err)
	}
}
