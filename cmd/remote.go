package cmd

import (
	"fmt"

	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/iocache"
	"github.com/huangsam/mades/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// remoteSetup loads configuration without opening the remote store,
// since opening it migrates the schema to the latest version.
func remoteSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cfg.RemoteBackend == schema.NoneBackend {
		return fmt.Errorf("no remote backend configured (set --remote-backend or MADES_REMOTE_BACKEND)")
	}
	return nil
}

// remoteConnString resolves the SQLite default file under the data directory.
func remoteConnString() string {
	if cfg.RemoteBackend == schema.SQLiteBackend && cfg.RemoteDBConnect == "" {
		return contract.GetRemoteDBFilePath(cfg.DataDir)
	}
	return cfg.RemoteDBConnect
}

// remoteCmd focused on remote database management.
//
// Note: remote subcommands use minimal initialization (remoteSetup) instead of
// the planner session used by task commands. They never touch local data.
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the remote sync database.",
	Long: `Manage the database that stores synced snapshots.

Supported backends: SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Show record counts and connection info
  clear   - Remove all synced records
  migrate - Run schema migrations`,
}

// remoteStatusCmd shows remote status.
var remoteStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display remote statistics and connection details.",
	Long: `Show the backend, the number of synced records, the last and oldest
update times and the table size.`,
	Args:    cobra.NoArgs,
	PreRunE: remoteSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := iocache.NewRecordStore(cfg.RemoteBackend, remoteConnString())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get remote status: %w", err)
		}
		iocache.PrintRemoteStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

// remoteClearCmd drops all synced data.
var remoteClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all synced records.",
	Long: `Delete every synced snapshot from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the sync table and its migration history

Local data and the stored recovery code are not touched; the next command
recreates the remote record from local data.

Examples:
  MADES_REMOTE_BACKEND=mysql MADES_REMOTE_DB_CONNECT="..." mades remote clear --yes`,
	Args:    cobra.NoArgs,
	PreRunE: remoteSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := confirmFlag(cmd, "clear remote data"); err != nil {
			return err
		}
		if err := iocache.ClearRemote(cfg.RemoteBackend, remoteConnString()); err != nil {
			return fmt.Errorf("failed to clear remote data: %w", err)
		}
		cmd.Println("Remote data cleared successfully.")
		return nil
	},
}

// remoteMigrateCmd runs schema migrations.
var remoteMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run remote schema migrations.",
	Long: `Apply or roll back the embedded schema migrations.

Examples:
  # Migrate to the latest version
  mades remote migrate

  # Roll back everything
  mades remote migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: remoteSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := iocache.MigrateRemote(cfg.RemoteBackend, remoteConnString(), viper.GetInt("target-version"))
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		cmd.Println(result.String())
		return nil
	},
}
