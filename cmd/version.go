package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// versionCmd prints build details for bug reports.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mades.",
	Long: `Display the release, commit, build time, Go runtime and platform,
plus the configuration file in use (if any).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("mades %s (%s, built %s)\n", version, commit, date)
		cmd.Printf("  Runtime:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if err := viper.ReadInConfig(); err == nil {
			cmd.Printf("  Config:   %s\n", viper.ConfigFileUsed())
		} else {
			cmd.Printf("  Config:   (none)\n")
		}
	},
}
