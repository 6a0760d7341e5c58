package cli

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// GlobalFlags contains global flags available for all commands
type GlobalFlags struct {
	Config  string
	Verbose bool
	JSON    bool
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fitsync",
	Short: "fitsync - daily Fitbit to Notion health metrics sync",
	Long: `fitsync pulls daily health metrics (activity, sleep, weight, heart rate)
from the Fitbit web API and writes one summary page per day into a Notion
database, skipping dates that are already recorded.

It is a run-to-completion job meant to be triggered by cron or on demand.

Required environment variables:
  FITSYNC_FITBIT_CLIENT_ID
  FITSYNC_FITBIT_CLIENT_SECRET
  FITSYNC_FITBIT_REFRESH_TOKEN
  FITSYNC_NOTION_TOKEN
  FITSYNC_NOTION_DATABASE_ID

Use "fitsync [command] --help" for more information about a command.`,
}

// InitRoot initializes the root command with global flags
func InitRoot() {
	configPath := os.Getenv("FITSYNC_CONFIG_PATH")

	RootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", configPath, "Path to configuration file (optional)")
	RootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "Output in JSON format")

	RootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fitsync",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

var globalFlags GlobalFlags

// printVersion prints the version information
func printVersion() {
	println("fitsync Version:", Version)
	println("Go Version:", runtime.Version())
	println("OS/Arch:", runtime.GOOS+"/"+runtime.GOARCH)
}

// Version is the release version, overridable at build time.
var Version = "0.1.0"
