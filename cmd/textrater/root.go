package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"textrater/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	noColor     bool
	verbose     bool
	journalPath string
)

// rootCmd runs an interactive labeling session when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "textrater",
	Short: "Rate prompt/result pairs in a CSV file from 1 to 5",
	Long: `textrater walks through a CSV file with key, prompt and result columns and
asks for a rating from 1 to 5 for every row. Ratings are written to the
evaluation column of the same file.

Progress is saved every 10 rows, when you press 0 to quit and when the last
row is rated. Running textrater again on the same file resumes where you
left off.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLabel,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.NewDisplay(os.Stderr, noColor).Error("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.textrater.yaml or $HOME/.textrater.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log everything at debug level")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "record every rating in this SQLite journal")

	rootCmd.SetVersionTemplate(`textrater {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandLineFlags collects the flags the user actually set so they override
// file and environment configuration
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := cmd.Flags()
	if set.Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if set.Changed("verbose") {
		flags["verbose"] = verbose
	}
	if set.Changed("no-color") {
		flags["no-color"] = noColor
	}
	if set.Changed("journal") {
		flags["journal"] = journalPath
	}
	return flags
}
