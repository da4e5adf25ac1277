package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"textrater/pkg/config"
	"textrater/pkg/journal"
	"textrater/pkg/ui"
)

// historyCmd reads back the rating journal
var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List journaled sessions, or the ratings of one session",
	Long: `List the labeling sessions recorded in the journal. With a session ID,
print every rating of that session in the order it was given.

The journal is written only when it is enabled in the configuration or with
the --journal flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	display := ui.NewDisplay(cmd.OutOrStdout(), cfg.Display.NoColor)

	// Opening would create an empty database
	if _, err := os.Stat(cfg.Journal.Path); errors.Is(err, fs.ErrNotExist) {
		if len(args) == 1 {
			return fmt.Errorf("no journal at %s", cfg.Journal.Path)
		}
		display.Info("Journal", "no journal at "+cfg.Journal.Path)
		return nil
	}

	j, err := journal.Open(cfg.Journal.Path, nil)
	if err != nil {
		return err
	}
	defer j.Close()

	if len(args) == 1 {
		entries, err := j.Entries(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no ratings recorded for session %s", args[0])
		}
		for _, e := range entries {
			display.Info(e.Key, fmt.Sprintf("%s (%.2fs)", e.Label, e.Latency.Seconds()))
		}
		return nil
	}

	sessions, err := j.Sessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		display.Info("Journal", "no sessions recorded in "+cfg.Journal.Path)
		return nil
	}
	for _, s := range sessions {
		display.Info(s.SessionID, fmt.Sprintf("%d ratings of %s, %s to %s",
			s.Labels, s.Source,
			s.Started.Local().Format(time.DateTime),
			s.Finished.Local().Format(time.DateTime)))
	}
	return nil
}
