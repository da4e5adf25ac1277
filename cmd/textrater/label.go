package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"textrater/pkg/checkpoint"
	"textrater/pkg/config"
	"textrater/pkg/input"
	"textrater/pkg/journal"
	"textrater/pkg/labeler"
	"textrater/pkg/latency"
	"textrater/pkg/logger"
	"textrater/pkg/session"
	"textrater/pkg/table"
	"textrater/pkg/ui"
)

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	closeLog, err := logger.Initialize(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()
	log := logger.GetLogger()
	logger.LogComponentStart(log, "textrater", map[string]interface{}{
		"version": version,
		"journal": cfg.Journal.Enabled,
	})

	display := ui.NewDisplay(cmd.OutOrStdout(), cfg.Display.NoColor)
	console := input.NewTerminal(os.Stdin)
	store := table.NewCSVStore()

	prompter := session.NewPrompter(console, display, session.NewLoader(store, log), log)
	tbl, path, err := prompter.Run()
	if err != nil {
		return err
	}

	opts := []labeler.Option{labeler.WithLogger(log)}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path, log)
		if err != nil {
			// Ratings still reach the CSV without a journal
			log.WithError(err).WarnWithFields("Journal unavailable", map[string]interface{}{
				"path": cfg.Journal.Path,
			})
		} else {
			defer j.Close()
			opts = append(opts, labeler.WithRecorder(j))
		}
	}

	manager := checkpoint.NewManager(store, path, cfg.Session.CheckpointInterval, log)
	log.InfoWithFields("Session ready", map[string]interface{}{
		"path":                path,
		"rows":                tbl.Len(),
		"completed":           tbl.Completed(),
		"checkpoint_interval": manager.Interval(),
	})
	l := labeler.New(tbl, path, console, display, manager, latency.New(cfg.Session.WindowSize), opts...)

	outcome, err := l.Run()
	if err != nil {
		log.WithError(err).ErrorWithFields("Labeling session failed", map[string]interface{}{
			"path": path,
		})
		return err
	}

	logger.LogComponentStop(log.WithFields(map[string]interface{}{
		"checkpoints": manager.Saves(),
		"last_save":   manager.LastSave(),
	}), "textrater", outcome.String())
	return nil
}
