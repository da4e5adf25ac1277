package session

import (
	"errors"
	"fmt"
	"strings"

	errs "textrater/pkg/errors"
	"textrater/pkg/input"
	"textrater/pkg/logger"
	"textrater/pkg/table"
	"textrater/pkg/ui"
)

// Prompter asks for a CSV path until one loads
type Prompter struct {
	lines   input.LineReader
	display *ui.Display
	loader  *Loader
	logger  logger.Logger
}

// NewPrompter creates a Prompter reading paths from lines
func NewPrompter(lines input.LineReader, display *ui.Display, loader *Loader, log logger.Logger) *Prompter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Prompter{
		lines:   lines,
		display: display,
		loader:  loader,
		logger:  log.WithField("component", "prompt"),
	}
}

// Run re-prompts after every missing or unparseable file, without limit.
// It only gives up when the line source itself fails.
func (p *Prompter) Run() (*table.Table, string, error) {
	for attempt := 1; ; attempt++ {
		p.display.PathPrompt()

		line, err := p.lines.ReadLine()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read path: %w", err)
		}

		path := strings.Trim(strings.TrimSpace(line), `"'`)
		t, abs, err := p.loader.Load(path)
		if err == nil {
			return t, abs, nil
		}

		p.logger.WithError(err).DebugWithFields("Path rejected", map[string]interface{}{
			"path":    path,
			"attempt": attempt,
		})

		switch errs.TypeOf(err) {
		case errs.ErrorTypeNotFound:
			p.display.FileNotFound()
		case errs.ErrorTypeFormat:
			var missing *MissingColumnsError
			if errors.As(err, &missing) {
				p.display.MissingColumns(missing.Columns)
			} else {
				p.display.NotCSV()
			}
		default:
			return nil, "", err
		}
	}
}
