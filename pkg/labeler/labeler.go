package labeler

import (
	"fmt"
	"time"

	"textrater/pkg/checkpoint"
	errs "textrater/pkg/errors"
	"textrater/pkg/input"
	"textrater/pkg/latency"
	"textrater/pkg/logger"
	"textrater/pkg/table"
	"textrater/pkg/ui"
)

// Outcome is how a labeling session ended
type Outcome int

const (
	// Completed means every row carries a rating
	Completed Outcome = iota
	// Quit means the user pressed 0
	Quit
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Recorder receives every accepted rating. The SQLite journal implements it.
type Recorder interface {
	Record(source, key, label string, latency time.Duration) error
}

// Labeler walks the table in order and asks for a rating for every row that
// does not have one yet
type Labeler struct {
	table       *table.Table
	source      string
	keys        input.KeyReader
	display     *ui.Display
	checkpoints *checkpoint.Manager
	window      *latency.Window
	recorder    Recorder
	now         func() time.Time
	logger      logger.Logger
}

// Option configures a Labeler
type Option func(*Labeler)

// WithRecorder appends every rating to r
func WithRecorder(r Recorder) Option {
	return func(l *Labeler) { l.recorder = r }
}

// WithClock replaces time.Now for latency measurement
func WithClock(now func() time.Time) Option {
	return func(l *Labeler) { l.now = now }
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(l *Labeler) { l.logger = log }
}

// New creates a Labeler over t. source names the file t was loaded from and is
// passed to the recorder.
func New(t *table.Table, source string, keys input.KeyReader, display *ui.Display,
	checkpoints *checkpoint.Manager, window *latency.Window, opts ...Option) *Labeler {
	l := &Labeler{
		table:       t,
		source:      source,
		keys:        keys,
		display:     display,
		checkpoints: checkpoints,
		window:      window,
		now:         time.Now,
		logger:      logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.window == nil {
		l.window = latency.New(latency.DefaultCapacity)
	}
	l.logger = l.logger.WithField("component", "labeler")
	return l
}

// Run labels rows until the table is complete or the user quits. The table is
// saved on both paths. A failed save or a failed key read ends the session
// with an error.
func (l *Labeler) Run() (Outcome, error) {
	total := l.table.Len()
	l.logger.InfoWithFields("Labeling started", map[string]interface{}{
		"source":    l.source,
		"rows":      total,
		"completed": l.table.Completed(),
	})

	for i := 0; i < total; i++ {
		if l.table.IsLabeled(i) {
			continue
		}

		label, err := l.rate(i)
		if err != nil {
			return Quit, err
		}
		if label == "" {
			if err := l.checkpoints.Save(l.table, checkpoint.ReasonQuit); err != nil {
				return Quit, err
			}
			l.display.Quit()
			l.logger.InfoWithFields("Labeling stopped by user", map[string]interface{}{
				"position":  i + 1,
				"completed": l.table.Completed(),
			})
			return Quit, nil
		}

		if err := l.table.Set(i, table.ColumnEvaluation, label); err != nil {
			return Quit, err
		}

		position := i + 1
		if l.checkpoints.Due(position) {
			if err := l.checkpoints.Save(l.table, checkpoint.ReasonInterval); err != nil {
				return Quit, err
			}
			l.display.Checkpoint(position)
		}
	}

	if err := l.checkpoints.Save(l.table, checkpoint.ReasonComplete); err != nil {
		return Completed, err
	}
	l.display.Complete()
	logger.LogSessionProgress(l.logger, l.table.Completed(), total)
	return Completed, nil
}

// rate shows row i and reads keys until a rating or 0 arrives. It returns the
// rating digit, or "" when the user asked to quit.
func (l *Labeler) rate(i int) (string, error) {
	total := l.table.Len()
	completed := l.table.Completed()
	remaining := total - completed

	l.display.Progress(completed, total)
	l.display.Timing(l.window, remaining)
	l.display.Record(
		l.table.Get(i, table.ColumnKey),
		l.table.Get(i, table.ColumnPrompt),
		l.table.Get(i, table.ColumnResult),
	)

	start := l.now()
	for {
		l.display.RatingPrompt()
		key, err := l.keys.ReadKey()
		if err != nil {
			return "", fmt.Errorf("failed to read rating: %w", err)
		}
		l.display.Echo(key)

		switch {
		case key == '0':
			return "", nil
		case key >= '1' && key <= '5':
			elapsed := l.now().Sub(start)
			l.window.Add(elapsed)
			label := string(key)
			l.record(i, label, elapsed)
			return label, nil
		default:
			l.display.InvalidRating()
			l.logger.WithError(errs.InvalidInput(key)).Debug("Rating rejected")
		}
	}
}

func (l *Labeler) record(i int, label string, elapsed time.Duration) {
	key := l.table.Get(i, table.ColumnKey)
	l.logger.DebugWithFields("Rating accepted", map[string]interface{}{
		"key":     key,
		"label":   label,
		"latency": elapsed.Seconds(),
	})

	if l.recorder == nil {
		return
	}
	if err := l.recorder.Record(l.source, key, label, elapsed); err != nil {
		l.logger.WithError(err).WarnWithFields("Failed to journal rating", map[string]interface{}{
			"key": key,
		})
	}
}

// Window exposes the latency samples collected so far
func (l *Labeler) Window() *latency.Window {
	return l.window
}
