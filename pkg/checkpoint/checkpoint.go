package checkpoint

import (
	"time"

	errs "textrater/pkg/errors"
	"textrater/pkg/logger"
	"textrater/pkg/table"
)

// DefaultInterval is the number of rows between periodic saves
const DefaultInterval = 10

// Reason describes why a checkpoint was written
type Reason string

const (
	ReasonInterval Reason = "interval"
	ReasonQuit     Reason = "quit"
	ReasonComplete Reason = "complete"
)

// Manager decides when the record table is persisted and writes it back to
// the file it was loaded from
type Manager struct {
	store    table.Store
	path     string
	interval int
	logger   logger.Logger

	saves    int
	lastSave time.Time
}

// NewManager creates a checkpoint manager saving to path through store
func NewManager(store table.Store, path string, interval int, log logger.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{
		store:    store,
		path:     path,
		interval: interval,
		logger:   log.WithField("component", "checkpoint"),
	}
}

// Due reports whether the row at 1-based position triggers a periodic save
func (m *Manager) Due(position int) bool {
	return position > 0 && position%m.interval == 0
}

// Save persists the full table. A failure is returned as a storage_write error
// and is never retried here.
func (m *Manager) Save(t *table.Table, reason Reason) error {
	start := time.Now()
	if err := m.store.Save(m.path, t); err != nil {
		m.logger.WithError(err).ErrorWithFields("Checkpoint failed", map[string]interface{}{
			"path":   m.path,
			"reason": string(reason),
		})
		return errs.StorageWrite(m.path, err)
	}

	m.saves++
	m.lastSave = time.Now()
	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"path":      m.path,
		"reason":    string(reason),
		"rows":      t.Len(),
		"completed": t.Completed(),
		"duration":  time.Since(start),
	})
	return nil
}

// Path returns the file checkpoints are written to
func (m *Manager) Path() string {
	return m.path
}

// Interval returns the number of rows between periodic saves
func (m *Manager) Interval() int {
	return m.interval
}

// Saves returns how many checkpoints succeeded
func (m *Manager) Saves() int {
	return m.saves
}

// LastSave returns the time of the last successful checkpoint
func (m *Manager) LastSave() time.Time {
	return m.lastSave
}
