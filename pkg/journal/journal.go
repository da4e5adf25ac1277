package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"textrater/pkg/logger"
)

// Fixed width keeps text ordering chronological
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one recorded label
type Entry struct {
	SessionID string
	Source    string
	Key       string
	Label     string
	Latency   time.Duration
	LabeledAt time.Time
}

// Journal appends every recorded label to a SQLite database so a session's
// history survives even though the CSV only keeps the latest value per row
type Journal struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
	logger    logger.Logger
}

// Open opens (or creates) the journal at dbPath and starts a new session
func Open(dbPath string, log logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One session, one writer
	db.SetMaxOpenConns(1)

	j := &Journal{
		db:        db,
		sessionID: uuid.NewString(),
		now:       time.Now,
		logger:    log.WithField("component", "journal"),
	}

	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	j.logger.InfoWithFields("Journal opened", map[string]interface{}{
		"db_path":    dbPath,
		"session_id": j.sessionID,
	})

	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		record_key TEXT NOT NULL,
		label TEXT NOT NULL,
		latency_seconds REAL NOT NULL,
		labeled_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_labels_session ON labels(session_id);
	CREATE INDEX IF NOT EXISTS idx_labels_key ON labels(source, record_key);
	`

	_, err := j.db.Exec(schema)
	return err
}

// SessionID identifies the labels written through this Journal
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record appends one label for the current session
func (j *Journal) Record(source, key, label string, latency time.Duration) error {
	query := `
		INSERT INTO labels (session_id, source, record_key, label, latency_seconds, labeled_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.Exec(query, j.sessionID, source, key, label, latency.Seconds(), j.now().UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record label for key %q: %w", key, err)
	}
	return nil
}

// Entries returns every label recorded in session, oldest first
func (j *Journal) Entries(sessionID string) ([]Entry, error) {
	query := `
		SELECT session_id, source, record_key, label, latency_seconds, labeled_at
		FROM labels
		WHERE session_id = ?
		ORDER BY id
	`

	rows, err := j.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var seconds float64
		var labeledAt string
		if err := rows.Scan(&e.SessionID, &e.Source, &e.Key, &e.Label, &seconds, &labeledAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Latency = time.Duration(seconds * float64(time.Second))
		e.LabeledAt = parseTimestamp(labeledAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountBySession returns how many labels session recorded
func (j *Journal) CountBySession(sessionID string) (int, error) {
	var count int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM labels WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

// Summary describes one labeling session in the journal
type Summary struct {
	SessionID string
	Source    string
	Labels    int
	Started   time.Time
	Finished  time.Time
}

// Sessions lists every session in the journal, most recent first
func (j *Journal) Sessions() ([]Summary, error) {
	query := `
		SELECT session_id, MIN(source), COUNT(*), MIN(labeled_at), MAX(labeled_at)
		FROM labels
		GROUP BY session_id
		ORDER BY MIN(id) DESC
	`

	rows, err := j.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Summary
	for rows.Next() {
		var s Summary
		var started, finished string
		if err := rows.Scan(&s.SessionID, &s.Source, &s.Labels, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Started = parseTimestamp(started)
		s.Finished = parseTimestamp(finished)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// parseTimestamp also accepts RFC 3339 with trimmed fractional seconds, the
// form journals created with a DATETIME column hand back
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
