package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "textrater/pkg/errors"
	"textrater/pkg/logger"
	"textrater/pkg/table"
)

// Loader opens a record table and prepares it for labeling
type Loader struct {
	store  table.Store
	logger logger.Logger
}

// NewLoader creates a Loader reading through store
func NewLoader(store table.Store, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Loader{
		store:  store,
		logger: log.WithField("component", "loader"),
	}
}

// Load reads the table at path, ensures it has an evaluation column and sorts
// it by key. The returned path is absolute.
func (l *Loader) Load(path string) (*table.Table, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errs.NotFound(path, err)
	}

	if info, err := os.Stat(abs); err != nil {
		return nil, abs, errs.NotFound(abs, err)
	} else if info.IsDir() {
		return nil, abs, errs.NotFound(abs, fmt.Errorf("is a directory"))
	}

	t, err := l.store.Load(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, abs, errs.NotFound(abs, err)
		}
		return nil, abs, errs.Format(abs, "not a CSV file", err)
	}

	if missing := t.MissingColumns(table.RequiredColumns...); len(missing) > 0 {
		msg := fmt.Sprintf("missing required columns %s", strings.Join(missing, ", "))
		return nil, abs, errs.Format(abs, msg, &MissingColumnsError{Columns: missing})
	}

	added := t.EnsureColumn(table.ColumnEvaluation)
	t.SortByKey()

	l.logger.InfoWithFields("Table loaded", map[string]interface{}{
		"path":             abs,
		"rows":             t.Len(),
		"completed":        t.Completed(),
		"evaluation_added": added,
	})

	return t, abs, nil
}

// MissingColumnsError names the required columns absent from a header
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing columns: " + strings.Join(e.Columns, ", ")
}
