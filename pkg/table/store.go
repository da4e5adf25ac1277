package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrEmpty is returned when a file has no header row
var ErrEmpty = errors.New("no header row")

// Store loads and persists record tables
type Store interface {
	Load(path string) (*Table, error)
	Save(path string, t *Table) error
}

// CSVStore reads and writes tables as CSV files on the local filesystem
type CSVStore struct{}

// NewCSVStore creates a new CSV-backed store
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

// Load reads the CSV file at path. File-system errors are returned unwrapped
// enough for os.IsNotExist to see them; parse failures wrap ErrEmpty or the
// csv package's *csv.ParseError.
func (s *CSVStore) Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses CSV content into a Table
func Decode(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	// Short rows are padded below, long rows rejected
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return New(header, rows), nil
}

// Encode writes the table as CSV, header first
func Encode(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return nil
}

// Save overwrites path with the table atomically: the content goes to a
// temporary file in the same directory which then replaces the target.
func (s *CSVStore) Save(path string, t *Table) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := file.Name()

	if err := Encode(file, t); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// MemoryStore keeps tables in memory and records every save. Useful for tests.
type MemoryStore struct {
	mu      sync.Mutex
	tables  map[string]*Table
	saves   []Snapshot
	SaveErr error
}

// Snapshot is the encoded content of one Save call
type Snapshot struct {
	Path    string
	Records [][]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*Table)}
}

// Put seeds the store with a table at path
func (m *MemoryStore) Put(path string, t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[path] = t
}

// Load returns the table stored at path
func (m *MemoryStore) Load(path string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return t, nil
}

// Save records a snapshot of t, or fails with SaveErr when set
func (m *MemoryStore) Save(path string, t *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.tables[path] = t
	m.saves = append(m.saves, Snapshot{Path: path, Records: t.Records()})
	return nil
}

// Saves returns every snapshot written so far
func (m *MemoryStore) Saves() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	saves := make([]Snapshot, len(m.saves))
	copy(saves, m.saves)
	return saves
}
