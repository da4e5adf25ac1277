package labeler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textrater/pkg/checkpoint"
	errs "textrater/pkg/errors"
	"textrater/pkg/latency"
	"textrater/pkg/logger"
	"textrater/pkg/table"
	"textrater/pkg/ui"
)

const source = "/data/texts.csv"

// timedKeys replays keys and advances the clock by step on every read, so a
// row's latency equals step times the keys read while it was shown
type timedKeys struct {
	keys []rune
	now  time.Time
	step time.Duration
}

func newTimedKeys(keys string, step time.Duration) *timedKeys {
	return &timedKeys{
		keys: []rune(keys),
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (k *timedKeys) ReadKey() (rune, error) {
	if len(k.keys) == 0 {
		return 0, io.EOF
	}
	r := k.keys[0]
	k.keys = k.keys[1:]
	k.now = k.now.Add(k.step)
	return r, nil
}

func (k *timedKeys) clock() time.Time {
	return k.now
}

type fakeRecorder struct {
	entries []string
	err     error
}

func (f *fakeRecorder) Record(src, key, label string, latency time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, fmt.Sprintf("%s %s=%s %.0fs", src, key, label, latency.Seconds()))
	return nil
}

type harness struct {
	table  *table.Table
	store  *table.MemoryStore
	keys   *timedKeys
	out    *bytes.Buffer
	labels *Labeler
}

func newHarness(t *testing.T, tbl *table.Table, keys string, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		table: tbl,
		store: table.NewMemoryStore(),
		keys:  newTimedKeys(keys, time.Second),
		out:   &bytes.Buffer{},
	}
	manager := checkpoint.NewManager(h.store, source, checkpoint.DefaultInterval, nil)
	opts = append([]Option{WithClock(h.keys.clock)}, opts...)
	h.labels = New(tbl, source, h.keys, ui.NewDisplay(h.out, true), manager,
		latency.New(latency.DefaultCapacity), opts...)
	return h
}

func keyedTable(keys ...string) *table.Table {
	rows := make([]table.Row, len(keys))
	for i, k := range keys {
		rows[i] = table.Row{
			table.ColumnKey:        k,
			table.ColumnPrompt:     "prompt " + k,
			table.ColumnResult:     "result " + k,
			table.ColumnEvaluation: "",
		}
	}
	return table.New([]string{table.ColumnKey, table.ColumnPrompt, table.ColumnResult, table.ColumnEvaluation}, rows)
}

func numberedTable(n int) *table.Table {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i + 1)
	}
	return keyedTable(keys...)
}

func TestQuitSavesPartialProgress(t *testing.T) {
	h := newHarness(t, keyedTable("a", "b", "c"), "310")

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Quit, outcome)

	saves := h.store.Saves()
	require.Len(t, saves, 1)
	assert.Equal(t, source, saves[0].Path)
	assert.Equal(t, [][]string{
		{"key", "prompt", "result", "evaluation"},
		{"a", "prompt a", "result a", "3"},
		{"b", "prompt b", "result b", "1"},
		{"c", "prompt c", "result c", ""},
	}, saves[0].Records)

	out := h.out.String()
	assert.Contains(t, out, "Progress: 0.00% complete, 3 remaining\n")
	assert.Contains(t, out, "Progress: 33.33% complete, 2 remaining\n")
	assert.Contains(t, out, "Progress: 66.67% complete, 1 remaining\n")
	assert.Contains(t, out, "Average time over the last 1: 1.00s\n")
	assert.Contains(t, out, "Average time over the last 2: 1.00s\n")
	assert.NotContains(t, out, "estimated time remaining")
	assert.True(t, strings.HasSuffix(out, "Rate this text 1 to 5, or 0 to quit: 0\nProgress saved. Exiting.\n"))
}

func TestFirstRecordDisplay(t *testing.T) {
	h := newHarness(t, keyedTable("a"), "0")

	_, err := h.labels.Run()
	require.NoError(t, err)

	want := "\nProgress: 0.00% complete, 1 remaining\n" +
		"\n---\n\n" +
		"Key: a\n" +
		"Prompt: prompt a\n" +
		"Result: result a\n\n" +
		"Rate this text 1 to 5, or 0 to quit: 0\n" +
		"Progress saved. Exiting.\n"
	assert.Equal(t, want, h.out.String())
}

func TestCompleteTenRows(t *testing.T) {
	h := newHarness(t, numberedTable(10), strings.Repeat("5", 10))

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)

	saves := h.store.Saves()
	require.Len(t, saves, 2, "one periodic checkpoint and one final save")
	assert.Equal(t, saves[0].Records, saves[1].Records)
	for _, record := range saves[1].Records[1:] {
		assert.Equal(t, "5", record[3])
	}

	out := h.out.String()
	assert.Equal(t, 1, strings.Count(out, "Saved after evaluating 10 texts."))
	assert.True(t, strings.HasSuffix(out, "Saved after evaluating 10 texts.\nAll evaluations have been saved to the CSV file.\n"))
}

func TestCheckpointEveryTenthRow(t *testing.T) {
	h := newHarness(t, numberedTable(25), strings.Repeat("2", 25))

	_, err := h.labels.Run()
	require.NoError(t, err)

	assert.Len(t, h.store.Saves(), 3)
	out := h.out.String()
	assert.Contains(t, out, "Saved after evaluating 10 texts.")
	assert.Contains(t, out, "Saved after evaluating 20 texts.")
	assert.NotContains(t, out, "Saved after evaluating 25 texts.")
}

func TestInvalidKeysKeepTimerRunning(t *testing.T) {
	h := newHarness(t, keyedTable("a", "b"), "x9\r30")

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Quit, outcome)

	assert.Equal(t, "3", h.table.Get(0, table.ColumnEvaluation))
	assert.Equal(t, []time.Duration{4 * time.Second}, h.labels.Window().Values())

	out := h.out.String()
	assert.Equal(t, 3, strings.Count(out, "Please enter a rating from 1 to 5, or 0 to quit."))
	assert.Contains(t, out, "Average time over the last 1: 4.00s\n")
	assert.Equal(t, 1, strings.Count(out, "Key: a\n"), "invalid keys do not redisplay the record")
}

func TestWindowKeepsLastTen(t *testing.T) {
	h := newHarness(t, numberedTable(12), strings.Repeat("4", 11)+"0")

	_, err := h.labels.Run()
	require.NoError(t, err)

	assert.Equal(t, 10, h.labels.Window().Len())
	out := h.out.String()
	assert.Contains(t, out, "Average time over the last 9: 1.00s\n")
	assert.Contains(t, out, "Average time over the last 10: 1.00s, estimated time remaining: 2.00s\n")
	assert.Contains(t, out, "Average time over the last 10: 1.00s, estimated time remaining: 1.00s\n")
	assert.NotContains(t, out, "last 11")
}

func TestSkipsLabeledRows(t *testing.T) {
	tbl := keyedTable("a", "b", "c")
	require.NoError(t, tbl.Set(0, table.ColumnEvaluation, "4"))
	require.NoError(t, tbl.Set(2, table.ColumnEvaluation, "1"))

	h := newHarness(t, tbl, "2")

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)

	out := h.out.String()
	assert.NotContains(t, out, "Key: a\n")
	assert.Contains(t, out, "Key: b\n")
	assert.NotContains(t, out, "Key: c\n")
	assert.Contains(t, out, "Progress: 66.67% complete, 1 remaining\n")

	saves := h.store.Saves()
	require.Len(t, saves, 1)
	assert.Equal(t, "4", saves[0].Records[1][3])
	assert.Equal(t, "2", saves[0].Records[2][3])
	assert.Equal(t, "1", saves[0].Records[3][3])
}

func TestEmptyTableCompletes(t *testing.T) {
	h := newHarness(t, keyedTable(), "")

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Len(t, h.store.Saves(), 1)
	assert.Equal(t, "All evaluations have been saved to the CSV file.\n", h.out.String())
}

func TestStorageFailureIsFatal(t *testing.T) {
	tests := []struct {
		name string
		rows int
		keys string
	}{
		{"periodic checkpoint", 12, strings.Repeat("1", 12)},
		{"quit", 3, "0"},
		{"completion", 2, "11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, numberedTable(tt.rows), tt.keys)
			h.store.SaveErr = errors.New("disk full")

			_, err := h.labels.Run()
			require.Error(t, err)
			assert.Equal(t, errs.ErrorTypeStorageWrite, errs.TypeOf(err))
			assert.Contains(t, err.Error(), "disk full")
			assert.NotContains(t, h.out.String(), "Progress saved. Exiting.")
			assert.NotContains(t, h.out.String(), "All evaluations have been saved")
		})
	}
}

func TestKeyReaderEOF(t *testing.T) {
	h := newHarness(t, keyedTable("a", "b"), "3")

	_, err := h.labels.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Empty(t, h.store.Saves(), "nothing is saved when input disappears")
}

func TestRecorderReceivesRatings(t *testing.T) {
	rec := &fakeRecorder{}
	h := newHarness(t, keyedTable("a", "b"), "x52", WithRecorder(rec))

	_, err := h.labels.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{
		source + " a=5 2s",
		source + " b=2 1s",
	}, rec.entries)
}

func TestRecorderFailureDoesNotStopSession(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("database is locked")}
	tl := logger.NewTestLogger()
	h := newHarness(t, keyedTable("a", "b"), "12", WithRecorder(rec), WithLogger(tl))

	outcome, err := h.labels.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 2)
	assert.True(t, tl.HasMessage("Failed to journal rating"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "quit", Quit.String())
}
