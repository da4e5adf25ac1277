package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	errs "textrater/pkg/errors"
	"textrater/pkg/logger"
	"textrater/pkg/table"
)

func sampleTable() *table.Table {
	return table.New([]string{"key", "prompt", "result", "evaluation"}, []table.Row{
		{"key": "a", "prompt": "p", "result": "r", "evaluation": "3"},
		{"key": "b", "prompt": "p", "result": "r", "evaluation": ""},
	})
}

func TestCheckpointManager(t *testing.T) {
	t.Run("Due", func(t *testing.T) {
		mgr := NewManager(table.NewMemoryStore(), "in.csv", 10, nil)

		for _, position := range []int{10, 20, 100} {
			if !mgr.Due(position) {
				t.Errorf("expected position %d to be due", position)
			}
		}
		for _, position := range []int{0, 1, 9, 11, 19} {
			if mgr.Due(position) {
				t.Errorf("expected position %d not to be due", position)
			}
		}
	})

	t.Run("DefaultInterval", func(t *testing.T) {
		mgr := NewManager(table.NewMemoryStore(), "in.csv", 0, nil)
		if mgr.Interval() != DefaultInterval {
			t.Errorf("Expected interval %d, got %d", DefaultInterval, mgr.Interval())
		}
	})

	t.Run("SaveWritesThroughStore", func(t *testing.T) {
		store := table.NewMemoryStore()
		tl := logger.NewTestLogger()
		mgr := NewManager(store, "in.csv", 10, tl)

		if err := mgr.Save(sampleTable(), ReasonQuit); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}

		saves := store.Saves()
		if len(saves) != 1 {
			t.Fatalf("Expected 1 save, got %d", len(saves))
		}
		if saves[0].Path != "in.csv" {
			t.Errorf("Expected path in.csv, got %s", saves[0].Path)
		}
		if mgr.Saves() != 1 || mgr.LastSave().IsZero() {
			t.Error("Expected save counters to be updated")
		}

		msgs := tl.GetMessagesByLevel("DEBUG")
		if len(msgs) != 1 || msgs[0].Fields["reason"] != "quit" {
			t.Errorf("Expected a debug log with reason quit, got %v", msgs)
		}
	})

	t.Run("SaveFailureIsStorageWrite", func(t *testing.T) {
		store := table.NewMemoryStore()
		store.SaveErr = errors.New("disk full")
		tl := logger.NewTestLogger()
		mgr := NewManager(store, "in.csv", 10, tl)

		err := mgr.Save(sampleTable(), ReasonInterval)
		if !errs.Is(err, errs.ErrorTypeStorageWrite) {
			t.Fatalf("Expected storage_write error, got %v", err)
		}
		if mgr.Saves() != 0 {
			t.Error("Failed save must not be counted")
		}
		if !tl.HasError() {
			t.Error("Expected the failure to be logged")
		}
	})

	t.Run("SaveToDisk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "texts.csv")
		mgr := NewManager(table.NewCSVStore(), path, 10, nil)

		if err := mgr.Save(sampleTable(), ReasonComplete); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read checkpoint: %v", err)
		}
		want := "key,prompt,result,evaluation\na,p,r,3\nb,p,r,\n"
		if string(data) != want {
			t.Errorf("Expected %q, got %q", want, string(data))
		}
	})
}
