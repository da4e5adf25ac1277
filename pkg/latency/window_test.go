package latency

import (
	"testing"
	"time"
)

func TestWindowMean(t *testing.T) {
	w := New(DefaultCapacity)

	if w.Mean() != 0 {
		t.Errorf("empty window mean = %v, want 0", w.Mean())
	}

	w.Add(1 * time.Second)
	w.Add(2 * time.Second)
	w.Add(6 * time.Second)

	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
	if w.Mean() != 3*time.Second {
		t.Errorf("Mean() = %v, want 3s", w.Mean())
	}
	if w.Full() {
		t.Error("window with 3 samples should not be full")
	}
	if _, ok := w.Estimate(5); ok {
		t.Error("Estimate should not be available before the window is full")
	}
}

func TestWindowEviction(t *testing.T) {
	w := New(10)

	for i := 1; i <= 11; i++ {
		w.Add(time.Duration(i) * time.Second)
	}

	if w.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", w.Len())
	}

	values := w.Values()
	if values[0] != 2*time.Second {
		t.Errorf("oldest sample = %v, want 2s", values[0])
	}
	if values[9] != 11*time.Second {
		t.Errorf("newest sample = %v, want 11s", values[9])
	}

	// mean of 2..11 is 6.5s
	if w.Mean() != 6500*time.Millisecond {
		t.Errorf("Mean() = %v, want 6.5s", w.Mean())
	}

	estimate, ok := w.Estimate(4)
	if !ok {
		t.Fatal("Estimate should be available once the window is full")
	}
	if estimate != 26*time.Second {
		t.Errorf("Estimate(4) = %v, want 26s", estimate)
	}
}

func TestWindowLengthNeverExceedsCapacity(t *testing.T) {
	w := New(3)
	for i := 0; i < 50; i++ {
		w.Add(time.Millisecond)
		want := i + 1
		if want > 3 {
			want = 3
		}
		if w.Len() != want {
			t.Fatalf("after %d adds Len() = %d, want %d", i+1, w.Len(), want)
		}
	}
}

func TestWindowDefaultCapacity(t *testing.T) {
	w := New(0)
	for i := 0; i < DefaultCapacity+1; i++ {
		w.Add(time.Second)
	}
	if w.Len() != DefaultCapacity || !w.Full() {
		t.Errorf("Len() = %d, want a full window of %d", w.Len(), DefaultCapacity)
	}
}
