package latency

import "time"

// DefaultCapacity is the number of recent labels used for rate estimates
const DefaultCapacity = 10

// Window is a bounded FIFO of recent per-record labeling durations.
// It is not safe for concurrent use; a session owns exactly one.
type Window struct {
	capacity int
	samples  []time.Duration
}

// New creates an empty window holding at most capacity samples
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		capacity: capacity,
		samples:  make([]time.Duration, 0, capacity+1),
	}
}

// Add appends d and evicts the oldest sample once the window overflows
func (w *Window) Add(d time.Duration) {
	w.samples = append(w.samples, d)
	if len(w.samples) > w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.capacity]
	}
}

// Len returns the number of samples held
func (w *Window) Len() int {
	return len(w.samples)
}

// Full reports whether the window holds capacity samples
func (w *Window) Full() bool {
	return len(w.samples) == w.capacity
}

// Mean returns the arithmetic mean of the samples, or zero when empty
func (w *Window) Mean() time.Duration {
	if len(w.samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range w.samples {
		total += d
	}
	return total / time.Duration(len(w.samples))
}

// Estimate projects the time needed for remaining records at the mean rate.
// ok is false until the window is full.
func (w *Window) Estimate(remaining int) (time.Duration, bool) {
	if !w.Full() {
		return 0, false
	}
	return w.Mean() * time.Duration(remaining), true
}

// Values returns the samples oldest first
func (w *Window) Values() []time.Duration {
	out := make([]time.Duration, len(w.samples))
	copy(out, w.samples)
	return out
}
