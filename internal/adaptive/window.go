package adaptive

// Window is a fixed-capacity rolling record of answer outcomes.
// The oldest outcome is evicted once capacity is reached.
// It is not safe for concurrent use; callers hold the session lock.
type Window struct {
	size    int
	results []bool
}

// NewWindow creates an empty window. Sizes below 1 are raised to 1.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{size: size, results: make([]bool, 0, size)}
}

// Push appends an outcome, evicting the oldest one on overflow.
// Returns true if the window is exactly full after the push.
func (w *Window) Push(correct bool) bool {
	if len(w.results) == w.size {
		copy(w.results, w.results[1:])
		w.results = w.results[:w.size-1]
	}
	w.results = append(w.results, correct)
	return w.Full()
}

// Full reports whether the window holds exactly Size outcomes.
func (w *Window) Full() bool { return len(w.results) == w.size }

// Len returns the number of recorded outcomes.
func (w *Window) Len() int { return len(w.results) }

// Size returns the window capacity.
func (w *Window) Size() int { return w.size }

// Correct returns the number of correct outcomes in the window.
func (w *Window) Correct() int { return countCorrect(w.results) }

// Results returns a copy of the outcomes, oldest first.
func (w *Window) Results() []bool {
	out := make([]bool, len(w.results))
	copy(out, w.results)
	return out
}

// Clear drops all outcomes.
func (w *Window) Clear() { w.results = w.results[:0] }
