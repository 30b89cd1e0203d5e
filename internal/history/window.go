package history

import "time"

// WindowCap bounds the rolling sensor history per (asset, channel) pair.
// The 31st append evicts the oldest sample.
const WindowCap = 30

type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Window is a FIFO ring of the most recent samples for one sparkline.
type Window struct {
	samples []Sample
}

func (w *Window) Append(s Sample) {
	w.samples = append(w.samples, s)
	if len(w.samples) > WindowCap {
		w.samples = w.samples[len(w.samples)-WindowCap:]
	}
}

func (w *Window) Len() int {
	return len(w.samples)
}

// Samples returns a copy of the window, oldest first.
func (w *Window) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Latest returns the most recent sample.
func (w *Window) Latest() (Sample, bool) {
	if len(w.samples) == 0 {
		return Sample{}, false
	}
	return w.samples[len(w.samples)-1], true
}
