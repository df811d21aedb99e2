package statsd

import (
	"maps"
	"sync"
	"time"
)

// Sample is one metric observed by a Recorder.
type Sample struct {
	Name     string
	Value    float64
	Duration time.Duration
	Tags     map[string]string
}

// Recorder is an in-memory Sink that keeps every emitted metric. It backs the
// console's tests and the memory-only development mode.
type Recorder struct {
	mu      sync.Mutex
	counts  []Sample
	timings []Sample
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, Sample{Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, Sample{Name: name, Duration: value, Tags: maps.Clone(tags)})
}

// Counts returns a copy of the recorded counters.
func (r *Recorder) Counts() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.counts...)
}

// Timings returns a copy of the recorded timings.
func (r *Recorder) Timings() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.timings...)
}

// CountOf sums the counters recorded under name.
func (r *Recorder) CountOf(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, s := range r.counts {
		if s.Name == name {
			total += int64(s.Value)
		}
	}
	return total
}
