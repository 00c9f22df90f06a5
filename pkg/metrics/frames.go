package metrics

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// maxSamples bounds the memory of a Sampler; older samples are overwritten.
const maxSamples = 4096

// Sampler keeps a bounded window of duration samples and summarises them.
type Sampler struct {
	name    string
	mu      sync.Mutex
	samples []float64 // milliseconds
	next    int
}

func newSampler(name string) *Sampler {
	return &Sampler{name: name}
}

// FrameLag records how late each animation frame arrived relative to its
// scheduled time.
var FrameLag = newSampler("frame_lag")

// Add records one sample.
func (s *Sampler) Add(d time.Duration) {
	if !enabled {
		return
	}
	ms := float64(d) / float64(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) < maxSamples {
		s.samples = append(s.samples, ms)
		return
	}
	s.samples[s.next] = ms
	s.next = (s.next + 1) % maxSamples
}

// Reset drops all samples.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = s.samples[:0]
	s.next = 0
}

// SampleStats summarises a Sampler.
type SampleStats struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	StdMs  float64 `json:"std_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
}

// Stats computes mean, standard deviation and quantiles of the window.
func (s *Sampler) Stats() SampleStats {
	s.mu.Lock()
	sorted := make([]float64, len(s.samples))
	copy(sorted, s.samples)
	s.mu.Unlock()

	out := SampleStats{Name: s.name, Count: len(sorted)}
	if len(sorted) == 0 {
		return out
	}
	sort.Float64s(sorted)
	out.MeanMs, out.StdMs = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		out.StdMs = 0
	}
	out.P50Ms = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	out.P95Ms = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return out
}
