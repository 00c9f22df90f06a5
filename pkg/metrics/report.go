package metrics

import (
	"io"

	"github.com/goccy/go-json"
)

// Report is everything collected so far.
type Report struct {
	Timings []TimingStats `json:"timings"`
	Caches  []CacheStats  `json:"caches"`
	Frames  SampleStats   `json:"frames"`
}

// Snapshot collects a Report.
func Snapshot() Report {
	caches := AllCacheMetrics()
	r := Report{
		Timings: AllTimingStats(),
		Caches:  make([]CacheStats, 0, len(caches)),
		Frames:  FrameLag.Stats(),
	}
	for _, m := range caches {
		r.Caches = append(r.Caches, m.Stats())
	}
	return r
}

// WriteJSON writes the current Report as indented JSON.
func WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot())
}
