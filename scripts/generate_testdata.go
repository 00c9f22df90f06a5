// +build ignore

// generate_testdata.go creates standard row datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   tests/testdata/benchmark/small.jsonl   (100 rows)
//   tests/testdata/benchmark/medium.jsonl  (1000 rows)
//   tests/testdata/benchmark/large.jsonl   (5000 rows)
//   tests/testdata/benchmark/huge.jsonl    (20000 rows)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/accordion/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
	desc string
}

var datasets = []datasetSpec{
	{"small", 100, "100 rows - short bodies"},
	{"medium", 1000, "1000 rows - mixed bodies, some empty"},
	{"large", 5000, "5000 rows - long bodies"},
	{"huge", 20000, "20000 rows - long bodies, tagged"},
}

func main() {
	outputDir := "tests/testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%s)...\n", ds.name, ds.desc)

		minBody, maxBody := bodyRange(ds.size)
		cfg := testutil.GeneratorConfig{
			Seed:        int64(ds.size), // Reproducible per-size
			IDPrefix:    "BENCH",
			MinBody:     minBody,
			MaxBody:     maxBody,
			IncludeTags: ds.size >= 20000,
		}
		if ds.size == 1000 {
			cfg.EmptyEvery = 7
		}

		rows := testutil.New(cfg).Rows(ds.size)
		jsonl := testutil.ToJSONL(rows)

		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(outputPath, []byte(jsonl), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(jsonl))
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

// bodyRange returns the paragraph range per row; larger sets get longer
// bodies so the layout pass has more to measure.
func bodyRange(size int) (int, int) {
	switch {
	case size <= 100:
		return 1, 2
	case size <= 1000:
		return 1, 4
	default:
		return 3, 8
	}
}
