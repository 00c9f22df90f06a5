package datasource

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/accordion/pkg/model"
)

var (
	demoTitles = []string{
		"Implement authentication flow",
		"Fix memory leak in cache",
		"Add API rate limiting",
		"Refactor database queries",
		"Update documentation",
		"Add unit tests for parser",
		"Optimize list layout",
		"Fix race condition in worker",
		"Add metrics dashboard",
		"Implement retry logic",
	}

	demoBodies = []string{
		"This task involves implementing the core functionality.\n\n## Details\n- Step 1: Research\n- Step 2: Implement\n- Step 3: Test",
		"Bug fix for critical performance issue.\n\n## Reproduction\n1. Run under load\n2. Observe memory growth\n3. Check for leaks",
		"New feature request from stakeholders.\n\n## Acceptance Criteria\n- [ ] Works correctly\n- [ ] Has tests\n- [ ] Documented",
		"Short note with a snippet:\n\n```go\nctrl.Bind(view, pos)\n```",
		"",
	}

	demoTags = []string{"backend", "frontend", "api", "ui", "perf", "docs"}
)

// DemoRows returns n deterministic rows with markdown bodies of varying
// length. Every fifth row has no body.
func DemoRows(n int, seed int64) []model.Row {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.Row{
			ID:        fmt.Sprintf("DEMO-%d", i+1),
			Title:     fmt.Sprintf("%s #%d", demoTitles[rng.Intn(len(demoTitles))], i+1),
			Summary:   fmt.Sprintf("%d notes", rng.Intn(9)+1),
			Body:      demoBodies[i%len(demoBodies)],
			Tags:      []string{demoTags[rng.Intn(len(demoTags))]},
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return rows
}
