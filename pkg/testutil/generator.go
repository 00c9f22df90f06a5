// Package testutil provides deterministic row fixtures and assertions for
// tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/accordion/pkg/model"
)

// RowFixture is a set of rows for integration testing, as stored in
// testdata/*.json files.
type RowFixture struct {
	Description string      `json:"description"`
	Rows        []model.Row `json:"rows"`
}

// GeneratorConfig controls row generation.
type GeneratorConfig struct {
	Seed        int64     // Random seed for determinism (0 = use current time)
	IDPrefix    string    // Prefix for row IDs (default: "ROW")
	BaseTime    time.Time // Base time for timestamps (default: fixed time)
	MinBody     int       // Minimum body paragraphs (default: 1)
	MaxBody     int       // Maximum body paragraphs (default: 4)
	IncludeTags bool      // Generate random tags
	// EmptyEvery leaves the body of every n-th row empty (0 = never).
	EmptyEvery int
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42, // Deterministic
		IDPrefix: "ROW",
		BaseTime: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		MinBody:  1,
		MaxBody:  4,
	}
}

// Generator creates row fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "ROW"
	}
	if cfg.MinBody <= 0 {
		cfg.MinBody = 1
	}
	if cfg.MaxBody < cfg.MinBody {
		cfg.MaxBody = cfg.MinBody
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var (
	sampleWords = []string{"cache", "layout", "scroll", "render", "height", "toggle", "frame", "buffer", "index", "window", "bind", "recycle"}
	sampleTags  = []string{"backend", "frontend", "api", "database", "ui", "perf", "docs", "testing"}
)

// Rows creates n rows with bodies of varying length.
func (g *Generator) Rows(n int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		w := g.word()
		row := model.Row{
			ID:        RowIDWithPrefix(g.cfg.IDPrefix, i),
			Title:     fmt.Sprintf("%s%s %s", strings.ToUpper(w[:1]), w[1:], g.word()),
			Summary:   g.sentence(4),
			UpdatedAt: g.cfg.BaseTime.Add(time.Duration(i) * time.Hour),
		}
		if g.cfg.EmptyEvery <= 0 || (i+1)%g.cfg.EmptyEvery != 0 {
			row.Body = g.body()
		}
		if g.cfg.IncludeTags {
			row.Tags = g.tags()
		}
		rows[i] = row
	}
	return rows
}

func (g *Generator) word() string {
	return sampleWords[g.rng.Intn(len(sampleWords))]
}

func (g *Generator) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = g.word()
	}
	return strings.Join(parts, " ")
}

func (g *Generator) body() string {
	n := g.cfg.MinBody + g.rng.Intn(g.cfg.MaxBody-g.cfg.MinBody+1)
	paras := make([]string, n)
	for i := range paras {
		paras[i] = g.sentence(6 + g.rng.Intn(6)) + "."
	}
	return strings.Join(paras, "\n\n")
}

func (g *Generator) tags() []string {
	count := g.rng.Intn(3) + 1
	tags := make([]string, 0, count)
	used := make(map[int]bool)
	for len(tags) < count {
		idx := g.rng.Intn(len(sampleTags))
		if !used[idx] {
			used[idx] = true
			tags = append(tags, sampleTags[idx])
		}
	}
	return tags
}

// ToJSONL converts rows to JSONL format (one JSON object per line).
func ToJSONL(rows []model.Row) string {
	var sb strings.Builder
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// QuickRows creates n rows with default settings.
func QuickRows(n int) []model.Row {
	return NewDefault().Rows(n)
}

// LinesRows creates n rows whose bodies are exactly lines plain lines, so
// detail heights are predictable.
func LinesRows(n, lines int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		body := make([]string, lines)
		for j := range body {
			body[j] = fmt.Sprintf("row %d line %d", i, j+1)
		}
		rows[i] = model.Row{
			ID:    RowID(i),
			Title: fmt.Sprintf("Row %d", i),
			Body:  strings.Join(body, "\n"),
		}
	}
	return rows
}

// Empty returns an empty row slice for edge case testing.
func Empty() []model.Row {
	return []model.Row{}
}

// Single returns a single row.
func Single() []model.Row {
	return []model.Row{{
		ID:        "ROW-single",
		Title:     "Single Row",
		Body:      "Only row.",
		UpdatedAt: DefaultConfig().BaseTime,
	}}
}

// RowID returns the default fixture ID for index.
func RowID(index int) string {
	return RowIDWithPrefix("ROW", index)
}

// RowIDWithPrefix formats a fixture ID.
func RowIDWithPrefix(prefix string, index int) string {
	return fmt.Sprintf("%s-%03d", prefix, index)
}
