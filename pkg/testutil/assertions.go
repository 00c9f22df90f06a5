package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/accordion/pkg/model"
)

// AssertRowCount verifies the expected number of rows.
func AssertRowCount(t *testing.T, rows []model.Row, expected int) {
	t.Helper()
	if len(rows) != expected {
		t.Errorf("expected %d rows, got %d", expected, len(rows))
	}
}

// AssertNoDuplicateIDs verifies all row IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, rows []model.Row) {
	t.Helper()
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.ID] {
			t.Errorf("duplicate row ID: %s", row.ID)
		}
		seen[row.ID] = true
	}
}

// AssertAllValid verifies all rows pass validation.
func AssertAllValid(t *testing.T, rows []model.Row) {
	t.Helper()
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			t.Errorf("row %d (%s) invalid: %v", i, row.ID, err)
		}
	}
}

// AssertIDs verifies rows carry exactly the given IDs in order.
func AssertIDs(t *testing.T, rows []model.Row, ids ...string) {
	t.Helper()
	got := GetIDs(rows)
	if strings.Join(got, ",") != strings.Join(ids, ",") {
		t.Errorf("IDs = %v, want %v", got, ids)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// WriteRowsFile writes rows as JSONL to path, creating parent directories.
func WriteRowsFile(t *testing.T, path string, rows []model.Row) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(rows)), 0644); err != nil {
		t.Fatalf("failed to write rows file: %v", err)
	}
}

// TempRowsFile writes rows to rows.jsonl in a fresh temp dir and returns
// its path.
func TempRowsFile(t *testing.T, rows []model.Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.jsonl")
	WriteRowsFile(t, path, rows)
	return path
}

// BuildRowMap creates a map from ID to Row for quick lookups.
func BuildRowMap(rows []model.Row) map[string]*model.Row {
	m := make(map[string]*model.Row, len(rows))
	for i := range rows {
		m[rows[i].ID] = &rows[i]
	}
	return m
}

// FindRow returns the row with id, or nil.
func FindRow(rows []model.Row, id string) *model.Row {
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i]
		}
	}
	return nil
}

// GetIDs returns the IDs of rows in order.
func GetIDs(rows []model.Row) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}
