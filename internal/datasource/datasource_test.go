package datasource

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/vanderheijden86/accordion/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collectWarnings() (*[]string, ParseOptions) {
	var (
		mu       sync.Mutex
		warnings []string
	)
	return &warnings, ParseOptions{WarningHandler: func(msg string) {
		mu.Lock()
		warnings = append(warnings, msg)
		mu.Unlock()
	}}
}

func TestParseJSONL(t *testing.T) {
	input := "\xEF\xBB\xBF" + `{"id":"a","title":"Alpha","body":"# A"}
{"id":"b","title":"Beta","tags":[" X "]}

not json
{"id":"","title":"nameless"}
{"id":"c","title":"Gamma"}
`
	warnings, opts := collectWarnings()
	rows, err := ParseJSONL(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ParseJSONL: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != "a" {
		t.Errorf("BOM not stripped, first ID %q", rows[0].ID)
	}
	if rows[1].Tags[0] != "x" {
		t.Errorf("expected normalized tag, got %q", rows[1].Tags[0])
	}
	if len(*warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", *warnings)
	}
}

func TestParseJSONLLongLine(t *testing.T) {
	input := `{"id":"a","title":"` + strings.Repeat("x", 200) + `"}` + "\n" + `{"id":"b","title":"B"}` + "\n"
	warnings, opts := collectWarnings()
	opts.BufferSize = 64
	rows, err := ParseJSONL(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ParseJSONL: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Errorf("expected only row b, got %+v", rows)
	}
	if len(*warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", *warnings)
	}
}

func TestParseYAML(t *testing.T) {
	list := `
- id: a
  title: Alpha
  body: |
    Some **markdown**
- id: b
  title: ""
`
	warnings, opts := collectWarnings()
	rows, err := ParseYAML(strings.NewReader(list), opts)
	if err != nil {
		t.Fatalf("ParseYAML list: %v", err)
	}
	if len(rows) != 1 || rows[0].Body != "Some **markdown**" {
		t.Errorf("unexpected rows %+v", rows)
	}
	if len(*warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", *warnings)
	}

	mapping := "rows:\n  - id: a\n    title: Alpha\n"
	rows, err = ParseYAML(strings.NewReader(mapping), opts)
	if err != nil {
		t.Fatalf("ParseYAML mapping: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}

	if _, err := ParseYAML(strings.NewReader("just a string"), opts); err == nil {
		t.Error("expected error for scalar document")
	}
}

func TestDetectType(t *testing.T) {
	tests := map[string]SourceType{
		"rows.jsonl":  SourceTypeJSONL,
		"rows.NDJSON": SourceTypeJSONL,
		"rows.yml":    SourceTypeYAML,
		"rows.yaml":   SourceTypeYAML,
		"rows.db":     SourceTypeSQLite,
	}
	for path, want := range tests {
		got, err := DetectType(path)
		if err != nil || got != want {
			t.Errorf("DetectType(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := DetectType("rows.csv"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func createSQLite(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE rows (id TEXT, title TEXT, summary TEXT, body TEXT, tags TEXT, updated_at TEXT)`,
		`INSERT INTO rows VALUES ('s1', 'First', 'one', 'body one', '["db","Core"]', '2025-01-02T03:04:05Z')`,
		`INSERT INTO rows VALUES ('s2', 'Second', NULL, NULL, 'a, b', NULL)`,
		`INSERT INTO rows VALUES ('', 'Broken', NULL, NULL, NULL, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
}

func TestSQLiteReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.db")
	createSQLite(t, path)

	src, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if src.Table != DefaultTable {
		t.Errorf("expected default table, got %q", src.Table)
	}
	reader, err := NewSQLiteReader(src)
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer reader.Close()

	rows, err := reader.LoadRows(context.Background())
	if err != nil {
		t.Fatalf("LoadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(rows))
	}
	if got := rows[0].Tags; len(got) != 2 || got[1] != "core" {
		t.Errorf("unexpected JSON tags %v", got)
	}
	if got := rows[1].Tags; len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected comma tags %v", got)
	}
	if rows[0].UpdatedAt.Year() != 2025 {
		t.Errorf("expected parsed timestamp, got %v", rows[0].UpdatedAt)
	}

	n, err := reader.CountRows(context.Background())
	if err != nil || n != 3 {
		t.Errorf("CountRows = %d, %v; want 3", n, err)
	}
}

func TestSQLiteReaderRejectsBadTable(t *testing.T) {
	_, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: "x.db", Table: "rows; DROP TABLE rows"})
	if err == nil {
		t.Error("expected invalid table name error")
	}
}

func TestLoadAllKeepsOrderAndDropsDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jsonl", `{"id":"1","title":"One"}`+"\n"+`{"id":"2","title":"Two"}`+"\n")
	b := writeFile(t, dir, "b.yaml", "- id: '2'\n  title: Dup\n- id: '3'\n  title: Three\n")

	sources, err := Discover([]string{a, b}, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	warnings, opts := collectWarnings()
	rows, err := LoadAll(context.Background(), sources, opts)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if strings.Join(ids, ",") != "1,2,3" {
		t.Errorf("unexpected order %v", ids)
	}
	if rows[1].Title != "Two" {
		t.Errorf("first source should win, got %q", rows[1].Title)
	}
	if len(*warnings) != 1 {
		t.Errorf("expected duplicate warning, got %v", *warnings)
	}
}

func TestLoadAllPropagatesErrors(t *testing.T) {
	_, err := LoadAll(context.Background(), []DataSource{{Type: SourceTypeJSONL, Path: "/nonexistent/rows.jsonl"}}, ParseOptions{})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rows.jsonl", "")
	writeFile(t, dir, "rows.jsonl.backup", "")
	writeFile(t, dir, ".hidden.yaml", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "more.yaml", "")

	sources, err := Discover([]string{dir}, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(sources) != 2 {
		t.Errorf("expected 2 sources, got %v", sources)
	}
}

func TestDiffRows(t *testing.T) {
	before := []model.Row{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}
	after := []model.Row{{ID: "b", Title: "B2"}, {ID: "a", Title: "A"}, {ID: "d", Title: "D"}}

	d := DiffRows(before, after)
	if len(d.Added) != 1 || d.Added[0] != "d" {
		t.Errorf("unexpected added %v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != "c" {
		t.Errorf("unexpected removed %v", d.Removed)
	}
	if len(d.Changed) != 1 || d.Changed[0] != "b" {
		t.Errorf("unexpected changed %v", d.Changed)
	}
	if !d.Moved {
		t.Error("expected reorder to be detected")
	}
	if got := d.Summary(); got != "1 added, 1 removed, 1 changed, reordered" {
		t.Errorf("unexpected summary %q", got)
	}
	if !DiffRows(before, before).Empty() {
		t.Error("identical sets should have an empty diff")
	}
}

func TestDemoRows(t *testing.T) {
	a := DemoRows(12, 7)
	b := DemoRows(12, 7)
	if len(a) != 12 {
		t.Fatalf("got %d rows", len(a))
	}
	empty := 0
	for i := range a {
		if err := a[i].Validate(); err != nil {
			t.Errorf("row %d invalid: %v", i, err)
		}
		if !a[i].Equal(b[i]) {
			t.Errorf("row %d differs for the same seed", i)
		}
		if !a[i].HasDetail() {
			empty++
		}
	}
	if empty != 2 {
		t.Errorf("%d rows without body, want 2", empty)
	}
}
