// Package datasource discovers and loads accordion rows from JSONL, YAML and
// SQLite sources.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSONL is a file with one JSON row per line
	SourceTypeJSONL SourceType = "jsonl"
	// SourceTypeYAML is a YAML document holding a list of rows
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeSQLite is a SQLite database with a rows table
	SourceTypeSQLite SourceType = "sqlite"
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "rows"

// DataSource represents one file rows can be loaded from
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Table is the SQLite table to read (SQLite sources only)
	Table string `json:"table,omitempty"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size)
}

// DetectType guesses the source type from the file extension.
func DetectType(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return SourceTypeJSONL, nil
	case ".yaml", ".yml":
		return SourceTypeYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	default:
		return "", fmt.Errorf("unsupported source %s: expected .jsonl, .yaml or .db", path)
	}
}

// Open resolves path into a DataSource. table is only used for SQLite
// sources and defaults to DefaultTable.
func Open(path, table string) (DataSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("failed to stat source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", abs)
	}
	typ, err := DetectType(abs)
	if err != nil {
		return DataSource{}, err
	}
	src := DataSource{
		Type:    typ,
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	if typ == SourceTypeSQLite {
		src.Table = table
		if src.Table == "" {
			src.Table = DefaultTable
		}
	}
	return src, nil
}

// Discover expands paths into sources. Directories contribute every
// supported file directly inside them, newest first; backups and editor
// leftovers are skipped.
func Discover(paths []string, table string) ([]DataSource, error) {
	var sources []DataSource
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source: %w", err)
		}
		if !info.IsDir() {
			src, err := Open(p, table)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}

		found, err := discoverDir(p, table)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

func discoverDir(dir, table string) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") ||
			strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.HasSuffix(name, "~") {
			continue
		}
		if _, err := DetectType(name); err != nil {
			continue
		}
		src, err := Open(filepath.Join(dir, name), table)
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Path < sources[j].Path
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}
