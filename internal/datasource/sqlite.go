package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/model"
)

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteReader provides read access to a rows table in a SQLite database
type SQLiteReader struct {
	db    *sql.DB
	path  string
	table string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	table := source.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRE.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:    db,
		path:  source.Path,
		table: table,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRows reads all rows in insertion order.
func (r *SQLiteReader) LoadRows(ctx context.Context) ([]model.Row, error) {
	query := fmt.Sprintf(`SELECT id, title, summary, body, tags, updated_at FROM %s ORDER BY rowid`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		debug.Log("datasource: full query on %s failed, falling back: %v", r.path, err)
		return r.loadRowsSimple(ctx)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var row model.Row
		var summary, body, tags, updatedAt sql.NullString
		if err := rows.Scan(&row.ID, &row.Title, &summary, &body, &tags, &updatedAt); err != nil {
			continue
		}
		row.Summary = summary.String
		row.Body = body.String
		if tags.Valid {
			row.Tags = parseTags(tags.String)
		}
		if updatedAt.Valid {
			row.UpdatedAt = parseTime(updatedAt.String)
		}
		if keep(&row) {
			out = append(out, row)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// loadRowsSimple is a fallback for tables that only carry id, title and body
func (r *SQLiteReader) loadRowsSimple(ctx context.Context) ([]model.Row, error) {
	query := fmt.Sprintf(`SELECT id, title, body FROM %s ORDER BY rowid`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var row model.Row
		var body sql.NullString
		if err := rows.Scan(&row.ID, &row.Title, &body); err != nil {
			continue
		}
		row.Body = body.String
		if keep(&row) {
			out = append(out, row)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// CountRows returns the number of rows in the table
func (r *SQLiteReader) CountRows(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func keep(row *model.Row) bool {
	row.Normalize()
	if err := row.Validate(); err != nil {
		debug.Log("datasource: skipping row: %v", err)
		return false
	}
	return true
}

// parseTags accepts a JSON array or a comma separated list.
func parseTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "[]" {
		return nil
	}

	var result []string
	if err := json.Unmarshal([]byte(s), &result); err == nil {
		return result
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	for _, item := range strings.Split(s, ",") {
		item = strings.Trim(strings.TrimSpace(item), `"`)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
