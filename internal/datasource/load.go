package datasource

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/metrics"
	"github.com/vanderheijden86/accordion/pkg/model"
)

// LoadFromSource loads rows from a specific DataSource, dispatching to the
// appropriate reader based on source type.
func LoadFromSource(ctx context.Context, source DataSource, opts ParseOptions) ([]model.Row, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRows(ctx)

	case SourceTypeJSONL:
		return LoadJSONL(source.Path, opts)

	case SourceTypeYAML:
		return LoadYAML(source.Path, opts)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadAll loads every source concurrently and concatenates the rows in
// source order. When two sources carry the same row ID the first one wins.
func LoadAll(ctx context.Context, sources []DataSource, opts ParseOptions) ([]model.Row, error) {
	start := time.Now()
	defer func() {
		metrics.DataLoad.Record(time.Since(start))
	}()

	results := make([][]model.Row, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := LoadFromSource(gctx, src, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Path, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	warn := opts.warn()
	seen := make(map[string]string)
	var out []model.Row
	for i, rows := range results {
		for _, row := range rows {
			if first, dup := seen[row.ID]; dup {
				warn(fmt.Sprintf("skipping duplicate row %s in %s (first seen in %s)", row.ID, sources[i].Path, first))
				continue
			}
			seen[row.ID] = sources[i].Path
			out = append(out, row)
		}
	}
	debug.LogTiming(fmt.Sprintf("datasource: loaded %d rows from %d sources", len(out), len(sources)), time.Since(start))
	return out, nil
}
