// Package pipeline drives a run end to end: resolve the source path, read
// the file, filter and retain, deduplicate.
package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/csvsift/internal/config"
	"github.com/sells-group/csvsift/internal/pathfind"
	"github.com/sells-group/csvsift/internal/sift"
)

// Run executes the full pipeline and returns the retained table, ready for
// the output writer. The whole source is held in memory; there is no
// streaming.
func Run(cfg *config.Config, resolver *pathfind.Resolver) (*sift.Table, error) {
	src, err := resolver.Resolve(cfg.Source)
	if err != nil {
		return nil, err
	}
	zap.L().Info("resolved source", zap.String("path", src))

	records, err := readSource(src)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("pipeline: source %q has no rows", src)
	}

	header := records[0]
	rows := records[1:]
	if !cfg.HasHeaders {
		// The first row still names the columns for index building, but is
		// also treated as data.
		rows = records
	}

	ix := sift.BuildIndex(header, cfg.Fields, cfg.IncludeColsWith)
	table := &sift.Table{
		AllHeaders:      header,
		RetainedHeaders: ix.RetainedHeaders(header),
	}

	verdicts := passVerdicts(ix, rows)
	table.Data = make([][]string, 0, len(rows))
	for i, row := range rows {
		if verdicts[i] {
			table.Data = append(table.Data, ix.RetainColumns(row))
		}
	}
	zap.L().Info("filtered rows",
		zap.Int("read", len(rows)),
		zap.Int("retained", len(table.Data)),
		zap.Int("filter_columns", ix.FilterCount()),
	)

	if len(cfg.UniqueFields) > 0 {
		before := len(table.Data)
		if err := sift.Deduplicate(table, cfg.UniqueFields); err != nil {
			return nil, err
		}
		zap.L().Info("deduplicated rows",
			zap.Strings("unique_fields", cfg.UniqueFields),
			zap.Int("removed", before-len(table.Data)),
		)
	} else {
		zap.L().Warn("no unique fields configured, skipping deduplication")
	}

	return table, nil
}

// passVerdicts evaluates the filter check for every row. The AND-of-filters
// check is order-independent with read-only lookups, so rows are scored in
// parallel chunks and the verdict slice keeps input order.
func passVerdicts(ix *sift.ColumnIndex, rows [][]string) []bool {
	verdicts := make([]bool, len(rows))

	workers := runtime.GOMAXPROCS(0)
	if len(rows) < 2*workers || ix.FilterCount() == 0 {
		for i, row := range rows {
			verdicts[i] = ix.RowPasses(row)
		}
		return verdicts
	}

	var g errgroup.Group
	chunk := (len(rows) + workers - 1) / workers
	for start := 0; start < len(rows); start += chunk {
		start, end := start, min(start+chunk, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				verdicts[i] = ix.RowPasses(rows[i])
			}
			return nil
		})
	}
	_ = g.Wait() // workers never error

	return verdicts
}

// readSource loads every record from a CSV or XLSX source.
func readSource(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open source")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read csv")
	}
	return records, nil
}
