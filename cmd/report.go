package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/domain/dto"
	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/export"
	"github.com/guttosm/shoppulse/internal/ingestion"
	"github.com/guttosm/shoppulse/internal/view"
)

// reportOptions drives one batch run over a set of log files.
type reportOptions struct {
	Paths    []string
	Format   models.Format
	Start    string
	End      string
	Out      string // json|csv|xlsx
	OutDir   string
	Parallel int
	Query    analytics.Query
}

// runReport aggregates every file on its own and writes one report per file
// into OutDir, named after the input file. Inputs that would map to the same
// report name (logs/a.txt and old/a.txt, or a.txt and a.log) are rejected
// before anything is read.
func runReport(ctx context.Context, opts reportOptions) error {
	out := strings.ToLower(opts.Out)
	if out != "json" {
		if _, err := export.ParseKind(out); err != nil {
			return err
		}
	}
	seen := make(map[string]string, len(opts.Paths))
	for _, path := range opts.Paths {
		name := reportName(filepath.Base(path), out)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s would both write %s", prev, path, name)
		}
		seen[name] = path
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	return ingestion.ProcessFiles(ctx, opts.Paths, opts.Format, opts.Parallel, func(_ context.Context, res *ingestion.Result) error {
		full, q, err := resolveRange(res.Buckets, opts.Start, opts.End, opts.Query)
		if err != nil {
			return err
		}
		b := analytics.Aggregate(res.Buckets, q)

		f, err := os.Create(filepath.Join(opts.OutDir, reportName(res.FileName, out)))
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer func() { _ = f.Close() }()

		if out == "json" {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(dto.NewAnalyticsResponse(res.FileName, res.Format, full, &b))
		}
		return export.Write(f, export.Kind(out), view.ItemPriceRows(&b))
	})
}

// reportName is the output file for the input file name: its base with the
// extension swapped for out.
func reportName(fileName, out string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName)) + "." + out
}

// resolveRange fills missing bounds from the file's own days and keeps
// start <= end the way the date pickers do.
func resolveRange(buckets *models.DayBuckets, start, end string, q analytics.Query) (models.DateRange, analytics.Query, error) {
	_, full, ok := view.DateBounds(buckets)
	if !ok {
		return models.DateRange{}, q, nil
	}
	if start == "" {
		start = full.Start
	}
	if end == "" {
		end = full.End
	}
	r, err := models.NewDateRange(start, end)
	if err != nil {
		return models.DateRange{}, q, err
	}
	r = view.ClampRange(r.Start, r.End)
	q.Range = &r
	return r, q, nil
}
