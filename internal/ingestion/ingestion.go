package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/logger"
	"github.com/guttosm/shoppulse/internal/metrics"
)

const maxParallelFiles = 8

// ErrInvalidExtension is returned when a file name does not carry the
// extension expected for the selected plugin format.
var ErrInvalidExtension = errors.New("invalid file type for selected format")

// Result is one fully parsed log file.
type Result struct {
	FileName string
	Format   models.Format
	Buckets  *models.DayBuckets
	Stats    Stats
}

// ValidateFileName checks the extension against the format: ".txt" for
// EconomyShopGUI, ".log" for ShopGUI+. The check is advisory only; content
// is never inspected here.
func ValidateFileName(name string, format models.Format) error {
	want := format.Extension()
	if !strings.EqualFold(filepath.Ext(name), want) {
		return fmt.Errorf("%w: %s expects %s, got %q", ErrInvalidExtension, format, want, filepath.Base(name))
	}
	return nil
}

// ReadLog reads r to the end and parses the whole text in one pass.
// Only read failures are returned; unmatched lines are skipped by Parse.
func ReadLog(ctx context.Context, name string, r io.Reader, format models.Format) (*Result, error) {
	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		metrics.LogLoadsTotal.WithLabelValues(string(format), "failed").Inc()
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets, st := Parse(string(raw), format)

	metrics.LogLinesTotal.WithLabelValues(string(format), "matched").Add(float64(st.Matched))
	metrics.LogLinesTotal.WithLabelValues(string(format), "skipped").Add(float64(st.Skipped))
	metrics.LogLoadsTotal.WithLabelValues(string(format), "ok").Inc()

	logger.With("ingestion").Info().
		Str("file", name).
		Str("format", string(format)).
		Int("lines", st.Lines).
		Int("matched", st.Matched).
		Int("skipped", st.Skipped).
		Int("days", buckets.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("log parsed")

	return &Result{FileName: name, Format: format, Buckets: buckets, Stats: st}, nil
}

// LoadFile validates the extension of path, then reads and parses it.
func LoadFile(ctx context.Context, path string, format models.Format) (*Result, error) {
	base := filepath.Base(path)
	if err := ValidateFileName(base, format); err != nil {
		metrics.LogLoadsTotal.WithLabelValues(string(format), "rejected").Inc()
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.LogLoadsTotal.WithLabelValues(string(format), "failed").Inc()
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadLog(ctx, base, f, format)
}

// ProcessFiles loads every path independently and hands each result to fn.
// Files are never merged. Concurrency is min(NumCPU, 8) unless parallel > 0.
// The first error cancels the remaining files and is returned.
func ProcessFiles(ctx context.Context, paths []string, format models.Format, parallel int, fn func(context.Context, *Result) error) error {
	if len(paths) == 0 {
		return errors.New("no input files")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	maxParallel := maxParallelFiles
	if parallel > 0 {
		if parallel < maxParallel {
			maxParallel = parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log := logger.With("ingestion")
	log.Info().Int("files", len(paths)).Int("max_parallel", maxParallel).Msg("report start")

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, path := range paths {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			if err := g.Wait(); err != nil {
				return err
			}
			return ctx.Err()
		}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(path)
			log.Info().Int("idx", i+1).Int("total", len(paths)).Str("file", base).Msg("file start")

			res, err := LoadFile(gctx, path, format)
			if err != nil {
				log.Error().Str("file", base).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", path, err)
			}
			if err := fn(gctx, res); err != nil {
				log.Error().Str("file", base).Err(err).Msg("report failed")
				return fmt.Errorf("file %s: %w", path, err)
			}
			log.Info().Int("idx", i+1).Str("file", base).Int("transactions", res.Stats.Matched).Dur("elapsed", time.Since(start)).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}
