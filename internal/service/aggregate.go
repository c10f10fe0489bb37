package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/events"
	"github.com/guttosm/shoppulse/internal/ingestion"
	"github.com/guttosm/shoppulse/internal/logger"
	"github.com/guttosm/shoppulse/internal/metrics"
	"github.com/guttosm/shoppulse/internal/storage"
	"github.com/guttosm/shoppulse/internal/view"
)

var (
	// ErrNoLogLoaded is returned by queries issued while no log file is loaded.
	ErrNoLogLoaded = errors.New("no log file loaded")
	// ErrInvalidRange is returned when the resolved start day is after the end day.
	ErrInvalidRange = errors.New("start must not be after end")
)

// AnalyticsRequest selects what GetAnalytics aggregates. An empty Start or End
// falls back to the first or last day of the loaded log; a zero TopN or profit
// order falls back to the service defaults.
type AnalyticsRequest struct {
	Start  string
	End    string
	TopN   int
	Profit analytics.ProfitRanking
}

// AnalyticsResult is one aggregation together with the upload it was computed
// from and the range it covered. Range is zero when the log has no days.
type AnalyticsResult struct {
	Upload *storage.Upload
	Range  models.DateRange
	Bundle *models.Bundle
}

// AnalyticsService defines the operations the transports need: loading and
// discarding the session log, and re-aggregating it over a date range.
type AnalyticsService interface {
	Load(ctx context.Context, fileName string, format models.Format, r io.Reader) (*storage.Upload, error)
	Remove(ctx context.Context) bool
	Current(ctx context.Context) (*storage.Upload, error)
	GetAnalytics(ctx context.Context, req AnalyticsRequest) (*AnalyticsResult, error)
}

// Publisher receives session change notifications.
type Publisher interface {
	Publish(ev events.Event) int
}

// Option customises a service built by NewAnalyticsService.
type Option func(*analyticsService)

// WithEvents publishes a SessionLoaded or SessionCleared event on every
// successful Load or Remove.
func WithEvents(p Publisher) Option {
	return func(s *analyticsService) { s.events = p }
}

type analyticsService struct {
	store    storage.SessionRepository
	defaults analytics.Query
	events   Publisher
}

// NewAnalyticsService wires a store with the default ranking parameters
// applied when a query leaves them unset.
func NewAnalyticsService(store storage.SessionRepository, defaults analytics.Query, opts ...Option) AnalyticsService {
	s := &analyticsService{store: store, defaults: defaults}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *analyticsService) publish(ev events.Event) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}

// Load validates the file name against format, parses r and replaces the
// session. On any error the current session is left untouched.
func (s *analyticsService) Load(ctx context.Context, fileName string, format models.Format, r io.Reader) (*storage.Upload, error) {
	if err := ingestion.ValidateFileName(fileName, format); err != nil {
		metrics.LogLoadsTotal.WithLabelValues(string(format), "rejected").Inc()
		return nil, err
	}

	res, err := ingestion.ReadLog(ctx, fileName, r, format)
	if err != nil {
		return nil, err
	}

	up := storage.NewUpload(res.FileName, res.Format, res.Buckets, res.Stats.Lines, res.Stats.Skipped)
	prev := s.store.Replace(up)
	metrics.SessionTransactions.Set(float64(res.Stats.Matched))

	ev := logger.With("service").Info().Str("upload_id", up.ID).Str("file", up.FileName).Int("days", up.Buckets.Len())
	if prev != nil {
		ev = ev.Str("replaced", prev.ID)
	}
	ev.Msg("session loaded")

	s.publish(events.Event{Type: events.SessionLoaded, UploadID: up.ID, FileName: up.FileName, At: up.LoadedAt})
	return up, nil
}

func (s *analyticsService) Remove(_ context.Context) bool {
	removed := s.store.Clear()
	if removed {
		metrics.SessionTransactions.Set(0)
		logger.With("service").Info().Msg("session cleared")
		s.publish(events.Event{Type: events.SessionCleared})
	}
	return removed
}

func (s *analyticsService) Current(_ context.Context) (*storage.Upload, error) {
	up, ok := s.store.Current()
	if !ok {
		return nil, ErrNoLogLoaded
	}
	return up, nil
}

// GetAnalytics aggregates the loaded log over req. The session is read once,
// so the result always describes a single upload even if another load or a
// clear lands while it runs.
func (s *analyticsService) GetAnalytics(ctx context.Context, req AnalyticsRequest) (*AnalyticsResult, error) {
	up, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	q := analytics.Query{TopN: req.TopN, Profit: req.Profit}
	if q.TopN <= 0 {
		q.TopN = s.defaults.TopN
	}
	if q.Profit.Order == "" {
		q.Profit.Order = s.defaults.Profit.Order
	}

	var r models.DateRange
	if _, full, ok := view.DateBounds(up.Buckets); ok {
		r = full
		if req.Start != "" {
			r.Start = req.Start
		}
		if req.End != "" {
			r.End = req.End
		}
		if r.Start > r.End {
			return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.Start, r.End)
		}
		q.Range = &r
	}

	start := time.Now()
	b := analytics.Aggregate(up.Buckets, q)
	metrics.AggregationsTotal.Inc()
	metrics.AggregationSeconds.Observe(time.Since(start).Seconds())

	return &AnalyticsResult{Upload: up, Range: r, Bundle: &b}, nil
}
