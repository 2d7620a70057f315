// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/domain/analytics"
	"github.com/okian/fitscore/internal/domain/diagnosis"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/normalize"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/internal/domain/training"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/okian/fitscore/pkg/logger"
	"github.com/okian/fitscore/pkg/metrics"
)

// defaultBodyMetric is used by scatter when no body metric is given.
const defaultBodyMetric = types.Height

// Service runs the diagnosis and analytics pipelines over a record store.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	scorer    *scoring.ReferenceScorer
	trainings []model.Training

	cohortLimit int
	now         func() time.Time

	started   bool
	startedAt time.Time

	diagnoses     atomic.Int64
	analyticsRuns atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. Without one the service uses an
// in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithReferenceTable sets the baseline table used for scoring.
func WithReferenceTable(t *reference.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.scorer = scoring.NewReferenceScorer(scoring.WithTable(t))
		}
	}
}

// WithTrainings sets a catalog that replaces the stored one at start.
func WithTrainings(ts []model.Training) Option {
	return func(s *Service) {
		if len(ts) > 0 {
			s.trainings = ts
		}
	}
}

// WithCohortLimit caps the per-subject list of cohort results.
func WithCohortLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cohortLimit = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source for diagnosis timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:      scoring.NewReferenceScorer(),
		cohortLimit: analytics.DefaultCohortLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the store and installs the training catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory record store")
	}

	if err := s.installTrainings(ctx); err != nil {
		return err
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "fitscore service started",
		logger.Int("baselines", s.scorer.Table().Len()),
		logger.Int("cohortLimit", s.cohortLimit),
	)
	return nil
}

// installTrainings writes the configured catalog over the stored one. With
// no configured catalog the built-in one is installed only into an empty
// store.
func (s *Service) installTrainings(ctx context.Context) error {
	catalog := s.trainings
	if catalog == nil {
		existing, err := s.store.ListTrainings(ctx)
		if err != nil {
			return fmt.Errorf("%w: loading training catalog: %w", ErrProcessing, err)
		}
		if len(existing) > 0 {
			s.logger.Debug(ctx, "keeping stored training catalog", logger.Int("trainings", len(existing)))
			return nil
		}
		catalog = training.Default()
	}
	if err := s.store.ReplaceTrainings(ctx, catalog); err != nil {
		return fmt.Errorf("%w: installing training catalog: %w", ErrProcessing, err)
	}
	s.logger.Info(ctx, "installed training catalog", logger.Int("trainings", len(catalog)))
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "fitscore service stopped")
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Diagnose scores a new record and stores it once scoring and the training
// catalog fetch have both succeeded, so a failed diagnosis leaves nothing
// behind.
func (s *Service) Diagnose(ctx context.Context, r model.Record) (diagnosis.Result, error) {
	start := time.Now()
	store, err := s.ready()
	if err != nil {
		return diagnosis.Result{}, err
	}
	if err := r.Validate(); err != nil {
		metrics.RecordDiagnosisError("invalid_record")
		return diagnosis.Result{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.MeasuredAt.IsZero() {
		r.MeasuredAt = s.now()
	}
	r.MeasuredAt = r.MeasuredAt.UTC()

	m, sc, err := s.score(ctx, r)
	if err != nil {
		return diagnosis.Result{}, err
	}

	trainings, err := store.ListTrainings(ctx)
	if err != nil {
		metrics.RecordDiagnosisError("upstream")
		s.logger.Error(ctx, "training catalog fetch failed", logger.String("recordID", r.ID), logger.Error(err))
		return diagnosis.Result{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	if _, err := store.SaveRecord(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			metrics.RecordDiagnosisError("duplicate")
			return diagnosis.Result{}, err
		}
		metrics.RecordDiagnosisError("upstream")
		s.logger.Error(ctx, "record save failed", logger.String("recordID", r.ID), logger.Error(err))
		return diagnosis.Result{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	return s.build(ctx, m, sc, trainings, start), nil
}

// DiagnoseStored diagnoses a previously stored record. The record and the
// training catalog are fetched concurrently.
func (s *Service) DiagnoseStored(ctx context.Context, id string) (diagnosis.Result, error) {
	start := time.Now()
	store, err := s.ready()
	if err != nil {
		return diagnosis.Result{}, err
	}

	var (
		rec       model.Record
		trainings []model.Training
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = store.GetRecord(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		trainings, err = store.ListTrainings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordDiagnosisError("not_found")
			return diagnosis.Result{}, err
		}
		metrics.RecordDiagnosisError("upstream")
		s.logger.Error(ctx, "diagnosis fetch failed", logger.String("recordID", id), logger.Error(err))
		return diagnosis.Result{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	m, sc, err := s.score(ctx, rec)
	if err != nil {
		return diagnosis.Result{}, err
	}
	return s.build(ctx, m, sc, trainings, start), nil
}

// score canonicalizes r and scores it against the reference table.
func (s *Service) score(ctx context.Context, r model.Record) (model.Measurement, scoring.Result, error) {
	m := normalize.Canonicalize(r)
	sc, err := s.scorer.Score(ctx, m)
	if err != nil {
		metrics.RecordDiagnosisError("missing_reference")
		s.logger.Warn(ctx, "no baseline for record",
			logger.String("recordID", r.ID),
			logger.String("grade", string(r.Grade)),
			logger.String("gender", string(r.Gender)),
		)
		return model.Measurement{}, scoring.Result{}, err
	}
	return m, sc, nil
}

func (s *Service) build(ctx context.Context, m model.Measurement, sc scoring.Result, trainings []model.Training, start time.Time) diagnosis.Result {
	res := diagnosis.Build(m, sc, s.scorer.Table(), trainings)
	res.ID = uuid.NewString()
	res.CreatedAt = s.now().UTC()

	s.diagnoses.Add(1)
	metrics.RecordDiagnosis(float64(time.Since(start).Microseconds()) / 1000)
	s.logger.Debug(ctx, "diagnosis completed",
		logger.String("recordID", m.RecordID),
		logger.String("archetype", res.Archetype.Key),
		logger.Float64("motorAge", res.MotorAge),
	)
	return res
}

// AnalyticsResult wraps an analytics payload with its request context.
type AnalyticsResult struct {
	Type       analytics.Type `json:"type"`
	Filter     model.Filter   `json:"filter"`
	SampleSize int            `json:"sample_size"`
	Data       any            `json:"data"`
}

// Analytics runs one population computation. Record fetches must all
// succeed before the computation starts; any failure aborts with
// ErrProcessing.
func (s *Service) Analytics(ctx context.Context, q analytics.Query) (AnalyticsResult, error) {
	start := time.Now()
	store, err := s.ready()
	if err != nil {
		return AnalyticsResult{}, err
	}
	if err := validateQuery(q); err != nil {
		return AnalyticsResult{}, err
	}

	res, err := s.runAnalytics(ctx, store, q)
	if err != nil {
		metrics.RecordAnalyticsError(string(q.Type))
		s.logger.Error(ctx, "analytics failed", logger.String("type", string(q.Type)), logger.Error(err))
		return AnalyticsResult{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	s.analyticsRuns.Add(1)
	metrics.RecordAnalytics(string(q.Type), float64(time.Since(start).Microseconds())/1000)
	metrics.RecordRecordsFetched(res.SampleSize)
	s.logger.Info(ctx, "analytics computed",
		logger.String("type", string(q.Type)),
		logger.Int("records", res.SampleSize),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func validateQuery(q analytics.Query) error {
	if _, err := analytics.ParseType(string(q.Type)); err != nil {
		return err
	}
	if q.Type == analytics.TypeScatter && q.Metric == nil {
		return fmt.Errorf("%w: scatter needs a metric", analytics.ErrInvalidQuery)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, store repository.Store, f model.Filter) ([]model.Measurement, error) {
	records, err := store.ListRecords(ctx, f)
	if err != nil {
		return nil, err
	}
	return normalize.CanonicalizeAll(records), nil
}

func (s *Service) runAnalytics(ctx context.Context, store repository.Store, q analytics.Query) (AnalyticsResult, error) {
	res := AnalyticsResult{Type: q.Type, Filter: q.Filter}

	if q.Type == analytics.TypeStoreComparison {
		var stores, overall []model.Measurement
		overallFilter := q.Filter
		overallFilter.StoreID = ""

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stores, err = s.fetch(gctx, store, q.Filter)
			return err
		})
		g.Go(func() error {
			var err error
			overall, err = s.fetch(gctx, store, overallFilter)
			return err
		})
		if err := g.Wait(); err != nil {
			return AnalyticsResult{}, err
		}
		res.SampleSize = len(stores)
		res.Data = analytics.StoreComparison(stores, overall)
		return res, nil
	}

	ms, err := s.fetch(ctx, store, q.Filter)
	if err != nil {
		return AnalyticsResult{}, err
	}
	res.SampleSize = len(ms)
	table := s.scorer.Table()

	switch q.Type {
	case analytics.TypeBenchmark:
		res.Data = analytics.Benchmark(ms)
	case analytics.TypeCorrelation:
		res.Data = analytics.Correlation(ms)
	case analytics.TypeTrend:
		period := q.Period
		if period == "" {
			period = analytics.PeriodMonth
		}
		res.Data = analytics.Trend(ms, period, q.Metric)
	case analytics.TypeWeakness:
		res.Data = analytics.Weakness(table, ms)
	case analytics.TypeScatter:
		body := q.BodyMetric
		if body == "" {
			body = defaultBodyMetric
		}
		res.Data = analytics.Scatter(ms, body, *q.Metric)
	case analytics.TypeTypeValidation:
		res.Data = analytics.TypeValidation(table, ms)
	case analytics.TypeCohort:
		res.Data = analytics.Cohort(ms, s.cohortLimit)
	}
	return res, nil
}

// Stats is a point-in-time snapshot of the service counters.
type Stats struct {
	Started       bool  `json:"started"`
	CohortLimit   int   `json:"cohort_limit"`
	Baselines     int   `json:"baselines"`
	Diagnoses     int64 `json:"diagnoses"`
	Analytics     int64 `json:"analytics"`
	Records       int   `json:"records"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// GetStats returns service statistics for monitoring. Records stays zero
// when the store cannot be counted.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:     s.started,
		CohortLimit: s.cohortLimit,
		Baselines:   s.scorer.Table().Len(),
		Diagnoses:   s.diagnoses.Load(),
		Analytics:   s.analyticsRuns.Load(),
	}
	if s.started {
		st.UptimeSeconds = int64(s.now().Sub(s.startedAt).Seconds())
		if n, err := s.store.Count(context.Background()); err == nil {
			st.Records = n
		}
		metrics.CollectSystem()
	}
	return st
}
