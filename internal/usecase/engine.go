package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/domain/repository"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"
)

// EngineConfig tunes a collection run
type EngineConfig struct {
	// Workers bounds concurrently collected targets; 1 collects strictly in order
	Workers int
	// TargetDelay is the politeness pause after each target. With several
	// workers it spaces target starts across all of them.
	TargetDelay time.Duration
	// TargetTimeout bounds one target's collection; 0 disables it
	TargetTimeout time.Duration
	// AirlineCacheTTL is how long a cached airline directory stays valid
	AirlineCacheTTL time.Duration
	Sleep           fetch.Sleeper
	Now             func() time.Time
}

// RunInput is what one run collects
type RunInput struct {
	// Tokens are airline names or aircraft registrations, trimmed and lower-cased
	Tokens []string
	// Airports are airport codes, collected without classification
	Airports []string
	// Earliest stops every collector at records dated before it
	Earliest *entity.Date
}

// TargetFailure is a target that contributed no records
type TargetFailure struct {
	Target entity.Target
	Err    error
}

// RunReport summarizes a run
type RunReport struct {
	RunID     string
	Targets   int
	Failed    []TargetFailure
	Collected int
	Appended  int
	Duration  time.Duration
}

// Engine drives one incremental collection run
type Engine struct {
	sessions  SessionSource
	directory AirlineDirectory
	airlines  repository.AirlineRepository
	records   repository.FlightRecordRepository
	router    CollectorRouter
	config    EngineConfig
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewEngine creates a collection engine. airlines may be nil to scrape the directory every run.
func NewEngine(
	sessions SessionSource,
	directory AirlineDirectory,
	airlines repository.AirlineRepository,
	records repository.FlightRecordRepository,
	router CollectorRouter,
	config EngineConfig,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Sleep == nil {
		config.Sleep = fetch.Sleep
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Engine{
		sessions:  sessions,
		directory: directory,
		airlines:  airlines,
		records:   records,
		router:    router,
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run resolves the input, collects every target and appends the unseen records.
// Target failures are reported, not returned; returned errors are run-fatal.
func (e *Engine) Run(ctx context.Context, in RunInput) (*RunReport, error) {
	start := e.config.Now()
	report := &RunReport{RunID: uuid.NewString()}
	log := e.logger.With("runId", report.RunID)

	session, err := e.sessions.Session()
	if err != nil {
		return report, fmt.Errorf("failed to open session: %w", err)
	}

	var known []entity.Airline
	if len(in.Tokens) > 0 {
		known, err = e.knownAirlines(ctx, false, log)
		if err != nil {
			return report, fmt.Errorf("failed to load airline directory: %w", err)
		}
	}

	resolution := Resolve(in.Tokens, known)
	log.Info("Resolved inputs",
		"airlines", len(resolution.Airlines),
		"aircraft", len(resolution.Aircraft),
		"airports", len(in.Airports))

	expander := NewTargetExpander(e.directory, e.config.TargetDelay, e.config.Sleep, log)
	targets, err := expander.Expand(ctx, resolution, in.Airports)
	if err != nil {
		return report, fmt.Errorf("failed to expand targets: %w", err)
	}
	report.Targets = len(targets)

	results := make([][]entity.FlightRecord, len(targets))
	failures := make([]error, len(targets))

	var starts fetch.Gate
	if e.config.Workers > 1 {
		starts = fetch.NewIntervalGate(e.config.TargetDelay)
	}

	var g errgroup.Group
	g.SetLimit(e.config.Workers)
	for i, target := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if starts != nil {
				if err := starts.Wait(ctx); err != nil {
					return nil
				}
			}
			results[i], failures[i] = e.collectTarget(ctx, session, target, in.Earliest, log)
			if e.config.Workers == 1 && i < len(targets)-1 {
				// cancellation is noticed by the loop above
				_ = e.config.Sleep(ctx, e.config.TargetDelay)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range failures {
		if err != nil {
			report.Failed = append(report.Failed, TargetFailure{Target: targets[i], Err: err})
		}
	}

	writeCtx := ctx
	if ctx.Err() != nil {
		log.Warn("Run interrupted, storing records collected so far", "error", ctx.Err())
		writeCtx = context.WithoutCancel(ctx)
	}

	fresh := Accumulate(results)
	report.Collected = len(fresh)

	existing, err := e.records.FindAll(writeCtx)
	if err != nil {
		return report, fmt.Errorf("failed to read existing records: %w", err)
	}

	delta := Merge(fresh, existing)
	if len(delta) > 0 {
		if err := e.records.Append(writeCtx, delta); err != nil {
			return report, fmt.Errorf("failed to append %d records: %w", len(delta), err)
		}
	}
	report.Appended = len(delta)
	report.Duration = e.config.Now().Sub(start)

	if e.metrics != nil {
		e.metrics.RecordsAppended.Add(float64(len(delta)))
	}
	log.Info("Appending new flights",
		"targets", report.Targets,
		"failed", len(report.Failed),
		"collected", report.Collected,
		"existing", len(existing),
		"appended", report.Appended)

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	return report, nil
}

// collectTarget runs one target under its own deadline
func (e *Engine) collectTarget(ctx context.Context, session entity.Session, target entity.Target, earliest *entity.Date, log logger.Logger) ([]entity.FlightRecord, error) {
	log = log.With("target", target.ID(), "kind", target.Kind().String())

	collector := e.router.GetCollector(target)
	if collector == nil {
		err := fmt.Errorf("no collector registered for %s targets", target.Kind())
		log.Error("Skipping target", "error", err)
		return nil, err
	}

	if e.config.TargetTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TargetTimeout)
		defer cancel()
	}

	started := e.config.Now()
	records, err := collector.Collect(ctx, session, target.ID(), earliest)
	if e.metrics != nil {
		e.metrics.TargetDuration.WithLabelValues(target.Kind().String()).Observe(e.config.Now().Sub(started).Seconds())
	}
	if err != nil {
		reason := failureReason(err)
		if e.metrics != nil {
			e.metrics.TargetFailures.WithLabelValues(target.Kind().String(), reason).Inc()
		}
		fields := []interface{}{"reason", reason, "error", err}
		var exhausted *entity.FetchExhaustedError
		if errors.As(err, &exhausted) {
			fields = append(fields, "url", exhausted.URL, "lastStatus", exhausted.LastStatus)
		}
		log.Error("Target collection failed", fields...)
		return nil, err
	}

	log.Debug("Target collected", "records", len(records))
	return records, nil
}

func failureReason(err error) string {
	var (
		exhausted *entity.FetchExhaustedError
		notFound  *entity.NotFoundError
		payload   *entity.UnexpectedPayloadError
	)
	switch {
	case errors.As(err, &exhausted):
		return "fetch_exhausted"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &payload):
		return "unexpected_payload"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}

// Airlines returns the airline directory, from cache while it is fresh.
// refresh scrapes the directory regardless of the cache.
func (e *Engine) Airlines(ctx context.Context, refresh bool) ([]entity.Airline, error) {
	return e.knownAirlines(ctx, refresh, e.logger)
}

// knownAirlines serves the airline directory from cache while it is fresh
func (e *Engine) knownAirlines(ctx context.Context, refresh bool, log logger.Logger) ([]entity.Airline, error) {
	if e.airlines != nil && !refresh {
		cached, storedAt, err := e.airlines.List(ctx)
		switch {
		case err != nil:
			log.Warn("Failed to read airline cache", "error", err)
		case len(cached) > 0 && e.config.AirlineCacheTTL > 0 && e.config.Now().Sub(storedAt) < e.config.AirlineCacheTTL:
			log.Debug("Using cached airline directory", "airlines", len(cached), "storedAt", storedAt)
			return cached, nil
		}
	}

	airlines, err := e.directory.Airlines(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded airline directory", "airlines", len(airlines))

	if e.airlines != nil && len(airlines) > 0 {
		if err := e.airlines.ReplaceAll(ctx, airlines); err != nil {
			log.Warn("Failed to cache airline directory", "error", err)
		}
	}
	return airlines, nil
}
