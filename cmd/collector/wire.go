package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"flight-history-collector/internal/domain/entity"
	domainrepo "flight-history-collector/internal/domain/repository"
	"flight-history-collector/internal/infrastructure/config"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/internal/infrastructure/persistence"
	"flight-history-collector/internal/infrastructure/router"
	"flight-history-collector/internal/infrastructure/session"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/internal/interface/repository"
	"flight-history-collector/internal/usecase"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"
)

const metricsNamespace = "flight_collector"

// app holds the wired components of one process
type app struct {
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	provider *flightradar.Client
	sessions *session.Provider
	airlines domainrepo.AirlineRepository
	airports domainrepo.AirportRepository
	records  domainrepo.FlightRecordRepository

	mongoClient *mongo.Client
	gormDB      *gorm.DB
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp connects storage and builds the provider stack
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(metricsNamespace, registry)

	a := &app{cfg: cfg, log: log, registry: registry, metrics: m}

	fetcher := fetch.NewClient(log,
		fetch.WithPolicy(fetch.Policy{
			MaxRetries: cfg.MaxRetries,
			RetryMin:   cfg.RetrySleepMin,
			RetryMax:   cfg.RetrySleepMax,
		}),
		fetch.WithGate(fetch.NewGate(cfg.RatePerSecond, 1)),
		fetch.WithMetrics(m),
	)
	a.provider = flightradar.NewClient(fetcher, cfg.BaseURL, cfg.APIURL, log)
	if cfg.Token != "" {
		a.sessions = session.NewStaticProvider(cfg.Token, log)
	} else {
		a.sessions = session.NewProvider(ctx, fetcher, a.provider.LoginURL(), cfg.Email, cfg.Password, log)
	}

	if err := a.openReferenceStore(); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openRecordStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openReferenceStore() error {
	if a.cfg.PostgresDSN == "" {
		a.airlines = repository.NewMemoryAirlineRepository()
		a.airports = repository.NewMemoryAirportRepository()
		return nil
	}

	a.log.Info("Connecting to PostgreSQL")
	db, err := persistence.NewPostgresDB(a.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.gormDB = db
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate reference tables: %w", err)
	}
	a.airlines = repository.NewGormAirlineRepository(db)
	a.airports = repository.NewGormAirportRepository(db)
	return nil
}

func (a *app) openRecordStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreMongo:
		a.log.Info("Connecting to MongoDB")
		client, err := persistence.NewMongoClient(ctx, a.cfg.MongoURI, a.cfg.MongoUser, a.cfg.MongoPassword)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.mongoClient = client

		store := repository.NewMongoFlightRecordRepository(persistence.GetDatabase(client, a.cfg.MongoDB))
		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}
		a.records = store
	default:
		a.records = repository.NewCSVFlightRecordRepository(a.cfg.OutputFile)
	}
	return nil
}

// engine builds the collection engine with both collectors registered
func (a *app) engine() *usecase.Engine {
	collectorCfg := usecase.DefaultCollectorConfig()
	collectorCfg.PageDelay = a.cfg.PageDelay
	collectorCfg.VerifyAircraft = a.cfg.VerifyAircraft

	targetRouter := router.NewTargetRouter(a.log)
	targetRouter.Register(entity.KindAircraft, usecase.NewAircraftCollector(a.provider, collectorCfg, a.metrics, a.log))
	targetRouter.Register(entity.KindAirport, usecase.NewAirportCollector(a.provider, a.airports, collectorCfg, a.metrics, a.log))

	return usecase.NewEngine(
		a.sessions,
		a.provider,
		a.airlines,
		a.records,
		targetRouter,
		usecase.EngineConfig{
			Workers:         a.cfg.Workers,
			TargetDelay:     a.cfg.TargetDelay,
			TargetTimeout:   a.cfg.TargetTimeout,
			AirlineCacheTTL: a.cfg.AirlineCacheTTL,
		},
		a.metrics,
		a.log,
	)
}

// serveMetrics exposes /metrics and /health until ctx is done. No-op without an address.
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Starting metrics server", "addr", a.cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Metrics server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("Metrics server shutdown error", "error", err)
		}
	}()
}

// Close releases storage connections and flushes the logger
func (a *app) Close() {
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(context.Background()); err != nil {
			a.log.Error("MongoDB disconnect error", "error", err)
		}
	}
	if a.gormDB != nil {
		if err := persistence.ClosePostgresDB(a.gormDB); err != nil {
			a.log.Error("PostgreSQL close error", "error", err)
		}
	}
	_ = a.log.Sync()
}
