package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/internal/interface/repository"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	history   *fakeHistory
	directory *fakeDirectory
	airlines  *repository.MemoryAirlineRepository
	records   *repository.MemoryFlightRecordRepository
	router    fakeRouter
	sleep     *recordingSleep
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		history: newFakeHistory(),
		directory: &fakeDirectory{
			airlines: []entity.Airline{{Name: "SomeAirline", Handle: "/data/airlines/sa-sal"}},
			fleets:   map[string][]string{"/data/airlines/sa-sal": {"N555"}},
		},
		airlines: repository.NewMemoryAirlineRepository(),
		records:  repository.NewMemoryFlightRecordRepository(),
		router:   fakeRouter{},
		sleep:    &recordingSleep{},
	}

	cfg := DefaultCollectorConfig()
	cfg.Sleep = f.sleep.Sleep
	f.router.Register(entity.KindAircraft, NewAircraftCollector(f.history, cfg, nil, logger.NewNop()))
	return f
}

func (f *engineFixture) engine(cfg EngineConfig) *Engine {
	cfg.Sleep = f.sleep.Sleep
	return NewEngine(
		fakeSessions{session: entity.Session{Token: "tok"}},
		f.directory,
		f.airlines,
		f.records,
		f.router,
		cfg,
		metrics.NewMetrics("test", nil),
		logger.NewNop(),
	)
}

func TestEngine_Run(t *testing.T) {
	f := newEngineFixture()
	f.history.pages["n12345"] = []*flightradar.FlightList{
		listPage(false, entry("f1", "AA100", "Landed", tsMay1)),
	}
	f.history.pages["n555"] = []*flightradar.FlightList{
		listPage(false, entry("f2", "SA1", "Landed", tsDec31)),
	}
	in := RunInput{Tokens: []string{"n12345", "someairline"}, Earliest: datePtr(2023, 1, 1)}
	ctx := context.Background()

	report, err := f.engine(EngineConfig{TargetDelay: time.Second}).Run(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Targets)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, report.Collected)
	assert.Equal(t, 1, report.Appended)

	stored, err := f.records.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entity.FlightRecord{
		Registration: "N12345",
		Airline:      "Some Air",
		Model:        "Boeing 737-800",
		Date:         entity.Date{Year: 2023, Month: time.May, Day: 1},
		Origin:       "Los Angeles (LAX)",
		Destination:  "Chicago (ORD)",
		Flight:       "AA100",
		Duration:     "03:45",
		Status:       "Landed",
	}, stored[0])

	// the same data again appends nothing
	report, err = f.engine(EngineConfig{}).Run(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Appended)
	stored, _ = f.records.FindAll(ctx)
	assert.Len(t, stored, 1)
}

func TestEngine_TargetFailureIsIsolated(t *testing.T) {
	f := newEngineFixture()
	f.history.errs["n1"] = &entity.FetchExhaustedError{URL: "https://api/list", LastStatus: 503, Attempts: 5}
	f.history.pages["n2"] = []*flightradar.FlightList{
		listPage(false, entry("f1", "AA100", "Landed", tsMay1)),
	}

	report, err := f.engine(EngineConfig{}).Run(context.Background(), RunInput{Tokens: []string{"n1", "n2"}})
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, entity.AircraftTarget{Registration: "n1"}, report.Failed[0].Target)
	var exhausted *entity.FetchExhaustedError
	assert.ErrorAs(t, report.Failed[0].Err, &exhausted)
	assert.Equal(t, 1, report.Appended)
}

func TestEngine_ConcurrentRunKeepsTargetOrder(t *testing.T) {
	f := newEngineFixture()
	tokens := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		tokens = append(tokens, fmt.Sprintf("n%d", i))
	}
	// later targets finish first
	f.router.Register(entity.KindAircraft, funcCollector(func(ctx context.Context, id string) ([]entity.FlightRecord, error) {
		var n int
		fmt.Sscanf(id, "n%d", &n)
		time.Sleep(time.Duration(6-n) * 5 * time.Millisecond)
		return []entity.FlightRecord{{Registration: id, Date: entity.Date{Year: 2023, Month: time.May, Day: 1}}}, nil
	}))

	report, err := f.engine(EngineConfig{Workers: 3}).Run(context.Background(), RunInput{Tokens: tokens})
	require.NoError(t, err)
	assert.Equal(t, 6, report.Appended)

	stored, _ := f.records.FindAll(context.Background())
	got := make([]string, 0, len(stored))
	for _, r := range stored {
		got = append(got, r.Registration)
	}
	assert.Equal(t, tokens, got)
}

func TestEngine_TargetDelayBetweenTargets(t *testing.T) {
	f := newEngineFixture()
	f.router.Register(entity.KindAircraft, funcCollector(func(ctx context.Context, id string) ([]entity.FlightRecord, error) {
		return nil, nil
	}))

	_, err := f.engine(EngineConfig{TargetDelay: 2 * time.Second}).Run(context.Background(), RunInput{Tokens: []string{"n1", "n2", "n3"}})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, f.sleep.pauses)
}

func TestEngine_TargetDelaySpacesConcurrentStarts(t *testing.T) {
	const delay = 40 * time.Millisecond
	f := newEngineFixture()
	var (
		mu     sync.Mutex
		starts []time.Time
	)
	f.router.Register(entity.KindAircraft, funcCollector(func(ctx context.Context, id string) ([]entity.FlightRecord, error) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		return nil, nil
	}))

	begin := time.Now()
	report, err := f.engine(EngineConfig{Workers: 4, TargetDelay: delay}).Run(context.Background(), RunInput{Tokens: []string{"n1", "n2", "n3", "n4"}})
	require.NoError(t, err)
	assert.Empty(t, report.Failed)

	require.Len(t, starts, 4)
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	// one start per delay across all workers
	assert.GreaterOrEqual(t, starts[3].Sub(begin), 3*delay)
	assert.Zero(t, f.sleep.count())
}

func TestEngine_ExhaustedTargetDoesNotStopRun(t *testing.T) {
	var failing atomic.Int32
	var page flightradar.FlightListResponse
	page.Result.Response = listPage(false, entry("f2", "SA1", "Landed", tsMay1))
	body, err := json.Marshal(page)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/common/v1/flight/list.json", r.URL.Path)
		if strings.EqualFold(r.URL.Query().Get("query"), "n2") {
			w.Write(body)
			return
		}
		failing.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	doer := fetch.NewClient(logger.NewNop(), fetch.WithSleeper(func(ctx context.Context, d time.Duration) error { return nil }))
	provider := flightradar.NewClient(doer, srv.URL, srv.URL, logger.NewNop())

	f := newEngineFixture()
	cfg := DefaultCollectorConfig()
	cfg.VerifyAircraft = false
	cfg.Sleep = f.sleep.Sleep
	f.router.Register(entity.KindAircraft, NewAircraftCollector(provider, cfg, nil, logger.NewNop()))

	report, err := f.engine(EngineConfig{}).Run(context.Background(), RunInput{Tokens: []string{"n1", "n2"}})
	require.NoError(t, err)

	assert.Equal(t, int32(fetch.DefaultMaxRetries), failing.Load())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "n1", report.Failed[0].Target.ID())
	var exhausted *entity.FetchExhaustedError
	require.ErrorAs(t, report.Failed[0].Err, &exhausted)
	assert.Equal(t, http.StatusServiceUnavailable, exhausted.LastStatus)
	assert.Equal(t, fetch.DefaultMaxRetries, exhausted.Attempts)
	assert.Equal(t, srv.URL+"/common/v1/flight/list.json", exhausted.URL)

	assert.Equal(t, 1, report.Appended)
	stored, _ := f.records.FindAll(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, "N2", stored[0].Registration)
}

func TestEngine_Airlines(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	cfg := EngineConfig{AirlineCacheTTL: time.Hour}

	airlines, err := f.engine(cfg).Airlines(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, f.directory.airlines, airlines)
	assert.Equal(t, 1, f.directory.airlineHits)

	// fresh cache
	_, err = f.engine(cfg).Airlines(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.directory.airlineHits)

	// refresh ignores the cache
	_, err = f.engine(cfg).Airlines(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.directory.airlineHits)

	cfg.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.engine(cfg).Airlines(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, f.directory.airlineHits)
}

func TestEngine_AirlineCache(t *testing.T) {
	f := newEngineFixture()
	f.router.Register(entity.KindAircraft, funcCollector(func(ctx context.Context, id string) ([]entity.FlightRecord, error) {
		return nil, nil
	}))
	in := RunInput{Tokens: []string{"someairline"}}

	_, err := f.engine(EngineConfig{AirlineCacheTTL: time.Hour}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.directory.airlineHits)

	cached, _, _ := f.airlines.List(context.Background())
	assert.Equal(t, f.directory.airlines, cached)

	_, err = f.engine(EngineConfig{AirlineCacheTTL: time.Hour}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.directory.airlineHits)

	later := func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.engine(EngineConfig{AirlineCacheTTL: time.Hour, Now: later}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, f.directory.airlineHits)
}

func TestEngine_AirportsOnlySkipsDirectory(t *testing.T) {
	f := newEngineFixture()
	f.router.Register(entity.KindAirport, funcCollector(func(ctx context.Context, id string) ([]entity.FlightRecord, error) {
		return []entity.FlightRecord{{Registration: "N9", Destination: id}}, nil
	}))

	report, err := f.engine(EngineConfig{}).Run(context.Background(), RunInput{Airports: []string{"LAX"}})
	require.NoError(t, err)
	assert.Equal(t, 0, f.directory.airlineHits)
	assert.Equal(t, 1, report.Appended)
}

func TestEngine_SessionFailureIsFatal(t *testing.T) {
	f := newEngineFixture()
	e := NewEngine(fakeSessions{err: entity.ErrAuthentication}, f.directory, nil, f.records, f.router, EngineConfig{}, nil, logger.NewNop())

	_, err := e.Run(context.Background(), RunInput{Tokens: []string{"n1"}})
	assert.ErrorIs(t, err, entity.ErrAuthentication)
	assert.Empty(t, f.history.queries)
}

func TestEngine_DirectoryFailureIsFatal(t *testing.T) {
	f := newEngineFixture()
	f.directory.airlinesErr = errors.New("directory unavailable")

	_, err := f.engine(EngineConfig{}).Run(context.Background(), RunInput{Tokens: []string{"n1"}})
	assert.Error(t, err)
	assert.Empty(t, f.history.queries)
}

func TestEngine_InterruptStoresPartialResults(t *testing.T) {
	f := newEngineFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.router.Register(entity.KindAircraft, funcCollector(func(_ context.Context, id string) ([]entity.FlightRecord, error) {
		if id == "n1" {
			cancel()
		}
		return []entity.FlightRecord{{Registration: id}}, nil
	}))

	report, err := f.engine(EngineConfig{}).Run(ctx, RunInput{Tokens: []string{"n1", "n2"}})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Appended)

	stored, _ := f.records.FindAll(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, "n1", stored[0].Registration)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "fetch_exhausted", failureReason(fmt.Errorf("page 1: %w", &entity.FetchExhaustedError{})))
	assert.Equal(t, "not_found", failureReason(&entity.NotFoundError{Identifier: "x"}))
	assert.Equal(t, "unexpected_payload", failureReason(&entity.UnexpectedPayloadError{}))
	assert.Equal(t, "timeout", failureReason(context.DeadlineExceeded))
	assert.Equal(t, "canceled", failureReason(context.Canceled))
	assert.Equal(t, "other", failureReason(errors.New("x")))
}
