package usecase

import (
	"context"
	"sync"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/interface/flightradar"
)

const (
	// 2023-05-01 23:30 UTC
	tsMay1 int64 = 1682983800
	// 2023-04-30 12:00 UTC
	tsApr30 int64 = 1682856000
	// 2022-12-31 12:00 UTC
	tsDec31 int64 = 1672488000
)

func entry(id, number, status string, departure int64) flightradar.FlightEntry {
	var e flightradar.FlightEntry
	e.Identification.ID = id
	e.Identification.Number.Default = number
	e.Status.Text = status
	e.Aircraft.Model.Text = "Boeing 737-800"
	e.Airline.Name = "Some Air"
	e.Time.Scheduled.Departure = departure
	e.Time.Other.Duration = 13500
	e.Airport.Origin = ref("Los Angeles", "LAX")
	e.Airport.Destination = ref("Chicago", "ORD")
	return e
}

func ref(city, iata string) *flightradar.AirportRef {
	r := &flightradar.AirportRef{Name: city + " International Airport"}
	r.Code.IATA = iata
	r.Position.Region.City = city
	return r
}

func listPage(more bool, entries ...flightradar.FlightEntry) *flightradar.FlightList {
	page := &flightradar.FlightList{Data: entries}
	if entries == nil {
		page.Data = []flightradar.FlightEntry{}
	}
	page.Page.More = more
	return page
}

func boardPage(current, total int, entries ...flightradar.FlightEntry) *flightradar.ScheduleBoard {
	board := &flightradar.ScheduleBoard{}
	board.Page.Current = current
	board.Page.Total = total
	for _, e := range entries {
		board.Data = append(board.Data, flightradar.ScheduleItem{Flight: e})
	}
	return board
}

// fakeHistory serves canned aircraft pages keyed by lower-cased registration
type fakeHistory struct {
	mu        sync.Mutex
	pages     map[string][]*flightradar.FlightList
	errs      map[string]error
	missing   map[string]bool
	queries   []flightradar.FlightListQuery
	existsFor []string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		pages:   make(map[string][]*flightradar.FlightList),
		errs:    make(map[string]error),
		missing: make(map[string]bool),
	}
}

func (f *fakeHistory) FlightList(ctx context.Context, q flightradar.FlightListQuery) (*flightradar.FlightList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if err, ok := f.errs[q.Registration]; ok {
		return nil, err
	}
	pages := f.pages[q.Registration]
	if q.Page > len(pages) {
		return &flightradar.FlightList{}, nil
	}
	return pages[q.Page-1], nil
}

func (f *fakeHistory) AircraftExists(ctx context.Context, registration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsFor = append(f.existsFor, registration)
	if f.missing[registration] {
		return &entity.NotFoundError{Identifier: registration}
	}
	return nil
}

// fakeSchedule serves canned airport boards per direction
type fakeSchedule struct {
	mu      sync.Mutex
	boards  map[entity.Direction][]*flightradar.ScheduleBoard
	details *flightradar.AirportDetails
	err     error
	queries []flightradar.ScheduleQuery
}

func (f *fakeSchedule) AirportSchedule(ctx context.Context, q flightradar.ScheduleQuery) (*flightradar.ScheduleBoard, *flightradar.AirportDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, nil, f.err
	}
	boards := f.boards[q.Direction]
	if q.Page > len(boards) {
		return boardPage(q.Page, q.Page), f.details, nil
	}
	return boards[q.Page-1], f.details, nil
}

// fakeDirectory is a canned airline directory
type fakeDirectory struct {
	mu          sync.Mutex
	airlines    []entity.Airline
	airlinesErr error
	fleets      map[string][]string
	fleetErrs   map[string]error
	airlineHits int
	fleetHits   []string
}

func (f *fakeDirectory) Airlines(ctx context.Context) ([]entity.Airline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.airlineHits++
	return f.airlines, f.airlinesErr
}

func (f *fakeDirectory) Fleet(ctx context.Context, handle string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fleetHits = append(f.fleetHits, handle)
	if err, ok := f.fleetErrs[handle]; ok {
		return nil, err
	}
	return f.fleets[handle], nil
}

type fakeSessions struct {
	session entity.Session
	err     error
}

func (f fakeSessions) Session() (entity.Session, error) {
	return f.session, f.err
}

// fakeRouter maps kinds to collectors
type fakeRouter map[entity.TargetKind]TargetCollector

func (r fakeRouter) Register(kind entity.TargetKind, c TargetCollector) { r[kind] = c }

func (r fakeRouter) GetCollector(t entity.Target) TargetCollector { return r[t.Kind()] }

// funcCollector adapts a function to TargetCollector
type funcCollector func(ctx context.Context, id string) ([]entity.FlightRecord, error)

func (f funcCollector) Collect(ctx context.Context, _ entity.Session, id string, _ *entity.Date) ([]entity.FlightRecord, error) {
	return f(ctx, id)
}

// recordingSleep records requested pauses without waiting
type recordingSleep struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (s *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.pauses = append(s.pauses, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleep) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pauses)
}

func datePtr(y int, m time.Month, d int) *entity.Date {
	date := entity.Date{Year: y, Month: m, Day: d}
	return &date
}
