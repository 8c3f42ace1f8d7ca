package usecase

import (
	"context"
	"errors"
	"testing"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var directory = []entity.Airline{
	{Name: "Some Airline", Handle: "/data/airlines/sa-sal"},
	{Name: "Other Air", Handle: "/data/airlines/oa-oth"},
	{Name: "SOME AIRLINE", Handle: "/data/airlines/dup"},
}

func TestResolve(t *testing.T) {
	res := Resolve([]string{"n12345", "some airline", " ", "Other Air", "some"}, directory)

	require.Len(t, res.Airlines, 2)
	assert.Equal(t, "/data/airlines/sa-sal", res.Airlines[0].Airline.Handle)
	assert.Equal(t, "Other Air", res.Airlines[1].Airline.Name)

	assert.Equal(t, []entity.AircraftTarget{{Registration: "n12345"}, {Registration: "some"}}, res.Aircraft)
}

func TestResolve_EmptyDirectory(t *testing.T) {
	res := Resolve([]string{"some airline"}, nil)
	assert.Empty(t, res.Airlines)
	assert.Equal(t, []entity.AircraftTarget{{Registration: "some airline"}}, res.Aircraft)
}

func TestTargetExpander_Expand(t *testing.T) {
	dir := &fakeDirectory{
		fleets: map[string][]string{
			"/data/airlines/sa-sal": {"N555", "n12345"},
			"/data/airlines/oa-oth": {"N777"},
		},
	}
	sleep := &recordingSleep{}
	expander := NewTargetExpander(dir, DefaultTargetDelay, sleep.Sleep, logger.NewNop())

	res := Resolution{
		Airlines: []entity.AirlineTarget{{Airline: directory[0]}, {Airline: directory[1]}},
		Aircraft: []entity.AircraftTarget{{Registration: "n12345"}},
	}
	targets, err := expander.Expand(context.Background(), res, []string{"LAX", "lax"})
	require.NoError(t, err)

	assert.Equal(t, []entity.Target{
		entity.AircraftTarget{Registration: "n12345"},
		entity.AircraftTarget{Registration: "n555"},
		entity.AircraftTarget{Registration: "n777"},
		entity.AirportTarget{Code: "lax"},
	}, targets)
	assert.Equal(t, 1, sleep.count())
}

func TestTargetExpander_FailedFleetIsSkipped(t *testing.T) {
	dir := &fakeDirectory{
		fleets:    map[string][]string{"/data/airlines/oa-oth": {"N777"}},
		fleetErrs: map[string]error{"/data/airlines/sa-sal": errors.New("boom")},
	}
	expander := NewTargetExpander(dir, 0, (&recordingSleep{}).Sleep, logger.NewNop())

	res := Resolution{Airlines: []entity.AirlineTarget{{Airline: directory[0]}, {Airline: directory[1]}}}
	targets, err := expander.Expand(context.Background(), res, nil)
	require.NoError(t, err)
	assert.Equal(t, []entity.Target{entity.AircraftTarget{Registration: "n777"}}, targets)
	assert.Len(t, dir.fleetHits, 2)
}

func TestTargetExpander_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := &fakeDirectory{fleetErrs: map[string]error{"/data/airlines/sa-sal": context.Canceled}}
	expander := NewTargetExpander(dir, 0, nil, logger.NewNop())

	res := Resolution{Airlines: []entity.AirlineTarget{{Airline: directory[0]}}}
	_, err := expander.Expand(ctx, res, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
