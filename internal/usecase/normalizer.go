package usecase

import (
	"strings"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/pkg/utils"
)

// EntryDate is the calendar date of a movement: its scheduled departure,
// falling back to the provider's last update. false when neither is known.
func EntryDate(e flightradar.FlightEntry) (entity.Date, bool) {
	ts := e.Time.Scheduled.Departure
	if ts == 0 {
		ts = e.Time.Other.Updated
	}
	if ts == 0 {
		return entity.Date{}, false
	}
	return entity.DateFromUnix(ts), true
}

// SkipAircraftStatus reports whether an aircraft-list entry must not become a record
func SkipAircraftStatus(status string) bool {
	return entity.IsScheduled(status)
}

// SkipAirportStatus reports whether an airport-board entry must not become a record
func SkipAirportStatus(status string) bool {
	return entity.IsScheduled(status) || entity.IsEstimated(status)
}

// NormalizeAircraftEntry maps an entry of an aircraft's history. Origin and
// destination both come from the entry.
func NormalizeAircraftEntry(registration string, e flightradar.FlightEntry) (entity.FlightRecord, bool) {
	if SkipAircraftStatus(e.Status.Text) {
		return entity.FlightRecord{}, false
	}
	record, ok := baseRecord(e)
	if !ok {
		return entity.FlightRecord{}, false
	}
	record.Registration = strings.ToUpper(registration)
	record.Origin = refDescriptor(e.Airport.Origin)
	record.Destination = refDescriptor(e.Airport.Destination)
	return record, true
}

// NormalizeAirportEntry maps an entry of an airport board. The queried airport
// is the destination of arrivals and the origin of departures.
func NormalizeAirportEntry(airport entity.Airport, direction entity.Direction, e flightradar.FlightEntry) (entity.FlightRecord, bool) {
	if SkipAirportStatus(e.Status.Text) {
		return entity.FlightRecord{}, false
	}
	record, ok := baseRecord(e)
	if !ok {
		return entity.FlightRecord{}, false
	}
	record.Registration = strings.ToUpper(e.Aircraft.Registration)

	switch direction {
	case entity.Arrivals:
		record.Origin = refDescriptor(e.Airport.Origin)
		record.Destination = airport.Descriptor()
	case entity.Departures:
		record.Origin = airport.Descriptor()
		record.Destination = refDescriptor(e.Airport.Destination)
	}
	return record, true
}

// AirportFromDetails builds the queried airport from the payload's details plugin.
// Without details the code stands in for the IATA code.
func AirportFromDetails(code string, details *flightradar.AirportDetails) entity.Airport {
	code = strings.ToUpper(code)
	if details == nil {
		return entity.Airport{Code: code, IATA: code}
	}
	airport := entity.Airport{
		Code: code,
		IATA: details.Code.IATA,
		ICAO: details.Code.ICAO,
		Name: details.Name,
		City: details.Position.Region.City,
	}
	if airport.IATA == "" {
		airport.IATA = code
	}
	return airport
}

func baseRecord(e flightradar.FlightEntry) (entity.FlightRecord, bool) {
	date, ok := EntryDate(e)
	if !ok {
		return entity.FlightRecord{}, false
	}
	return entity.FlightRecord{
		Airline:  e.Airline.Name,
		Model:    e.Aircraft.Model.Text,
		Date:     date,
		Flight:   e.Identification.Number.Default,
		Duration: utils.FormatDuration(e.Time.Other.Duration),
		Status:   e.Status.Text,
	}, true
}

func refDescriptor(ref *flightradar.AirportRef) string {
	if ref == nil {
		return ""
	}
	return entity.Descriptor(ref.Position.Region.City, ref.Name, ref.Code.IATA)
}
