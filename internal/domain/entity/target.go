package entity

import "fmt"

// TargetKind discriminates resolved inputs
type TargetKind int

const (
	KindAirline TargetKind = iota + 1
	KindAircraft
	KindAirport
)

func (k TargetKind) String() string {
	switch k {
	case KindAirline:
		return "airline"
	case KindAircraft:
		return "aircraft"
	case KindAirport:
		return "airport"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is a resolved input: AirlineTarget, AircraftTarget or AirportTarget
type Target interface {
	Kind() TargetKind
	// ID is the identifier used in logs and failure reports
	ID() string
	isTarget()
}

// AirlineTarget is an input token that matched the airline directory
type AirlineTarget struct {
	Airline Airline
}

// AircraftTarget is an aircraft registration
type AircraftTarget struct {
	Registration string
}

// AirportTarget is an airport code from the airports list
type AirportTarget struct {
	Code string
}

func (AirlineTarget) Kind() TargetKind  { return KindAirline }
func (AircraftTarget) Kind() TargetKind { return KindAircraft }
func (AirportTarget) Kind() TargetKind  { return KindAirport }

func (t AirlineTarget) ID() string  { return t.Airline.Name }
func (t AircraftTarget) ID() string { return t.Registration }
func (t AirportTarget) ID() string  { return t.Code }

func (AirlineTarget) isTarget()  {}
func (AircraftTarget) isTarget() {}
func (AirportTarget) isTarget()  {}
