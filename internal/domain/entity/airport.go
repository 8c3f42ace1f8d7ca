package entity

import "fmt"

// Airport holds the queried airport's own details as reported by the provider
type Airport struct {
	Code string
	IATA string
	ICAO string
	Name string
	City string
}

// Descriptor renders the airport the way records carry it: "City (IATA)"
func (a Airport) Descriptor() string {
	return Descriptor(a.City, a.Name, a.IATA)
}

// Descriptor builds an origin/destination descriptor, preferring the city over the airport name
func Descriptor(city, name, iata string) string {
	place := city
	if place == "" {
		place = name
	}
	switch {
	case place != "" && iata != "":
		return fmt.Sprintf("%s (%s)", place, iata)
	case place != "":
		return place
	case iata != "":
		return fmt.Sprintf("(%s)", iata)
	default:
		return ""
	}
}
