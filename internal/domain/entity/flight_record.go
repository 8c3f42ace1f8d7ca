// internal/domain/entity/flight_record.go
package entity

import "strings"

// Movement statuses reported by the provider
const (
	StatusScheduled = "Scheduled"
	StatusLanded    = "Landed"
	StatusCanceled  = "Canceled"
	StatusDiverted  = "Diverted"

	// StatusEstimatedPrefix marks airport board placeholders such as "Estimated 14:05"
	StatusEstimatedPrefix = "Estimated"
)

// FlightRecord is one historical aircraft movement.
//
// Optional fields hold "" when the provider does not report them. The struct is
// comparable, so two records are the same movement iff r == other.
type FlightRecord struct {
	Registration string `json:"registration" bson:"registration"`
	Airline      string `json:"airline" bson:"airline"`
	Model        string `json:"model" bson:"model"`
	Date         Date   `json:"date" bson:"date"`
	Origin       string `json:"origin" bson:"origin"`
	Destination  string `json:"destination" bson:"destination"`
	Flight       string `json:"flight" bson:"flight"`
	Duration     string `json:"duration" bson:"duration"`
	Status       string `json:"status" bson:"status"`
}

// Equal reports whether both records describe the same movement
func (r FlightRecord) Equal(other FlightRecord) bool {
	return r == other
}

// IsScheduled reports whether a provider status marks a movement that has not happened yet
func IsScheduled(status string) bool {
	return status == StatusScheduled
}

// IsEstimated reports whether a provider status is an "Estimated ..." placeholder
func IsEstimated(status string) bool {
	return strings.HasPrefix(status, StatusEstimatedPrefix)
}
