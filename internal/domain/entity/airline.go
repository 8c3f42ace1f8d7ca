package entity

// Airline is one row of the provider's airline directory
type Airline struct {
	// Name is the display name users type into the input list
	Name string
	// Handle is the directory path used for fleet lookups, e.g. /data/airlines/ek-uae
	Handle string
}
