package usecase

import (
	"time"

	"flight-history-collector/internal/infrastructure/fetch"
)

const (
	DefaultPageSize    = 100
	DefaultPageDelay   = 3 * time.Second
	DefaultTargetDelay = 1 * time.Second
	DefaultMaxPages    = 1000

	// scheduleLag keeps the airport board anchor out of the immediate present
	scheduleLag = 15 * time.Minute
)

// CollectorConfig tunes pagination for both collectors
type CollectorConfig struct {
	PageSize  int
	PageDelay time.Duration
	// MaxPages stops a target whose provider never reports the last page
	MaxPages int
	// VerifyAircraft checks the aircraft page for a not-found redirect before paginating
	VerifyAircraft bool
	// Sleep pauses between pages; defaults to fetch.Sleep
	Sleep fetch.Sleeper
	// Now anchors airport boards; defaults to time.Now
	Now func() time.Time
}

// DefaultCollectorConfig returns 100-entry pages 3 seconds apart
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		PageSize:       DefaultPageSize,
		PageDelay:      DefaultPageDelay,
		MaxPages:       DefaultMaxPages,
		VerifyAircraft: true,
	}
}

func (c CollectorConfig) withDefaults() CollectorConfig {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Sleep == nil {
		c.Sleep = fetch.Sleep
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
