package fetch

import (
	"time"

	"golang.org/x/time/rate"
)

// NewGate returns a token bucket shared by every worker of a run.
// perSecond <= 0 disables the gate.
func NewGate(perSecond float64, burst int) Gate {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// NewIntervalGate allows one request per interval
func NewIntervalGate(interval time.Duration) Gate {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
