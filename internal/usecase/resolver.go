package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/pkg/logger"
)

// Resolution is the classification of raw input tokens
type Resolution struct {
	Airlines []entity.AirlineTarget
	Aircraft []entity.AircraftTarget
}

// Resolve classifies tokens against the airline directory. A token naming an
// airline exactly (ignoring case) resolves to the first such airline; every
// other token is taken as an aircraft registration.
func Resolve(tokens []string, known []entity.Airline) Resolution {
	index := make(map[string]entity.Airline, len(known))
	for _, airline := range known {
		key := strings.ToLower(strings.TrimSpace(airline.Name))
		if _, exists := index[key]; !exists {
			index[key] = airline
		}
	}

	var res Resolution
	for _, token := range tokens {
		key := strings.ToLower(strings.TrimSpace(token))
		if key == "" {
			continue
		}
		if airline, ok := index[key]; ok {
			res.Airlines = append(res.Airlines, entity.AirlineTarget{Airline: airline})
			continue
		}
		res.Aircraft = append(res.Aircraft, entity.AircraftTarget{Registration: key})
	}
	return res
}

// TargetExpander turns a resolution into the ordered list of targets to collect
type TargetExpander struct {
	directory AirlineDirectory
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	logger    logger.Logger
}

// NewTargetExpander creates an expander that pauses delay between fleet lookups
func NewTargetExpander(directory AirlineDirectory, delay time.Duration, sleep func(ctx context.Context, d time.Duration) error, logger logger.Logger) *TargetExpander {
	return &TargetExpander{directory: directory, delay: delay, sleep: sleep, logger: logger}
}

// Expand lists explicit aircraft, then each airline's fleet, then airports.
// A target listed twice is collected once, at its first position. A failed
// fleet lookup drops that airline only.
func (e *TargetExpander) Expand(ctx context.Context, res Resolution, airports []string) ([]entity.Target, error) {
	pending := make([]entity.Target, 0, len(res.Aircraft)+len(res.Airlines)+len(airports))
	for _, aircraft := range res.Aircraft {
		pending = append(pending, aircraft)
	}
	for _, airline := range res.Airlines {
		pending = append(pending, airline)
	}
	for _, code := range airports {
		pending = append(pending, entity.AirportTarget{Code: strings.ToLower(strings.TrimSpace(code))})
	}

	type key struct {
		kind entity.TargetKind
		id   string
	}
	seen := make(map[key]struct{})
	var targets []entity.Target
	add := func(t entity.Target) {
		k := key{t.Kind(), t.ID()}
		if _, dup := seen[k]; dup || t.ID() == "" {
			return
		}
		seen[k] = struct{}{}
		targets = append(targets, t)
	}

	lookups := 0
	for _, target := range pending {
		switch t := target.(type) {
		case entity.AircraftTarget:
			add(t)
		case entity.AirportTarget:
			add(t)
		case entity.AirlineTarget:
			if lookups > 0 && e.sleep != nil {
				if err := e.sleep(ctx, e.delay); err != nil {
					return nil, err
				}
			}
			lookups++

			fleet, err := e.directory.Fleet(ctx, t.Airline.Handle)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				e.logger.Error("Fleet lookup failed", "airline", t.Airline.Name, "handle", t.Airline.Handle, "error", err)
				continue
			}
			e.logger.Info("Got fleet for airline", "airline", t.Airline.Name, "aircraft", len(fleet))
			for _, registration := range fleet {
				add(entity.AircraftTarget{Registration: strings.ToLower(registration)})
			}
		default:
			return nil, fmt.Errorf("unsupported target %T", target)
		}
	}
	return targets, nil
}
