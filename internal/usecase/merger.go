package usecase

import "flight-history-collector/internal/domain/entity"

// Merge returns the fresh records absent from existing, in fresh order.
// Repeats inside fresh are kept; Accumulate removes them beforehand.
func Merge(fresh, existing []entity.FlightRecord) []entity.FlightRecord {
	stored := make(map[entity.FlightRecord]struct{}, len(existing))
	for _, record := range existing {
		stored[record] = struct{}{}
	}

	delta := make([]entity.FlightRecord, 0)
	for _, record := range fresh {
		if _, ok := stored[record]; ok {
			continue
		}
		delta = append(delta, record)
	}
	return delta
}

// Accumulate concatenates per-target results in target order, keeping the
// first occurrence of a movement seen by several targets
func Accumulate(batches [][]entity.FlightRecord) []entity.FlightRecord {
	seen := make(map[entity.FlightRecord]struct{})
	var out []entity.FlightRecord
	for _, batch := range batches {
		for _, record := range batch {
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}
			out = append(out, record)
		}
	}
	return out
}
