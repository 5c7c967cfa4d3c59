// Package booking decides whether a requested rental is schedulable. It
// detects interval conflicts against a costume's active rentals and proposes
// the earliest non-conflicting slot within a bounded horizon.
package booking

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// Horizon bounds how far the greedy resolver shifts a requested slot forward
// looking for a free window.
const Horizon = 30 * 24 * time.Hour

// Range is a half-open calendar interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open ranges intersect. The check is
// symmetric: swapping receiver and argument yields the same verdict.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Duration is the span of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Shift moves the whole range forward by d, preserving its duration.
func (r Range) Shift(d time.Duration) Range {
	return Range{Start: r.Start.Add(d), End: r.End.Add(d)}
}

// Validation is the outcome of a conflict check.
type Validation struct {
	Valid     bool
	Conflicts []engine.Rental
	Message   string
}

// Slot is the outcome of a resolution attempt.
type Slot struct {
	Available bool
	Range     Range
	Message   string
}

// HasConflict reports whether the requested range overlaps any active rental
// for the given costume.
func HasConflict(costumeID uuid.UUID, requested Range, rentals []engine.Rental) bool {
	for _, r := range rentals {
		if r.CostumeID != costumeID || r.Status != engine.RentalActive {
			continue
		}
		if requested.Overlaps(Range{Start: r.StartDate, End: r.EndDate}) {
			return true
		}
	}
	return false
}

// Validate returns whether the requested range is bookable and, when it is
// not, the list of conflicting rentals. Conflicts are data, not errors.
func Validate(costumeID uuid.UUID, requested Range, rentals []engine.Rental) Validation {
	var conflicts []engine.Rental
	for _, r := range rentals {
		if r.CostumeID != costumeID || r.Status != engine.RentalActive {
			continue
		}
		if requested.Overlaps(Range{Start: r.StartDate, End: r.EndDate}) {
			conflicts = append(conflicts, r)
		}
	}

	if len(conflicts) > 0 {
		return Validation{Valid: false, Conflicts: conflicts, Message: "booking conflicts with existing rental"}
	}
	return Validation{Valid: true, Message: "booking is valid"}
}

// FindEarliestSlot returns the requested range unchanged when it is free.
// Otherwise it greedily advances the candidate start one calendar day at a
// time, preserving the requested duration, until a conflict-free window
// appears or the horizon from the original request is exhausted.
//
// Greedy-nearest-by-start-date is not optimal in pathological booking
// layouts; it is the accepted trade-off favoring simplicity over exhaustive
// search. The returned start date is never earlier than the requested one.
func FindEarliestSlot(costumeID uuid.UUID, requested Range, rentals []engine.Rental) Slot {
	booked := activeRanges(costumeID, rentals)

	if !overlapsAny(requested, booked) {
		return Slot{Available: true, Range: requested, Message: "requested slot is available"}
	}

	deadline := requested.Start.Add(Horizon)
	for candidate := requested; candidate.Start.Before(deadline); candidate = candidate.Shift(24 * time.Hour) {
		if !overlapsAny(candidate, booked) {
			return Slot{Available: true, Range: candidate, Message: "alternative slot found"}
		}
	}

	return Slot{Available: false, Message: "no available slots in the near future"}
}

func activeRanges(costumeID uuid.UUID, rentals []engine.Rental) []Range {
	var booked []Range
	for _, r := range rentals {
		if r.CostumeID == costumeID && r.Status == engine.RentalActive {
			booked = append(booked, Range{Start: r.StartDate, End: r.EndDate})
		}
	}
	sort.Slice(booked, func(i, j int) bool {
		return booked[i].Start.Before(booked[j].Start)
	})
	return booked
}

func overlapsAny(candidate Range, booked []Range) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
