package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"costumier/internal/engine"
)

var base = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.AddDate(0, 0, n) }

func activeRental(costumeID uuid.UUID, start, end time.Time) engine.Rental {
	return engine.Rental{
		ID:        uuid.New(),
		ShopperID: uuid.New(),
		CostumeID: costumeID,
		StartDate: start,
		EndDate:   end,
		Status:    engine.RentalActive,
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	r := Range{Start: day(0), End: day(5)}

	assert.True(t, r.Overlaps(Range{Start: day(3), End: day(8)}))
	assert.True(t, r.Overlaps(Range{Start: day(1), End: day(4)}), "containment overlaps")
	assert.False(t, r.Overlaps(Range{Start: day(5), End: day(9)}), "touching endpoints do not overlap")
	assert.False(t, r.Overlaps(Range{Start: day(6), End: day(9)}))
}

func TestOverlapsSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		aStart := rapid.IntRange(0, 60).Draw(t, "aStart")
		aLen := rapid.IntRange(1, 30).Draw(t, "aLen")
		bStart := rapid.IntRange(0, 60).Draw(t, "bStart")
		bLen := rapid.IntRange(1, 30).Draw(t, "bLen")

		a := Range{Start: day(aStart), End: day(aStart + aLen)}
		b := Range{Start: day(bStart), End: day(bStart + bLen)}

		require.Equal(t, a.Overlaps(b), b.Overlaps(a))
	})
}

func TestValidate(t *testing.T) {
	costumeID := uuid.New()
	existing := activeRental(costumeID, day(3), day(6))

	conflict := Validate(costumeID, Range{Start: day(4), End: day(8)}, []engine.Rental{existing})
	assert.False(t, conflict.Valid)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, existing.ID, conflict.Conflicts[0].ID)
	assert.Equal(t, "booking conflicts with existing rental", conflict.Message)

	clear := Validate(costumeID, Range{Start: day(6), End: day(9)}, []engine.Rental{existing})
	assert.True(t, clear.Valid)
	assert.Empty(t, clear.Conflicts)
	assert.Equal(t, "booking is valid", clear.Message)
}

func TestValidateIgnoresOtherCostumesAndTerminalRentals(t *testing.T) {
	costumeID := uuid.New()

	other := activeRental(uuid.New(), day(0), day(10))
	returned := activeRental(costumeID, day(0), day(10))
	returned.Status = engine.RentalReturned
	cancelled := activeRental(costumeID, day(0), day(10))
	cancelled.Status = engine.RentalCancelled

	v := Validate(costumeID, Range{Start: day(2), End: day(5)}, []engine.Rental{other, returned, cancelled})
	assert.True(t, v.Valid)
}

func TestFindEarliestSlotFreeRequest(t *testing.T) {
	costumeID := uuid.New()
	requested := Range{Start: day(0), End: day(3)}

	slot := FindEarliestSlot(costumeID, requested, nil)

	assert.True(t, slot.Available)
	assert.Equal(t, requested, slot.Range)
	assert.Equal(t, "requested slot is available", slot.Message)
}

func TestFindEarliestSlotShiftsPastConflict(t *testing.T) {
	costumeID := uuid.New()
	existing := activeRental(costumeID, day(0), day(5))

	slot := FindEarliestSlot(costumeID, Range{Start: day(2), End: day(4)}, []engine.Rental{existing})

	require.True(t, slot.Available)
	assert.Equal(t, "alternative slot found", slot.Message)
	assert.Equal(t, day(5), slot.Range.Start, "first start clear of the booked range")
	assert.Equal(t, day(7), slot.Range.End, "duration preserved")
}

func TestFindEarliestSlotHorizonExhausted(t *testing.T) {
	costumeID := uuid.New()
	// One long rental blocks the whole search horizon.
	existing := activeRental(costumeID, day(0), day(60))

	slot := FindEarliestSlot(costumeID, Range{Start: day(1), End: day(3)}, []engine.Rental{existing})

	assert.False(t, slot.Available)
	assert.Equal(t, "no available slots in the near future", slot.Message)
}

func TestFindEarliestSlotMonotonicity(t *testing.T) {
	costumeID := uuid.New()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "rentals")
		var rentals []engine.Rental
		for i := 0; i < n; i++ {
			start := rapid.IntRange(0, 40).Draw(t, "start")
			length := rapid.IntRange(1, 10).Draw(t, "length")
			rentals = append(rentals, activeRental(costumeID, day(start), day(start+length)))
		}

		reqStart := rapid.IntRange(0, 20).Draw(t, "reqStart")
		reqLen := rapid.IntRange(1, 7).Draw(t, "reqLen")
		requested := Range{Start: day(reqStart), End: day(reqStart + reqLen)}

		slot := FindEarliestSlot(costumeID, requested, rentals)
		if !slot.Available {
			return
		}

		require.False(t, slot.Range.Start.Before(requested.Start),
			"resolved start must never precede the requested start")
		require.Equal(t, requested.Duration(), slot.Range.Duration())

		for _, r := range rentals {
			require.False(t, slot.Range.Overlaps(Range{Start: r.StartDate, End: r.EndDate}),
				"resolved slot must be conflict-free")
		}
	})
}

func TestHasConflict(t *testing.T) {
	costumeID := uuid.New()
	existing := activeRental(costumeID, day(3), day(6))

	assert.True(t, HasConflict(costumeID, Range{Start: day(5), End: day(7)}, []engine.Rental{existing}))
	assert.False(t, HasConflict(costumeID, Range{Start: day(6), End: day(7)}, []engine.Rental{existing}))
	assert.False(t, HasConflict(uuid.New(), Range{Start: day(5), End: day(7)}, []engine.Rental{existing}))
}
