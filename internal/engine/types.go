// Package engine holds the pure in-memory catalog query and booking-conflict
// core. Every entry point receives the current costume and rental snapshots as
// arguments and returns freshly derived data; nothing in this tree performs
// I/O or retains caller state across calls, so concurrent queries over the
// same read-only snapshot are safe.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Condition grades the physical state of a costume.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
)

// Rank maps a condition to its ordering weight (excellent > good > fair).
// Unknown conditions rank below fair.
func (c Condition) Rank() int {
	switch c {
	case ConditionExcellent:
		return 3
	case ConditionGood:
		return 2
	case ConditionFair:
		return 1
	default:
		return 0
	}
}

// RentalStatus is the lifecycle state of a rental. The progression is one-way:
// active -> returned or active -> cancelled, both terminal.
type RentalStatus string

const (
	RentalActive    RentalStatus = "active"
	RentalReturned  RentalStatus = "returned"
	RentalCancelled RentalStatus = "cancelled"
)

// Costume is the engine's read-only view of a catalog item.
type Costume struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Size        string
	Price       float64
	Condition   Condition
	Available   bool
}

// Rental is the engine's read-only view of a booking record. Only rentals
// with Status == RentalActive participate in conflict checks.
type Rental struct {
	ID        uuid.UUID
	ShopperID uuid.UUID
	CostumeID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Status    RentalStatus
}

// popularCategories receive scoring bonuses in the optimizer and the
// backtracking matcher.
var popularCategories = map[string]bool{
	"Superhero":  true,
	"Fantasy":    true,
	"Historical": true,
}

// IsPopularCategory reports whether a category gets the popularity bonus.
func IsPopularCategory(category string) bool {
	return popularCategories[category]
}
