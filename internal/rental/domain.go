// internal/rental/domain.go
package rental

import (
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// Payment method tags accepted on a booking. "online" settles at booking
// time, "cod" settles at pickup.
const (
	PaymentOnline = "online"
	PaymentCOD    = "cod"
)

// ValidPaymentMethod reports whether the tag is one the store accepts.
func ValidPaymentMethod(method string) bool {
	return method == PaymentOnline || method == PaymentCOD
}

// Rental represents a costume rented by a shopper for a date range.
type Rental struct {
	ID            uuid.UUID `json:"id"`
	ShopperID     uuid.UUID `json:"shopper_id"`
	CostumeID     uuid.UUID `json:"costume_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	ReturnDate    time.Time `json:"return_date,omitempty"`
	TotalCost     float64   `json:"total_cost"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Snapshot projects the rental into the form the engine packages consume.
func (r *Rental) Snapshot() engine.Rental {
	return engine.Rental{
		ID:        r.ID,
		ShopperID: r.ShopperID,
		CostumeID: r.CostumeID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    engine.RentalStatus(r.Status),
	}
}

// RentalBookedEvent is published when a booking is confirmed.
type RentalBookedEvent struct {
	RentalID      uuid.UUID `json:"rental_id"`
	ShopperID     uuid.UUID `json:"shopper_id"`
	CostumeID     uuid.UUID `json:"costume_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalCost     float64   `json:"total_cost"`
	PaymentMethod string    `json:"payment_method"`
}

// RentalReturnedEvent is published when a costume comes back.
type RentalReturnedEvent struct {
	RentalID   uuid.UUID `json:"rental_id"`
	ShopperID  uuid.UUID `json:"shopper_id"`
	CostumeID  uuid.UUID `json:"costume_id"`
	ReturnDate time.Time `json:"return_date"`
}

// RentalCancelledEvent is published when a booking is cancelled before pickup.
type RentalCancelledEvent struct {
	RentalID  uuid.UUID `json:"rental_id"`
	ShopperID uuid.UUID `json:"shopper_id"`
	CostumeID uuid.UUID `json:"costume_id"`
}
