// internal/rental/service.go
package rental

import (
	"context"
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine/booking"
)

// BookingRequest carries everything needed to book a costume.
type BookingRequest struct {
	ShopperID     uuid.UUID
	CostumeID     uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	PaymentMethod string
}

// Service defines the interface for the rental service.
type Service interface {
	BookCostume(ctx context.Context, req BookingRequest) (*Rental, error)
	QuoteSlot(ctx context.Context, costumeID uuid.UUID, start, end time.Time) (booking.Slot, error)
	ReturnRental(ctx context.Context, rentalID uuid.UUID) error
	CancelRental(ctx context.Context, rentalID uuid.UUID) error
	GetRental(ctx context.Context, rentalID uuid.UUID) (*Rental, error)
	ListRentals(ctx context.Context, status string) ([]*Rental, error)
	ListShopperRentals(ctx context.Context, shopperID uuid.UUID) ([]*Rental, error)
}
