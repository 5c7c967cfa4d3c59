// internal/rental/implementation.go
package rental

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"costumier/internal/clients"
	"costumier/internal/engine"
	"costumier/internal/engine/booking"
	"costumier/pkg/eventstore"
)

// service implements the Service interface.
type service struct {
	eventStore    *eventstore.EventStore
	db            *sql.DB
	catalogClient *clients.CatalogClient
	shopperClient *clients.ShopperClient
}

// NewService creates a new rental service instance.
func NewService(es *eventstore.EventStore, db *sql.DB, catalogClient *clients.CatalogClient, shopperClient *clients.ShopperClient) Service {
	return &service{
		eventStore:    es,
		db:            db,
		catalogClient: catalogClient,
		shopperClient: shopperClient,
	}
}

// BookCostume orchestrates the booking saga.
func (s *service) BookCostume(ctx context.Context, req BookingRequest) (*Rental, error) {
	// Step 1: Validate the requested date range
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if req.StartDate.Before(today) {
		return nil, fmt.Errorf("start date cannot be in the past")
	}
	if !ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("unsupported payment method %q", req.PaymentMethod)
	}

	// Step 2: Validate the shopper
	shopper, err := s.shopperClient.GetShopper(ctx, req.ShopperID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopper: %w", err)
	}
	if shopper.Status != "active" {
		return nil, fmt.Errorf("shopper is not eligible for booking")
	}

	// Step 3: Check costume availability
	costume, err := s.catalogClient.GetCostume(ctx, req.CostumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get costume: %w", err)
	}
	if costume.Quantity <= 0 {
		return nil, fmt.Errorf("costume is not available")
	}

	// Step 4: Check for conflicting bookings on the same costume
	existing, err := s.activeRentalsFor(ctx, req.CostumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing rentals: %w", err)
	}
	validation := booking.Validate(req.CostumeID, booking.Range{Start: req.StartDate, End: req.EndDate}, existing)
	if !validation.Valid {
		return nil, fmt.Errorf("%s", validation.Message)
	}

	// Step 5: Decrement costume quantity (with compensation). The costume
	// version observed in Step 3 rides along so a concurrent booking that
	// already took the last unit fails here instead of overselling.
	if err := s.catalogClient.UpdateCostumeQuantity(ctx, req.CostumeID, costume.TotalQuantity, costume.Quantity-1, costume.Version); err != nil {
		return nil, fmt.Errorf("failed to update costume quantity: %w", err)
	}

	// Compensation function for decrementing costume quantity. Version 0:
	// the rollback applies against whatever version the catalog holds now.
	compensation := func() {
		log.Printf("Compensating for failed booking: rolling back quantity for costume %s", req.CostumeID)
		if err := s.catalogClient.UpdateCostumeQuantity(ctx, req.CostumeID, costume.TotalQuantity, costume.Quantity, 0); err != nil {
			log.Printf("Failed to compensate costume quantity: %v", err)
		}
	}

	// Step 6: Create the booking record
	rentalID := uuid.New()
	totalCost := rentalCost(req.StartDate, req.EndDate, costume.Price)

	eventData := RentalBookedEvent{
		RentalID:      rentalID,
		ShopperID:     req.ShopperID,
		CostumeID:     req.CostumeID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalCost:     totalCost,
		PaymentMethod: req.PaymentMethod,
	}
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		compensation()
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   rentalID,
		AggregateType: "rental",
		EventType:     "RentalBooked",
		EventData:     jsonData,
		Version:       1,
	}

	if err := s.eventStore.AppendEvents(ctx, rentalID, "rental", 0, []eventstore.Event{event}); err != nil {
		compensation()
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	// Step 7: Update the read model
	rental := &Rental{
		ID:            rentalID,
		ShopperID:     req.ShopperID,
		CostumeID:     req.CostumeID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalCost:     totalCost,
		PaymentMethod: req.PaymentMethod,
		Status:        "active",
		Version:       1,
		CreatedAt:     time.Now(),
	}

	if err := s.insertRentalIntoReadModel(ctx, rental); err != nil {
		compensation()
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	return rental, nil
}

// rentalCost charges per started day.
func rentalCost(start, end time.Time, pricePerDay float64) float64 {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	return days * pricePerDay
}

func (s *service) insertRentalIntoReadModel(ctx context.Context, rental *Rental) error {
	query := `
		INSERT INTO rentals (id, shopper_id, costume_id, start_date, end_date, total_cost, payment_method, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query, rental.ID, rental.ShopperID, rental.CostumeID, rental.StartDate, rental.EndDate, rental.TotalCost, rental.PaymentMethod, rental.Status, rental.Version)
	return err
}

// QuoteSlot checks the requested range and, when it conflicts, scans forward
// for the next free window of the same duration.
func (s *service) QuoteSlot(ctx context.Context, costumeID uuid.UUID, start, end time.Time) (booking.Slot, error) {
	existing, err := s.activeRentalsFor(ctx, costumeID)
	if err != nil {
		return booking.Slot{}, fmt.Errorf("failed to load existing rentals: %w", err)
	}
	return booking.FindEarliestSlot(costumeID, booking.Range{Start: start, End: end}, existing), nil
}

// ReturnRental handles returning a costume.
func (s *service) ReturnRental(ctx context.Context, rentalID uuid.UUID) error {
	rental, err := s.GetRental(ctx, rentalID)
	if err != nil {
		return fmt.Errorf("failed to find rental: %w", err)
	}
	if rental.Status != "active" {
		return fmt.Errorf("rental is not active")
	}

	// Step 1: Increment costume quantity
	costume, err := s.catalogClient.GetCostume(ctx, rental.CostumeID)
	if err != nil {
		return fmt.Errorf("failed to get costume: %w", err)
	}
	if err := s.catalogClient.UpdateCostumeQuantity(ctx, rental.CostumeID, costume.TotalQuantity, costume.Quantity+1, costume.Version); err != nil {
		return fmt.Errorf("failed to update costume quantity: %w", err)
	}

	// Step 2: Create the return event
	eventData := RentalReturnedEvent{
		RentalID:   rental.ID,
		ShopperID:  rental.ShopperID,
		CostumeID:  rental.CostumeID,
		ReturnDate: time.Now(),
	}
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   rental.ID,
		AggregateType: "rental",
		EventType:     "RentalReturned",
		EventData:     jsonData,
		Version:       rental.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, rental.ID, "rental", rental.Version, []eventstore.Event{event}); err != nil {
		log.Printf("Failed to append return event, compensating quantity for costume %s", rental.CostumeID)
		if err := s.catalogClient.UpdateCostumeQuantity(ctx, rental.CostumeID, costume.TotalQuantity, costume.Quantity, 0); err != nil {
			log.Printf("Failed to compensate costume quantity: %v", err)
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	// Step 3: Update the read model
	query := `
		UPDATE rentals
		SET status = 'returned', return_date = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`
	_, err = s.db.ExecContext(ctx, query, time.Now(), rental.ID)
	return err
}

// CancelRental cancels a booking before the costume goes out.
func (s *service) CancelRental(ctx context.Context, rentalID uuid.UUID) error {
	rental, err := s.GetRental(ctx, rentalID)
	if err != nil {
		return fmt.Errorf("failed to find rental: %w", err)
	}
	if rental.Status != "active" {
		return fmt.Errorf("rental is not active")
	}

	costume, err := s.catalogClient.GetCostume(ctx, rental.CostumeID)
	if err != nil {
		return fmt.Errorf("failed to get costume: %w", err)
	}
	if err := s.catalogClient.UpdateCostumeQuantity(ctx, rental.CostumeID, costume.TotalQuantity, costume.Quantity+1, costume.Version); err != nil {
		return fmt.Errorf("failed to update costume quantity: %w", err)
	}

	eventData := RentalCancelledEvent{
		RentalID:  rental.ID,
		ShopperID: rental.ShopperID,
		CostumeID: rental.CostumeID,
	}
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   rental.ID,
		AggregateType: "rental",
		EventType:     "RentalCancelled",
		EventData:     jsonData,
		Version:       rental.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, rental.ID, "rental", rental.Version, []eventstore.Event{event}); err != nil {
		log.Printf("Failed to append cancel event, compensating quantity for costume %s", rental.CostumeID)
		if err := s.catalogClient.UpdateCostumeQuantity(ctx, rental.CostumeID, costume.TotalQuantity, costume.Quantity, 0); err != nil {
			log.Printf("Failed to compensate costume quantity: %v", err)
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE rentals
		SET status = 'cancelled', version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	_, err = s.db.ExecContext(ctx, query, rental.ID)
	return err
}

func (s *service) GetRental(ctx context.Context, rentalID uuid.UUID) (*Rental, error) {
	query := `
		SELECT id, shopper_id, costume_id, start_date, end_date, total_cost, payment_method, status, version, created_at
		FROM rentals
		WHERE id = $1
	`
	rental := &Rental{}
	err := s.db.QueryRowContext(ctx, query, rentalID).Scan(
		&rental.ID, &rental.ShopperID, &rental.CostumeID,
		&rental.StartDate, &rental.EndDate, &rental.TotalCost,
		&rental.PaymentMethod, &rental.Status, &rental.Version, &rental.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rental with ID %s not found", rentalID)
	}
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) ListRentals(ctx context.Context, status string) ([]*Rental, error) {
	query := `
		SELECT id, shopper_id, costume_id, start_date, end_date, total_cost, payment_method, status, version, created_at
		FROM rentals
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY start_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRentals(rows)
}

func (s *service) ListShopperRentals(ctx context.Context, shopperID uuid.UUID) ([]*Rental, error) {
	query := `
		SELECT id, shopper_id, costume_id, start_date, end_date, total_cost, payment_method, status, version, created_at
		FROM rentals
		WHERE shopper_id = $1
		ORDER BY start_date
	`
	rows, err := s.db.QueryContext(ctx, query, shopperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRentals(rows)
}

func (s *service) activeRentalsFor(ctx context.Context, costumeID uuid.UUID) ([]engine.Rental, error) {
	query := `
		SELECT id, shopper_id, costume_id, start_date, end_date, total_cost, payment_method, status, version, created_at
		FROM rentals
		WHERE costume_id = $1 AND status = 'active'
	`
	rows, err := s.db.QueryContext(ctx, query, costumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals, err := scanRentals(rows)
	if err != nil {
		return nil, err
	}

	snapshots := make([]engine.Rental, 0, len(rentals))
	for _, r := range rentals {
		snapshots = append(snapshots, r.Snapshot())
	}
	return snapshots, nil
}

func scanRentals(rows *sql.Rows) ([]*Rental, error) {
	var rentals []*Rental
	for rows.Next() {
		rental := &Rental{}
		err := rows.Scan(
			&rental.ID, &rental.ShopperID, &rental.CostumeID,
			&rental.StartDate, &rental.EndDate, &rental.TotalCost,
			&rental.PaymentMethod, &rental.Status, &rental.Version, &rental.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}
