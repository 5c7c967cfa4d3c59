// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"costumier/pkg/eventstore"
)

// service implements the Service interface. Writes go through the event
// store; reads come from the costumes read model. Engine-backed queries live
// in queries.go.
type service struct {
	eventStore *eventstore.EventStore
	db         *sql.DB
	rentals    RentalSource
}

// NewService creates a new catalog service instance.
func NewService(es *eventstore.EventStore, db *sql.DB, rentals RentalSource) Service {
	return &service{
		eventStore: es,
		db:         db,
		rentals:    rentals,
	}
}

// AddCostume creates a new costume in the catalog with full stock.
func (s *service) AddCostume(ctx context.Context, input NewCostume) (*Costume, error) {
	id := uuid.New()
	eventData := CostumeAddedEvent{
		ID:            id,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Size:          input.Size,
		Price:         input.Price,
		Condition:     input.Condition,
		TotalQuantity: input.TotalQuantity,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "costume",
		EventType:     "CostumeAdded",
		EventData:     jsonData,
		Version:       1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "costume", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	costume := &Costume{
		ID:            id,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Size:          input.Size,
		Price:         input.Price,
		ImageURL:      input.ImageURL,
		Condition:     input.Condition,
		Quantity:      input.TotalQuantity,
		TotalQuantity: input.TotalQuantity,
		Available:     input.TotalQuantity > 0,
		Status:        "active",
		Version:       1,
	}
	if err := s.insertCostumeIntoReadModel(ctx, costume); err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	return costume, nil
}

func (s *service) insertCostumeIntoReadModel(ctx context.Context, c *Costume) error {
	query := `
		INSERT INTO costumes (id, name, description, category, size, price, image_url, condition, quantity, total_quantity, available, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Category, c.Size, c.Price, c.ImageURL,
		c.Condition, c.Quantity, c.TotalQuantity, c.Available, c.Status, c.Version)
	return err
}

// GetCostume retrieves a costume from the read model by its ID.
func (s *service) GetCostume(ctx context.Context, id uuid.UUID) (*Costume, error) {
	query := `
		SELECT id, name, description, category, size, price, image_url, condition, quantity, total_quantity, available, status, version, created_at, updated_at
		FROM costumes
		WHERE id = $1
	`
	c := &Costume{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Category,
		&c.Size,
		&c.Price,
		&c.ImageURL,
		&c.Condition,
		&c.Quantity,
		&c.TotalQuantity,
		&c.Available,
		&c.Status,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("costume with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get costume from read model: %w", err)
	}

	return c, nil
}

// ListCostumes returns every active costume in the catalog.
func (s *service) ListCostumes(ctx context.Context) ([]*Costume, error) {
	query := `
		SELECT id, name, description, category, size, price, image_url, condition, quantity, total_quantity, available, status, version, created_at, updated_at
		FROM costumes
		WHERE status = 'active'
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list costumes: %w", err)
	}
	defer rows.Close()

	var costumes []*Costume
	for rows.Next() {
		c := &Costume{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Category, &c.Size, &c.Price,
			&c.ImageURL, &c.Condition, &c.Quantity, &c.TotalQuantity,
			&c.Available, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan costume: %w", err)
		}
		costumes = append(costumes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate costumes: %w", err)
	}

	return costumes, nil
}

// UpdateQuantity updates the stock counters for a costume. The availability
// flag is derived from the new quantity, never stored independently.
//
// expectedVersion is the costume version the caller based its new counters
// on; a stale value makes the append fail with ErrConcurrencyConflict, which
// is what stops two bookings of the last unit from both decrementing. Zero
// means the caller holds no version and the current one is used.
func (s *service) UpdateQuantity(ctx context.Context, id uuid.UUID, newTotal, newQuantity, expectedVersion int) error {
	if expectedVersion == 0 {
		costume, err := s.GetCostume(ctx, id)
		if err != nil {
			return err
		}
		expectedVersion = costume.Version
	}

	eventData := CostumeQuantityUpdatedEvent{
		ID:               id,
		NewTotalQuantity: newTotal,
		NewQuantity:      newQuantity,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "costume",
		EventType:     "CostumeQuantityUpdated",
		EventData:     jsonData,
		Version:       expectedVersion + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "costume", expectedVersion, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE costumes
		SET total_quantity = $1, quantity = $2, available = $3, version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
	`
	result, err := s.db.ExecContext(ctx, query, newTotal, newQuantity, newQuantity > 0, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update read model: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update read model: %w", err)
	}
	if affected == 0 {
		return eventstore.ErrConcurrencyConflict
	}
	return nil
}

// RetireCostume marks a costume as retired. Active rentals referencing it are
// left untouched; retirement only removes it from catalog queries.
func (s *service) RetireCostume(ctx context.Context, id uuid.UUID) error {
	costume, err := s.GetCostume(ctx, id)
	if err != nil {
		return err
	}

	eventData := CostumeRetiredEvent{
		ID:     id,
		Status: "retired",
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "costume",
		EventType:     "CostumeRetired",
		EventData:     jsonData,
		Version:       costume.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "costume", costume.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE costumes
		SET status = 'retired', version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	_, err = s.db.ExecContext(ctx, query, id, costume.Version)
	return err
}
