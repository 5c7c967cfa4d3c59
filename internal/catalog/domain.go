// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// Costume is a rentable inventory item.
type Costume struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Size          string    `json:"size"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	Condition     string    `json:"condition"`
	Quantity      int       `json:"quantity"`
	TotalQuantity int       `json:"total_quantity"`
	Available     bool      `json:"available"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot maps the aggregate to the engine's read-only view.
func (c *Costume) Snapshot() engine.Costume {
	return engine.Costume{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Size:        c.Size,
		Price:       c.Price,
		Condition:   engine.Condition(c.Condition),
		Available:   c.Available,
	}
}

// CostumeAddedEvent is published when a costume enters the catalog.
type CostumeAddedEvent struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Size          string    `json:"size"`
	Price         float64   `json:"price"`
	Condition     string    `json:"condition"`
	TotalQuantity int       `json:"total_quantity"`
}

// CostumeQuantityUpdatedEvent is published when stock counters change, either
// from an admin edit or from the booking lifecycle.
type CostumeQuantityUpdatedEvent struct {
	ID               uuid.UUID `json:"id"`
	NewTotalQuantity int       `json:"new_total_quantity"`
	NewQuantity      int       `json:"new_quantity"`
}

// CostumeRetiredEvent is published when a costume is retired from the
// catalog. Retirement is soft; rentals referencing the costume stay intact.
type CostumeRetiredEvent struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
