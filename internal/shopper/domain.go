// internal/shopper/domain.go
package shopper

import (
	"time"

	"github.com/google/uuid"
)

// Shopper represents a storefront customer.
type Shopper struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PreferredSize string    `json:"preferred_size"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// Credential represents a shopper's login credentials.
type Credential struct {
	ShopperID    uuid.UUID `json:"shopper_id"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
}

// ShopperRegisteredEvent is published when a new shopper registers.
type ShopperRegisteredEvent struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// ShopperSizeChangedEvent is published when a shopper updates their preferred size.
type ShopperSizeChangedEvent struct {
	ID      uuid.UUID `json:"id"`
	NewSize string    `json:"new_size"`
}
