// internal/shopper/service.go
package shopper

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the shopper service.
type Service interface {
	RegisterShopper(ctx context.Context, email, name, password string) (*Shopper, error)
	Authenticate(ctx context.Context, email, password string) (*Shopper, error)
	GetShopper(ctx context.Context, id uuid.UUID) (*Shopper, error)
	UpdatePreferredSize(ctx context.Context, id uuid.UUID, newSize string) error
}
