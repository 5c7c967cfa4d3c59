// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"

	"costumier/internal/engine"
	"costumier/internal/engine/affinity"
	"costumier/internal/engine/optimize"
	"costumier/internal/engine/search"
)

// NewCostume carries the admin-supplied fields of a catalog entry.
type NewCostume struct {
	Name          string
	Description   string
	Category      string
	Size          string
	Price         float64
	ImageURL      string
	Condition     string
	TotalQuantity int
}

// SearchRequest is the conjunctive filter and ordering input of the search
// endpoint. Fuzzy switches the free-text term from pattern matching to
// edit-distance matching.
type SearchRequest struct {
	Filters search.Filters
	Fuzzy   bool
	SortBy  string
}

// Sort policies accepted by SearchRequest.SortBy.
const (
	SortPopularity = "popularity"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortCondition  = "condition"
	SortFeatured   = "featured"
)

// RentalSource supplies the current rental snapshot for popularity,
// recommendation, and combo queries. The rental service owns the data; the
// catalog only ever sees a per-call copy.
type RentalSource interface {
	Snapshot(ctx context.Context) ([]engine.Rental, error)
}

// Service defines the interface for the catalog service.
type Service interface {
	AddCostume(ctx context.Context, input NewCostume) (*Costume, error)
	GetCostume(ctx context.Context, id uuid.UUID) (*Costume, error)
	ListCostumes(ctx context.Context) ([]*Costume, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, newTotal, newQuantity, expectedVersion int) error
	RetireCostume(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, req SearchRequest) ([]*Costume, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]search.Suggestion, error)
	SimilarCostumes(ctx context.Context, id uuid.UUID, limit int) ([]*Costume, error)
	RecommendationsFor(ctx context.Context, shopperID uuid.UUID, limit int) ([]*Costume, error)
	OptimizeCombo(ctx context.Context, budget, maxItems int) (optimize.ComboResult, error)
	MatchOutfits(ctx context.Context, constraints optimize.Constraints, maxSolutions int) ([]optimize.Solution, error)
	FrequentCombos(ctx context.Context, minSupport float64) ([]affinity.Pair, error)
}
