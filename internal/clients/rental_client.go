// internal/clients/rental_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// RentalClient fetches rental history from the rental service. It satisfies
// the catalog service's RentalSource, so popularity ranking and
// recommendations can run without the catalog service owning rental data.
type RentalClient struct {
	baseURL string
}

func NewRentalClient(baseURL string) *RentalClient {
	return &RentalClient{baseURL: baseURL}
}

func (c *RentalClient) Snapshot(ctx context.Context) ([]engine.Rental, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/rentals", c.baseURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rentals []struct {
		ID        uuid.UUID `json:"id"`
		ShopperID uuid.UUID `json:"shopper_id"`
		CostumeID uuid.UUID `json:"costume_id"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
		Status    string    `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rentals); err != nil {
		return nil, err
	}

	snapshots := make([]engine.Rental, 0, len(rentals))
	for _, r := range rentals {
		snapshots = append(snapshots, engine.Rental{
			ID:        r.ID,
			ShopperID: r.ShopperID,
			CostumeID: r.CostumeID,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Status:    engine.RentalStatus(r.Status),
		})
	}
	return snapshots, nil
}
