// internal/clients/catalog_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"costumier/internal/catalog"
)

type CatalogClient struct {
	baseURL string
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{baseURL: baseURL}
}

func (c *CatalogClient) GetCostume(ctx context.Context, id uuid.UUID) (*catalog.Costume, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/costumes/%s", c.baseURL, id), nil)
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

	var costume catalog.Costume
	if err := json.NewDecoder(resp.Body).Decode(&costume); err != nil {
		return nil, err
	}

	return &costume, nil
}

// UpdateCostumeQuantity patches the stock counters. expectedVersion is the
// costume version the counters were computed from; the catalog rejects the
// update with 409 when that version is stale. Zero lets the catalog resolve
// the current version itself.
func (c *CatalogClient) UpdateCostumeQuantity(ctx context.Context, id uuid.UUID, newTotal, newQuantity, expectedVersion int) error {
	updateReq := struct {
		TotalQuantity int `json:"total_quantity"`
		Quantity      int `json:"quantity"`
		Version       int `json:"version"`
	}{
		TotalQuantity: newTotal,
		Quantity:      newQuantity,
		Version:       expectedVersion,
	}

	body, err := json.Marshal(updateReq)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, fmt.Sprintf("%s/costumes/%s", c.baseURL, id), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
