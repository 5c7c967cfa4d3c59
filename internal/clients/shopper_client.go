// internal/clients/shopper_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"costumier/internal/shopper"
)

type ShopperClient struct {
	baseURL string
}

func NewShopperClient(baseURL string) *ShopperClient {
	return &ShopperClient{baseURL: baseURL}
}

func (c *ShopperClient) GetShopper(ctx context.Context, id uuid.UUID) (*shopper.Shopper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/shoppers/%s", c.baseURL, id), nil)
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

	var s shopper.Shopper
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, err
	}

	return &s, nil
}
