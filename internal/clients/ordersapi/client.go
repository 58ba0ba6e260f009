package ordersapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gst-reporting-service/internal/clients"
	"gst-reporting-service/internal/models"
	"golang.org/x/time/rate"
)

// Client fetches orders from the upstream orders API over HTTP.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates an orders API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 1), // 2 requests per second
	}
}

var _ clients.OrderSource = (*Client)(nil)

// FetchOrders retrieves all orders for the store identified by the
// credentials. The response may be a bare array or an {orders: [...]}
// envelope.
func (c *Client) FetchOrders(ctx context.Context, creds clients.Credentials) ([]models.Order, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build orders request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("store-name", creds.StoreName)
	req.Header.Set("api-version", creds.APIVersion)
	req.Header.Set("access-token", creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orders request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders API returned %d: %s", resp.StatusCode, string(body))
	}

	var orders []models.Order
	if err := json.Unmarshal(body, &orders); err == nil {
		return orders, nil
	}

	var envelope struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse orders response: %w", err)
	}
	return envelope.Orders, nil
}
