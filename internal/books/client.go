package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ayush/bookshelf/internal/models"
)

// Client calls the service's own public endpoints over HTTP. The top
// ranking is assembled from the same responses external clients see.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

// checkResp returns an error if the status is not 2xx, including the
// upstream body for debugging.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
}

// ListAggregates calls GET /interactions.
func (c *Client) ListAggregates(ctx context.Context) ([]models.Aggregate, error) {
	var result struct {
		Message string `json:"message"`
		Data    struct {
			Interactions []models.Aggregate `json:"interactions"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/interactions", &result); err != nil {
		return nil, err
	}
	return result.Data.Interactions, nil
}

// ListNewBooks calls GET /contents/new.
func (c *Client) ListNewBooks(ctx context.Context) ([]models.Book, error) {
	var result struct {
		Message string `json:"message"`
		Data    struct {
			Book []models.Book `json:"book"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/contents/new", &result); err != nil {
		return nil, err
	}
	return result.Data.Book, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
