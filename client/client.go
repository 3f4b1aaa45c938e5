package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yuitake/tana/internal/domain"
)

const defaultTimeout = 3 * time.Second

// Client is a thin consumer of the tana HTTP API. Spotlight reads are
// cached client-side so embedding frontends can poll freely without
// hammering the server.
type Client struct {
	client  *http.Client
	cache   *gocache.Cache
	baseURL string
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		cache:   gocache.New(30*time.Second, time.Minute),
		baseURL: baseURL,
	}
}

// WithToken returns a client that authenticates mutating calls with the
// admin bearer token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, body any, response any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// GetSpotlight returns the item currently featured for category.
func (c *Client) GetSpotlight(ctx context.Context, category string) (domain.Spotlight, error) {
	cacheKey := "spotlight:" + category
	if x, found := c.cache.Get(cacheKey); found {
		return x.(domain.Spotlight), nil
	}

	var sp domain.Spotlight
	err := c.do(ctx, http.MethodGet, "/api/v1/spotlight/"+url.PathEscape(category), nil, &sp)
	if err != nil {
		return domain.Spotlight{}, err
	}

	c.cache.Set(cacheKey, sp, gocache.DefaultExpiration)
	return sp, nil
}

// GetHistory returns every past rotation for category, newest first.
func (c *Client) GetHistory(ctx context.Context, category string) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := c.do(ctx, http.MethodGet, "/api/v1/spotlight/"+url.PathEscape(category)+"/history", nil, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SetSpotlight force-features itemID for category until endDate. Requires
// an admin token.
func (c *Client) SetSpotlight(ctx context.Context, category, itemID string, endDate time.Time) (string, error) {
	body := map[string]any{
		"itemId":  itemID,
		"endDate": endDate,
	}
	var response struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/spotlight/"+url.PathEscape(category), body, &response)
	if err != nil {
		return "", err
	}

	c.cache.Delete("spotlight:" + category)
	return response.ID, nil
}

// ListArchive returns every item in a category's archive. The result is
// decoded into out, which should be a pointer to a slice of the
// category's item type.
func (c *Client) ListArchive(ctx context.Context, category string, out any) error {
	return c.do(ctx, http.MethodGet, "/api/v1/archive/"+url.PathEscape(category), nil, out)
}

// GetArchiveItem fetches a single archive item by id.
func (c *Client) GetArchiveItem(ctx context.Context, category, id string, out any) error {
	path := "/api/v1/archive/" + url.PathEscape(category) + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// CreateArchiveItem adds an item to a category's archive. Requires an
// admin token.
func (c *Client) CreateArchiveItem(ctx context.Context, category string, item any) (string, error) {
	var response struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/archive/"+url.PathEscape(category), item, &response)
	if err != nil {
		return "", err
	}
	return response.ID, nil
}

// UpdateArchiveItem overwrites the stored fields of an archive item.
// Requires an admin token.
func (c *Client) UpdateArchiveItem(ctx context.Context, category, id string, item any) error {
	path := "/api/v1/archive/" + url.PathEscape(category) + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodPut, path, item, nil)
}

// DeleteArchiveItem removes an archive item. Requires an admin token.
func (c *Client) DeleteArchiveItem(ctx context.Context, category, id string) error {
	path := "/api/v1/archive/" + url.PathEscape(category) + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
