package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dbackf/storefront/pkg/config"
	"github.com/dbackf/storefront/pkg/logger"
)

// Client talks to the dbackf REST API. Every entity the storefront renders is
// owned by this collaborator; the client never caches.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logg    *logger.Logger
}

// Pinger exposes the readiness-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient validates the configured base URL and builds the API client.
func NewClient(cfg config.BackendConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: parsed,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
	}, nil
}

// ListProducts loads the full product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.getCollection(ctx, "/products/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBrands loads the brand filter options.
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := c.getCollection(ctx, "/brands/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories loads the category filter options.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getCollection(ctx, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCustomers loads the customer selector entries.
func (c *Client) ListCustomers(ctx context.Context, activeOnly bool) ([]Customer, error) {
	var query url.Values
	if activeOnly {
		query = url.Values{"is_active": []string{"true"}}
	}
	var out []Customer
	if err := c.getCollection(ctx, "/customers/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCustomer resolves a single customer record.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+strconv.FormatInt(id, 10)+"/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWarehouseStock loads on-hand rows, optionally scoped to one warehouse.
func (c *Client) ListWarehouseStock(ctx context.Context, warehouseID int64) ([]WarehouseStock, error) {
	var query url.Values
	if warehouseID > 0 {
		query = url.Values{"warehouse": []string{strconv.FormatInt(warehouseID, 10)}}
	}
	var out []WarehouseStock
	if err := c.getCollection(ctx, "/warehouse-stock/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder submits the assembled order payload once. Non-2xx responses come
// back as *APIError so the reconciler can surface the extracted reason.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*OrderConfirmation, error) {
	var out OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/orders/", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping verifies the backend answers at all; used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	var out []Category
	return c.getCollection(ctx, "/categories/", nil, &out)
}

// getCollection decodes either a bare JSON array or a DRF page envelope
// ({"count": n, "results": [...]}) into out.
func (c *Client) getCollection(ctx context.Context, path string, query url.Values, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("decode collection %s: %w", path, err)
	}
	if len(envelope.Results) == 0 {
		return fmt.Errorf("decode collection %s: no results field", path)
	}
	return json.Unmarshal(envelope.Results, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.baseURL
	target.Path = strings.TrimSuffix(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logRequest(ctx, method, path, 0, start)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.logRequest(ctx, method, path, resp.StatusCode, start)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewAPIError(resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) logRequest(ctx context.Context, method, path string, status int, start time.Time) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"backend_method": method,
		"backend_path":   path,
		"backend_status": status,
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	c.logg.Debug(ctx, "backend.request")
}
