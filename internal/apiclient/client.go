// Package apiclient is the read-only client for the platform billing API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"billing-export/internal/config"
	"billing-export/internal/logger"
	"billing-export/internal/metrics"
	"billing-export/internal/models"
)

// BillingAPI is the surface the export pipeline needs from the platform API.
type BillingAPI interface {
	GetInvoice(ctx context.Context, id int) (*models.Invoice, error)
	ListInvoiceItems(ctx context.Context, id int) ([]models.InvoiceItem, error)
	ListRegions(ctx context.Context) ([]models.Region, error)
}

// Client talks to the platform REST API with a bearer token. It performs no
// automatic retries; a failed call surfaces immediately to the caller.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	http     *http.Client
	log      *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:  cfg.Upstream.BaseURL,
		token:    cfg.Upstream.Token,
		pageSize: cfg.Upstream.PageSize,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// envelope is the API's paginated list wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
	Results int             `json:"results"`
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: upstream returned %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// GetInvoice fetches one invoice header.
func (c *Client) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	var inv models.Invoice
	path := fmt.Sprintf("/account/invoices/%d", id)
	if err := c.get(ctx, "invoice", path, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoiceItems fetches the invoice's full item collection, walking every
// result page and concatenating them in page order.
func (c *Client) ListInvoiceItems(ctx context.Context, id int) ([]models.InvoiceItem, error) {
	path := fmt.Sprintf("/account/invoices/%d/items", id)

	var items []models.InvoiceItem
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		if c.pageSize > 0 {
			query.Set("page_size", strconv.Itoa(c.pageSize))
		}

		var env envelope
		if err := c.get(ctx, "invoice_items", path, query, &env); err != nil {
			return nil, err
		}

		var chunk []models.InvoiceItem
		if err := json.Unmarshal(env.Data, &chunk); err != nil {
			return nil, fmt.Errorf("invoice_items: decode page %d: %w", page, err)
		}
		items = append(items, chunk...)

		if page >= env.Pages || env.Pages == 0 {
			break
		}
	}
	return items, nil
}

// ListRegions fetches the region catalog used for label resolution.
func (c *Client) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))

		var env envelope
		if err := c.get(ctx, "regions", "/regions", query, &env); err != nil {
			return nil, err
		}

		var chunk []models.Region
		if err := json.Unmarshal(env.Data, &chunk); err != nil {
			return nil, fmt.Errorf("regions: decode page %d: %w", page, err)
		}
		regions = append(regions, chunk...)

		if page >= env.Pages || env.Pages == 0 {
			break
		}
	}
	return regions, nil
}
