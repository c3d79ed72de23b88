package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"billing-export/internal/config"
	"billing-export/internal/logger"
	"billing-export/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Upstream.BaseURL = baseURL
	cfg.Upstream.Token = "test-token"
	cfg.Upstream.PageSize = 2
	return New(cfg, logger.NewNop())
}

func TestGetInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/invoices/123", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":123,"label":"Invoice #123","date":"2023-10-06T00:00:00","subtotal":10,"tax":0,"total":"10.00"}`)
	}))
	defer srv.Close()

	inv, err := newTestClient(srv.URL).GetInvoice(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, 123, inv.ID)
	assert.Equal(t, "2023-10-06T00:00:00", inv.Date)
	// Totals arrive as either JSON numbers or strings.
	assert.Equal(t, "10", inv.Subtotal.String())
	assert.Equal(t, "10", inv.Total.String())
}

func TestGetInvoice_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"reason":"Not found"}]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetInvoice(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListInvoiceItems_WalksAllPages(t *testing.T) {
	pages := map[string][]models.InvoiceItem{
		"1": {{Label: "item-1"}, {Label: "item-2"}},
		"2": {{Label: "item-3"}, {Label: "item-4"}},
		"3": {{Label: "item-5"}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/invoices/42/items", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page_size"))

		page := r.URL.Query().Get("page")
		data, _ := json.Marshal(pages[page])
		n, _ := strconv.Atoi(page)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":    json.RawMessage(data),
			"page":    n,
			"pages":   3,
			"results": 5,
		})
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).ListInvoiceItems(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Page order must survive concatenation.
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("item-%d", i+1), item.Label)
	}
}

func TestListInvoiceItems_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[],"page":1,"pages":0,"results":0}`)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).ListInvoiceItems(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListRegions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/regions", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"id-cgk","label":"Jakarta, ID","country":"id"},{"id":"us-east","label":"Newark, NJ","country":"us"}],"page":1,"pages":1,"results":2}`)
	}))
	defer srv.Close()

	regions, err := newTestClient(srv.URL).ListRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "id-cgk", regions[0].ID)
	assert.Equal(t, "Jakarta, ID", regions[0].Label)
}
