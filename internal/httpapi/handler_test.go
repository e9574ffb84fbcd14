package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/cart"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/catalog"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/checkout"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/pricing"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() pricing.Config {
	cfg := pricing.DefaultConfig()
	cfg.Now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC) // off-peak
	}
	return cfg
}

func setupServer(t *testing.T, products ...domain.Product) *httptest.Server {
	t.Helper()

	sessions := NewSessions(func(string) *cart.Store {
		return cart.NewStore(repository.NewMemoryRepository(), cart.DefaultConfig())
	})
	handler := NewCartHandler(sessions, catalog.NewMemoryCatalog(products...), testRules(), 5*time.Second)

	r := chi.NewRouter()
	r.Use(MockAuthMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		handler.Routes(r)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeCart(t *testing.T, resp *http.Response) CartResponseDTO {
	t.Helper()
	defer resp.Body.Close()

	var dto CartResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	return dto
}

func availableProduct(id string, priceCents int64) domain.Product {
	return domain.Product{ID: id, PartnerID: "partner-1", Name: "Product " + id, PriceCents: priceCents, Available: true}
}

func TestAddItem_Created(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 1299))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "p1",
		Quantity:  2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dto := decodeCart(t, resp)
	assert.Equal(t, 2, dto.ItemCount)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, int64(2598), dto.Items[0].LineTotalCents)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 1299))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "p1",
		Quantity:  100,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	server := setupServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "missing",
		Quantity:  1,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddItem_InsufficientStockConflict(t *testing.T) {
	stock := int32(2)
	product := availableProduct("p1", 500)
	product.StockQuantity = &stock
	server := setupServer(t, product)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Quantity: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Quantity: 1})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "insufficient_stock", errResp.Code)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 500))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Quantity: 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	itemID := decodeCart(t, resp).Items[0].ID

	resp = doJSON(t, http.MethodPut, server.URL+"/api/v1/cart/items/"+itemID, UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decodeCart(t, resp)
	assert.Equal(t, 0, dto.ItemCount)
	assert.Empty(t, dto.Items)
}

func TestRemoveItem_NotFound(t *testing.T) {
	server := setupServer(t)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/v1/cart/items/missing", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCart_IsolatedPerCustomer(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 500))

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/v1/cart/items",
		bytes.NewBufferString(`{"product_id":"p1","quantity":1}`))
	require.NoError(t, err)
	req.Header.Set("X-Customer-ID", "customer-alice")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/v1/cart", nil)
	require.NoError(t, err)
	req.Header.Set("X-Customer-ID", "customer-bob")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)

	dto := decodeCart(t, resp)
	assert.Equal(t, 0, dto.ItemCount)
}

func TestQuote_DefaultTip(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 1299), availableProduct("p2", 300))

	for _, req := range []AddItemRequestDTO{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 2},
	} {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/api/v1/cart/quote")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.PricingResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Equal(t, int64(3198), result.SubtotalCents)
	assert.Equal(t, int64(0), result.DeliveryFeeCents)
	sum := result.SubtotalCents + result.DeliveryFeeCents + result.PlatformFeeCents + result.TaxCents + result.TipCents
	assert.Equal(t, sum, result.TotalCents)
}

func TestQuote_InvalidTipParam(t *testing.T) {
	server := setupServer(t)

	resp, err := http.Get(server.URL + "/api/v1/cart/quote?tip_percent=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_BuildsSubmissionAndClearsCart(t *testing.T) {
	server := setupServer(t, availableProduct("p1", 1299))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Quantity: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	tipCents := int64(300)
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/checkout", CheckoutRequestDTO{TipCents: &tipCents})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submission checkout.Submission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submission))
	resp.Body.Close()

	assert.NotEmpty(t, submission.OrderID)
	assert.Equal(t, int64(300), submission.Pricing.TipCents)
	require.Len(t, submission.Lines, 1)
	assert.Equal(t, int32(2), submission.Lines[0].Quantity)

	getResp, err := http.Get(server.URL + "/api/v1/cart")
	require.NoError(t, err)
	dto := decodeCart(t, getResp)
	assert.Equal(t, 0, dto.ItemCount)
}

func TestCheckout_EmptyCartConflict(t *testing.T) {
	server := setupServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/checkout", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
