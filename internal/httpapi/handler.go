package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/cart"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/catalog"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/checkout"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/pricing"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	sessions *Sessions
	catalog  catalog.Catalog
	rules    pricing.Config
	timeout  time.Duration
}

func NewCartHandler(sessions *Sessions, catalog catalog.Catalog, rules pricing.Config, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalog,
		rules:    rules,
		timeout:  timeout,
	}
}

// Routes mounts the cart API onto the given router.
func (h *CartHandler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Get("/quote", h.Quote)
		r.Post("/items", h.AddItem)
		r.Put("/items/{item_id}", h.UpdateQuantity)
		r.Delete("/items/{item_id}", h.RemoveItem)
	})
	r.Post("/checkout", h.Checkout)
}

type AddItemRequestDTO struct {
	ProductID    string `json:"product_id"`
	Quantity     int32  `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int32 `json:"quantity"`
}

type CartItemDTO struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
	Instructions   string `json:"instructions,omitempty"`
}

type CartResponseDTO struct {
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	LineCount int           `json:"line_count"`
}

type CheckoutRequestDTO struct {
	TipPercent *float64 `json:"tip_percent,omitempty"`
	TipCents   *int64   `json:"tip_cents,omitempty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to look up product")
		return
	}

	if _, err := store.AddItem(ctx, product, req.Quantity, req.Instructions); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(store.Snapshot()))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(store.Snapshot()))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := store.UpdateQuantity(ctx, itemID, req.Quantity); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store.Snapshot()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.RemoveItem(ctx, chi.URLParam(r, "item_id")); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store.Snapshot()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.Clear(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "clear_failed", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store.Snapshot()))
}

func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	tip, err := tipFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_tip", err.Error())
		return
	}

	result := pricing.Quote(store.Items(), tip, h.rules)
	respondJSON(w, http.StatusOK, result)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req CheckoutRequestDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	tip := pricing.TipChoice{}
	switch {
	case req.TipPercent != nil:
		tip = pricing.TipPercentage(*req.TipPercent)
	case req.TipCents != nil:
		tip = pricing.TipFixed(*req.TipCents)
	}

	submission, err := checkout.Build(store.Snapshot(), tip, h.rules)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "checkout_failed", "failed to build order submission")
		return
	}

	// The submission is handed to the order collaborator from here; the
	// cart is cleared once it is built.
	if err := store.Clear(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "clear_failed", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusCreated, submission)
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	customerID := customerIDFromContext(r.Context())
	if customerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing customer authentication")
		return nil, false
	}
	return h.sessions.For(customerID), true
}

func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
	case errors.Is(err, cart.ErrProductUnavailable):
		respondError(w, http.StatusConflict, "product_unavailable", "product is currently unavailable")
	case errors.Is(err, cart.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", "not enough stock for the requested quantity")
	case errors.Is(err, cart.ErrCartLimitExceeded):
		respondError(w, http.StatusConflict, "cart_limit_exceeded", "cart holds the maximum number of distinct products")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "item not found in cart")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "cart operation failed")
	}
}

// tipFromQuery reads an optional tip_percent or tip_cents query parameter.
// Absent both, the configured default tip percentage applies.
func tipFromQuery(r *http.Request) (pricing.TipChoice, error) {
	if raw := r.URL.Query().Get("tip_percent"); raw != "" {
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil || pct < 0 {
			return pricing.TipChoice{}, fmt.Errorf("tip_percent must be a non-negative number")
		}
		return pricing.TipPercentage(pct), nil
	}
	if raw := r.URL.Query().Get("tip_cents"); raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cents < 0 {
			return pricing.TipChoice{}, fmt.Errorf("tip_cents must be a non-negative integer")
		}
		return pricing.TipFixed(cents), nil
	}
	return pricing.TipChoice{}, nil
}

func cartResponse(c domain.Cart) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemDTO{
			ID:             item.ID,
			ProductID:      item.Product.ID,
			ProductName:    item.Product.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.Product.PriceCents,
			LineTotalCents: item.LineTotalCents(),
			Instructions:   item.Instructions,
		})
	}
	return CartResponseDTO{
		Items:     items,
		ItemCount: c.ItemCount(),
		LineCount: c.LineCount(),
	}
}
