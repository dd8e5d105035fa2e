package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
	"github.com/carlosmoliv/shopping-cart/internal/inventory"
	"github.com/carlosmoliv/shopping-cart/internal/repository"
	"github.com/carlosmoliv/shopping-cart/internal/service"
)

// CartService is what the HTTP layer needs from the application layer.
// Consumers define this interface, not the service implementation.
type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity decimal.Decimal) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity decimal.Decimal) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (*domain.CartSnapshot, error)
}

type CartHandler struct {
	service CartService
	log     *zap.Logger
}

func NewCartHandler(svc CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{service: svc, log: log}
}

func (h *CartHandler) Routes(r chi.Router) {
	r.Route("/api/carts/{user_id}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{product_id}", h.UpdateQuantity)
		r.Delete("/items/{product_id}", h.RemoveItem)
	})
}

type AddItemRequestDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must not be empty")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	if err := h.service.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		h.respondServiceError(w, err)
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must not be empty")
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	productID := chi.URLParam(r, "product_id")
	if userID == "" || productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id and product_id must not be empty")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		h.respondServiceError(w, err)
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	productID := chi.URLParam(r, "product_id")
	if userID == "" || productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id and product_id must not be empty")
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, productID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id must not be empty")
		return
	}

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.EmptyCartSnapshot(domain.UserID(userID)))
}

// respondServiceError maps each error kind to its reportable status:
// validation → 400, unknown product/cart/item → 404, stock or write conflicts
// → 409, inventory transport failure → 503.
func (h *CartHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, inventory.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, repository.ErrConcurrentModification):
		respondError(w, http.StatusConflict, "concurrent_modification", err.Error())
	case errors.Is(err, inventory.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "inventory_unavailable", err.Error())
	default:
		h.log.Error("unexpected error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
