package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crafts-store/internal/cart"
	"crafts-store/internal/catalog"
	"crafts-store/internal/middleware"
	"crafts-store/internal/models"
	"crafts-store/internal/pricing"
)

type CartHandler struct {
	Storage  cart.Storage
	Locks    *cart.Locks
	Catalog  *catalog.Service
	Currency string
	Logger   *zap.Logger
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartLineResponse struct {
	Key             string                `json:"key"`
	Product         models.Product        `json:"product"`
	SelectedVariant *cart.VariantSnapshot `json:"selected_variant"`
	Quantity        int                   `json:"quantity"`
	ImageURL        *string               `json:"image_url"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
}

type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	Count      int                `json:"count"`
	Total      decimal.Decimal    `json:"total"`
	TotalLabel string             `json:"total_label"`
	Open       bool               `json:"open"`
}

// open bloquea la sesión y carga su carrito. Hay que llamar a unlock cuando
// la respuesta esté escrita.
func (h *CartHandler) open(c *gin.Context) (store *cart.Store, unlock func()) {
	session := middleware.SessionID(c)
	unlock = h.Locks.Lock(session)
	return cart.Open(c.Request.Context(), h.Storage, cart.StorageKey(session), h.Logger), unlock
}

func (h *CartHandler) respond(c *gin.Context, status int, store *cart.Store) {
	c.JSON(status, cartResponse(store, h.Currency))
}

func cartResponse(store *cart.Store, currency string) CartResponse {
	lines := store.Lines()
	out := CartResponse{
		Lines: make([]CartLineResponse, 0, len(lines)),
		Count: store.Count(),
		Total: store.Total(),
		Open:  store.IsOpen(),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, CartLineResponse{
			Key:             l.Key(),
			Product:         l.Product,
			SelectedVariant: l.SelectedVariant,
			Quantity:        l.Quantity,
			ImageURL:        l.ImageURL(),
			UnitPrice:       l.UnitPrice(),
			Subtotal:        l.Subtotal(),
		})
	}
	out.TotalLabel = currency + " " + pricing.FormatAmount(out.Total)
	return out
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, unlock := h.open(c)
	defer unlock()
	h.respond(c, http.StatusOK, store)
}

// POST /v1/cart/items
// Para productos variables sin variant_id se usa la primera variante.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.Catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, h.Logger, err, "add item")
		return
	}

	var variant *cart.VariantSnapshot
	if pricing.EffectivelyVariable(*view) {
		selected := catalog.DefaultVariant(*view)
		if req.VariantID != "" {
			found, ok := catalog.FindVariant(*view, req.VariantID)
			if !ok {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "variant not found", Field: "variant_id"})
				return
			}
			selected = found
		}
		variant = cart.SnapshotVariant(*selected)
	}

	store, unlock := h.open(c)
	defer unlock()
	store.Add(c.Request.Context(), view.Product, req.Quantity, variant)
	h.respond(c, http.StatusCreated, store)
}

// PATCH /v1/cart/items/:key
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	store, unlock := h.open(c)
	defer unlock()
	store.SetQuantity(c.Request.Context(), c.Param("key"), *req.Quantity)
	h.respond(c, http.StatusOK, store)
}

// DELETE /v1/cart/items/:key
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, unlock := h.open(c)
	defer unlock()
	store.Remove(c.Request.Context(), c.Param("key"))
	h.respond(c, http.StatusOK, store)
}

// DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, unlock := h.open(c)
	defer unlock()
	store.Clear(c.Request.Context())
	h.respond(c, http.StatusOK, store)
}
