package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crafts-store/internal/cart"
	"crafts-store/internal/checkout"
	"crafts-store/internal/middleware"
)

type CheckoutHandler struct {
	Storage cart.Storage
	Locks   *cart.Locks
	Rules   checkout.ShippingRules
	Logger  *zap.Logger
}

// open bloquea la sesión, compartida con el carrito, y recupera el asistente.
func (h *CheckoutHandler) open(c *gin.Context) (flow *checkout.Flow, unlock func()) {
	ctx := c.Request.Context()
	session := middleware.SessionID(c)
	unlock = h.Locks.Lock(session)
	store := cart.Open(ctx, h.Storage, cart.StorageKey(session), h.Logger)
	return checkout.Open(ctx, h.Storage, session, store, h.Rules, h.Logger), unlock
}

// GET /v1/checkout
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	flow, unlock := h.open(c)
	defer unlock()
	c.JSON(http.StatusOK, flow.View())
}

// POST /v1/checkout/details
func (h *CheckoutHandler) SubmitDetails(c *gin.Context) {
	var details checkout.Details
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	flow, unlock := h.open(c)
	defer unlock()
	if err := flow.SubmitDetails(c.Request.Context(), details); err != nil {
		respondError(c, h.Logger, err, "submit details")
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

// POST /v1/checkout/edit
func (h *CheckoutHandler) Edit(c *gin.Context) {
	flow, unlock := h.open(c)
	defer unlock()
	if err := flow.Edit(c.Request.Context()); err != nil {
		respondError(c, h.Logger, err, "edit details")
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

// POST /v1/checkout/place
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	flow, unlock := h.open(c)
	defer unlock()
	confirmation, err := flow.PlaceOrder(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err, "place order")
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

// POST /v1/checkout/reset
func (h *CheckoutHandler) Reset(c *gin.Context) {
	flow, unlock := h.open(c)
	defer unlock()
	flow.Reset(c.Request.Context())
	c.JSON(http.StatusOK, flow.View())
}
