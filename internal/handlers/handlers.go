// Package handlers expone la tienda, el carrito, el checkout y el panel de
// administración como API JSON sobre gin.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crafts-store/internal/admin"
	"crafts-store/internal/checkout"
	"crafts-store/internal/repository"
)

// Estructuras para respuestas
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type ConfirmationResponse struct {
	Error   string `json:"error"`
	Prompt  string `json:"prompt"`
	Confirm bool   `json:"confirm"`
}

type DetailsErrorResponse struct {
	Error  string                `json:"error"`
	Fields []checkout.FieldError `json:"fields"`
}

// respondError traduce los errores de los servicios a códigos HTTP. Los no
// reconocidos se registran y se responden como 500 con "could not <action>".
func respondError(c *gin.Context, logger *zap.Logger, err error, action string) {
	var validation *admin.ValidationError
	var details *checkout.ValidationError
	var confirmation *admin.ConfirmationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message, Field: validation.Field})
	case errors.As(err, &details):
		c.JSON(http.StatusUnprocessableEntity, DetailsErrorResponse{Error: "please fill in all required fields", Fields: details.Fields})
	case errors.As(err, &confirmation):
		c.JSON(http.StatusConflict, ConfirmationResponse{Error: "confirmation required", Prompt: confirmation.Prompt, Confirm: true})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "your cart is empty"})
	case errors.Is(err, checkout.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "this checkout step is not available"})
	default:
		logger.Error("request failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not " + action})
	}
}

func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
