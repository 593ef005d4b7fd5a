package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crafts-store/internal/catalog"
	"crafts-store/internal/contact"
	"crafts-store/internal/models"
)

type StorefrontHandler struct {
	Catalog         *catalog.Service
	Currency        string
	WhatsAppNumber  string
	WhatsAppMessage string
	Logger          *zap.Logger
}

func (h *StorefrontHandler) details(views []models.ProductView) []catalog.Detail {
	out := make([]catalog.Detail, 0, len(views))
	for _, v := range views {
		out = append(out, catalog.NewDetail(v, h.Currency))
	}
	return out
}

// GET /v1/categories
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.ListCategories(c.Request.Context()))
}

// GET /v1/products?category_id=
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	views := h.Catalog.ListProducts(c.Request.Context(), c.Query("category_id"))
	c.JSON(http.StatusOK, h.details(views))
}

// GET /v1/products/:id
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	view, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err, "fetch product")
		return
	}
	c.JSON(http.StatusOK, catalog.NewDetail(*view, h.Currency))
}

// GET /v1/products/:id/variants
func (h *StorefrontHandler) ListVariants(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.ListVariants(c.Request.Context(), c.Param("id")))
}

// GET /v1/search?q=
func (h *StorefrontHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.details(h.Catalog.Search(c.Request.Context(), c.Query("q"))))
}

// GET /v1/reviews?limit=  (por defecto las 6 más recientes, 0 para todas)
func (h *StorefrontHandler) ListReviews(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(catalog.StorefrontReviews)))
	if err != nil || limit < 0 {
		limit = catalog.StorefrontReviews
	}
	c.JSON(http.StatusOK, h.Catalog.LatestReviews(c.Request.Context(), limit))
}

// GET /v1/contact
func (h *StorefrontHandler) Contact(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"whatsapp_number": h.WhatsAppNumber,
		"whatsapp_url":    contact.WhatsAppLink(h.WhatsAppNumber, h.WhatsAppMessage),
	})
}
