package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crafts-store/internal/admin"
	"crafts-store/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler expone el panel. Cada modificación responde con la lista
// completa de la entidad leída de nuevo.
type AdminHandler struct {
	Admin  *admin.Service
	Logger *zap.Logger
}

type MoveRequest struct {
	Direction admin.Direction `json:"direction" binding:"required"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// GET /v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	counts, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// --- Categorías ---

func categoryQuery(c *gin.Context) admin.CategoryQuery {
	return admin.CategoryQuery{
		Search: c.Query("q"),
		Sort:   admin.CategorySort(c.Query("sort")),
	}
}

func (h *AdminHandler) categories(c *gin.Context, status int) {
	list, err := h.Admin.Categories(c.Request.Context(), categoryQuery(c))
	if err != nil {
		respondError(c, h.Logger, err, "fetch categories")
		return
	}
	c.JSON(status, list)
}

// GET /v1/admin/categories?q=&sort=
func (h *AdminHandler) ListCategories(c *gin.Context) {
	h.categories(c, http.StatusOK)
}

// POST /v1/admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var in admin.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.CreateCategory(c.Request.Context(), in); err != nil {
		respondError(c, h.Logger, err, "create category")
		return
	}
	h.categories(c, http.StatusCreated)
}

// PATCH /v1/admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var update models.CategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.UpdateCategory(c.Request.Context(), c.Param("id"), update); err != nil {
		respondError(c, h.Logger, err, "update category")
		return
	}
	h.categories(c, http.StatusOK)
}

// DELETE /v1/admin/categories/:id?confirm=true
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.Admin.DeleteCategory(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		respondError(c, h.Logger, err, "delete category")
		return
	}
	h.categories(c, http.StatusOK)
}

// POST /v1/admin/categories/:id/move
func (h *AdminHandler) MoveCategory(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.Admin.MoveCategory(c.Request.Context(), c.Param("id"), req.Direction); err != nil {
		respondError(c, h.Logger, err, "move category")
		return
	}
	list, err := h.Admin.Categories(c.Request.Context(), admin.CategoryQuery{Sort: admin.SortCustom})
	if err != nil {
		respondError(c, h.Logger, err, "fetch categories")
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- Productos ---

func productQuery(c *gin.Context) admin.ProductQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return admin.ProductQuery{
		Search:     c.Query("q"),
		CategoryID: c.Query("category_id"),
		Sort:       admin.ProductSort(c.DefaultQuery("sort", string(admin.SortByName))),
		Desc:       c.DefaultQuery("order", "asc") == "desc",
		Page:       page,
	}
}

func (h *AdminHandler) products(c *gin.Context, status int) {
	page, err := h.Admin.Products(c.Request.Context(), productQuery(c))
	if err != nil {
		respondError(c, h.Logger, err, "fetch products")
		return
	}
	c.JSON(status, page)
}

// GET /v1/admin/products?q=&category_id=&sort=&order=&page=
func (h *AdminHandler) ListProducts(c *gin.Context) {
	h.products(c, http.StatusOK)
}

// POST /v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.CreateProduct(c.Request.Context(), in); err != nil {
		respondError(c, h.Logger, err, "create product")
		return
	}
	h.products(c, http.StatusCreated)
}

// PATCH /v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.UpdateProduct(c.Request.Context(), c.Param("id"), update); err != nil {
		respondError(c, h.Logger, err, "update product")
		return
	}
	h.products(c, http.StatusOK)
}

// DELETE /v1/admin/products/:id?confirm=true
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.Admin.DeleteProduct(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		respondError(c, h.Logger, err, "delete product")
		return
	}
	h.products(c, http.StatusOK)
}

// POST /v1/admin/products/bulk-delete?confirm=true
func (h *AdminHandler) BulkDeleteProducts(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.DeleteProducts(c.Request.Context(), req.IDs, confirmed(c)); err != nil {
		respondError(c, h.Logger, err, "delete products")
		return
	}
	h.products(c, http.StatusOK)
}

// PUT /v1/admin/products/:id/variants
func (h *AdminHandler) SaveVariants(c *gin.Context) {
	var forms []admin.VariantForm
	if err := c.ShouldBindJSON(&forms); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.SaveVariants(c.Request.Context(), c.Param("id"), forms); err != nil {
		respondError(c, h.Logger, err, "save variants")
		return
	}
	h.products(c, http.StatusOK)
}

// GET /v1/admin/products/export
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.Admin.ExportProducts(c.Request.Context(), &buf); err != nil {
		respondError(c, h.Logger, err, "export products")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Tipos de variación ---

func (h *AdminHandler) variationTypes(c *gin.Context, status int) {
	list, err := h.Admin.VariationTypes(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err, "fetch variation types")
		return
	}
	c.JSON(status, list)
}

// GET /v1/admin/variation-types
func (h *AdminHandler) ListVariationTypes(c *gin.Context) {
	h.variationTypes(c, http.StatusOK)
}

// POST /v1/admin/variation-types
func (h *AdminHandler) CreateVariationType(c *gin.Context) {
	var in admin.VariationTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.CreateVariationType(c.Request.Context(), in); err != nil {
		respondError(c, h.Logger, err, "create variation type")
		return
	}
	h.variationTypes(c, http.StatusCreated)
}

// PATCH /v1/admin/variation-types/:id
func (h *AdminHandler) UpdateVariationType(c *gin.Context) {
	var update models.VariationTypeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.UpdateVariationType(c.Request.Context(), c.Param("id"), update); err != nil {
		respondError(c, h.Logger, err, "update variation type")
		return
	}
	h.variationTypes(c, http.StatusOK)
}

// DELETE /v1/admin/variation-types/:id?confirm=true
func (h *AdminHandler) DeleteVariationType(c *gin.Context) {
	if err := h.Admin.DeleteVariationType(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		respondError(c, h.Logger, err, "delete variation type")
		return
	}
	h.variationTypes(c, http.StatusOK)
}

// --- Reseñas ---

func (h *AdminHandler) reviews(c *gin.Context, status int) {
	list, err := h.Admin.Reviews(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err, "fetch reviews")
		return
	}
	c.JSON(status, list)
}

// GET /v1/admin/reviews
func (h *AdminHandler) ListReviews(c *gin.Context) {
	h.reviews(c, http.StatusOK)
}

// POST /v1/admin/reviews
func (h *AdminHandler) CreateReview(c *gin.Context) {
	var in admin.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := h.Admin.CreateReview(c.Request.Context(), in); err != nil {
		respondError(c, h.Logger, err, "create review")
		return
	}
	h.reviews(c, http.StatusCreated)
}

// DELETE /v1/admin/reviews/:id?confirm=true
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	if err := h.Admin.DeleteReview(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		respondError(c, h.Logger, err, "delete review")
		return
	}
	h.reviews(c, http.StatusOK)
}
