package routes

import (
	"github.com/gin-gonic/gin"

	"crafts-store/internal/handlers"
	"crafts-store/internal/middleware"
)

type Handlers struct {
	Storefront *handlers.StorefrontHandler
	Cart       *handlers.CartHandler
	Checkout   *handlers.CheckoutHandler
	Admin      *handlers.AdminHandler
}

type Options struct {
	JWTSecret     []byte
	Maintenance   bool
	SecureCookies bool
}

// RegisterRoutes monta la tienda bajo /v1 y el panel bajo /v1/admin. El modo
// mantenimiento sólo afecta a la tienda.
func RegisterRoutes(router *gin.Engine, h Handlers, opts Options) {
	v1 := router.Group("/v1")

	store := v1.Group("", middleware.Maintenance(opts.Maintenance), middleware.Session(opts.SecureCookies))
	{
		store.GET("/categories", h.Storefront.ListCategories)
		store.GET("/products", h.Storefront.ListProducts)
		store.GET("/products/:id", h.Storefront.GetProduct)
		store.GET("/products/:id/variants", h.Storefront.ListVariants)
		store.GET("/search", h.Storefront.Search)
		store.GET("/reviews", h.Storefront.ListReviews)
		store.GET("/contact", h.Storefront.Contact)

		store.GET("/cart", h.Cart.GetCart)
		store.DELETE("/cart", h.Cart.ClearCart)
		store.POST("/cart/items", h.Cart.AddItem)
		store.PATCH("/cart/items/:key", h.Cart.SetQuantity)
		store.DELETE("/cart/items/:key", h.Cart.RemoveItem)

		store.GET("/checkout", h.Checkout.GetCheckout)
		store.POST("/checkout/details", h.Checkout.SubmitDetails)
		store.POST("/checkout/edit", h.Checkout.Edit)
		store.POST("/checkout/place", h.Checkout.PlaceOrder)
		store.POST("/checkout/reset", h.Checkout.Reset)
	}

	adm := v1.Group("/admin", middleware.RequireAdmin(opts.JWTSecret))
	{
		adm.GET("/dashboard", h.Admin.Dashboard)

		adm.GET("/categories", h.Admin.ListCategories)
		adm.POST("/categories", h.Admin.CreateCategory)
		adm.PATCH("/categories/:id", h.Admin.UpdateCategory)
		adm.DELETE("/categories/:id", h.Admin.DeleteCategory)
		adm.POST("/categories/:id/move", h.Admin.MoveCategory)

		adm.GET("/products", h.Admin.ListProducts)
		adm.GET("/products/export", h.Admin.ExportProducts)
		adm.POST("/products", h.Admin.CreateProduct)
		adm.POST("/products/bulk-delete", h.Admin.BulkDeleteProducts)
		adm.PATCH("/products/:id", h.Admin.UpdateProduct)
		adm.DELETE("/products/:id", h.Admin.DeleteProduct)
		adm.PUT("/products/:id/variants", h.Admin.SaveVariants)

		adm.GET("/variation-types", h.Admin.ListVariationTypes)
		adm.POST("/variation-types", h.Admin.CreateVariationType)
		adm.PATCH("/variation-types/:id", h.Admin.UpdateVariationType)
		adm.DELETE("/variation-types/:id", h.Admin.DeleteVariationType)

		adm.GET("/reviews", h.Admin.ListReviews)
		adm.POST("/reviews", h.Admin.CreateReview)
		adm.DELETE("/reviews/:id", h.Admin.DeleteReview)
	}
}
