package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/handlers"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/handlers/cart"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/token"
)

type Deps struct {
	AuthHandler       *handlers.AuthHandler
	ProductHandler    *handlers.ProductHandler
	CollectionHandler *handlers.CollectionHandler
	ReviewHandler     *handlers.ReviewHandler
	ImageHandler      *handlers.ProductImageHandler
	CustomerHandler   *handlers.CustomerHandler
	OrderHandler      *handlers.OrderHandler
	CartHandler       *cart.CartHandler
	SearchHandler     *handlers.SearchHandler
	TokenService      *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.LogOut)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	collections := v1.Group("/collections")
	collections.GET("", d.CollectionHandler.GetCollections)
	collections.GET("/:id", d.CollectionHandler.GetCollection)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	reviews := v1.Group("/products/:product_id/reviews")
	reviews.GET("", d.ReviewHandler.GetReviews)
	reviews.GET("/:id", d.ReviewHandler.GetReview)
	reviews.POST("", d.ReviewHandler.CreateReview)
	reviews.PATCH("/:id", d.ReviewHandler.PatchReview)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview)

	images := v1.Group("/products/:product_id/images")
	images.GET("", d.ImageHandler.GetImages)

	carts := v1.Group("/carts")
	carts.POST("", d.CartHandler.CreateCart)
	carts.GET("/:id", d.CartHandler.GetCart)
	carts.DELETE("/:id", d.CartHandler.DeleteCart)

	items := v1.Group("/carts/:cart_id/items")
	items.GET("", d.CartHandler.GetItems)
	items.POST("", d.CartHandler.AddItem)
	items.PATCH("/:id", d.CartHandler.PatchItem)
	items.DELETE("/:id", d.CartHandler.DeleteItem)

	auth := v1.Group("", d.TokenService.AutoRefreshMiddleware)
	auth.GET("/customers/me", d.CustomerHandler.Me)
	auth.PUT("/customers/me", d.CustomerHandler.UpdateMe)
	auth.POST("/orders", d.OrderHandler.CreateOrder)
	auth.GET("/orders", d.OrderHandler.GetOrders)
	auth.GET("/orders/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.POST("/collections", d.CollectionHandler.CreateCollection)
	admin.PATCH("/collections/:id", d.CollectionHandler.PatchCollection)
	admin.DELETE("/collections/:id", d.CollectionHandler.DeleteCollection)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/products/:product_id/images", d.ImageHandler.CreateImage)
	admin.DELETE("/products/:product_id/images/:id", d.ImageHandler.DeleteImage)
	admin.GET("/customers", d.CustomerHandler.GetCustomers)
	admin.PATCH("/orders/:id", d.OrderHandler.PatchOrder)
	admin.DELETE("/orders/:id", d.OrderHandler.DeleteOrder)
}
