package router

import (
	"github.com/fitstore/fitstore-backend/config"
	"github.com/fitstore/fitstore-backend/internal/app/controller"
	"github.com/fitstore/fitstore-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	catalogController      *controller.CatalogController
	cartController         *controller.CartController
	checkoutController     *controller.CheckoutController
	notificationController *controller.NotificationController
	config                 *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	notificationController *controller.NotificationController,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController:      catalogController,
		cartController:         cartController,
		checkoutController:     checkoutController,
		notificationController: notificationController,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SessionMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FITSTORE API is running",
		})
	})

	router.GET("/ws/notifications", r.notificationController.Subscribe)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.catalogController.ListProducts)
			products.GET("/categories", r.catalogController.ListCategories)
			products.GET("/:id", r.catalogController.GetProductByID)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:product_id", r.cartController.UpdateCartItem)
			cart.DELETE("/:product_id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		checkout := v1.Group("/checkout")
		{
			checkout.POST("/open", r.checkoutController.OpenCheckout)
			checkout.POST("/cancel", r.checkoutController.CancelCheckout)
			checkout.POST("/submit", r.checkoutController.SubmitCheckout)
			checkout.GET("/profile", r.checkoutController.GetCheckoutProfile)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Session-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
