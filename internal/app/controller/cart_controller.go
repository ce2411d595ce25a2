package controller

import (
	"errors"
	"net/http"

	"github.com/fitstore/fitstore-backend/internal/app/service"
	"github.com/fitstore/fitstore-backend/internal/app/store"
	apperrors "github.com/fitstore/fitstore-backend/internal/errors"
	"github.com/fitstore/fitstore-backend/internal/middleware"
	"github.com/fitstore/fitstore-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// Quantity deliberately carries no required binding: an explicit 0 must reach
// the store's clamp and come back as 1, same as negatives.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the session's cart snapshot
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	snapshot, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// AddToCart adds a product to the cart, merging with an existing line item
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	snapshot, err := ctrl.cartService.AddToCart(c.Request.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, sessionID, req.ProductID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusCreated, snapshot)
}

// UpdateCartItem sets the quantity of a line item, clamped to stock
// PUT /api/v1/cart/:product_id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	productID := c.Param("product_id")

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	snapshot, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, sessionID, productID)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// RemoveFromCart removes a line item; removing an absent item is a no-op
// DELETE /api/v1/cart/:product_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	productID := c.Param("product_id")

	snapshot, err := ctrl.cartService.RemoveFromCart(c.Request.Context(), sessionID, productID)
	if err != nil {
		ctrl.respondCartError(c, err, sessionID, productID)
		return
	}

	log.Info("Item removed from cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, snapshot)
}

// ClearCart empties the session's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	snapshot, err := ctrl.cartService.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		ctrl.respondCartError(c, err, sessionID, "")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"session_id": sessionID,
	})

	c.JSON(http.StatusOK, snapshot)
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, sessionID, productID string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCatalogNotLoaded):
		apperrors.ServiceUnavailable(c, apperrors.CatalogUnavailable, "Catalog could not be loaded")
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Product not found for cart operation", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
	case errors.Is(err, store.ErrOutOfStock):
		log.Warn("Product out of stock", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		apperrors.BadRequest(c, apperrors.CartOutOfStock, "Product is out of stock")
	case errors.Is(err, storage.ErrVersionConflict):
		log.Warn("Cart write lost a version race", map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.Conflict(c, apperrors.CartVersionConflict, "Cart was modified elsewhere, reload and retry")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
	}
}
