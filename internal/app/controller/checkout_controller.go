package controller

import (
	"errors"
	"net/http"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/service"
	apperrors "github.com/fitstore/fitstore-backend/internal/errors"
	"github.com/fitstore/fitstore-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type SubmitCheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// OpenCheckout enters the checkout form for the session
// POST /api/v1/checkout/open
func (ctrl *CheckoutController) OpenCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.checkoutService.Open(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			apperrors.Conflict(c, apperrors.CheckoutEmptyCart, "Cannot start checkout with an empty cart")
			return
		}
		log.Error("Failed to open checkout", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state": ctrl.checkoutService.State(sessionID),
	})
}

// CancelCheckout leaves the checkout form without side effects
// POST /api/v1/checkout/cancel
func (ctrl *CheckoutController) CancelCheckout(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	ctrl.checkoutService.Cancel(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"state": ctrl.checkoutService.State(sessionID),
	})
}

// SubmitCheckout validates the form, runs the payment wait and returns the
// order confirmation
// POST /api/v1/checkout/submit
func (ctrl *CheckoutController) SubmitCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req SubmitCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	profile := model.CheckoutProfile{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
	}

	confirmation, err := ctrl.checkoutService.Submit(c.Request.Context(), sessionID, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutNotOpen):
			apperrors.BadRequest(c, apperrors.CheckoutNotOpen, "Checkout has not been opened")
		case errors.Is(err, service.ErrIncompleteForm):
			apperrors.BadRequest(c, apperrors.CheckoutIncompleteForm, "Please fill in all fields")
		default:
			log.Error("Checkout submission failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   confirmation.OrderID,
	})

	c.JSON(http.StatusOK, confirmation)
}

// GetCheckoutProfile returns the remembered profile for form prefill
// GET /api/v1/checkout/profile
func (ctrl *CheckoutController) GetCheckoutProfile(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	profile, err := ctrl.checkoutService.Profile(c.Request.Context(), sessionID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, profile)
}
