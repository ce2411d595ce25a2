package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/pkg/logger"
	"github.com/fitstore/fitstore-backend/pkg/util"
)

var (
	ErrIncompleteForm  = errors.New("incomplete checkout form")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutNotOpen = errors.New("checkout is not open")
)

// FlowState is the checkout flow position for one session.
type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowFormOpen   FlowState = "form_open"
	FlowProcessing FlowState = "processing"
)

// Prefill placeholders used when no profile has been remembered yet.
var defaultProfile = model.CheckoutProfile{
	Name:    "Barclay Leach",
	Email:   "barclay@example.com",
	Address: "Av. Siempre Viva 742",
	City:    "Lima",
}

type CheckoutService interface {
	Open(ctx context.Context, sessionID string) error
	Cancel(sessionID string)
	Submit(ctx context.Context, sessionID string, profile model.CheckoutProfile) (*model.OrderConfirmation, error)
	Profile(ctx context.Context, sessionID string) (model.CheckoutProfile, error)
	State(sessionID string) FlowState
}

// checkoutService runs the sequential checkout flow:
// Idle -> FormOpen -> (validate) -> Processing -> Idle, with the error edge
// back to FormOpen on invalid input. Flow state lives in memory per session;
// like the original form it does not survive a restart.
type checkoutService struct {
	carts           CartService
	cartRepo        repository.CartRepository
	notifier        Notifier
	processingDelay time.Duration
	generateOrderID func() string

	mu    sync.Mutex
	flows map[string]FlowState
}

func NewCheckoutService(carts CartService, cartRepo repository.CartRepository, notifier Notifier, processingDelay time.Duration) CheckoutService {
	return &checkoutService{
		carts:           carts,
		cartRepo:        cartRepo,
		notifier:        notifier,
		processingDelay: processingDelay,
		generateOrderID: util.GenerateOrderID,
		flows:           make(map[string]FlowState),
	}
}

// NewCheckoutServiceWithIDGenerator injects the order id generator, for
// deterministic tests.
func NewCheckoutServiceWithIDGenerator(carts CartService, cartRepo repository.CartRepository, notifier Notifier, processingDelay time.Duration, generateOrderID func() string) CheckoutService {
	svc := NewCheckoutService(carts, cartRepo, notifier, processingDelay).(*checkoutService)
	svc.generateOrderID = generateOrderID
	return svc
}

func (s *checkoutService) State(sessionID string) FlowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.flows[sessionID]; ok {
		return state
	}
	return FlowIdle
}

func (s *checkoutService) setState(sessionID string, state FlowState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == FlowIdle {
		delete(s.flows, sessionID)
		return
	}
	s.flows[sessionID] = state
}

// Open enters the checkout form. Guarded: an empty cart cannot enter the
// flow.
func (s *checkoutService) Open(ctx context.Context, sessionID string) error {
	snapshot, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if snapshot.TotalItems == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return ErrEmptyCart
	}

	s.setState(sessionID, FlowFormOpen)
	logger.Info("Checkout opened", map[string]interface{}{
		"session_id": sessionID,
		"items":      snapshot.TotalItems,
	})
	return nil
}

// Cancel closes the checkout form without touching cart or profile state.
func (s *checkoutService) Cancel(sessionID string) {
	if s.State(sessionID) == FlowProcessing {
		// The payment wait cannot be aborted once entered.
		return
	}
	s.setState(sessionID, FlowIdle)
	logger.Debug("Checkout cancelled", map[string]interface{}{
		"session_id": sessionID,
	})
}

// Submit validates the profile, remembers it, simulates the payment round
// trip and clears the cart on success. Validation failure returns the flow
// to the open form without mutating anything.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, profile model.CheckoutProfile) (*model.OrderConfirmation, error) {
	if s.State(sessionID) != FlowFormOpen {
		return nil, ErrCheckoutNotOpen
	}

	if !profile.Complete() {
		logger.Warn("Checkout submission incomplete", map[string]interface{}{
			"session_id": sessionID,
		})
		if s.notifier != nil {
			s.notifier.Dialog(sessionID, "error", "Incomplete fields", "Please fill in all fields")
		}
		s.setState(sessionID, FlowFormOpen)
		return nil, ErrIncompleteForm
	}

	if err := s.cartRepo.SaveProfile(ctx, sessionID, profile); err != nil {
		logger.Error("Failed to persist checkout profile", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	snapshot, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.setState(sessionID, FlowProcessing)
	logger.Info("Processing payment", map[string]interface{}{
		"session_id": sessionID,
		"items":      snapshot.TotalItems,
		"total":      snapshot.TotalPrice,
	})

	// Simulated payment: one bounded wait, not cancellable once entered.
	time.Sleep(s.processingDelay)

	confirmation := &model.OrderConfirmation{
		OrderID:    s.generateOrderID(),
		TotalItems: snapshot.TotalItems,
		TotalPrice: snapshot.TotalPrice,
	}

	if _, err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.setState(sessionID, FlowIdle)
		return nil, err
	}

	s.setState(sessionID, FlowIdle)
	logger.Info("Order confirmed", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   confirmation.OrderID,
		"total":      confirmation.TotalPrice,
	})

	if s.notifier != nil {
		s.notifier.Dialog(sessionID, "success", "Purchase complete",
			fmt.Sprintf("Order no: %s", confirmation.OrderID))
	}
	return confirmation, nil
}

// Profile returns the remembered checkout profile for form prefill. Missing
// or unreadable profiles degrade to the default placeholders.
func (s *checkoutService) Profile(ctx context.Context, sessionID string) (model.CheckoutProfile, error) {
	profile, err := s.cartRepo.LoadProfile(ctx, sessionID)
	if err != nil {
		logger.Warn("Falling back to default checkout profile", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return defaultProfile, nil
	}
	if profile == nil {
		return defaultProfile, nil
	}
	return *profile, nil
}
