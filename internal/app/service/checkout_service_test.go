package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckoutServiceTest(t *testing.T) (CheckoutService, CartService, *recordingNotifier) {
	kv, err := storage.SetupTestKV()
	require.NoError(t, err)
	t.Cleanup(func() {
		storage.CleanupTestKV(kv)
	})

	cartRepo := repository.NewCartRepository(kv)
	products := &stubProductSource{products: map[string]model.Product{
		"p1": {ID: "p1", Name: "Barbell", Price: 120, Category: "weights", Stock: 2},
	}}
	notifier := &recordingNotifier{}
	cartService := NewCartService(cartRepo, products, notifier)

	// Zero processing delay and a fixed order id keep the tests deterministic
	checkoutService := NewCheckoutServiceWithIDGenerator(
		cartService, cartRepo, notifier, 0,
		func() string { return "TESTID99" },
	)
	return checkoutService, cartService, notifier
}

func validProfile() model.CheckoutProfile {
	return model.CheckoutProfile{
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		Address: "1 Navy Way",
		City:    "Arlington",
	}
}

func TestCheckoutService_Open_EmptyCart(t *testing.T) {
	checkoutService, _, _ := setupCheckoutServiceTest(t)

	err := checkoutService.Open(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, FlowIdle, checkoutService.State("s1"))
}

func TestCheckoutService_OpenAndCancel(t *testing.T) {
	checkoutService, cartService, _ := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "s1", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, checkoutService.Open(ctx, "s1"))
	assert.Equal(t, FlowFormOpen, checkoutService.State("s1"))

	checkoutService.Cancel("s1")
	assert.Equal(t, FlowIdle, checkoutService.State("s1"))

	// Cancelling leaves the cart alone
	snapshot, err := cartService.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalItems)
}

func TestCheckoutService_Submit_WithoutOpen(t *testing.T) {
	checkoutService, cartService, _ := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "s1", "p1", 1)
	require.NoError(t, err)

	_, err = checkoutService.Submit(ctx, "s1", validProfile())
	assert.ErrorIs(t, err, ErrCheckoutNotOpen)
}

func TestCheckoutService_Submit_IncompleteForm(t *testing.T) {
	checkoutService, cartService, notifier := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	require.NoError(t, checkoutService.Open(ctx, "s1"))

	profile := validProfile()
	profile.City = ""

	_, err = checkoutService.Submit(ctx, "s1", profile)
	assert.ErrorIs(t, err, ErrIncompleteForm)

	// The flow stays on the form and the cart is untouched
	assert.Equal(t, FlowFormOpen, checkoutService.State("s1"))
	snapshot, err := cartService.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalItems)
	assert.Contains(t, notifier.dialogs, "Incomplete fields")

	// The rejected profile is not remembered
	remembered, err := checkoutService.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.NotEqual(t, "", remembered.City)
}

func TestCheckoutService_Submit_Success(t *testing.T) {
	checkoutService, cartService, notifier := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	require.NoError(t, checkoutService.Open(ctx, "s1"))

	confirmation, err := checkoutService.Submit(ctx, "s1", validProfile())
	require.NoError(t, err)
	require.NotNil(t, confirmation)

	assert.Equal(t, "TESTID99", confirmation.OrderID)
	assert.Equal(t, 2, confirmation.TotalItems)
	assert.Equal(t, 240.0, confirmation.TotalPrice)

	// Cart emptied, flow back to idle, success dialog pushed
	snapshot, err := cartService.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, FlowIdle, checkoutService.State("s1"))
	assert.Contains(t, notifier.dialogs, "Purchase complete")
}

func TestCheckoutService_Submit_RemembersProfile(t *testing.T) {
	checkoutService, cartService, _ := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, checkoutService.Open(ctx, "s1"))

	_, err = checkoutService.Submit(ctx, "s1", validProfile())
	require.NoError(t, err)

	remembered, err := checkoutService.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, validProfile(), remembered)
}

func TestCheckoutService_Profile_DefaultsWhenUnset(t *testing.T) {
	checkoutService, _, _ := setupCheckoutServiceTest(t)

	profile, err := checkoutService.Profile(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "Barclay Leach", profile.Name)
	assert.Equal(t, "barclay@example.com", profile.Email)
	assert.Equal(t, "Av. Siempre Viva 742", profile.Address)
	assert.Equal(t, "Lima", profile.City)
}

func TestCheckoutService_GeneratedOrderIDFormat(t *testing.T) {
	kv, err := storage.SetupTestKV()
	require.NoError(t, err)
	t.Cleanup(func() {
		storage.CleanupTestKV(kv)
	})

	cartRepo := repository.NewCartRepository(kv)
	products := &stubProductSource{products: map[string]model.Product{
		"p1": {ID: "p1", Name: "Barbell", Price: 120, Category: "weights", Stock: 2},
	}}
	cartService := NewCartService(cartRepo, products, nil)
	checkoutService := NewCheckoutService(cartService, cartRepo, nil, 0)

	ctx := context.Background()
	_, err = cartService.AddToCart(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, checkoutService.Open(ctx, "s1"))

	confirmation, err := checkoutService.Submit(ctx, "s1", validProfile())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), confirmation.OrderID)
}
