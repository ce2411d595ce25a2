package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/internal/app/service"
	"github.com/fitstore/fitstore-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedProductSource serves a static product set for controller tests.
type fixedProductSource struct {
	products map[string]model.Product
}

func (s *fixedProductSource) ProductByID(id string) (*model.Product, error) {
	if p, ok := s.products[id]; ok {
		product := p
		return &product, nil
	}
	return nil, service.ErrProductNotFound
}

// Helper function to set the session id in context
func setSessionInContext(c *gin.Context, sessionID string) {
	c.Set("session_id", sessionID)
}

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine) {
	kv, err := storage.SetupTestKV()
	require.NoError(t, err)
	t.Cleanup(func() {
		storage.CleanupTestKV(kv)
	})

	cartRepo := repository.NewCartRepository(kv)
	products := &fixedProductSource{products: map[string]model.Product{
		"p1": {ID: "p1", Name: "Pull-up Bar", Price: 45, Category: "gear", Stock: 6},
		"p0": {ID: "p0", Name: "Sold Out", Price: 10, Category: "gear", Stock: 0},
	}}
	cartService := service.NewCartService(cartRepo, products, nil)
	cartController := NewCartController(cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Empty(t, response.Items)
	assert.Equal(t, 0, response.TotalItems)
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p1", Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, 2, response.TotalItems)
	assert.Equal(t, 90.0, response.TotalPrice)
}

func TestCartController_AddToCart_UnknownProduct(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "ghost", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddToCart_OutOfStock(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p0", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddToCart_InvalidBody(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString(`{"quantity": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateCartItem_ClampsToStock(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})
	router.PUT("/cart/:product_id", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.UpdateCartItem(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p1", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(UpdateCartRequest{Quantity: 99})
	req = httptest.NewRequest(http.MethodPut, "/cart/p1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 6, response.TotalItems)
}

func TestCartController_UpdateCartItem_ZeroClampsToOne(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})
	router.PUT("/cart/:product_id", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.UpdateCartItem(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p1", Quantity: 3})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// An explicit zero is not a binding error; it clamps to one like negatives
	req = httptest.NewRequest(http.MethodPut, "/cart/p1", bytes.NewBufferString(`{"quantity": 0}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 1, response.TotalItems)

	req = httptest.NewRequest(http.MethodPut, "/cart/p1", bytes.NewBufferString(`{"quantity": -4}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 1, response.TotalItems)
}

func TestCartController_RemoveFromCart(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})
	router.DELETE("/cart/:product_id", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.RemoveFromCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p1", Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart/p1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Empty(t, response.Items)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.AddToCart(c)
	})
	router.DELETE("/cart", func(c *gin.Context) {
		setSessionInContext(c, "s1")
		controller.ClearCart(c)
	})

	body, _ := json.Marshal(AddToCartRequest{ProductID: "p1", Quantity: 3})
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.CartSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 0, response.TotalItems)
}
