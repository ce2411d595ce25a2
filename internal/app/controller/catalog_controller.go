package controller

import (
	"errors"
	"net/http"

	"github.com/fitstore/fitstore-backend/internal/app/service"
	apperrors "github.com/fitstore/fitstore-backend/internal/errors"
	"github.com/fitstore/fitstore-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// ListProducts returns the filtered and sorted catalog view
// GET /api/v1/products?search=&category=&sort=
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := service.CatalogQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	switch c.Query("sort") {
	case "asc":
		query.Sort = service.SortPriceAsc
	case "desc":
		query.Sort = service.SortPriceDesc
	case "":
		query.Sort = service.SortNone
	default:
		log.Warn("Invalid sort mode", map[string]interface{}{
			"sort": c.Query("sort"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "sort must be asc or desc")
		return
	}

	products, err := ctrl.catalogService.List(query)
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotLoaded) {
			log.Warn("Catalog requested before a successful load", nil)
			apperrors.ServiceUnavailable(c, apperrors.CatalogUnavailable, "Catalog could not be loaded")
			return
		}
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Products listed", map[string]interface{}{
		"count":    len(products),
		"search":   query.Search,
		"category": query.Category,
		"sort":     query.Sort,
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListCategories returns the distinct categories of the loaded catalog
// GET /api/v1/products/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.Categories()
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotLoaded) {
			apperrors.ServiceUnavailable(c, apperrors.CatalogUnavailable, "Catalog could not be loaded")
			return
		}
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetProductByID returns one catalog product
// GET /api/v1/products/:id
func (ctrl *CatalogController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	product, err := ctrl.catalogService.ProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotLoaded) {
			apperrors.ServiceUnavailable(c, apperrors.CatalogUnavailable, "Catalog could not be loaded")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, product)
}
