package handlers

import (
	"net/http"
	"strconv"

	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the storefront: browsing needs no authentication.
type PublicHandler struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
	log     logger.Logger
}

func NewPublicHandler(catalog *services.CatalogService, reviews *services.ReviewService,
	log logger.Logger) *PublicHandler {
	return &PublicHandler{
		catalog: catalog,
		reviews: reviews,
		log:     log,
	}
}

func (h *PublicHandler) ListProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	products, err := h.catalog.ListProducts(c.Request().Context(),
		c.QueryParam("name"), c.QueryParam("categoryId"), page)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, h.productResponse(c, product))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"page": page, "results": responses})
}

func (h *PublicHandler) GetProduct(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.productResponse(c, product))
}

// QuickSearch serves the storefront search box suggestions.
func (h *PublicHandler) QuickSearch(c echo.Context) error {
	products, err := h.catalog.QuickSearch(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return respondError(c, err)
	}

	suggestions := make([]map[string]string, 0, len(products))
	for _, product := range products {
		suggestions = append(suggestions, map[string]string{
			"id":   product.ID,
			"name": product.Name,
		})
	}
	return c.JSON(http.StatusOK, suggestions)
}

func (h *PublicHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, h.categoryResponse(c, category))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *PublicHandler) GetCategory(c echo.Context) error {
	category, err := h.catalog.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.categoryResponse(c, category))
}

func (h *PublicHandler) ListProductReviews(c echo.Context) error {
	reviews, err := h.reviews.ListByProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *PublicHandler) productResponse(c echo.Context, product *domain.Product) productResponse {
	urls, err := h.catalog.ImageURLs(c.Request().Context(), product.ImageKeys)
	if err != nil {
		h.log.Warn("Failed to presign product images", "product_id", product.ID, "error", err)
	}
	return newProductResponse(product, urls)
}

func (h *PublicHandler) categoryResponse(c echo.Context, category *domain.Category) categoryResponse {
	imageURL := ""
	if category.ImageKey != "" {
		urls, err := h.catalog.ImageURLs(c.Request().Context(), []string{category.ImageKey})
		if err != nil {
			h.log.Warn("Failed to presign category image", "category_id", category.ID, "error", err)
		} else {
			imageURL = urls[0]
		}
	}
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    imageURL,
	}
}
