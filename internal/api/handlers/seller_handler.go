package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"marketplace-backend/internal/api/middleware"
	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SellerHandler covers the seller-only surface: their product inventory,
// shipping setup and customer conversations.
type SellerHandler struct {
	catalog  *services.CatalogService
	shipping *services.ShippingService
	chat     *services.ChatService
	images   *services.ImageService
	log      logger.Logger
}

func NewSellerHandler(catalog *services.CatalogService, shipping *services.ShippingService,
	chat *services.ChatService, images *services.ImageService, log logger.Logger) *SellerHandler {
	return &SellerHandler{
		catalog:  catalog,
		shipping: shipping,
		chat:     chat,
		images:   images,
		log:      log,
	}
}

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	CategoryID  string  `json:"categoryId" validate:"required"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"categoryId"`
}

func (h *SellerHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), middleware.AccountID(c), services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, h.productResponse(c, product))
}

func (h *SellerHandler) UpdateProduct(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), middleware.AccountID(c),
		&domain.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			CategoryID:  req.CategoryID,
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.productResponse(c, product))
}

func (h *SellerHandler) AddProductImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Image files are required.")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Image files are required.")
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, file := range files {
		data, err := readMultipartFile(file)
		if err != nil {
			return respondError(c, err)
		}
		uploads = append(uploads, services.ImageUpload{Filename: file.Filename, Data: data})
	}

	product, err := h.catalog.AddProductImages(c.Request().Context(), c.Param("id"), middleware.AccountID(c), uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.productResponse(c, product))
}

func (h *SellerHandler) RemoveProductImage(c echo.Context) error {
	product, err := h.catalog.RemoveProductImage(c.Request().Context(),
		c.Param("id"), middleware.AccountID(c), c.Param("imageKey"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.productResponse(c, product))
}

func (h *SellerHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id"), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SellerHandler) ListOwnProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	products, err := h.catalog.ListSellerProducts(c.Request().Context(),
		middleware.AccountID(c), c.QueryParam("name"), c.QueryParam("categoryId"), page)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, h.productResponse(c, product))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"page": page, "results": responses})
}

type shippingRequest struct {
	Countries []string           `json:"countries" validate:"required"`
	Rates     map[string]float64 `json:"rates" validate:"required"`
}

func (h *SellerHandler) GetShipping(c echo.Context) error {
	countries, rates, err := h.shipping.Get(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"countries": countries, "rates": rates})
}

func (h *SellerHandler) UpdateShipping(c echo.Context) error {
	var req shippingRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.shipping.Update(c.Request().Context(), middleware.AccountID(c), req.Countries, req.Rates); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"countries": req.Countries, "rates": req.Rates})
}

func (h *SellerHandler) ListConversations(c echo.Context) error {
	return listConversations(c, h.chat, h.images)
}

func (h *SellerHandler) ListMessages(c echo.Context) error {
	return listMessages(c, h.chat)
}

func (h *SellerHandler) SendMessage(c echo.Context) error {
	return sendMessage(c, h.chat)
}

func (h *SellerHandler) productResponse(c echo.Context, product *domain.Product) productResponse {
	urls, err := h.catalog.ImageURLs(c.Request().Context(), product.ImageKeys)
	if err != nil {
		h.log.Warn("Failed to presign product images", "product_id", product.ID, "error", err)
	}
	return newProductResponse(product, urls)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
