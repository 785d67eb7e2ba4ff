package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdminHandler covers the admin-only surface: platform statistics, activity
// tallies, account search and category management.
type AdminHandler struct {
	stats     *services.StatsService
	activity  services.ActivityReader
	sellers   *services.AccountService
	customers *services.AccountService
	catalog   *services.CatalogService
	log       logger.Logger
}

func NewAdminHandler(stats *services.StatsService, activity services.ActivityReader,
	sellers, customers *services.AccountService, catalog *services.CatalogService,
	log logger.Logger) *AdminHandler {
	return &AdminHandler{
		stats:     stats,
		activity:  activity,
		sellers:   sellers,
		customers: customers,
		catalog:   catalog,
		log:       log,
	}
}

func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.stats.Collect(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to collect statistics", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ActivityCounts reports the tallies for one day, defaulting to today.
func (h *AdminHandler) ActivityCounts(c echo.Context) error {
	day := c.QueryParam("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}

	counts := map[string]int64{}
	for _, activityType := range []domain.ActivityType{domain.ActivityMessageSent, domain.ActivitySellerReported} {
		count, err := h.activity.CountForDay(c.Request().Context(), activityType, day)
		if err != nil {
			h.log.Error("Failed to read activity count", "type", activityType, "error", err)
			return respondError(c, err)
		}
		counts[string(activityType)] = count
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"day": day, "counts": counts})
}

func (h *AdminHandler) SearchSellers(c echo.Context) error {
	return h.searchAccounts(c, h.sellers)
}

func (h *AdminHandler) SearchCustomers(c echo.Context) error {
	return h.searchAccounts(c, h.customers)
}

func (h *AdminHandler) searchAccounts(c echo.Context, svc *services.AccountService) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	accounts, err := svc.Search(c.Request().Context(), c.QueryParam("name"), page)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		avatarURL, err := svc.AvatarURL(c.Request().Context(), account.AvatarKey)
		if err != nil {
			h.log.Warn("Failed to presign avatar", "account_id", account.ID, "error", err)
		}
		responses = append(responses, newAccountResponse(account, avatarURL))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"page": page, "results": responses})
}

// CreateSeller provisions a seller account on the seller's behalf.
func (h *AdminHandler) CreateSeller(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, _, err := h.sellers.SignUp(c.Request().Context(), services.SignUpInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Country:     req.Country,
		Region:      req.Region,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newAccountResponse(account, ""))
}

func (h *AdminHandler) GetSeller(c echo.Context) error {
	account, err := h.sellers.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	avatarURL, err := h.sellers.AvatarURL(c.Request().Context(), account.AvatarKey)
	if err != nil {
		h.log.Warn("Failed to presign avatar", "account_id", account.ID, "error", err)
	}
	return c.JSON(http.StatusOK, newAccountResponse(account, avatarURL))
}

func (h *AdminHandler) DeleteSeller(c echo.Context) error {
	if err := h.sellers.DeleteAccount(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteCustomer(c echo.Context) error {
	if err := h.customers.DeleteAccount(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteProduct removes any seller's product.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalog.AdminDeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, h.categoryResponse(c, category))
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}

	category, err := h.catalog.UpdateCategory(c.Request().Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.categoryResponse(c, category))
}

func (h *AdminHandler) UpdateCategoryImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Image file is required.")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.catalog.UpdateCategoryImage(c.Request().Context(), c.Param("id"), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.categoryResponse(c, category))
}

func (h *AdminHandler) DeleteCategoryImage(c echo.Context) error {
	if err := h.catalog.DeleteCategoryImage(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	if err := h.catalog.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) categoryResponse(c echo.Context, category *domain.Category) categoryResponse {
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
