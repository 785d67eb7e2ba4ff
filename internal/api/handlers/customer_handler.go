package handlers

import (
	"net/http"

	"marketplace-backend/internal/api/middleware"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CustomerHandler covers the customer-only surface: reviews, seller reports
// and conversations.
type CustomerHandler struct {
	reviews *services.ReviewService
	reports *services.ReportService
	chat    *services.ChatService
	images  *services.ImageService
	log     logger.Logger
}

func NewCustomerHandler(reviews *services.ReviewService, reports *services.ReportService,
	chat *services.ChatService, images *services.ImageService, log logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		reviews: reviews,
		reports: reports,
		chat:    chat,
		images:  images,
		log:     log,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *CustomerHandler) CreateReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.Request().Context(), c.Param("productId"),
		middleware.AccountID(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *CustomerHandler) UpdateReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.reviews.Update(c.Request().Context(), c.Param("id"),
		middleware.AccountID(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *CustomerHandler) DeleteReview(c echo.Context) error {
	if err := h.reviews.Delete(c.Request().Context(), c.Param("id"), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reportRequest struct {
	SellerID string `json:"sellerId" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

type updateReportRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *CustomerHandler) CreateReport(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.reports.Create(c.Request().Context(), req.SellerID,
		middleware.AccountID(c), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *CustomerHandler) UpdateReport(c echo.Context) error {
	var req updateReportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.reports.Update(c.Request().Context(), c.Param("id"),
		middleware.AccountID(c), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *CustomerHandler) DeleteReport(c echo.Context) error {
	if err := h.reports.Delete(c.Request().Context(), c.Param("id"), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OpenConversation finds or creates the conversation with a seller.
func (h *CustomerHandler) OpenConversation(c echo.Context) error {
	var req openConversationRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conversation, err := h.chat.OpenConversation(c.Request().Context(), middleware.AccountID(c), req.SellerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, conversationResponse{
		ID:             conversation.ID,
		SellerID:       conversation.SellerID,
		CustomerID:     conversation.CustomerID,
		SellerName:     conversation.SellerName,
		SellerAvatar:   presignAvatar(c, h.images, conversation.SellerAvatar),
		CustomerName:   conversation.CustomerName,
		CustomerAvatar: presignAvatar(c, h.images, conversation.CustomerAvatar),
		CreatedAt:      conversation.CreatedAt,
	})
}

func (h *CustomerHandler) ListConversations(c echo.Context) error {
	return listConversations(c, h.chat, h.images)
}

func (h *CustomerHandler) ListMessages(c echo.Context) error {
	return listMessages(c, h.chat)
}

func (h *CustomerHandler) SendMessage(c echo.Context) error {
	return sendMessage(c, h.chat)
}
