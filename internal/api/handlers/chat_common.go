package handlers

import (
	"net/http"

	"marketplace-backend/internal/api/middleware"
	"marketplace-backend/internal/services"

	"github.com/labstack/echo/v4"
)

// Conversation endpoints are identical for sellers and customers apart from
// the authenticated role, so both handlers delegate here.

type openConversationRequest struct {
	SellerID string `json:"sellerId" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func listConversations(c echo.Context, chat *services.ChatService, images *services.ImageService) error {
	conversations, err := chat.ListConversations(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		responses = append(responses, conversationResponse{
			ID:             conversation.ID,
			SellerID:       conversation.SellerID,
			CustomerID:     conversation.CustomerID,
			SellerName:     conversation.SellerName,
			SellerAvatar:   presignAvatar(c, images, conversation.SellerAvatar),
			CustomerName:   conversation.CustomerName,
			CustomerAvatar: presignAvatar(c, images, conversation.CustomerAvatar),
			CreatedAt:      conversation.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, responses)
}

func presignAvatar(c echo.Context, images *services.ImageService, key string) string {
	if key == "" {
		return ""
	}
	url, err := images.URL(c.Request().Context(), key)
	if err != nil {
		return ""
	}
	return url
}

func listMessages(c echo.Context, chat *services.ChatService) error {
	messages, err := chat.ListMessages(c.Request().Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, newMessageResponse(message))
	}
	return c.JSON(http.StatusOK, responses)
}

func sendMessage(c echo.Context, chat *services.ChatService) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := chat.SendMessage(c.Request().Context(), c.Param("id"), middleware.AccountID(c), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newMessageResponse(message))
}
