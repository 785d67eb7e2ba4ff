package handlers

import (
	"errors"
	"net/http"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"

	"github.com/labstack/echo/v4"
)

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// respondError maps service errors onto the wire format. Unknown errors
// surface as a generic 500 so internals never leak to clients.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return errorJSON(c, http.StatusUnauthorized, "Please authenticate.")
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrTooManyImages),
		errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrRateMissing),
		errors.Is(err, services.ErrAdminLimit),
		errors.Is(err, services.ErrLastAdmin),
		errors.Is(err, services.ErrSelfConversation),
		errors.Is(err, services.ErrShippingNotSet):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return errorJSON(c, http.StatusInternalServerError, "Something went wrong.")
}

type accountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Country     string    `json:"country,omitempty"`
	Region      string    `json:"region,omitempty"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newAccountResponse(account *domain.Account, avatarURL string) accountResponse {
	return accountResponse{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		Role:        string(account.Role),
		AvatarURL:   avatarURL,
		Country:     account.Country,
		Region:      account.Region,
		Address:     account.Address,
		PhoneNumber: account.PhoneNumber,
		CreatedAt:   account.CreatedAt,
	}
}

type productResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURLs   []string  `json:"imageUrls"`
	RatingAvg   float64   `json:"ratingAvg"`
	RatingCount int       `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newProductResponse(product *domain.Product, imageURLs []string) productResponse {
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return productResponse{
		ID:          product.ID,
		SellerID:    product.SellerID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		ImageURLs:   imageURLs,
		RatingAvg:   product.RatingAvg,
		RatingCount: product.RatingCount,
		CreatedAt:   product.CreatedAt,
	}
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type conversationResponse struct {
	ID             string    `json:"id"`
	SellerID       string    `json:"sellerId"`
	CustomerID     string    `json:"customerId"`
	SellerName     string    `json:"sellerName"`
	SellerAvatar   string    `json:"sellerAvatarUrl,omitempty"`
	CustomerName   string    `json:"customerName"`
	CustomerAvatar string    `json:"customerAvatarUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newMessageResponse(message *domain.Message) messageResponse {
	return messageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Text:           message.Text,
		CreatedAt:      message.CreatedAt,
	}
}
