package handlers

import (
	"io"
	"net/http"

	"marketplace-backend/internal/api/middleware"
	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AccountHandler exposes the account lifecycle shared by every role family.
// One instance is mounted per role group, bound to that role's service.
type AccountHandler struct {
	svc *services.AccountService
	log logger.Logger
}

func NewAccountHandler(svc *services.AccountService, log logger.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: log}
}

type signUpRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	Country     *string `json:"country"`
	Region      *string `json:"region"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phoneNumber"`
}

type authResponse struct {
	Account accountResponse     `json:"account"`
	Tokens  *services.TokenPair `json:"tokens"`
}

func (h *AccountHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, pair, err := h.svc.SignUp(c.Request().Context(), services.SignUpInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Country:     req.Country,
		Region:      req.Region,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.log.Error("Sign up failed", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		Account: newAccountResponse(account, ""),
		Tokens:  pair,
	})
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, pair, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	avatarURL, err := h.svc.AvatarURL(c.Request().Context(), account.AvatarKey)
	if err != nil {
		h.log.Warn("Failed to presign avatar", "account_id", account.ID, "error", err)
	}

	return c.JSON(http.StatusOK, authResponse{
		Account: newAccountResponse(account, avatarURL),
		Tokens:  pair,
	})
}

func (h *AccountHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AccountHandler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) Profile(c echo.Context) error {
	account, err := h.svc.Profile(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return respondError(c, err)
	}

	avatarURL, err := h.svc.AvatarURL(c.Request().Context(), account.AvatarKey)
	if err != nil {
		h.log.Warn("Failed to presign avatar", "account_id", account.ID, "error", err)
	}
	return c.JSON(http.StatusOK, newAccountResponse(account, avatarURL))
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.svc.UpdateProfile(c.Request().Context(), middleware.AccountID(c), &domain.AccountUpdate{
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

	avatarURL, err := h.svc.AvatarURL(c.Request().Context(), account.AvatarKey)
	if err != nil {
		h.log.Warn("Failed to presign avatar", "account_id", account.ID, "error", err)
	}
	return c.JSON(http.StatusOK, newAccountResponse(account, avatarURL))
}

func (h *AccountHandler) UpdateAvatar(c echo.Context) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Avatar file is required.")
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

	key, err := h.svc.UpdateAvatar(c.Request().Context(), middleware.AccountID(c), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	avatarURL, err := h.svc.AvatarURL(c.Request().Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"avatarUrl": avatarURL})
}

func (h *AccountHandler) DeleteAvatar(c echo.Context) error {
	if err := h.svc.DeleteAvatar(c.Request().Context(), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	if err := h.svc.DeleteAccount(c.Request().Context(), middleware.AccountID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
