package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/middleware"
	"studentwallet/internal/models"
	"studentwallet/internal/platform"
	"studentwallet/internal/services"
)

// AuthHandler exchanges platform access tokens for session tokens.
type AuthHandler struct {
	provider    platform.Provider
	userService services.UserServicer
	devMode     bool
}

// NewAuthHandler creates a new AuthHandler. In dev mode logged-in users are
// flagged as development users.
func NewAuthHandler(provider platform.Provider, userService services.UserServicer, devMode bool) *AuthHandler {
	return &AuthHandler{provider: provider, userService: userService, devMode: devMode}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login handles platform login
// @Summary     Log in with a platform access token
// @Description Resolve the chat platform access token, upsert the user and issue a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Platform access token"
// @Success     200 {object} AuthResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid platform identity"
// @Failure     502 {object} ErrorResponse "Platform unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	// development logins may post no body at all
	if err := c.ShouldBindJSON(&req); err != nil && !(h.devMode && errors.Is(err, io.EOF)) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.AccessToken == "" && !h.devMode {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "access_token is required"))
		return
	}

	identity, err := h.provider.Resolve(c.Request.Context(), req.AccessToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Upsert(services.UserProfile{
		ID:     identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		Avatar: identity.Avatar,
		IsDev:  h.devMode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// GetProfile handles retrieving the current user's profile
// @Summary     Get user profile
// @Description Get the profile of the authenticated user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
