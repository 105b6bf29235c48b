package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/api/v1/services"
)

// AuthHandler handles login for API clients
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Exchanges the admin credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Session token"
// @Failure 400 {object} errors.APIError "Invalid request body"
// @Failure 422 {object} errors.APIError "Invalid form fields"
// @Failure 401 {object} errors.APIError "Wrong username or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token.Value,
		User:      token.User,
		ExpiresAt: token.ExpiresAt,
	})
}
