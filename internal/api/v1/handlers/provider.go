package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/services"
)

// ProviderHandler handles provider-related API endpoints
type ProviderHandler struct {
	service services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// List handles GET /api/v1/providers. ?health=true runs the provider health checks.
// @Summary List transcription providers
// @Description Lists Deepgram and any fallback provider with their capabilities
// @Tags providers
// @Produce json
// @Security BearerAuth
// @Param health query bool false "Run health checks"
// @Success 200 {object} map[string][]dto.ProviderResponse "List of providers"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	checkHealth, _ := strconv.ParseBool(c.DefaultQuery("health", "false"))

	providers, err := h.service.ListProviders(c.Request.Context(), checkHealth)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
	})
}
