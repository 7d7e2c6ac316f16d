package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fxRateHandler handles HTTP requests related to exchange rates.
type fxRateHandler struct {
	fxRateService portssvc.FxRateSvcFacade
}

// newFxRateHandler creates a new fxRateHandler.
func newFxRateHandler(fs portssvc.FxRateSvcFacade) *fxRateHandler {
	return &fxRateHandler{
		fxRateService: fs,
	}
}

// registerFxRateRoutes registers routes related to exchange rates.
func registerFxRateRoutes(rg *gin.RouterGroup, fxRateService portssvc.FxRateSvcFacade) {
	h := newFxRateHandler(fxRateService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
	}
}

func (h *fxRateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rates, fetchedAt, err := h.fxRateService.GetRates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rates")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"base":      "USD",
		"rates":     rates,
		"fetchedAt": fetchedAt.UTC().Format(time.RFC3339),
	})
}
