package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/finflow/finflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// analyticsHandler handles HTTP requests related to transaction analytics.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvcFacade
}

// newAnalyticsHandler creates a new analyticsHandler.
func newAnalyticsHandler(as portssvc.AnalyticsSvcFacade) *analyticsHandler {
	return &analyticsHandler{
		analyticsService: as,
	}
}

// registerAnalyticsRoutes registers routes related to analytics.
func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvcFacade) {
	h := newAnalyticsHandler(analyticsService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/transactions", h.getTransactionAnalytics)
	}
}

func (h *analyticsHandler) getTransactionAnalytics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for GetTransactionAnalytics", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, to := h.analyticsService.ResolveWindow(req.Period, req.From, req.To, time.Now().UTC())

	analytics, err := h.analyticsService.GetTransactionAnalytics(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to compute analytics")
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyticsResponse(*analytics))
}
