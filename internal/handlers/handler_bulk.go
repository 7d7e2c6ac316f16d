package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/finflow/finflow_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bulkHandler handles HTTP requests related to bulk transfer batches.
type bulkHandler struct {
	bulkService portssvc.BulkSvcFacade
}

// newBulkHandler creates a new bulkHandler.
func newBulkHandler(bs portssvc.BulkSvcFacade) *bulkHandler {
	return &bulkHandler{
		bulkService: bs,
	}
}

// registerBulkRoutes registers routes related to bulk transfers.
func registerBulkRoutes(rg *gin.RouterGroup, bulkService portssvc.BulkSvcFacade) {
	h := newBulkHandler(bulkService)

	bulk := rg.Group("/bulk-transfers")
	{
		bulk.POST("", h.submitBatch)
		bulk.GET("", h.listBatches)
		bulk.GET("/:id", h.getBatch)
	}
}

func (h *bulkHandler) submitBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBulkBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received bulk transfer batch", slog.Int("item_count", len(req.Items)))

	batch, err := h.bulkService.SubmitBatch(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to submit batch")
		return
	}

	logger.Info("Batch accepted", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusAccepted, dto.ToBulkBatchResponse(*batch, nil))
}

func (h *bulkHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("batch_id", batchID))

	batch, items, err := h.bulkService.GetBatch(c.Request.Context(), userID, batchID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve batch")
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkBatchResponse(*batch, items))
}

func (h *bulkHandler) listBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		logger.Warn("Failed to bind query for ListBatches", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	batches, nextToken, err := h.bulkService.ListBatches(c.Request.Context(), userID, page.Limit, page.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list batches")
		return
	}

	c.JSON(http.StatusOK, dto.ToListBulkBatchesResponse(batches, nextToken))
}
