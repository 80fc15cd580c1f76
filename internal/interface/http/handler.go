package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
	"github.com/yanqian/ziwei-api/pkg/metrics"
)

// Handler wires the HTTP transport to the chart domain.
type Handler struct {
	chartSvc chart.Service
	stats    *metrics.Counters
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chartSvc chart.Service, stats *metrics.Counters, logger *slog.Logger) *Handler {
	return &Handler{
		chartSvc: chartSvc,
		stats:    stats,
		logger:   logger.With("component", "http.handler"),
	}
}

// ComputeChart handles the birth chart endpoint.
func (h *Handler) ComputeChart(c *gin.Context) {
	var req chart.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "INVALID_REQUEST", "request body must be valid JSON", err))
		return
	}

	resp, err := h.chartSvc.Compute(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	// Serialize explicitly so a marshalling failure surfaces as a classified
	// error instead of a half-written body.
	payload, err := json.Marshal(resp)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, chart.CodeInternal, "failed to serialize chart response", err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Health reports liveness together with cache effectiveness counters.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  h.stats.Snapshot(),
	})
}

// Root returns a short greeting so manual checks against / do not 404.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "ziwei chart API is running; POST /api/v1/charts to compute a chart")
}
