package http

import (
	"net/http"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/stats/domain"
	"github.com/gin-gonic/gin"
)

// Handler binds usecase + logger
type Handler struct {
	service domain.StatsUseCase
	logger  *logger.Logger
}

func NewHandler(s domain.StatsUseCase, l *logger.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/stats", h.GetStats)
	r.POST("/stats/refresh", h.RefreshStats)
}

// GetStats godoc
//
//	@Summary		24h volume
//	@Description	Volume of funded transactions over the last 24 hours, valued in USD
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Failure		503	{object}	object{error=string}
//	@Router			/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context())
	if err != nil && !snap.Loaded() {
		h.logger.Errorf("GetStats err: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "statistics unavailable"})
		return
	}
	c.JSON(http.StatusOK, fromSnapshotDomain(snap))
}

// RefreshStats godoc
//
//	@Summary	Recompute 24h volume
//	@Tags		stats
//	@Produce	json
//	@Success	200	{object}	StatsResponse
//	@Failure	503	{object}	object{error=string}
//	@Router		/stats/refresh [post]
func (h *Handler) RefreshStats(c *gin.Context) {
	snap, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Errorf("RefreshStats err: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "statistics unavailable"})
		return
	}
	c.JSON(http.StatusOK, fromSnapshotDomain(snap))
}
