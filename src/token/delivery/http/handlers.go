package http

import (
	"net/http"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/token/usecase"
	"github.com/gin-gonic/gin"
)

// Handler binds usecase + logger
type Handler struct {
	service *usecase.Service
	logger  *logger.Logger
}

func NewHandler(s *usecase.Service, l *logger.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/tokens", h.ListTokens)
	r.POST("/tokens/refresh", h.RefreshTokens)
}

// ListTokens godoc
//
//	@Summary		List tokens
//	@Description	Token catalog, served from cache for five minutes
//	@Tags			token
//	@Produce		json
//	@Success		200	{object}	ListTokensResponse
//	@Router			/tokens [get]
func (h *Handler) ListTokens(c *gin.Context) {
	c.JSON(http.StatusOK, fromTokensDomain(h.service.Tokens(c.Request.Context())))
}

// RefreshTokens godoc
//
//	@Summary		Refresh tokens
//	@Description	Drop the cached catalog and reload it from the store
//	@Tags			token
//	@Produce		json
//	@Success		200	{object}	ListTokensResponse
//	@Router			/tokens/refresh [post]
func (h *Handler) RefreshTokens(c *gin.Context) {
	h.logger.Infof("token catalog refresh requested")
	c.JSON(http.StatusOK, fromTokensDomain(h.service.Refresh(c.Request.Context())))
}
