package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/pricing/domain"
	"github.com/MMN3003/bridgeswap/src/pricing/usecase"
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
	r.GET("/rates", h.GetRate)
	r.GET("/prices/:symbol", h.GetPrice)
	r.PUT("/prices/:symbol", h.SetPrice)
}

// GetRate godoc
//
//	@Summary		Exchange rate
//	@Description	Units of `to` bought by one unit of `from`
//	@Tags			pricing
//	@Produce		json
//	@Param			from	query		string	true	"source symbol"
//	@Param			to		query		string	true	"destination symbol"
//	@Success		200		{object}	RateResponse
//	@Failure		400		{object}	object{error=string}
//	@Router			/rates [get]
func (h *Handler) GetRate(c *gin.Context) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	rate := h.service.GetExchangeRate(c.Request.Context(), from, to)
	c.JSON(http.StatusOK, RateResponse{From: from, To: to, Rate: rate})
}

// GetPrice godoc
//
//	@Summary		USD price
//	@Tags			pricing
//	@Produce		json
//	@Param			symbol	path		string	true	"token symbol"
//	@Success		200		{object}	PriceResponse
//	@Router			/prices/{symbol} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	symbol := c.Param("symbol")
	c.JSON(http.StatusOK, PriceResponse{Symbol: symbol, USD: h.service.GetPrice(c.Request.Context(), symbol)})
}

// SetPrice godoc
//
//	@Summary		Set curated price
//	@Description	Override the USD price of a manually priced token
//	@Tags			pricing
//	@Accept			json
//	@Produce		json
//	@Param			symbol	path		string				true	"token symbol"
//	@Param			request	body		SetPriceRequestBody	true	"Request body"
//	@Success		200		{object}	PriceResponse
//	@Failure		400		{object}	object{error=string}
//	@Router			/prices/{symbol} [put]
func (h *Handler) SetPrice(c *gin.Context) {
	var req SetPriceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("SetPrice err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	symbol := c.Param("symbol")
	if err := h.service.SetCustomPrice(symbol, req.USD); err != nil {
		if errors.Is(err, domain.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorf("SetPrice err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, PriceResponse{Symbol: symbol, USD: req.USD})
}
