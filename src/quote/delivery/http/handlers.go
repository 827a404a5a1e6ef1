package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/quote/domain"
	"github.com/MMN3003/bridgeswap/src/quote/usecase"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/gin-gonic/gin"
)

// TokenLookup resolves (symbol, network) against the catalog.
type TokenLookup interface {
	Find(ctx context.Context, symbol string, network tokenDomain.Network) (*tokenDomain.Token, bool)
}

// Handler binds usecase + logger
type Handler struct {
	service *usecase.Service
	tokens  TokenLookup
	logger  *logger.Logger
}

func NewHandler(s *usecase.Service, tokens TokenLookup, l *logger.Logger) *Handler {
	return &Handler{service: s, tokens: tokens, logger: l}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/quotes", h.CreateQuote)
}

// ResolvePair looks up both sides of a quote request.
func ResolvePair(ctx context.Context, tokens TokenLookup, fromSymbol, fromNetwork, toSymbol, toNetwork string) (*tokenDomain.Token, *tokenDomain.Token, error) {
	resolve := func(symbol, network string) (*tokenDomain.Token, error) {
		n, ok := tokenDomain.ParseNetwork(network)
		if !ok {
			return nil, &domain.ValidationError{Field: "network", Message: "unknown network " + network}
		}
		t, ok := tokens.Find(ctx, symbol, n)
		if !ok {
			return nil, &domain.ValidationError{Field: "token", Message: "unknown token " + symbol + " on " + network}
		}
		return t, nil
	}
	from, err := resolve(fromSymbol, fromNetwork)
	if err != nil {
		return nil, nil, err
	}
	to, err := resolve(toSymbol, toNetwork)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// CreateQuote godoc
//
//	@Summary		Create quote
//	@Description	Price a swap. The quote is not stored.
//	@Tags			quote
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateQuoteRequestBody	true	"Request body"
//	@Success		200		{object}	QuoteResponse
//	@Failure		400		{object}	object{error=string}
//	@Router			/quotes [post]
func (h *Handler) CreateQuote(c *gin.Context) {
	ctx := c.Request.Context()
	var req CreateQuoteRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("CreateQuote err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	from, to, err := ResolvePair(ctx, h.tokens, req.FromSymbol, req.FromNetwork, req.ToSymbol, req.ToNetwork)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.service.Build(ctx, from, to, req.Amount, req.Slippage)
	if err == nil && req.Flip {
		q, err = h.service.Flip(ctx, q)
	}
	if err != nil {
		var verr *domain.ValidationError
		if errors.Is(err, domain.ErrNotQuotable) || errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorf("CreateQuote err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, fromQuoteDomain(q, h.service.Validate(q)))
}
