package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MMN3003/bridgeswap/src/logger"
	quoteHD "github.com/MMN3003/bridgeswap/src/quote/delivery/http"
	quoteDomain "github.com/MMN3003/bridgeswap/src/quote/domain"
	quoteUsecase "github.com/MMN3003/bridgeswap/src/quote/usecase"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
	"github.com/MMN3003/bridgeswap/src/transaction/usecase"
	"github.com/gin-gonic/gin"
)

// Handler binds usecase + logger
type Handler struct {
	service  *usecase.Service
	tracker  *usecase.Tracker
	quotes   *quoteUsecase.Service
	tokens   quoteHD.TokenLookup
	deposits domain.DepositBook
	logger   *logger.Logger
}

func NewHandler(
	s *usecase.Service,
	tracker *usecase.Tracker,
	quotes *quoteUsecase.Service,
	tokens quoteHD.TokenLookup,
	deposits domain.DepositBook,
	l *logger.Logger,
) *Handler {
	return &Handler{service: s, tracker: tracker, quotes: quotes, tokens: tokens, deposits: deposits, logger: l}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/transactions", h.CreateTransaction)
	r.GET("/transactions", h.ListTransactions)
	r.POST("/transactions/:id/confirm", h.ConfirmPayment)
	r.POST("/transactions/:id/process", h.StartProcessing)
	r.DELETE("/transactions/:id/process", h.CancelProcessing)
	r.GET("/transactions/:id/progress", h.GetProgress)
	r.POST("/transactions/:id/fail", h.FailTransaction)
	r.GET("/track/:trackerId", h.Track)
	r.GET("/deposit-address", h.GetDepositAddress)
}

// FormatCountdown renders seconds as m:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	var (
		verr *quoteDomain.ValidationError
		aerr *domain.AddressError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &aerr), errors.Is(err, quoteDomain.ErrNotQuotable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrPaymentWindowEnded), errors.Is(err, domain.ErrNotProcessing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTrackerIDTaken):
		h.logger.Errorf("%s err: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("%s err: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CreateTransaction godoc
//
//	@Summary		Accept a quote
//	@Description	Rebuilds the quote server-side and creates a transaction. The store is best effort.
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTransactionRequestBody	true	"Request body"
//	@Success		201		{object}	TransactionResponse
//	@Failure		400		{object}	object{error=string}
//	@Failure		500		{object}	object{error=string}
//	@Router			/transactions [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	ctx := c.Request.Context()
	var req CreateTransactionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("CreateTransaction err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	from, to, err := quoteHD.ResolvePair(ctx, h.tokens, req.FromSymbol, req.FromNetwork, req.ToSymbol, req.ToNetwork)
	if err != nil {
		h.writeError(c, "CreateTransaction", err)
		return
	}
	q, err := h.quotes.Build(ctx, from, to, req.Amount, req.Slippage)
	if err != nil {
		h.writeError(c, "CreateTransaction", err)
		return
	}
	tx, err := h.service.Accept(ctx, usecase.AcceptRequest{
		Quote:            q,
		ReceivingAddress: req.ReceivingAddress,
		OwnerAddress:     req.OwnerAddress,
		AwaitPayment:     req.AwaitPayment,
	})
	if err != nil {
		h.writeError(c, "CreateTransaction", err)
		return
	}
	c.JSON(http.StatusCreated, fromTransactionDomain(tx))
}

// ListTransactions godoc
//
//	@Summary		Transaction history
//	@Description	Newest first. Served from memory when the store is down.
//	@Tags			transaction
//	@Produce		json
//	@Param			owner	query		string	false	"owner address"
//	@Success		200		{object}	ListTransactionsResponse
//	@Router			/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	txs := h.service.Transactions(c.Request.Context(), strings.TrimSpace(c.Query("owner")))
	resp := ListTransactionsResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for i := range txs {
		resp.Transactions = append(resp.Transactions, fromTransactionDomain(&txs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPayment godoc
//
//	@Summary		Confirm payment
//	@Tags			transaction
//	@Produce		json
//	@Param			id	path		string	true	"transaction id"
//	@Success		200	{object}	TransactionResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Router			/transactions/{id}/confirm [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	tx, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "ConfirmPayment", err)
		return
	}
	c.JSON(http.StatusOK, fromTransactionDomain(tx))
}

// StartProcessing godoc
//
//	@Summary		Start processing
//	@Description	Starts, or restarts from step one, the simulated settlement sequence
//	@Tags			transaction
//	@Produce		json
//	@Param			id	path		string	true	"transaction id"
//	@Success		202	{object}	TransactionResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Router			/transactions/{id}/process [post]
func (h *Handler) StartProcessing(c *gin.Context) {
	tx, err := h.service.StartProcessing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "StartProcessing", err)
		return
	}
	c.JSON(http.StatusAccepted, fromTransactionDomain(tx))
}

// CancelProcessing godoc
//
//	@Summary		Cancel processing
//	@Description	Releases the run's timers. The status is left as is.
//	@Tags			transaction
//	@Param			id	path	string	true	"transaction id"
//	@Success		204
//	@Failure		404	{object}	object{error=string}
//	@Router			/transactions/{id}/process [delete]
func (h *Handler) CancelProcessing(c *gin.Context) {
	if !h.service.CancelProcessing(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotProcessing.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProgress godoc
//
//	@Summary		Processing progress
//	@Tags			transaction
//	@Produce		json
//	@Param			id	path		string	true	"transaction id"
//	@Success		200	{object}	ProgressResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		409	{object}	object{error=string}
//	@Router			/transactions/{id}/progress [get]
func (h *Handler) GetProgress(c *gin.Context) {
	p, err := h.service.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "GetProgress", err)
		return
	}
	c.JSON(http.StatusOK, fromProgressDomain(p))
}

// FailTransaction godoc
//
//	@Summary		Fail transaction
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"transaction id"
//	@Param			request	body		FailTransactionRequestBody	false	"Request body"
//	@Success		200		{object}	TransactionResponse
//	@Failure		409		{object}	object{error=string}
//	@Router			/transactions/{id}/fail [post]
func (h *Handler) FailTransaction(c *gin.Context) {
	var req FailTransactionRequestBody
	_ = c.ShouldBindJSON(&req)
	tx, err := h.service.Fail(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.writeError(c, "FailTransaction", err)
		return
	}
	c.JSON(http.StatusOK, fromTransactionDomain(tx))
}

// Track godoc
//
//	@Summary		Track a transaction
//	@Description	Case-insensitive tracker id lookup, memory first then store
//	@Tags			transaction
//	@Produce		json
//	@Param			trackerId	path		string	true	"tracker id (TXN-XXXXXX)"
//	@Success		200			{object}	TrackResponse
//	@Failure		404			{object}	TrackResponse
//	@Router			/track/{trackerId} [get]
func (h *Handler) Track(c *gin.Context) {
	res := h.tracker.Lookup(c.Request.Context(), c.Param("trackerId"))
	resp := TrackResponse{State: res.State.String()}
	if res.State != usecase.Found {
		c.JSON(http.StatusNotFound, resp)
		return
	}
	tx := fromTransactionDomain(res.Transaction)
	resp.Transaction = &tx
	c.JSON(http.StatusOK, resp)
}

// GetDepositAddress godoc
//
//	@Summary		Deposit address
//	@Tags			transaction
//	@Produce		json
//	@Param			symbol	query		string	true	"token symbol"
//	@Param			network	query		string	true	"token network"
//	@Success		200		{object}	DepositAddressResponse
//	@Failure		400		{object}	object{error=string}
//	@Router			/deposit-address [get]
func (h *Handler) GetDepositAddress(c *gin.Context) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	network := strings.TrimSpace(c.Query("network"))
	if symbol == "" || network == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and network are required"})
		return
	}
	// unknown networks are allowed; they resolve to the ERC20 address
	n := tokenDomain.Network(network)
	if parsed, ok := tokenDomain.ParseNetwork(network); ok {
		n = parsed
	}
	c.JSON(http.StatusOK, DepositAddressResponse{
		Symbol:  symbol,
		Network: string(n),
		Address: h.deposits.Derive(symbol, n),
	})
}
