package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/pricing/usecase"
	"github.com/gin-gonic/gin"
)

type fixedFeed map[string]float64

func (f fixedFeed) USDPrice(ctx context.Context, coinID string) (float64, error) {
	return f[coinID], nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := usecase.NewService(fixedFeed{"ethereum": 2500, "tether": 1}, nil, 30*time.Second, logger.Nop())
	r := gin.New()
	NewHandler(svc, logger.Nop()).RegisterRoutes(r)
	return r
}

func TestGetRate(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates?from=ETH&to=USDT", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp RateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Rate != 2500 {
		t.Errorf("expected 2500, got %v", resp.Rate)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates?from=ETH", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without to, got %d", w.Code)
	}
}

func TestSetPrice_RejectsNonPositive(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/prices/LUIGI", strings.NewReader(`{"usd":-1}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
