package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_USDPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "ethereum" {
			t.Errorf("unexpected ids %q", got)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("unexpected vs_currencies %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept application/json, got %q", got)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethereum":{"usd":2512.5}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/api/v3/", WithAPIKey("demo"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	price, err := c.USDPrice(context.Background(), "ethereum")
	if err != nil {
		t.Fatalf("USDPrice: %v", err)
	}
	if price != 2512.5 {
		t.Errorf("expected 2512.5, got %v", price)
	}
}

func TestClient_USDPriceFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		isMiss bool
	}{
		{name: "non 2xx", status: http.StatusTooManyRequests, body: `{"status":{"error_code":429}}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
		{name: "missing coin", status: http.StatusOK, body: `{}`, isMiss: true},
		{name: "missing usd", status: http.StatusOK, body: `{"ethereum":{"eur":1}}`, isMiss: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, _ := NewClient(srv.URL)
			_, err := c.USDPrice(context.Background(), "ethereum")
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.isMiss != errors.Is(err, ErrPriceMissing) {
				t.Errorf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
