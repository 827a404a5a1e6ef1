package domain

import "testing"

func TestFallbackPrice_AlwaysPositive(t *testing.T) {
	for symbol := range fallbackPrices {
		if FallbackPrice(symbol) <= 0 {
			t.Errorf("fallback for %s must be positive", symbol)
		}
	}
	if FallbackPrice("UNKNOWN") != DefaultFallbackPrice {
		t.Errorf("unknown symbol should fall back to %v", DefaultFallbackPrice)
	}
}

func TestFeedID(t *testing.T) {
	if id, ok := FeedID("USDT.z"); !ok || id != "tether" {
		t.Errorf("USDT.z -> %q, %v", id, ok)
	}
	if _, ok := FeedID(ManualSymbol); ok {
		t.Error("manually priced symbol must not map to the feed")
	}
}
