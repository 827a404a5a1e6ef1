package domain

import "testing"

func TestParseNetwork(t *testing.T) {
	if n, ok := ParseNetwork("solana"); !ok || n != NetworkSolana {
		t.Errorf("expected Solana, got %q ok=%v", n, ok)
	}
	if _, ok := ParseNetwork("Polygon"); ok {
		t.Error("expected Polygon to be rejected")
	}
}

func TestReducedFallbackTokens(t *testing.T) {
	reduced := ReducedFallbackTokens()
	if len(reduced) != 3 {
		t.Fatalf("expected 3 reduced tokens, got %d", len(reduced))
	}
	full := FallbackTokens()
	if len(full) <= len(reduced) {
		t.Fatalf("reduced list should be a strict subset of %d tokens", len(full))
	}
	for _, tok := range reduced {
		if !tok.Network.Valid() {
			t.Errorf("%s has invalid network %q", tok.Symbol, tok.Network)
		}
	}
}

func TestFallbackTokens_SymbolNotUnique(t *testing.T) {
	seen := map[string][]Network{}
	for _, tok := range FallbackTokens() {
		seen[tok.Symbol] = append(seen[tok.Symbol], tok.Network)
	}
	if len(seen["USDT"]) != 2 {
		t.Errorf("expected USDT on two networks, got %v", seen["USDT"])
	}
}
