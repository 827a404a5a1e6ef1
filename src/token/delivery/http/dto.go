package http

import "github.com/MMN3003/bridgeswap/src/token/domain"

// TokenResponse is one catalog entry
// swagger:model TokenResponse
type TokenResponse struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Network     string  `json:"network"`
	Address     string  `json:"address"`
	Decimals    int     `json:"decimals"`
	LogoURL     string  `json:"logo_url"`
	MinimumSwap *string `json:"minimum_swap,omitempty"`
}

// ListTokensResponse wraps the catalog
// swagger:model ListTokensResponse
type ListTokensResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

func FromTokenDomain(t domain.Token) TokenResponse {
	resp := TokenResponse{
		Symbol:   t.Symbol,
		Name:     t.Name,
		Network:  string(t.Network),
		Address:  t.Address,
		Decimals: t.Decimals,
		LogoURL:  t.LogoURL,
	}
	if t.MinimumSwap != nil {
		min := t.MinimumSwap.String()
		resp.MinimumSwap = &min
	}
	return resp
}

func fromTokensDomain(ts []domain.Token) ListTokensResponse {
	out := ListTokensResponse{Tokens: make([]TokenResponse, 0, len(ts))}
	for _, t := range ts {
		out.Tokens = append(out.Tokens, FromTokenDomain(t))
	}
	return out
}
