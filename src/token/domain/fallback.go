package domain

import "github.com/shopspring/decimal"

func minimum(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// FallbackTokens is the full offline catalog.
func FallbackTokens() []Token {
	return []Token{
		{Symbol: "LUIGI", Name: "Luigi Mangione", Network: NetworkSolana, Address: "0x123...", Decimals: 18, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/1.png", MinimumSwap: minimum("100000")},
		{Symbol: "USDT.z", Name: "USDT.z", Network: NetworkBEP20, Address: "0x456...", Decimals: 6, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/825.png", MinimumSwap: minimum("12000")},
		{Symbol: "TETRA", Name: "Tetra USD", Network: NetworkBEP20, Address: "0x789...", Decimals: 18, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/825.png"},
		{Symbol: "USDT", Name: "Tether USD (BEP20)", Network: NetworkBEP20, Address: "0xabc...", Decimals: 18, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/825.png"},
		{Symbol: "USDT", Name: "Tether USD (Solana)", Network: NetworkSolana, Address: "Es9v...", Decimals: 6, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/825.png"},
		{Symbol: "SOL", Name: "Solana", Network: NetworkSolana, Address: "So11...", Decimals: 9, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/5426.png"},
		{Symbol: "ETH", Name: "Ethereum", Network: NetworkERC20, Address: "0x000...", Decimals: 18, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/1027.png", MinimumSwap: minimum("0.05")},
		{Symbol: "BNB", Name: "BNB Token", Network: NetworkBEP20, Address: "0xdef...", Decimals: 18, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/1839.png"},
		{Symbol: "BTC", Name: "Bitcoin", Network: NetworkERC20, Address: "0x2260...", Decimals: 8, LogoURL: "https://s2.coinmarketcap.com/static/img/coins/64x64/1.png", MinimumSwap: minimum("0.025")},
	}
}

// ReducedFallbackTokens is what the store adapter serves when the tokens table is unreachable.
func ReducedFallbackTokens() []Token {
	keep := map[Key]bool{
		{Symbol: "LUIGI", Network: NetworkSolana}: true,
		{Symbol: "USDT.z", Network: NetworkBEP20}: true,
		{Symbol: "ETH", Network: NetworkERC20}:    true,
	}
	var out []Token
	for _, t := range FallbackTokens() {
		if keep[t.Key()] {
			out = append(out, t)
		}
	}
	return out
}
