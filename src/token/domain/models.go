package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Network string

const (
	NetworkBEP20  Network = "BEP20"
	NetworkSolana Network = "Solana"
	NetworkERC20  Network = "ERC20"
	NetworkBase   Network = "Base"
	NetworkTRC20  Network = "TRC20"
	NetworkBTC    Network = "BTC"
)

var Networks = []Network{NetworkBEP20, NetworkSolana, NetworkERC20, NetworkBase, NetworkTRC20, NetworkBTC}

func (n Network) Valid() bool {
	for _, known := range Networks {
		if n == known {
			return true
		}
	}
	return false
}

// ParseNetwork matches case-insensitively against the known networks.
func ParseNetwork(raw string) (Network, bool) {
	for _, known := range Networks {
		if strings.EqualFold(string(known), strings.TrimSpace(raw)) {
			return known, true
		}
	}
	return "", false
}

// Token is immutable once loaded. The same symbol may exist on several networks.
type Token struct {
	ID          string           `json:"id,omitempty"`
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Network     Network          `json:"network"`
	Address     string           `json:"address"`
	Decimals    int              `json:"decimals"`
	LogoURL     string           `json:"logo_url"`
	MinimumSwap *decimal.Decimal `json:"minimum_swap,omitempty"`
}

// Key identifies a token for matching: (symbol, network). Row ids are not used.
type Key struct {
	Symbol  string
	Network Network
}

func (t Token) Key() Key {
	return Key{Symbol: t.Symbol, Network: t.Network}
}

func (t Token) Is(symbol string, network Network) bool {
	return t.Symbol == symbol && t.Network == network
}
