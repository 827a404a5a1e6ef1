package domain

import (
	"strings"

	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
)

// DepositBook is a static network-keyed address table. It is not a
// key-management scheme; every transaction on a network shares one address.
type DepositBook struct {
	addresses map[tokenDomain.Network]string
}

// placeholders used when an address is not configured
var defaultDepositAddresses = map[tokenDomain.Network]string{
	tokenDomain.NetworkSolana: "DEPOSIT-SOLANA-UNCONFIGURED",
	tokenDomain.NetworkBEP20:  "DEPOSIT-EVM-UNCONFIGURED",
	tokenDomain.NetworkERC20:  "DEPOSIT-EVM-UNCONFIGURED",
	tokenDomain.NetworkBase:   "DEPOSIT-EVM-UNCONFIGURED",
	tokenDomain.NetworkTRC20:  "DEPOSIT-TRC20-UNCONFIGURED",
	tokenDomain.NetworkBTC:    "DEPOSIT-BTC-UNCONFIGURED",
}

// NewDepositBook builds the table from network name -> address. Unknown keys
// are ignored and blank values keep the placeholder. Operators must set
// DEPOSIT_ADDRESS_<NETWORK> for every network they accept: an unset network
// serves its DEPOSIT-*-UNCONFIGURED placeholder, which is not a real address.
func NewDepositBook(configured map[string]string) DepositBook {
	addrs := make(map[tokenDomain.Network]string, len(defaultDepositAddresses))
	for n, a := range defaultDepositAddresses {
		addrs[n] = a
	}
	for raw, addr := range configured {
		n, ok := tokenDomain.ParseNetwork(raw)
		if !ok || strings.TrimSpace(addr) == "" {
			continue
		}
		addrs[n] = strings.TrimSpace(addr)
	}
	return DepositBook{addresses: addrs}
}

// Derive is a pure function of (symbol, network). BTC always maps to the BTC
// address, USDT on TRC20 to the TRC20 address, anything else to its network
// or ERC20 when the network has no entry.
func (b DepositBook) Derive(symbol string, network tokenDomain.Network) string {
	if symbol == "BTC" {
		return b.addresses[tokenDomain.NetworkBTC]
	}
	if symbol == "USDT" && network == tokenDomain.NetworkTRC20 {
		return b.addresses[tokenDomain.NetworkTRC20]
	}
	if addr, ok := b.addresses[network]; ok {
		return addr
	}
	return b.addresses[tokenDomain.NetworkERC20]
}

func (b DepositBook) For(t tokenDomain.Token) string {
	return b.Derive(t.Symbol, t.Network)
}
