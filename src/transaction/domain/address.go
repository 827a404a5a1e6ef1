package domain

import (
	"fmt"
	"regexp"
	"strings"

	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

var (
	tronAddress    = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
	bitcoinAddress = regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,71}|[13][1-9A-HJ-NP-Za-km-z]{25,34})$`)
)

// AddressError is a validation failure on the receiving address.
type AddressError struct {
	Network tokenDomain.Network
	Message string
}

func (e *AddressError) Error() string { return e.Message }

// ValidateReceivingAddress checks addr against the destination network format.
func ValidateReceivingAddress(network tokenDomain.Network, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return &AddressError{Network: network, Message: "Please enter your receiving wallet address"}
	}
	var ok bool
	switch network {
	case tokenDomain.NetworkBEP20, tokenDomain.NetworkERC20, tokenDomain.NetworkBase:
		ok = strings.HasPrefix(addr, "0x") && common.IsHexAddress(addr)
	case tokenDomain.NetworkSolana:
		_, err := solana.PublicKeyFromBase58(addr)
		ok = err == nil
	case tokenDomain.NetworkTRC20:
		ok = tronAddress.MatchString(addr)
	case tokenDomain.NetworkBTC:
		ok = bitcoinAddress.MatchString(addr)
	}
	if !ok {
		return &AddressError{Network: network, Message: fmt.Sprintf("Invalid %s address format", network)}
	}
	return nil
}
