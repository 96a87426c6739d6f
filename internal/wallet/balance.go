package wallet

import (
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
)

// Balance is an account balance as reported by a node.
type Balance struct {
	Address types.Address
	Wei     *uint256.Int
}

// Ether renders the balance in ether.
func (b Balance) Ether() string {
	return types.FormatEther(b.Wei)
}

// Covers reports whether the balance can pay cost.
func (b Balance) Covers(cost *uint256.Int) bool {
	if b.Wei == nil {
		return cost == nil || cost.IsZero()
	}
	return cost == nil || b.Wei.Cmp(cost) >= 0
}
