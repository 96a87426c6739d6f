package tx

import (
	"fmt"
	"math"
)

// MaxChainID is the largest chain id whose EIP-155 v value still fits in a uint64.
const MaxChainID = (math.MaxUint64 - 36) / 2

// Validate checks that the transaction can be encoded and signed.
func (t *Transaction) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil transaction", ErrEncoding)
	}
	if t.ChainID == 0 {
		return fmt.Errorf("%w: chain id must be non-zero", ErrEncoding)
	}
	if t.ChainID > MaxChainID {
		return fmt.Errorf("%w: chain id %d overflows v", ErrEncoding, t.ChainID)
	}
	return nil
}
