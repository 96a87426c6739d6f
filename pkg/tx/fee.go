package tx

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Intrinsic gas costs of a legacy value transfer.
const (
	TxGas            = 21000
	TxDataZeroGas    = 4
	TxDataNonZeroGas = 16
)

// IntrinsicGas returns the minimum gas a transaction carrying data consumes
// before any execution.
func IntrinsicGas(data []byte) uint64 {
	gas := uint64(TxGas)
	for _, b := range data {
		if b == 0 {
			gas += TxDataZeroGas
		} else {
			gas += TxDataNonZeroGas
		}
	}
	return gas
}

// MaxFee returns gasLimit * gasPrice, the most the sender can pay in fees.
func (t *Transaction) MaxFee() (*uint256.Int, error) {
	fee := new(uint256.Int)
	if t.GasPrice == nil {
		return fee, nil
	}
	if _, overflow := fee.MulOverflow(t.GasPrice, uint256.NewInt(t.GasLimit)); overflow {
		return nil, fmt.Errorf("%w: fee overflows 256 bits", ErrEncoding)
	}
	return fee, nil
}

// Cost returns value + gasLimit * gasPrice, the balance the sender needs.
func (t *Transaction) Cost() (*uint256.Int, error) {
	fee, err := t.MaxFee()
	if err != nil {
		return nil, err
	}
	if t.Value == nil {
		return fee, nil
	}
	if _, overflow := fee.AddOverflow(fee, t.Value); overflow {
		return nil, fmt.Errorf("%w: cost overflows 256 bits", ErrEncoding)
	}
	return fee, nil
}
