package tx

import (
	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a builder for a plain value transfer on chainID.
// The gas limit defaults to the intrinsic cost of a transfer.
func NewBuilder(chainID uint64) *Builder {
	return &Builder{
		tx: &Transaction{
			ChainID:  chainID,
			GasLimit: TxGas,
			GasPrice: new(uint256.Int),
			Value:    new(uint256.Int),
		},
	}
}

// SetNonce sets the sender account nonce.
func (b *Builder) SetNonce(nonce uint64) *Builder {
	b.tx.Nonce = nonce
	return b
}

// SetGasPrice sets the gas price in wei.
func (b *Builder) SetGasPrice(price *uint256.Int) *Builder {
	b.tx.GasPrice = new(uint256.Int).Set(price)
	return b
}

// SetGasLimit sets the gas limit.
func (b *Builder) SetGasLimit(limit uint64) *Builder {
	b.tx.GasLimit = limit
	return b
}

// SetTo sets the recipient.
func (b *Builder) SetTo(to types.Address) *Builder {
	b.tx.To = to
	return b
}

// SetValue sets the transferred amount in wei.
func (b *Builder) SetValue(value *uint256.Int) *Builder {
	b.tx.Value = new(uint256.Int).Set(value)
	return b
}

// SetData sets the call data and raises the gas limit to its intrinsic
// cost if the current limit is lower.
func (b *Builder) SetData(data []byte) *Builder {
	b.tx.Data = append([]byte(nil), data...)
	if floor := IntrinsicGas(data); b.tx.GasLimit < floor {
		b.tx.GasLimit = floor
	}
	return b
}

// Build validates and returns a copy of the transaction.
func (b *Builder) Build() (*Transaction, error) {
	if err := b.tx.Validate(); err != nil {
		return nil, err
	}
	return b.tx.Copy(), nil
}

// Sign builds the transaction and signs it with key.
func (b *Builder) Sign(key crypto.Signer) (*SignedTransaction, error) {
	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	return SignWith(t, key)
}
