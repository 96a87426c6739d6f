// Package tx defines Ethereum legacy transactions and EIP-155 signing.
package tx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/rlp"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
)

// Transaction errors.
var (
	ErrEncoding         = errors.New("transaction encoding error")
	ErrSigning          = errors.New("transaction signing error")
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// Transaction is an unsigned legacy Ethereum transaction bound to a chain id.
// A nil GasPrice or Value encodes as zero.
type Transaction struct {
	Nonce    uint64
	GasPrice *uint256.Int
	GasLimit uint64
	To       types.Address
	Value    *uint256.Int
	Data     []byte
	ChainID  uint64
}

// NewTransaction builds a transaction from arbitrary-precision amounts.
// Negative, nil or over-256-bit amounts and a zero chain id are rejected
// with ErrEncoding.
func NewTransaction(nonce uint64, to types.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte, chainID uint64) (*Transaction, error) {
	v, err := toUint256("value", value)
	if err != nil {
		return nil, err
	}
	gp, err := toUint256("gas price", gasPrice)
	if err != nil {
		return nil, err
	}
	t := &Transaction{
		Nonce:    nonce,
		GasPrice: gp,
		GasLimit: gasLimit,
		To:       to,
		Value:    v,
		Data:     append([]byte(nil), data...),
		ChainID:  chainID,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func toUint256(field string, b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: %s is nil", ErrEncoding, field)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrEncoding, field)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds 256 bits", ErrEncoding, field)
	}
	return v, nil
}

// Copy returns a deep copy of the transaction.
func (t *Transaction) Copy() *Transaction {
	cpy := *t
	if t.GasPrice != nil {
		cpy.GasPrice = new(uint256.Int).Set(t.GasPrice)
	}
	if t.Value != nil {
		cpy.Value = new(uint256.Int).Set(t.Value)
	}
	cpy.Data = append([]byte(nil), t.Data...)
	return &cpy
}

// appendFields appends the six payload fields shared by the signing and the
// signed encodings.
func (t *Transaction) appendFields(buf []byte) []byte {
	buf = rlp.AppendUint64(buf, t.Nonce)
	buf = rlp.AppendUint256(buf, t.GasPrice)
	buf = rlp.AppendUint64(buf, t.GasLimit)
	buf = rlp.AppendString(buf, t.To[:])
	buf = rlp.AppendUint256(buf, t.Value)
	buf = rlp.AppendString(buf, t.Data)
	return buf
}

// SigningBytes returns the EIP-155 signing payload:
// RLP(nonce, gasPrice, gasLimit, to, value, data, chainId, 0, 0).
func (t *Transaction) SigningBytes() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	payload := t.appendFields(nil)
	payload = rlp.AppendUint64(payload, t.ChainID)
	payload = rlp.AppendUint64(payload, 0)
	payload = rlp.AppendUint64(payload, 0)
	return rlp.AppendList(nil, payload), nil
}

// SigHash returns the Keccak256 hash of the signing payload.
func (t *Transaction) SigHash() (types.Hash, error) {
	b, err := t.SigningBytes()
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}
