package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/rlp"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
)

// SignedTransaction is a transaction with its EIP-155 signature.
// It is immutable; accessors return copies.
type SignedTransaction struct {
	tx *Transaction
	v  uint64
	r  [32]byte
	s  [32]byte
}

// Sign signs t with a raw 32-byte private key.
func Sign(t *Transaction, privateKey []byte) (*SignedTransaction, error) {
	key, err := crypto.PrivateKeyFromBytes(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}
	defer key.Zero()
	return SignWith(t, key)
}

// SignWith signs t with the given signer. The signature uses RFC6979
// deterministic nonces and low-S form; v = recovery_id + chainId*2 + 35.
func SignWith(t *Transaction, signer crypto.Signer) (*SignedTransaction, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: nil signer", ErrSigning)
	}
	hash, err := t.SigHash()
	if err != nil {
		return nil, err
	}
	sig, err := signer.SignRecoverable(hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}
	if len(sig) != crypto.RecoverableSignatureLength || sig[64] > 1 {
		return nil, fmt.Errorf("%w: malformed signature", ErrSigning)
	}

	stx := &SignedTransaction{
		tx: t.Copy(),
		v:  uint64(sig[64]) + t.ChainID*2 + 35,
	}
	copy(stx.r[:], sig[:32])
	copy(stx.s[:], sig[32:64])
	return stx, nil
}

// Transaction returns a copy of the unsigned transaction.
func (s *SignedTransaction) Transaction() *Transaction { return s.tx.Copy() }

// ChainID returns the chain id the transaction is bound to.
func (s *SignedTransaction) ChainID() uint64 { return s.tx.ChainID }

// V returns the EIP-155 v value.
func (s *SignedTransaction) V() uint64 { return s.v }

// R returns the signature r value as 32 big-endian bytes.
func (s *SignedTransaction) R() [32]byte { return s.r }

// S returns the signature s value as 32 big-endian bytes.
func (s *SignedTransaction) S() [32]byte { return s.s }

// RecoveryID returns the secp256k1 recovery id encoded in v.
func (s *SignedTransaction) RecoveryID() byte {
	return byte(s.v - (s.tx.ChainID*2 + 35))
}

// Encode returns the network payload:
// RLP(nonce, gasPrice, gasLimit, to, value, data, v, r, s).
func (s *SignedTransaction) Encode() []byte {
	payload := s.tx.appendFields(nil)
	payload = rlp.AppendUint64(payload, s.v)
	payload = rlp.AppendUint256(payload, new(uint256.Int).SetBytes32(s.r[:]))
	payload = rlp.AppendUint256(payload, new(uint256.Int).SetBytes32(s.s[:]))
	return rlp.AppendList(nil, payload)
}

// RawHex returns the 0x-prefixed hex payload accepted by eth_sendRawTransaction.
func (s *SignedTransaction) RawHex() string {
	return "0x" + hex.EncodeToString(s.Encode())
}

// Hash returns the transaction hash, Keccak256 of the signed encoding.
func (s *SignedTransaction) Hash() types.Hash {
	return crypto.Keccak256Hash(s.Encode())
}

// Sender recovers the address that signed the transaction.
func (s *SignedTransaction) Sender() (types.Address, error) {
	hash, err := s.tx.SigHash()
	if err != nil {
		return types.Address{}, err
	}
	addr, err := crypto.RecoverAddress(hash[:], s.signature())
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return addr, nil
}

// SenderPublicKey recovers the compressed public key that signed the transaction.
func (s *SignedTransaction) SenderPublicKey() ([]byte, error) {
	hash, err := s.tx.SigHash()
	if err != nil {
		return nil, err
	}
	pub, err := crypto.RecoverPublicKey(hash[:], s.signature())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return pub, nil
}

func (s *SignedTransaction) signature() []byte {
	sig := make([]byte, crypto.RecoverableSignatureLength)
	copy(sig, s.r[:])
	copy(sig[32:], s.s[:])
	sig[64] = s.RecoveryID()
	return sig
}

// ChainIDFromV extracts the chain id from an EIP-155 v value.
// Pre-EIP-155 values (27, 28) carry no chain id and are rejected.
func ChainIDFromV(v uint64) (uint64, error) {
	if v < 35 {
		return 0, fmt.Errorf("%w: v %d is not EIP-155 protected", ErrInvalidSignature, v)
	}
	return (v - 35) / 2, nil
}

// DecodeHex decodes a 0x-prefixed (or bare) hex payload.
func DecodeHex(s string) (*SignedTransaction, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return Decode(b)
}

// Decode parses a signed EIP-155 legacy transaction. Non-canonical RLP,
// trailing bytes, contract creations and unprotected or high-S signatures
// are rejected.
func Decode(raw []byte) (*SignedTransaction, error) {
	payload, rest, err := rlp.SplitList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, rlp.ErrTrailingData)
	}

	var (
		t    Transaction
		to   []byte
		v    uint64
		r, s *uint256.Int
	)
	fields := []struct {
		name   string
		decode func(b []byte) ([]byte, error)
	}{
		{"nonce", func(b []byte) (rest []byte, err error) { t.Nonce, rest, err = rlp.SplitUint64(b); return }},
		{"gas price", func(b []byte) (rest []byte, err error) { t.GasPrice, rest, err = rlp.SplitUint256(b); return }},
		{"gas limit", func(b []byte) (rest []byte, err error) { t.GasLimit, rest, err = rlp.SplitUint64(b); return }},
		{"to", func(b []byte) (rest []byte, err error) { to, rest, err = rlp.SplitString(b); return }},
		{"value", func(b []byte) (rest []byte, err error) { t.Value, rest, err = rlp.SplitUint256(b); return }},
		{"data", func(b []byte) (rest []byte, err error) { t.Data, rest, err = rlp.SplitString(b); return }},
		{"v", func(b []byte) (rest []byte, err error) { v, rest, err = rlp.SplitUint64(b); return }},
		{"r", func(b []byte) (rest []byte, err error) { r, rest, err = rlp.SplitUint256(b); return }},
		{"s", func(b []byte) (rest []byte, err error) { s, rest, err = rlp.SplitUint256(b); return }},
	}
	for _, f := range fields {
		if payload, err = f.decode(payload); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEncoding, f.name, err)
		}
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: too many list elements", ErrEncoding)
	}
	if len(to) != types.AddressSize {
		return nil, fmt.Errorf("%w: recipient must be %d bytes, got %d", ErrEncoding, types.AddressSize, len(to))
	}
	t.To = types.BytesToAddress(to)
	t.Data = append([]byte(nil), t.Data...)

	if t.ChainID, err = ChainIDFromV(v); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	stx := &SignedTransaction{tx: &t, v: v, r: r.Bytes32(), s: s.Bytes32()}
	if err := checkSignatureValues(stx.r, stx.s); err != nil {
		return nil, err
	}
	return stx, nil
}

func checkSignatureValues(r, s [32]byte) error {
	var rs, ss secp256k1.ModNScalar
	if rs.SetBytes(&r) != 0 || ss.SetBytes(&s) != 0 {
		return fmt.Errorf("%w: r or s not below curve order", ErrInvalidSignature)
	}
	if rs.IsZero() || ss.IsZero() {
		return fmt.Errorf("%w: zero r or s", ErrInvalidSignature)
	}
	if ss.IsOverHalfOrder() {
		return fmt.Errorf("%w: high s", ErrInvalidSignature)
	}
	return nil
}

type signedJSON struct {
	Hash     types.Hash    `json:"hash"`
	Nonce    string        `json:"nonce"`
	GasPrice string        `json:"gasPrice"`
	Gas      string        `json:"gas"`
	To       types.Address `json:"to"`
	Value    string        `json:"value"`
	Input    string        `json:"input"`
	ChainID  string        `json:"chainId"`
	V        string        `json:"v"`
	R        string        `json:"r"`
	S        string        `json:"s"`
}

// MarshalJSON renders the transaction with hex quantities, in the shape
// returned by eth_getTransactionByHash.
func (s *SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedJSON{
		Hash:     s.Hash(),
		Nonce:    hexUint(s.tx.Nonce),
		GasPrice: hexUint256(s.tx.GasPrice),
		Gas:      hexUint(s.tx.GasLimit),
		To:       s.tx.To,
		Value:    hexUint256(s.tx.Value),
		Input:    "0x" + hex.EncodeToString(s.tx.Data),
		ChainID:  hexUint(s.tx.ChainID),
		V:        hexUint(s.v),
		R:        new(uint256.Int).SetBytes32(s.r[:]).Hex(),
		S:        new(uint256.Int).SetBytes32(s.s[:]).Hex(),
	})
}

func hexUint(v uint64) string { return fmt.Sprintf("0x%x", v) }

func hexUint256(v *uint256.Int) string {
	if v == nil {
		return "0x0"
	}
	return v.Hex()
}
