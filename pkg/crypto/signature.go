package crypto

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Sizes of the key and signature encodings.
const (
	PrivateKeySize             = 32
	CompressedPublicKeySize    = 33
	UncompressedPublicKeySize  = 65
	RawPublicKeySize           = 64
	RecoverableSignatureLength = 65
)

// Key errors.
var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature")
)

// Signer produces recoverable ECDSA signatures over 32-byte hashes.
type Signer interface {
	// SignRecoverable returns r(32) || s(32) || recovery_id(1).
	SignRecoverable(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
// The secret must be in [1, n-1]; it is never silently reduced mod n.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(b))
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: exceeds curve order", ErrInvalidPrivateKey)
	}
	if s.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	key := secp256k1.NewPrivateKey(&s)
	s.Zero()
	return &PrivateKey{key: key}, nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// PublicKeyRaw returns the 64-byte X||Y public key.
func (pk *PrivateKey) PublicKeyRaw() []byte {
	return pk.key.PubKey().SerializeUncompressed()[1:]
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// SignRecoverable signs a 32-byte hash with RFC6979 deterministic nonces.
// The signature is in canonical low-S form. Output: r || s || recovery_id.
func (pk *PrivateKey) SignRecoverable(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	compact := ecdsa.SignCompact(pk.key, hash, false)
	// compact = [27 + recid] || r || s
	sig := make([]byte, RecoverableSignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27
	return sig, nil
}

// RecoverPublicKey recovers the compressed public key that produced sig over hash.
// sig is r || s || recovery_id with recovery_id in {0, 1}.
func RecoverPublicKey(hash, sig []byte) ([]byte, error) {
	pub, err := recoverKey(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// RecoverAddress recovers the signer address of sig over hash.
func RecoverAddress(hash, sig []byte) (types.Address, error) {
	pub, err := recoverKey(hash, sig)
	if err != nil {
		return types.Address{}, err
	}
	return PubkeyToAddress(pub.SerializeUncompressed())
}

func recoverKey(hash, sig []byte) (*secp256k1.PublicKey, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	if len(sig) != RecoverableSignatureLength {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	if sig[64] > 1 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}
	compact := make([]byte, RecoverableSignatureLength)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])
	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return pub, nil
}

// VerifySignature checks an r || s (64 or 65 byte) signature against a hash
// and a public key. High-S signatures are rejected. Returns false on any error.
func VerifySignature(hash, sig, publicKey []byte) bool {
	if len(hash) != 32 || (len(sig) != 64 && len(sig) != RecoverableSignatureLength) {
		return false
	}
	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:64]) {
		return false
	}
	if r.IsZero() || s.IsZero() || s.IsOverHalfOrder() {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pub)
}

// CompressPublicKey converts any supported public key encoding to 33 bytes.
func CompressPublicKey(pub []byte) ([]byte, error) {
	key, err := parsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return key.SerializeCompressed(), nil
}

// UncompressedPublicKey converts any supported public key encoding to the
// 64-byte X||Y form.
func UncompressedPublicKey(pub []byte) ([]byte, error) {
	key, err := parsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return key.SerializeUncompressed()[1:], nil
}

func parsePublicKey(pub []byte) (*secp256k1.PublicKey, error) {
	if len(pub) == RawPublicKeySize {
		pub = append([]byte{0x04}, pub...)
	}
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return key, nil
}
