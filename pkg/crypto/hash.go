// Package crypto provides the hashing and secp256k1 primitives used by the wallet.
package crypto

import (
	"crypto/sha256"

	"github.com/Klingon-tech/ethwallet/pkg/types"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // BIP32 fingerprints are defined over RIPEMD-160.
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy Keccak-256 digest of the concatenated inputs.
// This is the pre-standard padding used by Ethereum, not SHA3-256.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash is Keccak256 returning a fixed-size hash.
func Keccak256Hash(data ...[]byte) (h types.Hash) {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.Sum(h[:0])
	return h
}

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sum[:])
	return r.Sum(nil)
}

// PubkeyToAddress derives an Ethereum address from a secp256k1 public key.
// Accepts 33-byte compressed, 65-byte uncompressed or 64-byte raw X||Y keys.
// Address = Keccak256(X||Y)[12:].
func PubkeyToAddress(pub []byte) (types.Address, error) {
	raw, err := UncompressedPublicKey(pub)
	if err != nil {
		return types.Address{}, err
	}
	h := Keccak256(raw)
	var addr types.Address
	copy(addr[:], h[12:])
	return addr, nil
}
