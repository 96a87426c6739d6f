package wallet

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Entropy sizes allowed by BIP-39, in bits.
const (
	MinEntropyBits = 128
	MaxEntropyBits = 256
)

// EntropySource supplies cryptographically secure random bytes.
// crypto/rand.Reader is the only source used outside tests.
type EntropySource interface {
	Read(p []byte) (n int, err error)
}

// NewEntropy returns bits/8 bytes from the operating system CSPRNG.
// bits must be a multiple of 32 in [128, 256].
func NewEntropy(bits int) ([]byte, error) {
	return NewEntropyFrom(rand.Reader, bits)
}

// NewEntropyFrom reads bits/8 bytes from src. A short read is an error.
func NewEntropyFrom(src EntropySource, bits int) ([]byte, error) {
	if err := CheckEntropyBits(bits); err != nil {
		return nil, err
	}
	entropy := make([]byte, bits/8)
	if _, err := io.ReadFull(src, entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return entropy, nil
}

// CheckEntropyBits reports whether bits is a valid BIP-39 entropy size.
func CheckEntropyBits(bits int) error {
	if bits < MinEntropyBits || bits > MaxEntropyBits || bits%32 != 0 {
		return fmt.Errorf("%w: %d bits, want a multiple of 32 in [%d, %d]",
			ErrInvalidEntropyLength, bits, MinEntropyBits, MaxEntropyBits)
	}
	return nil
}
