package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address parse errors.
var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrBadChecksum    = errors.New("address checksum mismatch")
)

// Address is a 20-byte Ethereum account address: the low-order 20 bytes of
// Keccak256 over the uncompressed public key.
type Address [AddressSize]byte

// BytesToAddress converts b to an address, keeping the last 20 bytes if b is
// longer and left-padding with zeros if it is shorter.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressSize {
		b = b[len(b)-AddressSize:]
	}
	copy(a[AddressSize-len(b):], b)
	return a
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex returns the canonical lower-case 0x-prefixed hex form.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Checksum returns the EIP-55 mixed-case form.
func (a Address) Checksum() string {
	lower := hex.EncodeToString(a[:])
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte(lower))
	hash := d.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}

// String returns the EIP-55 checksummed address.
func (a Address) String() string {
	return a.Checksum()
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a checksummed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Checksum())
}

// UnmarshalJSON decodes a hex address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a 40-hex-character address with or without a 0x prefix.
// All-lower-case and all-upper-case inputs carry no checksum and are accepted;
// mixed-case inputs must match their EIP-55 checksum.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	body := trimHexPrefix(s)
	if len(body) != 2*AddressSize {
		return Address{}, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidAddress, 2*AddressSize, len(body))
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	a := BytesToAddress(b)

	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if a.Checksum()[2:] != body {
			return Address{}, fmt.Errorf("%w: %s", ErrBadChecksum, s)
		}
	}
	return a, nil
}

// HexToAddress converts a hex string to an Address without checksum
// validation. For user input use ParseAddress.
func HexToAddress(s string) (Address, error) {
	body := trimHexPrefix(s)
	b, err := hex.DecodeString(body)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	return BytesToAddress(b), nil
}

// ToChecksumAddress re-cases any hex address string into its EIP-55 form.
// It is idempotent: feeding back its own output, in any casing, yields the
// same string.
func ToChecksumAddress(s string) (string, error) {
	a, err := HexToAddress(s)
	if err != nil {
		return "", err
	}
	return a.Checksum(), nil
}

// IsChecksumValid reports whether s is already in correct EIP-55 form.
func IsChecksumValid(s string) bool {
	a, err := HexToAddress(s)
	if err != nil {
		return false
	}
	return a.Checksum()[2:] == trimHexPrefix(s)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
