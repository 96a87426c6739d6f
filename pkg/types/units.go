package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Denomination exponents relative to wei.
const (
	WeiDecimals   = 0
	GweiDecimals  = 9
	EtherDecimals = 18
)

// ErrInvalidAmount is returned for amounts that are negative, have more
// fractional digits than wei allows, or overflow 256 bits.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnits converts a decimal string in a unit with the given number of
// decimals (18 for ether, 9 for gwei) to an amount in wei.
func ParseUnits(s string, decimals int32) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative", ErrInvalidAmount)
	}
	wei := d.Shift(decimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
	}
	v, overflow := uint256.FromBig(wei.BigInt())
	if overflow {
		return nil, fmt.Errorf("%w: exceeds 256 bits", ErrInvalidAmount)
	}
	return v, nil
}

// FormatUnits renders wei in a unit with the given number of decimals,
// without trailing zeros.
func FormatUnits(wei *uint256.Int, decimals int32) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei.ToBig(), -decimals).String()
}

// ParseEther converts an ether amount such as "0.01" to wei.
func ParseEther(s string) (*uint256.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// FormatEther renders wei as ether.
func FormatEther(wei *uint256.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// ParseGwei converts a gwei amount such as "20" or "1.5" to wei.
func ParseGwei(s string) (*uint256.Int, error) {
	return ParseUnits(s, GweiDecimals)
}

// FormatGwei renders wei as gwei.
func FormatGwei(wei *uint256.Int) string {
	return FormatUnits(wei, GweiDecimals)
}
