package rpcclient

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
)

// Block tags accepted by state queries.
const (
	BlockLatest  = "latest"
	BlockPending = "pending"
)

// Balance returns the wei balance of addr at the latest block.
func (c *Client) Balance(ctx context.Context, addr types.Address) (*uint256.Int, error) {
	var s string
	if err := c.Call(ctx, "eth_getBalance", []interface{}{addr.Hex(), BlockLatest}, &s); err != nil {
		return nil, err
	}
	return parseQuantity(s)
}

// Nonce returns the next nonce for addr, counting pending transactions.
func (c *Client) Nonce(ctx context.Context, addr types.Address) (uint64, error) {
	var s string
	if err := c.Call(ctx, "eth_getTransactionCount", []interface{}{addr.Hex(), BlockPending}, &s); err != nil {
		return 0, err
	}
	return parseQuantityUint64(s)
}

// GasPrice returns the node's suggested legacy gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*uint256.Int, error) {
	var s string
	if err := c.Call(ctx, "eth_gasPrice", nil, &s); err != nil {
		return nil, err
	}
	return parseQuantity(s)
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var s string
	if err := c.Call(ctx, "eth_chainId", nil, &s); err != nil {
		return 0, err
	}
	return parseQuantityUint64(s)
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, rawHex string) (types.Hash, error) {
	if !strings.HasPrefix(rawHex, "0x") {
		rawHex = "0x" + rawHex
	}
	var s string
	if err := c.Call(ctx, "eth_sendRawTransaction", []interface{}{rawHex}, &s); err != nil {
		return types.Hash{}, err
	}
	h, err := types.HexToHash(s)
	if err != nil {
		return types.Hash{}, fmt.Errorf("decode tx hash: %w", err)
	}
	return h, nil
}

// parseQuantity decodes a 0x-prefixed hex quantity. Leading zeros are
// tolerated since not every node emits canonical quantities.
func parseQuantity(s string) (*uint256.Int, error) {
	digits, err := quantityDigits(s)
	if err != nil {
		return nil, err
	}
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid quantity %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("quantity %q exceeds 256 bits", s)
	}
	return v, nil
}

func parseQuantityUint64(s string) (uint64, error) {
	digits, err := quantityDigits(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return v, nil
}

func quantityDigits(s string) (string, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("quantity %q missing 0x prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		return "", fmt.Errorf("empty quantity %q", s)
	}
	for _, c := range digits {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return "", fmt.Errorf("invalid quantity %q", s)
		}
	}
	return digits, nil
}
