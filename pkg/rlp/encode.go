// Package rlp implements Ethereum's Recursive Length Prefix serialization.
//
// Encoding is append-style: every Append function writes the canonical
// encoding of one value to dst and returns the extended slice. Lists are
// built by encoding their items into a payload and wrapping it with
// AppendList.
package rlp

import (
	"math/bits"

	"github.com/holiman/uint256"
)

const (
	stringOffset = 0x80
	listOffset   = 0xc0
	// Payloads up to this length use the single-byte header form.
	shortLimit = 55
)

// EmptyString is the encoding of the empty byte string (and of integer zero).
var EmptyString = []byte{stringOffset}

// EmptyList is the encoding of the empty list.
var EmptyList = []byte{listOffset}

// AppendString appends the encoding of the byte string b.
// A single byte below 0x80 is its own encoding.
func AppendString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < stringOffset {
		return append(dst, b[0])
	}
	dst = appendHeader(dst, stringOffset, uint64(len(b)))
	return append(dst, b...)
}

// AppendUint64 appends the encoding of v as a minimal big-endian integer.
// Zero encodes as the empty string.
func AppendUint64(dst []byte, v uint64) []byte {
	switch {
	case v == 0:
		return append(dst, stringOffset)
	case v < stringOffset:
		return append(dst, byte(v))
	}
	n := byteLen(v)
	dst = append(dst, stringOffset+byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

// AppendUint256 appends the encoding of v. A nil value encodes as zero.
func AppendUint256(dst []byte, v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return append(dst, stringOffset)
	}
	if v.IsUint64() {
		return AppendUint64(dst, v.Uint64())
	}
	return AppendString(dst, v.Bytes())
}

// AppendList appends a list header for payload followed by payload itself.
// payload must be the concatenation of already encoded items.
func AppendList(dst, payload []byte) []byte {
	dst = appendHeader(dst, listOffset, uint64(len(payload)))
	return append(dst, payload...)
}

// EncodeString returns the encoding of b.
func EncodeString(b []byte) []byte {
	return AppendString(nil, b)
}

// EncodeUint64 returns the encoding of v.
func EncodeUint64(v uint64) []byte {
	return AppendUint64(nil, v)
}

// EncodeList wraps already encoded items into a list.
func EncodeList(items ...[]byte) []byte {
	var size int
	for _, it := range items {
		size += len(it)
	}
	payload := make([]byte, 0, size)
	for _, it := range items {
		payload = append(payload, it...)
	}
	return AppendList(make([]byte, 0, size+9), payload)
}

func appendHeader(dst []byte, offset byte, size uint64) []byte {
	if size <= shortLimit {
		return append(dst, offset+byte(size))
	}
	n := byteLen(size)
	dst = append(dst, offset+shortLimit+byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(size>>(8*uint(i))))
	}
	return dst
}

func byteLen(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}
