package rlp

import (
	"errors"
	"io"

	"github.com/holiman/uint256"
)

// Kind is the type of an encoded value.
type Kind int

// Value kinds.
const (
	Byte Kind = iota
	String
	List
)

func (k Kind) String() string {
	switch k {
	case Byte:
		return "Byte"
	case String:
		return "String"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// Decoding errors. The decoder accepts only canonical encodings.
var (
	ErrExpectedString = errors.New("rlp: expected string or byte")
	ErrExpectedList   = errors.New("rlp: expected list")
	ErrCanonSize      = errors.New("rlp: non-canonical size information")
	ErrCanonInt       = errors.New("rlp: non-canonical integer (leading zero bytes)")
	ErrUintOverflow   = errors.New("rlp: uint overflow")
	ErrValueTooLarge  = errors.New("rlp: value size exceeds available input length")
	ErrTrailingData   = errors.New("rlp: trailing data after value")
)

// Split returns the kind and content of the first value in b and the bytes
// following it. For a Byte value, content is the byte itself.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	k, tagsize, size, err := readKind(b)
	if err != nil {
		return 0, nil, b, err
	}
	end := tagsize + size
	return k, b[tagsize:end], b[end:], nil
}

// SplitString splits off a string or single byte from b.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k == List {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList splits off a list from b, returning the list payload.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != List {
		return nil, b, ErrExpectedList
	}
	return content, rest, nil
}

// SplitUint64 decodes an integer of at most 64 bits from the front of b.
func SplitUint64(b []byte) (x uint64, rest []byte, err error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return 0, b, err
	}
	switch {
	case len(content) > 8:
		return 0, b, ErrUintOverflow
	case len(content) > 0 && content[0] == 0:
		return 0, b, ErrCanonInt
	}
	for _, c := range content {
		x = x<<8 | uint64(c)
	}
	return x, rest, nil
}

// SplitUint256 decodes an integer of at most 256 bits from the front of b.
func SplitUint256(b []byte) (*uint256.Int, []byte, error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return nil, b, err
	}
	switch {
	case len(content) > 32:
		return nil, b, ErrUintOverflow
	case len(content) > 0 && content[0] == 0:
		return nil, b, ErrCanonInt
	}
	return new(uint256.Int).SetBytes(content), rest, nil
}

// CountValues counts the encoded values in b.
func CountValues(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		_, tagsize, size, err := readKind(b)
		if err != nil {
			return 0, err
		}
		b = b[tagsize+size:]
		n++
	}
	return n, nil
}

func readKind(buf []byte) (k Kind, tagsize, contentsize uint64, err error) {
	if len(buf) == 0 {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	b := buf[0]
	switch {
	case b < stringOffset:
		k, tagsize, contentsize = Byte, 0, 1
	case b < stringOffset+shortLimit+1:
		k, tagsize, contentsize = String, 1, uint64(b-stringOffset)
		// A single byte below 0x80 must be encoded as itself.
		if contentsize == 1 && len(buf) > 1 && buf[1] < stringOffset {
			return 0, 0, 0, ErrCanonSize
		}
	case b < listOffset:
		k, tagsize = String, 1+uint64(b-stringOffset-shortLimit)
		contentsize, err = readSize(buf[1:], b-stringOffset-shortLimit)
	case b < listOffset+shortLimit+1:
		k, tagsize, contentsize = List, 1, uint64(b-listOffset)
	default:
		k, tagsize = List, 1+uint64(b-listOffset-shortLimit)
		contentsize, err = readSize(buf[1:], b-listOffset-shortLimit)
	}
	if err != nil {
		return 0, 0, 0, err
	}
	if contentsize > uint64(len(buf))-tagsize {
		return 0, 0, 0, ErrValueTooLarge
	}
	return k, tagsize, contentsize, nil
}

func readSize(b []byte, slen byte) (uint64, error) {
	if int(slen) > len(b) {
		return 0, io.ErrUnexpectedEOF
	}
	if b[0] == 0 {
		return 0, ErrCanonSize
	}
	var s uint64
	for _, c := range b[:slen] {
		s = s<<8 | uint64(c)
	}
	// Sizes that fit the short form must use it.
	if s <= shortLimit {
		return 0, ErrCanonSize
	}
	return s, nil
}
