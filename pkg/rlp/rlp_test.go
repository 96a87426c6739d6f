package rlp

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

const lorem = "Lorem ipsum dolor sit amet, consectetur adipisicing elit"

func TestEncodeString(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty", []byte{}, "80"},
		{"nil", nil, "80"},
		{"single low byte", []byte{0x0f}, "0f"},
		{"zero byte", []byte{0x00}, "00"},
		{"single high byte", []byte{0x80}, "8180"},
		{"dog", []byte("dog"), "83646f67"},
		{"56 bytes", []byte(lorem), "b838" + hex.EncodeToString([]byte(lorem))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeString(tt.input)
			if hex.EncodeToString(got) != tt.want {
				t.Errorf("EncodeString(%x) = %x, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeUint64(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "80"},
		{1, "01"},
		{15, "0f"},
		{127, "7f"},
		{128, "8180"},
		{0x400, "820400"},
		{21000, "825208"},
		{20_000_000_000, "8504a817c800"},
		{1<<64 - 1, "88ffffffffffffffff"},
	}
	for _, tt := range tests {
		got := EncodeUint64(tt.input)
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("EncodeUint64(%d) = %x, want %s", tt.input, got, tt.want)
		}
	}
}

func TestEncodeUint64_Canonical(t *testing.T) {
	if got := EncodeUint64(0); !bytes.Equal(got, EmptyString) {
		t.Errorf("zero must encode as the empty string, got %x", got)
	}
	if got := EncodeUint64(128); !bytes.Equal(got, []byte{0x81, 0x80}) {
		t.Errorf("128 must encode as 0x81 0x80, got %x", got)
	}
}

func TestAppendUint256(t *testing.T) {
	oneEther := uint256.NewInt(1_000_000_000_000_000_000)
	big, _ := uint256.FromHex("0x100000000000000000000000000000000")

	tests := []struct {
		name  string
		input *uint256.Int
		want  string
	}{
		{"nil", nil, "80"},
		{"zero", uint256.NewInt(0), "80"},
		{"small", uint256.NewInt(9), "09"},
		{"one ether", oneEther, "880de0b6b3a7640000"},
		{"2^128", big, "91" + "01" + strings.Repeat("00", 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendUint256(nil, tt.input)
			if hex.EncodeToString(got) != tt.want {
				t.Errorf("AppendUint256() = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeList(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want string
	}{
		{"empty list", EncodeList(), "c0"},
		{"cat dog", EncodeList(EncodeString([]byte("cat")), EncodeString([]byte("dog"))), "c88363617483646f67"},
		{
			"set theoretic three",
			EncodeList(EmptyList, EncodeList(EmptyList), EncodeList(EmptyList, EncodeList(EmptyList))),
			"c7c0c1c0c3c0c1c0",
		},
		{"long list", EncodeList(EncodeString([]byte(lorem))), "f83ab838" + hex.EncodeToString([]byte(lorem))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hex.EncodeToString(tt.got) != tt.want {
				t.Errorf("got %x, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	input := unhex(t, "c88363617483646f67"+"05")

	k, content, rest, err := Split(input)
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if k != List {
		t.Fatalf("kind = %v, want List", k)
	}
	if !bytes.Equal(rest, []byte{0x05}) {
		t.Errorf("rest = %x, want 05", rest)
	}

	cat, content, err := SplitString(content)
	if err != nil || string(cat) != "cat" {
		t.Fatalf("SplitString() = %q, %v", cat, err)
	}
	dog, content, err := SplitString(content)
	if err != nil || string(dog) != "dog" {
		t.Fatalf("SplitString() = %q, %v", dog, err)
	}
	if len(content) != 0 {
		t.Errorf("list should be fully consumed, %x left", content)
	}

	k, content, _, err = Split(rest)
	if err != nil || k != Byte || !bytes.Equal(content, []byte{0x05}) {
		t.Errorf("Split(05) = %v %x %v", k, content, err)
	}
}

func TestSplitUint64(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 255, 256, 21000, 1<<64 - 1} {
		got, rest, err := SplitUint64(EncodeUint64(v))
		if err != nil {
			t.Fatalf("SplitUint64(%d) error: %v", v, err)
		}
		if got != v || len(rest) != 0 {
			t.Errorf("SplitUint64(%d) = %d, rest %x", v, got, rest)
		}
	}
}

func TestSplitUint256(t *testing.T) {
	v, _ := uint256.FromHex("0xde0b6b3a7640000ffffffffffffffff")
	got, rest, err := SplitUint256(AppendUint256(nil, v))
	if err != nil {
		t.Fatalf("SplitUint256() error: %v", err)
	}
	if !got.Eq(v) || len(rest) != 0 {
		t.Errorf("SplitUint256() = %s, want %s", got.Hex(), v.Hex())
	}

	if _, _, err := SplitUint256(EncodeString(make([]byte, 33))); !errors.Is(err, ErrUintOverflow) {
		t.Errorf("33-byte integer error = %v, want ErrUintOverflow", err)
	}
}

func TestDecode_NonCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		split func([]byte) error
		want  error
	}{
		{"wrapped low byte", "8105", splitString, ErrCanonSize},
		{"long form for short string", "b803616263", splitString, ErrCanonSize},
		{"size with leading zero", "b90038" + strings.Repeat("00", 56), splitString, ErrCanonSize},
		{"long form for short list", "f803c0c0c0", splitList, ErrCanonSize},
		{"integer leading zero", "820001", splitUint, ErrCanonInt},
		{"integer zero byte", "00", splitUint, ErrCanonInt},
		{"integer too wide", "89010000000000000000", splitUint, ErrUintOverflow},
		{"truncated string", "836162", splitString, ErrValueTooLarge},
		{"truncated list", "c3c0", splitList, ErrValueTooLarge},
		{"truncated size", "b9", splitString, io.ErrUnexpectedEOF},
		{"empty input", "", splitString, io.ErrUnexpectedEOF},
		{"list as string", "c0", splitString, ErrExpectedString},
		{"string as list", "80", splitList, ErrExpectedList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.split(unhex(t, tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func splitString(b []byte) error { _, _, err := SplitString(b); return err }
func splitList(b []byte) error   { _, _, err := SplitList(b); return err }
func splitUint(b []byte) error   { _, _, err := SplitUint64(b); return err }

func TestCountValues(t *testing.T) {
	b := unhex(t, "0183646f67c0")
	n, err := CountValues(b)
	if err != nil {
		t.Fatalf("CountValues() error: %v", err)
	}
	if n != 3 {
		t.Errorf("CountValues() = %d, want 3", n)
	}

	if _, err := CountValues(unhex(t, "0183")); err == nil {
		t.Error("CountValues() should fail on truncated input")
	}
}
