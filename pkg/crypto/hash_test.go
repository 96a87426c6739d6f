package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

func TestKeccak256(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		{
			name:  "abc",
			input: []byte("abc"),
			want:  "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keccak256(tt.input)
			if hex.EncodeToString(got) != tt.want {
				t.Errorf("Keccak256(%q) = %x, want %s", tt.input, got, tt.want)
			}
			h := Keccak256Hash(tt.input)
			if !bytes.Equal(h[:], got) {
				t.Errorf("Keccak256Hash = %x, want %x", h, got)
			}
		})
	}
}

func TestKeccak256_NotSHA3(t *testing.T) {
	// SHA3-256("") starts with a7ffc6f8; legacy Keccak must not.
	got := hex.EncodeToString(Keccak256(nil))
	if got[:8] == "a7ffc6f8" {
		t.Error("Keccak256 is using SHA3-256 padding")
	}
}

func TestKeccak256_MultipleInputs(t *testing.T) {
	joined := Keccak256([]byte("hello world"))
	parts := Keccak256([]byte("hello "), []byte("world"))
	if !bytes.Equal(joined, parts) {
		t.Error("Keccak256 over parts should equal Keccak256 over the concatenation")
	}
}

func TestHash160(t *testing.T) {
	// Compressed public key of private key 1.
	pub := mustHex(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	got := Hash160(pub)
	if hex.EncodeToString(got) != "751e76e8199196d454941c45d1b3a323f1433bd6" {
		t.Errorf("Hash160 = %x", got)
	}
}

func TestPubkeyToAddress(t *testing.T) {
	priv := make([]byte, 32)
	priv[31] = 1
	key, err := PrivateKeyFromBytes(priv)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}

	want := "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf"

	inputs := map[string][]byte{
		"compressed":   key.PublicKey(),
		"raw":          key.PublicKeyRaw(),
		"uncompressed": append([]byte{0x04}, key.PublicKeyRaw()...),
	}
	for name, pub := range inputs {
		t.Run(name, func(t *testing.T) {
			addr, err := PubkeyToAddress(pub)
			if err != nil {
				t.Fatalf("PubkeyToAddress() error: %v", err)
			}
			if addr.Hex() != want {
				t.Errorf("address = %s, want %s", addr.Hex(), want)
			}
		})
	}
}

func TestPubkeyToAddress_Invalid(t *testing.T) {
	tests := []struct {
		name string
		pub  []byte
	}{
		{"empty", nil},
		{"short", make([]byte, 20)},
		{"bad prefix", append([]byte{0x05}, bytes.Repeat([]byte{0x11}, 32)...)},
		{"off curve raw", bytes.Repeat([]byte{0x01}, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PubkeyToAddress(tt.pub); err == nil {
				t.Error("expected error for invalid public key")
			}
		})
	}
}
