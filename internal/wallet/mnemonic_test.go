package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

var mnemonicVectors = []struct {
	entropy  string
	mnemonic string
}{
	{
		"00000000000000000000000000000000",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
	},
	{
		"7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f",
		"legal winner thank year wave sausage worth useful legal winner thank yellow",
	},
	{
		"80808080808080808080808080808080",
		"letter advice cage absurd amount doctor acoustic avoid letter advice cage above",
	},
	{
		"ffffffffffffffffffffffffffffffff",
		"zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong",
	},
	{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
	},
}

func TestEncodeMnemonic_Vectors(t *testing.T) {
	for _, v := range mnemonicVectors {
		entropy, _ := hex.DecodeString(v.entropy)
		m, err := EncodeMnemonic(entropy, nil)
		if err != nil {
			t.Fatalf("EncodeMnemonic(%s) error: %v", v.entropy, err)
		}
		if m.String() != v.mnemonic {
			t.Errorf("EncodeMnemonic(%s) = %q, want %q", v.entropy, m, v.mnemonic)
		}

		got, err := DecodeMnemonic(ParseMnemonic(v.mnemonic), nil)
		if err != nil {
			t.Fatalf("DecodeMnemonic(%q) error: %v", v.mnemonic, err)
		}
		if !bytes.Equal(got, entropy) {
			t.Errorf("DecodeMnemonic() = %x, want %s", got, v.entropy)
		}
	}
}

func TestMnemonic_RoundTrip(t *testing.T) {
	for _, bits := range []int{128, 160, 192, 224, 256} {
		for i := 0; i < 20; i++ {
			entropy, err := NewEntropy(bits)
			if err != nil {
				t.Fatalf("NewEntropy() error: %v", err)
			}
			m, err := EncodeMnemonic(entropy, English())
			if err != nil {
				t.Fatalf("EncodeMnemonic() error: %v", err)
			}
			if m.Len() != bits/32*3 {
				t.Fatalf("%d bits gave %d words", bits, m.Len())
			}

			want, err := bip39.NewMnemonic(entropy)
			if err != nil {
				t.Fatalf("bip39.NewMnemonic() error: %v", err)
			}
			if m.String() != want {
				t.Fatalf("EncodeMnemonic() = %q, go-bip39 = %q", m, want)
			}

			got, err := DecodeMnemonic(m, English())
			if err != nil {
				t.Fatalf("DecodeMnemonic() error: %v", err)
			}
			if !bytes.Equal(got, entropy) {
				t.Fatalf("round trip = %x, want %x", got, entropy)
			}
		}
	}
}

func TestEncodeMnemonic_InvalidEntropy(t *testing.T) {
	for _, n := range []int{0, 12, 15, 17, 33, 64} {
		if _, err := EncodeMnemonic(make([]byte, n), nil); !errors.Is(err, ErrInvalidEntropyLength) {
			t.Errorf("EncodeMnemonic(%d bytes) error = %v, want ErrInvalidEntropyLength", n, err)
		}
	}
}

func TestDecodeMnemonic_Errors(t *testing.T) {
	valid := strings.Fields(mnemonicVectors[0].mnemonic)

	tests := []struct {
		name  string
		words []string
		want  error
	}{
		{"empty", nil, ErrInvalidWordCount},
		{"11 words", valid[:11], ErrInvalidWordCount},
		{"13 words", append(append([]string(nil), valid...), "abandon"), ErrInvalidWordCount},
		{"27 words", strings.Fields(strings.Repeat("abandon ", 27)), ErrInvalidWordCount},
		{"unknown word", append(append([]string(nil), valid[:11]...), "bitcoin"), ErrInvalidWord},
		{"bad checksum", append(append([]string(nil), valid[:11]...), "abandon"), ErrInvalidChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMnemonic(Mnemonic(tt.words), nil); !errors.Is(err, tt.want) {
				t.Errorf("DecodeMnemonic() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeMnemonic_WordCorruption(t *testing.T) {
	entropy, _ := NewEntropy(256)
	m, _ := EncodeMnemonic(entropy, nil)
	wl := English()

	// The last word of a 24-word mnemonic holds 3 entropy bits and the 8
	// checksum bits. Changing only its checksum bits must always fail.
	orig, _ := wl.Index(m[len(m)-1])
	for i := orig &^ 0xff; i <= orig|0xff; i++ {
		if i == orig {
			continue
		}
		bad := append(Mnemonic(nil), m...)
		bad[len(bad)-1] = wl.Word(i)
		_, err := DecodeMnemonic(bad, wl)
		if !errors.Is(err, ErrInvalidChecksum) {
			t.Fatalf("substituting %q: error = %v, want ErrInvalidChecksum", wl.Word(i), err)
		}
	}

	// Any unknown word is reported as such.
	bad := append(Mnemonic(nil), m...)
	bad[5] = "qwerty"
	if _, err := DecodeMnemonic(bad, wl); !errors.Is(err, ErrInvalidWord) {
		t.Errorf("unknown word error = %v, want ErrInvalidWord", err)
	}
}

func TestDecodeMnemonic_ErrorHidesWord(t *testing.T) {
	words := strings.Fields(mnemonicVectors[1].mnemonic)
	words[3] = "secretword"
	_, err := DecodeMnemonic(Mnemonic(words), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "word 4") {
		t.Errorf("error should name the position: %v", err)
	}
	if strings.Contains(err.Error(), "legal") {
		t.Errorf("error should not echo mnemonic words: %v", err)
	}
}

func TestParseMnemonic(t *testing.T) {
	text := "  Legal\tWINNER thank　year wave sausage worth useful legal winner thank yellow\n"
	m := ParseMnemonic(text)
	if m.String() != mnemonicVectors[1].mnemonic {
		t.Errorf("ParseMnemonic() = %q", m)
	}
}

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	if words := strings.Fields(mnemonic); len(words) != 24 {
		t.Errorf("word count = %d, want 24", len(words))
	}
	if err := ValidateMnemonic(mnemonic, nil); err != nil {
		t.Errorf("generated mnemonic should validate: %v", err)
	}

	other, _ := GenerateMnemonic()
	if other == mnemonic {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestNewMnemonic_Sizes(t *testing.T) {
	for bits, words := range map[int]int{128: 12, 160: 15, 192: 18, 224: 21, 256: 24} {
		m, err := NewMnemonic(bits, nil)
		if err != nil {
			t.Fatalf("NewMnemonic(%d) error: %v", bits, err)
		}
		if m.Len() != words {
			t.Errorf("NewMnemonic(%d) = %d words, want %d", bits, m.Len(), words)
		}
	}
	if _, err := NewMnemonic(100, nil); !errors.Is(err, ErrInvalidEntropyLength) {
		t.Errorf("NewMnemonic(100) error = %v", err)
	}
}

func TestMnemonic_OtherLanguages(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x5a}, 32)
	for _, name := range Languages() {
		wl, err := WordlistByName(name)
		if err != nil {
			t.Fatalf("WordlistByName(%s) error: %v", name, err)
		}
		m, err := EncodeMnemonic(entropy, wl)
		if err != nil {
			t.Fatalf("%s: EncodeMnemonic() error: %v", name, err)
		}
		got, err := DecodeMnemonic(ParseMnemonic(m.String()), wl)
		if err != nil {
			t.Fatalf("%s: DecodeMnemonic() error: %v", name, err)
		}
		if !bytes.Equal(got, entropy) {
			t.Errorf("%s: round trip = %x", name, got)
		}
	}
}
