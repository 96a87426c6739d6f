// Package wallet implements BIP-39 mnemonics and BIP-32/44 key derivation
// for Ethereum accounts.
package wallet

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// Mnemonic is an ordered list of wordlist words.
type Mnemonic []string

// String joins the words with single spaces.
func (m Mnemonic) String() string {
	return strings.Join(m, " ")
}

// Normalized returns the lower-case, space-separated NFKD text that is fed
// to seed derivation.
func (m Mnemonic) Normalized() string {
	return norm.NFKD.String(strings.ToLower(m.String()))
}

// Len returns the number of words.
func (m Mnemonic) Len() int {
	return len(m)
}

// ParseMnemonic splits text on any Unicode whitespace (including the
// ideographic space used by Japanese mnemonics) and normalizes each word.
func ParseMnemonic(text string) Mnemonic {
	fields := strings.Fields(text)
	m := make(Mnemonic, len(fields))
	for i, f := range fields {
		m[i] = normalizeWord(f)
	}
	return m
}

// EncodeMnemonic maps entropy to words. The checksum is the first
// len(entropy)*8/32 bits of SHA-256(entropy), appended to the entropy bits;
// the stream is cut into 11-bit word indices.
func EncodeMnemonic(entropy []byte, wl *Wordlist) (Mnemonic, error) {
	if err := CheckEntropyBits(len(entropy) * 8); err != nil {
		return nil, err
	}
	if wl == nil {
		wl = English()
	}

	checksum := sha256.Sum256(entropy)
	// At most 8 checksum bits, so the first hash byte carries all of them.
	stream := make([]byte, len(entropy)+1)
	copy(stream, entropy)
	stream[len(entropy)] = checksum[0]

	totalBits := len(entropy)*8 + len(entropy)*8/32
	words := make(Mnemonic, totalBits/11)
	for i := range words {
		idx := 0
		for j := 0; j < 11; j++ {
			bit := i*11 + j
			idx = idx<<1 | int(stream[bit/8]>>(7-bit%8)&1)
		}
		words[i] = wl.Word(idx)
	}
	return words, nil
}

// DecodeMnemonic recovers the entropy from m and verifies its checksum.
func DecodeMnemonic(m Mnemonic, wl *Wordlist) ([]byte, error) {
	n := len(m)
	if n < 12 || n > 24 || n%3 != 0 {
		return nil, fmt.Errorf("%w: %d words, want 12, 15, 18, 21 or 24", ErrInvalidWordCount, n)
	}
	if wl == nil {
		wl = English()
	}

	totalBits := n * 11
	checksumBits := totalBits / 33
	entropyBytes := (totalBits - checksumBits) / 8

	stream := make([]byte, (totalBits+7)/8)
	for i, w := range m {
		idx, ok := wl.Index(w)
		if !ok {
			return nil, fmt.Errorf("%w: word %d", ErrInvalidWord, i+1)
		}
		for j := 0; j < 11; j++ {
			if idx>>(10-j)&1 == 1 {
				bit := i*11 + j
				stream[bit/8] |= 1 << (7 - bit%8)
			}
		}
	}

	entropy := make([]byte, entropyBytes)
	copy(entropy, stream[:entropyBytes])

	sum := sha256.Sum256(entropy)
	want := sum[0] >> (8 - checksumBits)
	got := stream[entropyBytes] >> (8 - checksumBits)
	if want != got {
		return nil, ErrInvalidChecksum
	}
	return entropy, nil
}

// NewMnemonic generates fresh entropy of the given size and encodes it.
func NewMnemonic(bits int, wl *Wordlist) (Mnemonic, error) {
	entropy, err := NewEntropy(bits)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}
	m, err := EncodeMnemonic(entropy, wl)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return m, nil
}

// GenerateMnemonic creates a new 24-word English mnemonic.
func GenerateMnemonic() (string, error) {
	m, err := NewMnemonic(MnemonicEntropyBits, English())
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// ValidateMnemonic checks word count, word membership and checksum.
func ValidateMnemonic(text string, wl *Wordlist) error {
	_, err := DecodeMnemonic(ParseMnemonic(text), wl)
	return err
}
