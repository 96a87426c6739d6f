package wallet

import (
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

const seedIterations = 2048

// NewSeed stretches a mnemonic into a 512-bit seed with PBKDF2-HMAC-SHA512:
// password = NFKD(mnemonic), salt = "mnemonic" + NFKD(passphrase),
// 2048 iterations. The mnemonic is not validated.
func NewSeed(m Mnemonic, passphrase string) []byte {
	salt := "mnemonic" + norm.NFKD.String(passphrase)
	return pbkdf2.Key([]byte(m.Normalized()), []byte(salt), seedIterations, SeedSize, sha512.New)
}

// SeedFromMnemonic validates a mnemonic and derives its seed.
func SeedFromMnemonic(text, passphrase string, wl *Wordlist) ([]byte, error) {
	m := ParseMnemonic(text)
	if _, err := DecodeMnemonic(m, wl); err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return NewSeed(m, passphrase), nil
}
