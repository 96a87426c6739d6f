package wallet

import (
	"fmt"

	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/types"
)

// Account is an Ethereum key pair derived at a known path.
type Account struct {
	Path       DerivationPath
	PrivateKey []byte // 32 bytes
	PublicKey  []byte // 33-byte compressed
	RawPubKey  []byte // 64-byte X||Y
	Address    types.Address
}

// NewAccount builds the account for an extended key.
func NewAccount(k ExtendedKey, path DerivationPath) (*Account, error) {
	priv := k.PrivateKeyBytes()
	raw, err := crypto.UncompressedPublicKey(k.PublicKeyBytes())
	if err != nil {
		return nil, fmt.Errorf("account public key: %w", err)
	}
	addr, err := crypto.PubkeyToAddress(raw)
	if err != nil {
		return nil, fmt.Errorf("account address: %w", err)
	}
	return &Account{
		Path:       append(DerivationPath(nil), path...),
		PrivateKey: priv,
		PublicKey:  k.PublicKeyBytes(),
		RawPubKey:  raw,
		Address:    addr,
	}, nil
}

// DeriveAccount derives the account at path below master.
func DeriveAccount(master ExtendedKey, path DerivationPath) (*Account, error) {
	k, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}
	defer k.Zero()
	return NewAccount(k, path)
}

// DeriveAccounts derives count consecutive accounts below base, starting at
// index start. Each account is derived independently from master.
func DeriveAccounts(master ExtendedKey, base DerivationPath, start, count uint32) ([]*Account, error) {
	accounts := make([]*Account, 0, count)
	for i := uint32(0); i < count; i++ {
		path := append(append(DerivationPath(nil), base...), start+i)
		acct, err := DeriveAccount(master, path)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// Signer returns the account private key as a crypto.PrivateKey.
func (a *Account) Signer() (*crypto.PrivateKey, error) {
	return crypto.PrivateKeyFromBytes(a.PrivateKey)
}

// Zero wipes the private key.
func (a *Account) Zero() {
	zero(a.PrivateKey)
}
