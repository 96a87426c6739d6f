package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip32"
)

// Seed length bounds for master key generation (BIP-32).
const (
	MinSeedSize = 16
	MaxSeedSize = 64
)

// HardenedOffset is added to an index to request hardened derivation.
const HardenedOffset = bip32.FirstHardenedChild

var masterHMACKey = []byte("Bitcoin seed")

// ExtendedKey is a BIP-32 extended private key. It is a value: deriving a
// child never modifies the parent, and a child keeps no reference to it.
type ExtendedKey struct {
	depth      uint8
	parentFP   [4]byte
	childIndex uint32
	chainCode  [32]byte
	key        [32]byte
}

// NewMasterKey derives the root key from a seed:
// I = HMAC-SHA512("Bitcoin seed", seed), key = I[:32], chain code = I[32:].
func NewMasterKey(seed []byte) (ExtendedKey, error) {
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return ExtendedKey{}, fmt.Errorf("%w: %d bytes, want %d to %d",
			ErrInvalidSeedLength, len(seed), MinSeedSize, MaxSeedSize)
	}
	sum := hmacSHA512(masterHMACKey, seed)
	defer zero(sum)

	key, err := masterScalar(sum[:32])
	if err != nil {
		return ExtendedKey{}, err
	}

	ek := ExtendedKey{key: key}
	copy(ek.chainCode[:], sum[32:])
	return ek, nil
}

// hmacSHA512 is a variable so tests can force out-of-range IL values.
var hmacSHA512 = func(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// masterScalar checks that IL is a valid private key: 0 < IL < n.
func masterScalar(il []byte) ([32]byte, error) {
	var k secp256k1.ModNScalar
	defer k.Zero()
	if overflow := k.SetByteSlice(il); overflow || k.IsZero() {
		return [32]byte{}, ErrInvalidMasterKey
	}
	return k.Bytes(), nil
}

// childScalar computes (IL + parent) mod n. It fails if IL >= n or the sum
// is zero.
func childScalar(il []byte, parent *[32]byte) ([32]byte, error) {
	var s, p secp256k1.ModNScalar
	defer s.Zero()
	defer p.Zero()
	if overflow := s.SetByteSlice(il); overflow {
		return [32]byte{}, ErrInvalidChildKey
	}
	p.SetBytes(parent)
	s.Add(&p)
	if s.IsZero() {
		return [32]byte{}, ErrInvalidChildKey
	}
	return s.Bytes(), nil
}

// valid reports whether the private key is in [1, n-1]. The zero value and
// a key wiped with Zero are not.
func (k *ExtendedKey) valid() bool {
	var s secp256k1.ModNScalar
	defer s.Zero()
	overflow := s.SetBytes(&k.key)
	return overflow == 0 && !s.IsZero()
}

// DeriveChild derives the child at index. Indices at or above
// HardenedOffset are hardened. Derivation fails with ErrInvalidChildKey if
// IL >= n or the child key is zero; the next index is not tried. A parent
// without a valid private key (zero value, or wiped by Zero) fails with
// ErrZeroKey.
func (k ExtendedKey) DeriveChild(index uint32) (ExtendedKey, error) {
	if !k.valid() {
		return ExtendedKey{}, ErrZeroKey
	}
	if k.depth == 255 {
		return ExtendedKey{}, ErrMaxDepth
	}

	data := make([]byte, 0, 37)
	if index >= HardenedOffset {
		data = append(data, 0x00)
		data = append(data, k.key[:]...)
	} else {
		data = append(data, k.PublicKeyBytes()...)
	}
	data = binary.BigEndian.AppendUint32(data, index)
	defer zero(data)

	sum := hmacSHA512(k.chainCode[:], data)
	defer zero(sum)

	key, err := childScalar(sum[:32], &k.key)
	if err != nil {
		return ExtendedKey{}, fmt.Errorf("%w: index %s", err, formatIndex(index))
	}

	child := ExtendedKey{
		depth:      k.depth + 1,
		parentFP:   k.Fingerprint(),
		childIndex: index,
		key:        key,
	}
	copy(child.chainCode[:], sum[32:])
	return child, nil
}

// DeriveHardened derives the hardened child i' (i < 2^31).
func (k ExtendedKey) DeriveHardened(i uint32) (ExtendedKey, error) {
	if i >= HardenedOffset {
		return ExtendedKey{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return k.DeriveChild(i + HardenedOffset)
}

// DeriveNormal derives the non-hardened child i (i < 2^31).
func (k ExtendedKey) DeriveNormal(i uint32) (ExtendedKey, error) {
	if i >= HardenedOffset {
		return ExtendedKey{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return k.DeriveChild(i)
}

// PrivateKeyBytes returns a copy of the 32-byte private key.
func (k ExtendedKey) PrivateKeyBytes() []byte {
	b := make([]byte, 32)
	copy(b, k.key[:])
	return b
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k ExtendedKey) PublicKeyBytes() []byte {
	priv := secp256k1.PrivKeyFromBytes(k.key[:])
	defer priv.Zero()
	return priv.PubKey().SerializeCompressed()
}

// Fingerprint returns the first 4 bytes of HASH160 of the public key.
func (k ExtendedKey) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], crypto.Hash160(k.PublicKeyBytes()))
	return fp
}

// Signer returns the private key as a crypto.PrivateKey.
func (k ExtendedKey) Signer() (*crypto.PrivateKey, error) {
	return crypto.PrivateKeyFromBytes(k.key[:])
}

// IsPrivate is always true: only private derivation is supported.
func (k ExtendedKey) IsPrivate() bool { return true }

// Depth returns the derivation depth (0 for master).
func (k ExtendedKey) Depth() uint8 { return k.depth }

// ChildIndex returns the index this key was derived at, hardened bit included.
func (k ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// IsHardened reports whether the key was derived with a hardened index.
func (k ExtendedKey) IsHardened() bool { return k.childIndex >= HardenedOffset }

// ParentFingerprint returns the parent's fingerprint (zero for master).
func (k ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// ChainCode returns the 32-byte chain code.
func (k ExtendedKey) ChainCode() [32]byte { return k.chainCode }

func (k ExtendedKey) bip32Key(private bool) *bip32.Key {
	child := make([]byte, 4)
	binary.BigEndian.PutUint32(child, k.childIndex)
	key := &bip32.Key{
		Version:     bip32.PublicWalletVersion,
		Depth:       k.depth,
		ChildNumber: child,
		FingerPrint: append([]byte(nil), k.parentFP[:]...),
		ChainCode:   append([]byte(nil), k.chainCode[:]...),
		Key:         k.PublicKeyBytes(),
	}
	if private {
		key.Version = bip32.PrivateWalletVersion
		key.Key = k.PrivateKeyBytes()
		key.IsPrivate = true
	}
	return key
}

// String returns the Base58Check xprv serialization.
func (k ExtendedKey) String() string {
	return k.bip32Key(true).B58Serialize()
}

// PublicString returns the Base58Check xpub serialization.
func (k ExtendedKey) PublicString() string {
	return k.bip32Key(false).B58Serialize()
}

// ParseExtendedKey imports a Base58Check xprv. Extended public keys are
// rejected with ErrPublicKeyOnly.
func ParseExtendedKey(s string) (ExtendedKey, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return ExtendedKey{}, fmt.Errorf("%w: %v", ErrInvalidExtKey, err)
	}
	if !key.IsPrivate {
		return ExtendedKey{}, ErrPublicKeyOnly
	}

	raw := key.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) != 32 || len(key.ChainCode) != 32 || len(key.FingerPrint) != 4 || len(key.ChildNumber) != 4 {
		return ExtendedKey{}, fmt.Errorf("%w: malformed fields", ErrInvalidExtKey)
	}

	var scalar secp256k1.ModNScalar
	defer scalar.Zero()
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return ExtendedKey{}, fmt.Errorf("%w: private key out of range", ErrInvalidExtKey)
	}

	ek := ExtendedKey{
		depth:      key.Depth,
		childIndex: binary.BigEndian.Uint32(key.ChildNumber),
		key:        scalar.Bytes(),
	}
	copy(ek.parentFP[:], key.FingerPrint)
	copy(ek.chainCode[:], key.ChainCode)
	if ek.depth == 0 && (ek.parentFP != [4]byte{} || ek.childIndex != 0) {
		return ExtendedKey{}, fmt.Errorf("%w: master key with parent data", ErrInvalidExtKey)
	}
	return ek, nil
}

// Zero wipes the private key and chain code. The key cannot derive
// children afterwards.
func (k *ExtendedKey) Zero() {
	zero(k.key[:])
	zero(k.chainCode[:])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
