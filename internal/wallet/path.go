package wallet

import (
	"fmt"
	"strconv"
	"strings"
)

// BIP-44 derivation path constants.
// Full path: m/44'/60'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = HardenedOffset + 44

	// CoinTypeEthereum is the SLIP-44 coin type for Ether (hardened).
	CoinTypeEthereum = HardenedOffset + 60

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// Well-known Ethereum derivation paths.
var (
	// DefaultBasePath is m/44'/60'/0'/0; accounts are its children.
	DefaultBasePath = DerivationPath{PurposeBIP44, CoinTypeEthereum, HardenedOffset, ChangeExternal}

	// DefaultAccountPath is m/44'/60'/0'/0/0, the first account.
	DefaultAccountPath = DerivationPath{PurposeBIP44, CoinTypeEthereum, HardenedOffset, ChangeExternal, 0}

	// LedgerLegacyPath is m/44'/60'/0', used by older Ledger firmware.
	LedgerLegacyPath = DerivationPath{PurposeBIP44, CoinTypeEthereum, HardenedOffset}
)

// DerivationPath is a list of child indices from the master key. Hardened
// indices carry HardenedOffset. An empty path is the master key itself.
type DerivationPath []uint32

// AccountPath returns m/44'/60'/account'/change/index.
func AccountPath(account, change, index uint32) DerivationPath {
	return DerivationPath{PurposeBIP44, CoinTypeEthereum, HardenedOffset + account, change, index}
}

// ParseDerivationPath parses paths of the form m/44'/60'/0'/0/0.
// A trailing ', h or H marks a hardened index. "m" alone is the empty path.
func ParseDerivationPath(s string) (DerivationPath, error) {
	elems := strings.Split(s, "/")
	if elems[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with \"m\"", ErrInvalidPathSyntax, s)
	}

	path := make(DerivationPath, 0, len(elems)-1)
	for i, elem := range elems[1:] {
		idx, err := parseSegment(elem)
		if err != nil {
			return nil, fmt.Errorf("segment %d %q: %w", i+1, elem, err)
		}
		path = append(path, idx)
	}
	return path, nil
}

func parseSegment(elem string) (uint32, error) {
	var offset uint32
	if n := len(elem); n > 0 && (elem[n-1] == '\'' || elem[n-1] == 'h' || elem[n-1] == 'H') {
		offset = HardenedOffset
		elem = elem[:n-1]
	}
	if elem == "" {
		return 0, ErrInvalidPathSyntax
	}
	for _, c := range elem {
		if c < '0' || c > '9' {
			return 0, ErrInvalidPathSyntax
		}
	}
	v, err := strconv.ParseUint(elem, 10, 64)
	if err != nil || v >= uint64(HardenedOffset) {
		return 0, fmt.Errorf("%w: %s >= 2^31", ErrIndexOutOfRange, elem)
	}
	return uint32(v) + offset, nil
}

// MustParseDerivationPath is like ParseDerivationPath but panics on error.
// It is intended for constant paths.
func MustParseDerivationPath(s string) DerivationPath {
	p, err := ParseDerivationPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path canonically, using ' for hardened indices.
func (p DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteByte('/')
		b.WriteString(formatIndex(idx))
	}
	return b.String()
}

func formatIndex(idx uint32) string {
	if idx >= HardenedOffset {
		return strconv.FormatUint(uint64(idx-HardenedOffset), 10) + "'"
	}
	return strconv.FormatUint(uint64(idx), 10)
}

// DerivationError reports the path segment at which derivation failed.
type DerivationError struct {
	Path    DerivationPath
	Segment int // 1-based position in Path
	Err     error
}

func (e *DerivationError) Error() string {
	if e.Segment < 1 || e.Segment > len(e.Path) {
		return fmt.Sprintf("derive %s: segment %d: %v", e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("derive %s: segment %d (%s): %v",
		e.Path, e.Segment, formatIndex(e.Path[e.Segment-1]), e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// DerivePath walks p from k, deriving one child per segment. Nothing is
// cached between calls.
func (k ExtendedKey) DerivePath(p DerivationPath) (ExtendedKey, error) {
	current := k
	for i, idx := range p {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return ExtendedKey{}, &DerivationError{Path: p, Segment: i + 1, Err: err}
		}
		current = child
	}
	return current, nil
}

// DeriveFromSeed derives the key at path from a seed.
func DeriveFromSeed(seed []byte, path string) (ExtendedKey, error) {
	p, err := ParseDerivationPath(path)
	if err != nil {
		return ExtendedKey{}, err
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return ExtendedKey{}, err
	}
	return master.DerivePath(p)
}
