package tx

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
)

// Example transaction from EIP-155.
const (
	eip155SigningData = "ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080"
	eip155SigHash     = "daf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"
	eip155Signed      = "f86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"
)

func eip155Key() []byte {
	return bytes.Repeat([]byte{0x46}, 32)
}

func eip155Tx() *Transaction {
	var to types.Address
	copy(to[:], bytes.Repeat([]byte{0x35}, 20))
	return &Transaction{
		Nonce:    9,
		GasPrice: uint256.NewInt(20_000_000_000),
		GasLimit: 21000,
		To:       to,
		Value:    uint256.NewInt(1_000_000_000_000_000_000),
		ChainID:  1,
	}
}

func TestTransaction_SigningBytes_EIP155(t *testing.T) {
	got, err := eip155Tx().SigningBytes()
	if err != nil {
		t.Fatalf("SigningBytes() error: %v", err)
	}
	if hex.EncodeToString(got) != eip155SigningData {
		t.Errorf("SigningBytes() = %x\nwant %s", got, eip155SigningData)
	}

	hash, err := eip155Tx().SigHash()
	if err != nil {
		t.Fatalf("SigHash() error: %v", err)
	}
	if hex.EncodeToString(hash[:]) != eip155SigHash {
		t.Errorf("SigHash() = %x, want %s", hash, eip155SigHash)
	}
}

func TestSign_EIP155Vector(t *testing.T) {
	stx, err := Sign(eip155Tx(), eip155Key())
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if stx.V() != 37 {
		t.Errorf("V() = %d, want 37", stx.V())
	}
	if got := hex.EncodeToString(stx.Encode()); got != eip155Signed {
		t.Errorf("Encode() = %s\nwant %s", got, eip155Signed)
	}
	if stx.RawHex() != "0x"+eip155Signed {
		t.Errorf("RawHex() missing 0x prefix: %s", stx.RawHex()[:4])
	}
	if stx.Hash() != crypto.Keccak256Hash(stx.Encode()) {
		t.Error("Hash() should be Keccak256 of the signed encoding")
	}
}

func TestSign_Recoverable(t *testing.T) {
	for _, chainID := range []uint64{1, 5, 137, 11155111} {
		key, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error: %v", err)
		}
		want, _ := crypto.PubkeyToAddress(key.PublicKey())

		tx := eip155Tx()
		tx.ChainID = chainID
		stx, err := SignWith(tx, key)
		if err != nil {
			t.Fatalf("SignWith() error: %v", err)
		}

		recID := stx.V() - (chainID*2 + 35)
		if recID > 1 {
			t.Fatalf("chain %d: recovery id %d out of range (v = %d)", chainID, recID, stx.V())
		}

		pub, err := stx.SenderPublicKey()
		if err != nil {
			t.Fatalf("SenderPublicKey() error: %v", err)
		}
		if !bytes.Equal(pub, key.PublicKey()) {
			t.Errorf("chain %d: recovered public key does not match signer", chainID)
		}
		got, err := stx.Sender()
		if err != nil {
			t.Fatalf("Sender() error: %v", err)
		}
		if got != want {
			t.Errorf("chain %d: Sender() = %s, want %s", chainID, got, want)
		}
	}
}

func TestSign_InvalidKey(t *testing.T) {
	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	tests := []struct {
		name string
		key  []byte
	}{
		{"empty", nil},
		{"short", make([]byte, 31)},
		{"zero", make([]byte, 32)},
		{"curve order", order},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sign(eip155Tx(), tt.key)
			if !errors.Is(err, ErrSigning) {
				t.Fatalf("Sign() error = %v, want ErrSigning", err)
			}
		})
	}
}

func TestSign_ErrorDoesNotLeakKey(t *testing.T) {
	key := bytes.Repeat([]byte{0xff}, 32)
	_, err := Sign(eip155Tx(), key)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(strings.ToLower(err.Error()), hex.EncodeToString(key)) {
		t.Error("error message contains private key bytes")
	}
}

func TestSign_ZeroChainID(t *testing.T) {
	tx := eip155Tx()
	tx.ChainID = 0
	if _, err := Sign(tx, eip155Key()); !errors.Is(err, ErrEncoding) {
		t.Errorf("Sign() error = %v, want ErrEncoding", err)
	}
}

func TestSign_NilTransaction(t *testing.T) {
	if _, err := Sign(nil, eip155Key()); !errors.Is(err, ErrEncoding) {
		t.Errorf("Sign(nil) error = %v, want ErrEncoding", err)
	}
	key, err := crypto.PrivateKeyFromBytes(eip155Key())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if _, err := SignWith(nil, key); !errors.Is(err, ErrEncoding) {
		t.Errorf("SignWith(nil) error = %v, want ErrEncoding", err)
	}
	var tx *Transaction
	if _, err := tx.SigHash(); !errors.Is(err, ErrEncoding) {
		t.Errorf("SigHash() on nil error = %v, want ErrEncoding", err)
	}
}

func TestNewTransaction(t *testing.T) {
	to := eip155Tx().To
	gasPrice := big.NewInt(20_000_000_000)
	value, _ := new(big.Int).SetString("1000000000000000000", 10)

	tx, err := NewTransaction(9, to, value, 21000, gasPrice, nil, 1)
	if err != nil {
		t.Fatalf("NewTransaction() error: %v", err)
	}
	got, _ := tx.SigningBytes()
	if hex.EncodeToString(got) != eip155SigningData {
		t.Errorf("SigningBytes() = %x, want %s", got, eip155SigningData)
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	tests := []struct {
		name     string
		value    *big.Int
		gasPrice *big.Int
		chainID  uint64
	}{
		{"nil value", nil, gasPrice, 1},
		{"negative value", big.NewInt(-1), gasPrice, 1},
		{"value over 256 bits", tooBig, gasPrice, 1},
		{"negative gas price", value, big.NewInt(-5), 1},
		{"nil gas price", value, nil, 1},
		{"zero chain id", value, gasPrice, 0},
		{"chain id overflows v", value, gasPrice, 1 << 63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(0, to, tt.value, 21000, tt.gasPrice, nil, tt.chainID)
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("NewTransaction() error = %v, want ErrEncoding", err)
			}
		})
	}
}

func TestNewTransaction_Max256(t *testing.T) {
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	tx, err := NewTransaction(0, types.Address{}, maxU256, 21000, big.NewInt(1), nil, 1)
	if err != nil {
		t.Fatalf("NewTransaction(2^256-1) error: %v", err)
	}
	if tx.Value.ToBig().Cmp(maxU256) != 0 {
		t.Errorf("Value = %s, want 2^256-1", tx.Value.Dec())
	}
}

func TestSignedTransaction_Immutable(t *testing.T) {
	tx := eip155Tx()
	stx, err := Sign(tx, eip155Key())
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	before := stx.Encode()

	tx.Nonce = 100
	tx.Value.SetUint64(1)
	inner := stx.Transaction()
	inner.Nonce = 200
	inner.Data = []byte{0x01}

	if !bytes.Equal(before, stx.Encode()) {
		t.Error("SignedTransaction changed after mutating source or accessor copies")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	stx, err := DecodeHex("0x" + eip155Signed)
	if err != nil {
		t.Fatalf("DecodeHex() error: %v", err)
	}
	if hex.EncodeToString(stx.Encode()) != eip155Signed {
		t.Error("re-encoding a decoded transaction should be byte-identical")
	}
	if stx.ChainID() != 1 {
		t.Errorf("ChainID() = %d, want 1", stx.ChainID())
	}
	inner := stx.Transaction()
	if inner.Nonce != 9 || inner.GasLimit != 21000 || inner.Value.Uint64() != 1_000_000_000_000_000_000 {
		t.Errorf("decoded fields = %+v", inner)
	}

	key, _ := crypto.PrivateKeyFromBytes(eip155Key())
	want, _ := crypto.PubkeyToAddress(key.PublicKey())
	sender, err := stx.Sender()
	if err != nil {
		t.Fatalf("Sender() error: %v", err)
	}
	if sender != want {
		t.Errorf("Sender() = %s, want %s", sender, want)
	}
}

func TestDecode_DataAndLargeChainID(t *testing.T) {
	key, _ := crypto.GenerateKey()
	tx := eip155Tx()
	tx.ChainID = 11155111
	tx.Data = []byte("hello")
	tx.GasLimit = IntrinsicGas(tx.Data)
	stx, err := SignWith(tx, key)
	if err != nil {
		t.Fatalf("SignWith() error: %v", err)
	}

	decoded, err := Decode(stx.Encode())
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if decoded.ChainID() != 11155111 {
		t.Errorf("ChainID() = %d", decoded.ChainID())
	}
	if !bytes.Equal(decoded.Transaction().Data, []byte("hello")) {
		t.Errorf("Data = %q", decoded.Transaction().Data)
	}
	if decoded.Hash() != stx.Hash() {
		t.Error("decoded hash differs")
	}
}

func TestDecode_Invalid(t *testing.T) {
	valid, _ := hex.DecodeString(eip155Signed)

	// Pre-EIP-155 v = 27: replace the 0x25 v byte.
	unprotected := bytes.Clone(valid)
	unprotected[bytes.Index(unprotected, []byte{0x25, 0xa0})] = 0x1b

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrEncoding},
		{"not a list", []byte{0x80}, ErrEncoding},
		{"trailing bytes", append(bytes.Clone(valid), 0x00), ErrEncoding},
		{"truncated", valid[:len(valid)-1], ErrEncoding},
		{"unprotected v", unprotected, ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeHex("0xzz"); !errors.Is(err, ErrEncoding) {
		t.Errorf("DecodeHex(bad hex) error = %v, want ErrEncoding", err)
	}
}

func TestChainIDFromV(t *testing.T) {
	tests := []struct {
		v       uint64
		want    uint64
		wantErr bool
	}{
		{37, 1, false},
		{38, 1, false},
		{35, 0, false},
		{22310257, 11155111, false},
		{27, 0, true},
		{28, 0, true},
	}
	for _, tt := range tests {
		got, err := ChainIDFromV(tt.v)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ChainIDFromV(%d) error = %v", tt.v, err)
		}
		if got != tt.want {
			t.Errorf("ChainIDFromV(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestSignedTransaction_MarshalJSON(t *testing.T) {
	stx, err := Sign(eip155Tx(), eip155Key())
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	data, err := stx.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	for _, want := range []string{`"nonce":"0x9"`, `"v":"0x25"`, `"chainId":"0x1"`, `"gas":"0x5208"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}
