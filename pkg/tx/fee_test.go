package tx

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestIntrinsicGas(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint64
	}{
		{"transfer", nil, 21000},
		{"zero bytes", []byte{0, 0}, 21008},
		{"non-zero bytes", []byte{1, 2, 3}, 21048},
		{"mixed", []byte{0, 1}, 21020},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntrinsicGas(tt.data); got != tt.want {
				t.Errorf("IntrinsicGas() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransaction_Cost(t *testing.T) {
	tx := eip155Tx()

	fee, err := tx.MaxFee()
	if err != nil {
		t.Fatalf("MaxFee() error: %v", err)
	}
	if fee.Uint64() != 21000*20_000_000_000 {
		t.Errorf("MaxFee() = %s", fee.Dec())
	}

	cost, err := tx.Cost()
	if err != nil {
		t.Fatalf("Cost() error: %v", err)
	}
	want := uint64(21000*20_000_000_000 + 1_000_000_000_000_000_000)
	if cost.Uint64() != want {
		t.Errorf("Cost() = %s, want %d", cost.Dec(), want)
	}
	if tx.Value.Uint64() != 1_000_000_000_000_000_000 {
		t.Error("Cost() must not modify Value")
	}
}

func TestTransaction_Cost_Overflow(t *testing.T) {
	tx := eip155Tx()
	tx.GasPrice = new(uint256.Int).SetAllOne()
	if _, err := tx.MaxFee(); !errors.Is(err, ErrEncoding) {
		t.Errorf("MaxFee() error = %v, want ErrEncoding", err)
	}

	tx = eip155Tx()
	tx.Value = new(uint256.Int).SetAllOne()
	if _, err := tx.Cost(); !errors.Is(err, ErrEncoding) {
		t.Errorf("Cost() error = %v, want ErrEncoding", err)
	}
}

func TestTransaction_Cost_NilAmounts(t *testing.T) {
	tx := eip155Tx()
	tx.GasPrice = nil
	tx.Value = nil
	cost, err := tx.Cost()
	if err != nil {
		t.Fatalf("Cost() error: %v", err)
	}
	if !cost.IsZero() {
		t.Errorf("Cost() = %s, want 0", cost.Dec())
	}
}
