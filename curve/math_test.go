// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c uint64
		want    uint64
		wantErr error
	}{
		{name: "exact", a: 6, b: 7, c: 3, want: 14},
		{name: "rounds down", a: 10, b: 10, c: 3, want: 33},
		{name: "zero numerator", a: 0, b: 12345, c: 7, want: 0},
		{name: "wide intermediate", a: math.MaxUint64, b: math.MaxUint64, c: math.MaxUint64, want: math.MaxUint64},
		{name: "overflow", a: math.MaxUint64, b: 2, c: 1, wantErr: ErrOverflow},
		{name: "division by zero", a: 1, b: 1, c: 0, wantErr: ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.a, tt.b, tt.c)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MulDiv(%d,%d,%d) error = %v, want %v", tt.a, tt.b, tt.c, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("MulDiv(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestMulDivUp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c uint64
		want    uint64
		wantErr error
	}{
		{name: "exact stays exact", a: 6, b: 7, c: 3, want: 14},
		{name: "rounds up", a: 10, b: 10, c: 3, want: 34},
		{name: "rounds up by one", a: 1, b: 1, c: 2, want: 1},
		{name: "overflow after rounding", a: math.MaxUint64, b: 3, c: 3, want: math.MaxUint64},
		{name: "division by zero", a: 1, b: 1, c: 0, wantErr: ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDivUp(tt.a, tt.b, tt.c)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MulDivUp(%d,%d,%d) error = %v, want %v", tt.a, tt.b, tt.c, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("MulDivUp(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestBps(t *testing.T) {
	tests := []struct {
		amount, bps, want uint64
	}{
		{1_000_000, 50, 5_000},
		{1_000_000, 500, 50_000},
		{1_000_000, 10_000, 1_000_000},
		{999, 1, 0}, // rounds down
	}

	for _, tt := range tests {
		got, err := Bps(tt.amount, tt.bps)
		if err != nil {
			t.Fatalf("Bps(%d,%d) error: %v", tt.amount, tt.bps, err)
		}
		if got != tt.want {
			t.Errorf("Bps(%d,%d) = %d, want %d", tt.amount, tt.bps, got, tt.want)
		}
	}
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{15, 3},
		{16, 4},
		{17, 4},
		{1_000_000, 1_000},
		{1_002_000, 1_000}, // floor, not round
		{1_002_001, 1_001},
	}

	for _, tt := range tests {
		got := Sqrt(uint256.NewInt(tt.in))
		if got.Uint64() != tt.want {
			t.Errorf("Sqrt(%d) = %d, want %d", tt.in, got.Uint64(), tt.want)
		}
	}

	// Exact on a perfect square beyond native width.
	big := new(uint256.Int).Mul(uint256.NewInt(1e12), uint256.NewInt(1e12))
	if got := Sqrt(big); got.Uint64() != 1e12 {
		t.Errorf("Sqrt(1e24) = %d, want 1e12", got.Uint64())
	}
}

func TestSqrtMonotonic(t *testing.T) {
	prev := uint256.NewInt(0)
	for n := uint64(0); n < 10_000; n += 37 {
		got := Sqrt(uint256.NewInt(n))
		if got.Cmp(prev) < 0 {
			t.Fatalf("Sqrt not monotonic at %d", n)
		}
		prev = got
	}
}
