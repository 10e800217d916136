// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"errors"

	"github.com/holiman/uint256"
)

// Fixed-point scale and shared denominators. Amounts are 64-bit unsigned
// integers in the smallest indivisible unit; intermediates are computed in
// 256-bit width so no product of native-width operands can overflow before
// the final narrowing check.
const (
	// Precision is the fixed-point scale for curve parameters.
	Precision uint64 = 1_000_000_000

	// BpsDenominator is the basis-point denominator (10,000 bps = 100%).
	BpsDenominator uint64 = 10_000

	// MaxSafeSupply bounds the supply argument of CurveArea so the
	// squared term keeps full headroom in the wide intermediate.
	MaxSafeSupply uint64 = 1<<63 - 1
)

// Math-domain failures. These indicate a misconfigured curve or an
// out-of-range trade and must abort the caller loudly, never clamp.
var (
	ErrOverflow       = errors.New("math overflow")
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidInput   = errors.New("invalid input")
)

// MulDiv computes floor(a*b/c) with a 256-bit intermediate.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	p := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	p.Div(p, uint256.NewInt(c))
	if !p.IsUint64() {
		return 0, ErrOverflow
	}
	return p.Uint64(), nil
}

// MulDivUp computes ceil(a*b/c) with a 256-bit intermediate.
func MulDivUp(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	p := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	q, r := new(uint256.Int).DivMod(p, uint256.NewInt(c), new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}

// Bps takes a basis-point fraction of amount, rounding down.
func Bps(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, BpsDenominator)
}

// Sqrt returns the integer square root of n via Newton's method: exact on
// perfect squares, floor otherwise, monotonic in n. The initial guess
// 2^ceil(bits/2) is always >= sqrt(n), so the iteration descends to the
// floor root.
func Sqrt(n *uint256.Int) *uint256.Int {
	if n.IsZero() {
		return uint256.NewInt(0)
	}
	x := new(uint256.Int).Lsh(uint256.NewInt(1), uint((n.BitLen()+1)/2))
	y := new(uint256.Int)
	for {
		y.Div(n, x)
		y.Add(y, x)
		y.Rsh(y, 1)
		if y.Cmp(x) >= 0 {
			return x
		}
		x, y = y, x
	}
}
