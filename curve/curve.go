// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve implements the fixed-point math for a linear-price bonding
// curve: price grows linearly in circulating supply, so the reserve cost of
// minting from zero to a supply S is quadratic in S. The package is pure
// and stateless; it knows nothing about pools, fees, or authorization.
// Every function is total over its documented domain or fails explicitly.
package curve

import (
	"math"

	"github.com/holiman/uint256"
)

// Params are the immutable curve parameters of one pool, fixed-point
// integers scaled by Precision.
//
//	price(s) = BasePrice + Slope*s/Precision
type Params struct {
	BasePrice uint64
	Slope     uint64
}

// Price returns the spot price at the given circulating supply.
func (p Params) Price(supply uint64) (uint64, error) {
	inc := new(uint256.Int).Mul(uint256.NewInt(p.Slope), uint256.NewInt(supply))
	inc.Div(inc, uint256.NewInt(Precision))
	inc.AddUint64(inc, p.BasePrice)
	if !inc.IsUint64() {
		return 0, ErrOverflow
	}
	return inc.Uint64(), nil
}

// CurveArea returns the reserve cost of minting the supply range [0, supply]:
//
//	area(s) = BasePrice*s + Slope*s^2/(2*Precision)
//
// supply above MaxSafeSupply fails with ErrOverflow, as does any area that
// does not fit back into native width.
func (p Params) CurveArea(supply uint64) (uint64, error) {
	if supply > MaxSafeSupply {
		return 0, ErrOverflow
	}
	s := uint256.NewInt(supply)
	area := new(uint256.Int).Mul(uint256.NewInt(p.BasePrice), s)
	quad := new(uint256.Int).Mul(s, s)
	quad.Mul(quad, uint256.NewInt(p.Slope))
	quad.Div(quad, uint256.NewInt(2*Precision))
	area.Add(area, quad)
	if !area.IsUint64() {
		return 0, ErrOverflow
	}
	return area.Uint64(), nil
}

// SupplyFromArea inverts CurveArea. Integer rounding may undershoot the
// exact inverse by one token; it never overshoots, so conversions always
// favor the pool. The quadratic is solved in Precision-scaled form,
//
//	s = (sqrt((b*P)^2 + 2*m*area*P) - b*P) / m
//
// so that sub-unit roots survive the integer square root. A zero slope
// degenerates to area/BasePrice; a curve with both parameters zero fails
// with ErrDivisionByZero, and a root below b*P fails with ErrInvalidInput.
func (p Params) SupplyFromArea(area uint64) (uint64, error) {
	if p.Slope == 0 {
		if p.BasePrice == 0 {
			return 0, ErrDivisionByZero
		}
		return area / p.BasePrice, nil
	}

	bp := new(uint256.Int).Mul(uint256.NewInt(p.BasePrice), uint256.NewInt(Precision))
	disc := new(uint256.Int).Mul(bp, bp)
	lin := new(uint256.Int).Mul(uint256.NewInt(p.Slope), uint256.NewInt(area))
	lin.Mul(lin, uint256.NewInt(2*Precision))
	disc.Add(disc, lin)

	root := Sqrt(disc)
	if root.Cmp(bp) < 0 {
		return 0, ErrInvalidInput
	}
	root.Sub(root, bp)
	root.Div(root, uint256.NewInt(p.Slope))
	if !root.IsUint64() {
		return 0, ErrOverflow
	}
	return root.Uint64(), nil
}

// TokensOut returns how many tokens a net reserve deposit buys at the given
// circulating supply. Monotonic in reserveIn; rounding always favors the
// pool, so the result may be zero for dust-sized deposits.
func (p Params) TokensOut(reserveIn, currentSupply uint64) (uint64, error) {
	area, err := p.CurveArea(currentSupply)
	if err != nil {
		return 0, err
	}
	if reserveIn > math.MaxUint64-area {
		return 0, ErrOverflow
	}
	newSupply, err := p.SupplyFromArea(area + reserveIn)
	if err != nil {
		return 0, err
	}
	if newSupply <= currentSupply {
		return 0, nil
	}
	return newSupply - currentSupply, nil
}

// ReserveOut returns the gross reserve released by burning tokensIn at the
// given circulating supply. tokensIn above currentSupply fails with
// ErrInvalidInput.
func (p Params) ReserveOut(tokensIn, currentSupply uint64) (uint64, error) {
	if tokensIn > currentSupply {
		return 0, ErrInvalidInput
	}
	after, err := p.CurveArea(currentSupply)
	if err != nil {
		return 0, err
	}
	before, err := p.CurveArea(currentSupply - tokensIn)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}
