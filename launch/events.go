// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launch

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
)

// TradeEvent is the record of one executed trade.
type TradeEvent struct {
	PoolID      [32]byte
	Trader      common.Address
	IsBuy       bool
	ReserveIn   uint64
	TokensIn    uint64
	TokensOut   uint64
	ReserveOut  uint64
	PlatformFee uint64
	CreatorFee  uint64
	NewSupply   uint64
}

// CreationEvent records a pool launch.
type CreationEvent struct {
	PoolID      [32]byte
	Mint        common.Address
	Creator     common.Address
	TotalSupply uint64
	Allocation  uint64
}

// PauseEvent records a pause-state change.
type PauseEvent struct {
	PoolID [32]byte
	Paused bool
}

// WithdrawalEvent records an emergency withdrawal. Reserve distinguishes
// reserve withdrawals from token withdrawals.
type WithdrawalEvent struct {
	PoolID  [32]byte
	To      common.Address
	Amount  uint64
	Reserve bool
}

// GraduationEvent records the one-way graduation transition, with the
// balances held at the moment of sealing.
type GraduationEvent struct {
	PoolID  [32]byte
	Reserve uint64
	Unsold  uint64
}

// Emitter publishes lifecycle events. Emission is best-effort: the core
// never blocks or fails on an emitter.
type Emitter interface {
	Trade(TradeEvent)
	Creation(CreationEvent)
	Pause(PauseEvent)
	Withdrawal(WithdrawalEvent)
	Graduation(GraduationEvent)
}

// LogEmitter writes events to the structured logger.
type LogEmitter struct {
	log log.Logger
}

// NewLogEmitter returns an emitter backed by logger.
func NewLogEmitter(logger log.Logger) *LogEmitter {
	return &LogEmitter{log: logger}
}

func (e *LogEmitter) Trade(ev TradeEvent) {
	if ev.IsBuy {
		e.log.Info("buy executed",
			"pool", common.Hash(ev.PoolID).Hex(),
			"trader", ev.Trader.Hex(),
			"reserveIn", ev.ReserveIn,
			"tokensOut", ev.TokensOut,
			"platformFee", ev.PlatformFee,
			"creatorFee", ev.CreatorFee,
			"supply", ev.NewSupply,
		)
		return
	}
	e.log.Info("sell executed",
		"pool", common.Hash(ev.PoolID).Hex(),
		"trader", ev.Trader.Hex(),
		"tokensIn", ev.TokensIn,
		"reserveOut", ev.ReserveOut,
		"platformFee", ev.PlatformFee,
		"creatorFee", ev.CreatorFee,
		"supply", ev.NewSupply,
	)
}

func (e *LogEmitter) Creation(ev CreationEvent) {
	e.log.Info("pool created",
		"pool", common.Hash(ev.PoolID).Hex(),
		"mint", ev.Mint.Hex(),
		"creator", ev.Creator.Hex(),
		"totalSupply", ev.TotalSupply,
		"platformAllocation", ev.Allocation,
	)
}

func (e *LogEmitter) Pause(ev PauseEvent) {
	e.log.Info("pool pause state changed",
		"pool", common.Hash(ev.PoolID).Hex(),
		"paused", ev.Paused,
	)
}

func (e *LogEmitter) Withdrawal(ev WithdrawalEvent) {
	e.log.Warn("emergency withdrawal",
		"pool", common.Hash(ev.PoolID).Hex(),
		"to", ev.To.Hex(),
		"amount", ev.Amount,
		"reserve", ev.Reserve,
	)
}

func (e *LogEmitter) Graduation(ev GraduationEvent) {
	e.log.Info("pool graduated",
		"pool", common.Hash(ev.PoolID).Hex(),
		"reserve", ev.Reserve,
		"unsold", ev.Unsold,
	)
}
