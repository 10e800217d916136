// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the interfaces between the host execution
// environment and stateful precompiled contracts. The host supplies an
// AccessibleState view for each call; contracts persist through StateDB
// and never hold references across calls.
package contract

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// StateDB is the subset of the EVM state database precompiles may touch.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	GetBlockNumber() uint64
}

// BlockContext provides block metadata during configuration.
type BlockContext interface {
	Number() *big.Int
	Timestamp() uint64
}

// AccessibleState is the per-call view handed to Run.
type AccessibleState interface {
	GetStateDB() StateDB
	GetBlockContext() BlockContext
}

// StatefulPrecompiledContract is a precompile with access to state.
type StatefulPrecompiledContract interface {
	Run(
		accessibleState AccessibleState,
		caller common.Address,
		addr common.Address,
		input []byte,
		suppliedGas uint64,
		readOnly bool,
	) (ret []byte, remainingGas uint64, err error)

	RequiredGas(input []byte) uint64
}

// Config is the chain-config entry that activates a precompile module.
type Config interface {
	// Key returns the json key used to specify this config.
	Key() string
	// Timestamp returns the activation timestamp, nil if never.
	Timestamp() *uint64
	IsDisabled() bool
	Equal(Config) bool
	Verify() error
}

// Configurator builds and applies a module's Config.
type Configurator interface {
	MakeConfig() Config
	Configure(cfg Config, state StateDB, blockContext BlockContext) error
}

// Upgrade is the activation header embedded in every module Config.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

// Timestamp returns the activation timestamp, nil if never scheduled.
func (u *Upgrade) Timestamp() *uint64 { return u.BlockTimestamp }

// Equal reports whether two upgrades activate identically.
func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	if (u.BlockTimestamp == nil) != (other.BlockTimestamp == nil) {
		return false
	}
	return u.BlockTimestamp == nil || *u.BlockTimestamp == *other.BlockTimestamp
}
