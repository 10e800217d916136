// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package launch implements the token-launch trading pool precompile: a
// singleton manager owning one bonding-curve pool per launched asset. The
// curve package does all pricing math; this package owns custody, the
// buy/sell/admin state machine, and the safety invariants around it.
package launch

import (
	"errors"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/launchpad/curve"
)

// Precompile address for the launchpad (LP-A100 series)
const LaunchPoolAddress = "0x000000000000000000000000000000000000a100"

// Gas costs for launchpad operations
const (
	GasCreate   uint64 = 50_000 // Create new launch pool
	GasBuy      uint64 = 12_000 // Buy along the curve
	GasSell     uint64 = 12_000 // Sell along the curve
	GasQuote    uint64 = 1_000  // Price / market cap / estimates
	GasPoolRead uint64 = 500    // Pool state lookup
)

// Fee caps in basis points. The creator and platform caps are enforced
// independently, so total trade fees never exceed 10%.
const (
	MaxCreatorFeeBps uint64 = 500   // 5%
	MaxTradingFeeBps uint64 = 500   // 5%
	MaxAllocationBps uint64 = 2_000 // 20% of supply to treasury at most
)

// AssetKind tags what a launched asset represents. Purely descriptive;
// the curve treats all kinds identically.
type AssetKind uint8

const (
	AssetStandard AssetKind = iota
	AssetMeme
	AssetGameItem
	AssetAccessPass
)

// Errors - preconditions
var (
	ErrPlatformPaused      = errors.New("platform is paused")
	ErrPoolPaused          = errors.New("pool is paused")
	ErrPoolGraduated       = errors.New("pool has graduated")
	ErrReentrant           = errors.New("reentrancy detected")
	ErrZeroAmount          = errors.New("zero amount")
	ErrFeeTooHigh          = errors.New("fee exceeds cap")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientTokens  = errors.New("insufficient tokens")
	ErrInsufficientReserve = errors.New("insufficient reserve")
	ErrAuthorityUsed       = errors.New("minting authority already used")
	ErrPoolExists          = errors.New("pool already exists")
	ErrPoolNotFound        = errors.New("pool not found")
)

// Errors - trading
var (
	ErrSlippageExceeded = errors.New("slippage bound exceeded")
)

// Errors - admin and graduation
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotPaused    = errors.New("pool must be paused first")
	ErrNotGraduated = errors.New("pool has not graduated")
	ErrNotReady     = errors.New("graduation requirements not met")
)

// Metadata describes a launched asset at creation time.
type Metadata struct {
	Mint        common.Address // Asset identity
	Kind        AssetKind
	Name        string
	Symbol      string
	TotalSupply uint64 // Fixed forever at creation
}

// Pool is the mutable state of one launched asset's market. One instance
// exists per asset; all mutation goes through the LaunchManager.
type Pool struct {
	ID     [32]byte
	Mint   common.Address
	Kind   AssetKind
	Name   string
	Symbol string

	// Supply accounting. The invariant
	//   UnsoldBalance + CirculatingSupply + PlatformAllocation == TotalSupply
	// holds at every observable point.
	TotalSupply        uint64
	UnsoldBalance      uint64
	CirculatingSupply  uint64
	PlatformAllocation uint64

	// Reserve custody: the curve-integral value of CirculatingSupply, net
	// of amounts already extracted for graduation.
	ReserveBalance uint64

	Creator       common.Address
	CreatorFeeBps uint64

	// Curve parameters, copied from platform config at creation and
	// immutable afterwards.
	Params curve.Params

	// One-way flags. Graduated and MintRevoked only ever transition to
	// true; locked guards same-transaction re-entry and is restored on
	// every exit path.
	Paused      bool
	Graduated   bool
	MintRevoked bool
	locked      bool

	// Counters
	TotalVolume uint64 // Reserve-denominated gross volume
	TradeCount  uint64
	CreatedAt   uint64 // Block number
}

// PoolID derives the pool identifier for a mint.
func PoolID(mint common.Address) [32]byte {
	h := blake3.New()
	h.Write([]byte("launch-pool"))
	h.Write(mint.Bytes())
	var id [32]byte
	h.Digest().Read(id[:])
	return id
}

// MintAuthority is the capability to mint a launched asset. Create
// consumes it: the full supply is minted once and the authority revoked in
// the same step, guaranteeing the supply can never change afterwards.
type MintAuthority struct {
	mint    common.Address
	minted  uint64
	revoked bool
}

// NewMintAuthority returns a fresh authority for a mint with zero prior
// mints.
func NewMintAuthority(mint common.Address) *MintAuthority {
	return &MintAuthority{mint: mint}
}

// Mint returns the asset identity this authority controls.
func (a *MintAuthority) Mint() common.Address { return a.mint }

// Minted returns the total amount ever minted by this authority.
func (a *MintAuthority) Minted() uint64 { return a.minted }

// Revoked reports whether the authority has been permanently revoked.
func (a *MintAuthority) Revoked() bool { return a.revoked }

// mintOnceAndRevoke mints the full supply and burns the authority. No
// reverting transition exists.
func (a *MintAuthority) mintOnceAndRevoke(amount uint64) {
	a.minted = amount
	a.revoked = true
}

// AdminCap authorizes admin operations on a single pool. It is minted only
// by Create and cannot be forged outside this package: authorization is
// possession of the value, not a role lookup.
type AdminCap struct {
	poolID [32]byte
}

// PoolID returns the pool this capability administers.
func (c *AdminCap) PoolID() [32]byte { return c.poolID }

func (c *AdminCap) authorizes(id [32]byte) bool {
	return c != nil && c.poolID == id
}
