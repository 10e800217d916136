// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launch

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/zeebo/blake3"

	"github.com/luxfi/launchpad/contract"
	"github.com/luxfi/launchpad/curve"
)

// Precompile address as bytes (LP-A100 LaunchPool)
var launchPoolAddr = common.HexToAddress(LaunchPoolAddress)

// Storage key prefixes for launch pool state
var (
	poolSupplyPrefix  = []byte("psup")
	poolReservePrefix = []byte("prsv")
	poolCurvePrefix   = []byte("pcrv")
	poolCreatorPrefix = []byte("pcrt")
	poolNamePrefix    = []byte("pnam")
	poolSymbolPrefix  = []byte("psym")
	tokenLedgerPrefix = []byte("tbal")
)

// Notifier receives fire-and-forget lifecycle notifications. Failures are
// the notifier's problem; the manager never observes them.
type Notifier interface {
	PoolCreated(id [32]byte, mint common.Address, name, symbol string, creator common.Address, createdAt uint64)
	PoolGraduated(id [32]byte)
}

// LaunchManager implements the singleton launchpad precompile.
// All pools live in this single contract:
// - One bonding-curve market per launched asset
// - Reserve custody in the precompile's native balance
// - Token ledger for launched assets in precompile storage
type LaunchManager struct {
	// mu serializes every call; the host executes transactions one at a
	// time, so this only matters for direct Go callers.
	mu sync.RWMutex

	// pools caches loaded pool states by pool ID
	pools map[[32]byte]*Pool

	cfg      *Config
	emitter  Emitter
	notifier Notifier
	log      log.Logger
}

// NewLaunchManager creates a new launch manager instance
func NewLaunchManager(logger log.Logger) *LaunchManager {
	return &LaunchManager{
		pools:   make(map[[32]byte]*Pool),
		cfg:     DefaultConfig(),
		emitter: NewLogEmitter(logger),
		log:     logger,
	}
}

// SetConfig installs the platform configuration. Called at configure time
// and from tests; the config must already have passed Verify.
func (lm *LaunchManager) SetConfig(cfg *Config) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.cfg = cfg
}

// SetNotifier attaches a lifecycle notifier (the discovery registry).
func (lm *LaunchManager) SetNotifier(n Notifier) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.notifier = n
}

// makeStorageKey creates a storage key from prefix and identifier
func makeStorageKey(prefix []byte, id []byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	h.Write(id)
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// =========================================================================
// Pool Creation
// =========================================================================

// Create launches a new asset: mints the full supply exactly once, revokes
// the minting authority so supply is fixed forever, carves the platform
// allocation to the treasury, routes the creation fee, and registers the
// pool with zero circulating supply. Returns the pool ID and the pool's
// admin capability; the capability is minted here and nowhere else.
func (lm *LaunchManager) Create(
	stateDB contract.StateDB,
	authority *MintAuthority,
	meta Metadata,
	creatorFeeBps uint64,
	payment uint64,
	payer common.Address,
) ([32]byte, *AdminCap, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var zero [32]byte

	if lm.cfg.Paused {
		return zero, nil, ErrPlatformPaused
	}
	if authority == nil || authority.revoked || authority.minted != 0 {
		return zero, nil, ErrAuthorityUsed
	}
	if authority.mint != meta.Mint {
		return zero, nil, fmt.Errorf("%w: authority is for %s", ErrUnauthorized, authority.mint.Hex())
	}
	if meta.TotalSupply == 0 {
		return zero, nil, ErrZeroAmount
	}
	if creatorFeeBps > MaxCreatorFeeBps {
		return zero, nil, fmt.Errorf("%w: creator fee %d bps", ErrFeeTooHigh, creatorFeeBps)
	}
	if payment < lm.cfg.CreationFee {
		return zero, nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientPayment, lm.cfg.CreationFee, payment)
	}
	if stateDB.GetBalance(payer).Cmp(uint256.NewInt(lm.cfg.CreationFee)) < 0 {
		return zero, nil, fmt.Errorf("%w: payer cannot cover creation fee %d", ErrInsufficientPayment, lm.cfg.CreationFee)
	}

	id := PoolID(meta.Mint)
	if p := lm.getPool(stateDB, id); p != nil {
		return zero, nil, ErrPoolExists
	}

	allocation, err := curve.Bps(meta.TotalSupply, lm.cfg.PlatformAllocationBps)
	if err != nil {
		return zero, nil, err
	}

	// Single mint, then the authority is dead. No path ever mints again.
	authority.mintOnceAndRevoke(meta.TotalSupply)

	pool := &Pool{
		ID:                 id,
		Mint:               meta.Mint,
		Kind:               meta.Kind,
		Name:               meta.Name,
		Symbol:             meta.Symbol,
		TotalSupply:        meta.TotalSupply,
		UnsoldBalance:      meta.TotalSupply - allocation,
		PlatformAllocation: allocation,
		Creator:            payer,
		CreatorFeeBps:      creatorFeeBps,
		Params: curve.Params{
			BasePrice: lm.cfg.CurveBasePrice,
			Slope:     lm.cfg.CurveSlope,
		},
		MintRevoked: true,
		CreatedAt:   stateDB.GetBlockNumber(),
	}

	// Only the creation fee is taken; any surplus payment stays with the
	// payer untouched.
	if lm.cfg.CreationFee > 0 {
		fee := uint256.NewInt(lm.cfg.CreationFee)
		stateDB.SubBalance(payer, fee)
		stateDB.AddBalance(lm.cfg.Treasury, fee)
	}
	if allocation > 0 {
		lm.creditTokens(stateDB, meta.Mint, lm.cfg.Treasury, allocation)
	}

	lm.setPool(stateDB, id, pool)

	if lm.notifier != nil {
		lm.notifier.PoolCreated(id, meta.Mint, meta.Name, meta.Symbol, payer, pool.CreatedAt)
	}
	lm.emitter.Creation(CreationEvent{
		PoolID:      id,
		Mint:        meta.Mint,
		Creator:     payer,
		TotalSupply: meta.TotalSupply,
		Allocation:  allocation,
	})

	return id, &AdminCap{poolID: id}, nil
}

// =========================================================================
// Trading
// =========================================================================

// Buy spends payment (gross, fees included) to mint tokens along the curve.
// Fees come off the top before conversion: net payment joins the reserve
// and prices the trade. Either every effect applies or none do.
func (lm *LaunchManager) Buy(
	stateDB contract.StateDB,
	id [32]byte,
	buyer common.Address,
	payment uint64,
	minTokensOut uint64,
) (uint64, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.cfg.Paused {
		return 0, ErrPlatformPaused
	}
	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	if pool.locked {
		return 0, ErrReentrant
	}
	pool.locked = true
	defer func() { pool.locked = false }()

	if pool.Paused {
		return 0, ErrPoolPaused
	}
	if pool.Graduated {
		return 0, ErrPoolGraduated
	}
	if payment == 0 {
		return 0, ErrZeroAmount
	}
	if stateDB.GetBalance(buyer).Cmp(uint256.NewInt(payment)) < 0 {
		return 0, ErrInsufficientPayment
	}

	platformFee, err := curve.Bps(payment, lm.cfg.TradingFeeBps)
	if err != nil {
		return 0, err
	}
	creatorFee, err := curve.Bps(payment, pool.CreatorFeeBps)
	if err != nil {
		return 0, err
	}
	net := payment - platformFee - creatorFee

	tokens, err := pool.Params.TokensOut(net, pool.CirculatingSupply)
	if err != nil {
		return 0, err
	}
	if tokens == 0 {
		// Dust payment rounds to nothing; fail instead of eating the fee.
		return 0, ErrZeroAmount
	}
	if tokens < minTokensOut {
		return 0, fmt.Errorf("%w: out %d < min %d", ErrSlippageExceeded, tokens, minTokensOut)
	}
	if tokens > pool.UnsoldBalance {
		return 0, fmt.Errorf("%w: want %d, unsold %d", ErrInsufficientTokens, tokens, pool.UnsoldBalance)
	}

	// All checks passed; apply every effect.
	pool.UnsoldBalance -= tokens
	pool.CirculatingSupply += tokens
	pool.ReserveBalance += net
	pool.TotalVolume += payment
	pool.TradeCount++

	stateDB.SubBalance(buyer, uint256.NewInt(payment))
	stateDB.AddBalance(launchPoolAddr, uint256.NewInt(net))
	if platformFee > 0 {
		stateDB.AddBalance(lm.cfg.Treasury, uint256.NewInt(platformFee))
	}
	if creatorFee > 0 {
		stateDB.AddBalance(pool.Creator, uint256.NewInt(creatorFee))
	}
	lm.creditTokens(stateDB, pool.Mint, buyer, tokens)

	lm.setPool(stateDB, id, pool)

	lm.emitter.Trade(TradeEvent{
		PoolID:      id,
		Trader:      buyer,
		IsBuy:       true,
		ReserveIn:   payment,
		TokensOut:   tokens,
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
		NewSupply:   pool.CirculatingSupply,
	})

	return tokens, nil
}

// Sell burns tokensIn back into the curve. The gross curve output is
// debited from the reserve; fees come off that gross amount and the seller
// receives the remainder.
func (lm *LaunchManager) Sell(
	stateDB contract.StateDB,
	id [32]byte,
	seller common.Address,
	tokensIn uint64,
	minReserveOut uint64,
) (uint64, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.cfg.Paused {
		return 0, ErrPlatformPaused
	}
	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	if pool.locked {
		return 0, ErrReentrant
	}
	pool.locked = true
	defer func() { pool.locked = false }()

	if pool.Paused {
		return 0, ErrPoolPaused
	}
	if pool.Graduated {
		return 0, ErrPoolGraduated
	}
	if tokensIn == 0 {
		return 0, ErrZeroAmount
	}
	if lm.tokenBalance(stateDB, pool.Mint, seller) < tokensIn {
		return 0, ErrInsufficientTokens
	}

	gross, err := pool.Params.ReserveOut(tokensIn, pool.CirculatingSupply)
	if err != nil {
		return 0, err
	}
	if gross > pool.ReserveBalance {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientReserve, gross, pool.ReserveBalance)
	}

	platformFee, err := curve.Bps(gross, lm.cfg.TradingFeeBps)
	if err != nil {
		return 0, err
	}
	creatorFee, err := curve.Bps(gross, pool.CreatorFeeBps)
	if err != nil {
		return 0, err
	}
	net := gross - platformFee - creatorFee
	if net < minReserveOut {
		return 0, fmt.Errorf("%w: out %d < min %d", ErrSlippageExceeded, net, minReserveOut)
	}

	pool.CirculatingSupply -= tokensIn
	pool.UnsoldBalance += tokensIn
	pool.ReserveBalance -= gross
	pool.TotalVolume += gross
	pool.TradeCount++

	lm.debitTokens(stateDB, pool.Mint, seller, tokensIn)
	stateDB.SubBalance(launchPoolAddr, uint256.NewInt(gross))
	stateDB.AddBalance(seller, uint256.NewInt(net))
	if platformFee > 0 {
		stateDB.AddBalance(lm.cfg.Treasury, uint256.NewInt(platformFee))
	}
	if creatorFee > 0 {
		stateDB.AddBalance(pool.Creator, uint256.NewInt(creatorFee))
	}

	lm.setPool(stateDB, id, pool)

	lm.emitter.Trade(TradeEvent{
		PoolID:      id,
		Trader:      seller,
		IsBuy:       false,
		TokensIn:    tokensIn,
		ReserveOut:  net,
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
		NewSupply:   pool.CirculatingSupply,
	})

	return net, nil
}

// =========================================================================
// View Functions
// =========================================================================

// Price returns the current spot price of a pool.
func (lm *LaunchManager) Price(stateDB contract.StateDB, id [32]byte) (uint64, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	return pool.Params.Price(pool.CirculatingSupply)
}

// MarketCap returns spot price times circulating supply, denominated in
// reserve units so it compares directly against GraduationThreshold and
// MinGraduationLiquidity.
func (lm *LaunchManager) MarketCap(stateDB contract.StateDB, id [32]byte) (uint64, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	return marketCap(pool)
}

func marketCap(pool *Pool) (uint64, error) {
	price, err := pool.Params.Price(pool.CirculatingSupply)
	if err != nil {
		return 0, err
	}
	return curve.MulDiv(price, pool.CirculatingSupply, 1)
}

// EstimateBuy quotes a buy without mutating anything: tokens out for a
// gross payment, after fees, ignoring the unsold-balance cap.
func (lm *LaunchManager) EstimateBuy(stateDB contract.StateDB, id [32]byte, payment uint64) (uint64, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	platformFee, err := curve.Bps(payment, lm.cfg.TradingFeeBps)
	if err != nil {
		return 0, err
	}
	creatorFee, err := curve.Bps(payment, pool.CreatorFeeBps)
	if err != nil {
		return 0, err
	}
	return pool.Params.TokensOut(payment-platformFee-creatorFee, pool.CirculatingSupply)
}

// EstimateSell quotes the net reserve out for selling tokensIn.
func (lm *LaunchManager) EstimateSell(stateDB contract.StateDB, id [32]byte, tokensIn uint64) (uint64, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	gross, err := pool.Params.ReserveOut(tokensIn, pool.CirculatingSupply)
	if err != nil {
		return 0, err
	}
	platformFee, err := curve.Bps(gross, lm.cfg.TradingFeeBps)
	if err != nil {
		return 0, err
	}
	creatorFee, err := curve.Bps(gross, pool.CreatorFeeBps)
	if err != nil {
		return 0, err
	}
	return gross - platformFee - creatorFee, nil
}

// GetPool returns a snapshot copy of a pool's state.
func (lm *LaunchManager) GetPool(stateDB contract.StateDB, id [32]byte) (*Pool, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return nil, ErrPoolNotFound
	}
	snapshot := *pool
	snapshot.locked = false
	return &snapshot, nil
}

// TokenBalance returns a holder's balance of a launched asset.
func (lm *LaunchManager) TokenBalance(stateDB contract.StateDB, mint common.Address, holder common.Address) uint64 {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return lm.tokenBalance(stateDB, mint, holder)
}

// =========================================================================
// Admin Operations
// =========================================================================

// SetPaused pauses or resumes trading on one pool. Capability-gated.
func (lm *LaunchManager) SetPaused(stateDB contract.StateDB, cap *AdminCap, id [32]byte, paused bool) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return ErrUnauthorized
	}

	pool.Paused = paused
	lm.setPool(stateDB, id, pool)

	lm.emitter.Pause(PauseEvent{PoolID: id, Paused: paused})
	return nil
}

// EmergencyWithdrawReserve moves part of the reserve out of a paused pool.
// The pause gate makes emergency extraction a deliberate two-step act.
func (lm *LaunchManager) EmergencyWithdrawReserve(
	stateDB contract.StateDB,
	cap *AdminCap,
	id [32]byte,
	to common.Address,
	amount uint64,
) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return ErrUnauthorized
	}
	if !pool.Paused {
		return ErrNotPaused
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if amount > pool.ReserveBalance {
		return fmt.Errorf("%w: want %d, have %d", ErrInsufficientReserve, amount, pool.ReserveBalance)
	}

	pool.ReserveBalance -= amount
	stateDB.SubBalance(launchPoolAddr, uint256.NewInt(amount))
	stateDB.AddBalance(to, uint256.NewInt(amount))
	lm.setPool(stateDB, id, pool)

	lm.emitter.Withdrawal(WithdrawalEvent{PoolID: id, To: to, Amount: amount, Reserve: true})
	return nil
}

// EmergencyWithdrawTokens moves unsold tokens out of a paused pool.
func (lm *LaunchManager) EmergencyWithdrawTokens(
	stateDB contract.StateDB,
	cap *AdminCap,
	id [32]byte,
	to common.Address,
	amount uint64,
) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return ErrUnauthorized
	}
	if !pool.Paused {
		return ErrNotPaused
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if amount > pool.UnsoldBalance {
		return fmt.Errorf("%w: want %d, unsold %d", ErrInsufficientTokens, amount, pool.UnsoldBalance)
	}

	pool.UnsoldBalance -= amount
	lm.creditTokens(stateDB, pool.Mint, to, amount)
	lm.setPool(stateDB, id, pool)

	lm.emitter.Withdrawal(WithdrawalEvent{PoolID: id, To: to, Amount: amount, Reserve: false})
	return nil
}

// =========================================================================
// Graduation
// =========================================================================

// CheckGraduationReady reports whether a pool meets the graduation bar:
// market cap at or above the threshold and reserve at or above the
// liquidity floor.
func (lm *LaunchManager) CheckGraduationReady(stateDB contract.StateDB, id [32]byte) (bool, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return false, ErrPoolNotFound
	}
	return lm.graduationReady(pool)
}

func (lm *LaunchManager) graduationReady(pool *Pool) (bool, error) {
	if pool.Graduated {
		return true, nil
	}
	cap, err := marketCap(pool)
	if err != nil {
		return false, err
	}
	return cap >= lm.cfg.GraduationThreshold &&
		pool.ReserveBalance >= lm.cfg.MinGraduationLiquidity, nil
}

// SetGraduated flips the one-way graduated flag. Idempotent once set;
// before graduation it requires the readiness bar. There is no ungraduate.
func (lm *LaunchManager) SetGraduated(stateDB contract.StateDB, cap *AdminCap, id [32]byte) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return ErrUnauthorized
	}
	if pool.Graduated {
		return nil
	}
	ready, err := lm.graduationReady(pool)
	if err != nil {
		return err
	}
	if !ready {
		return ErrNotReady
	}

	pool.Graduated = true
	lm.setPool(stateDB, id, pool)

	if lm.notifier != nil {
		lm.notifier.PoolGraduated(id)
	}
	lm.emitter.Graduation(GraduationEvent{
		PoolID:  id,
		Reserve: pool.ReserveBalance,
		Unsold:  pool.UnsoldBalance,
	})
	return nil
}

// ExtractReserve drains the entire remaining reserve of a graduated pool
// to the destination. Only the capability holder may call it, and only
// after graduation; trading is already sealed off by the graduated flag.
func (lm *LaunchManager) ExtractReserve(stateDB contract.StateDB, cap *AdminCap, id [32]byte, to common.Address) (uint64, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return 0, ErrUnauthorized
	}
	if !pool.Graduated {
		return 0, ErrNotGraduated
	}

	amount := pool.ReserveBalance
	pool.ReserveBalance = 0
	if amount > 0 {
		stateDB.SubBalance(launchPoolAddr, uint256.NewInt(amount))
		stateDB.AddBalance(to, uint256.NewInt(amount))
	}
	lm.setPool(stateDB, id, pool)
	return amount, nil
}

// ExtractTokens drains the entire unsold balance of a graduated pool to
// the destination's token ledger.
func (lm *LaunchManager) ExtractTokens(stateDB contract.StateDB, cap *AdminCap, id [32]byte, to common.Address) (uint64, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pool := lm.getPool(stateDB, id)
	if pool == nil {
		return 0, ErrPoolNotFound
	}
	if !cap.authorizes(id) {
		return 0, ErrUnauthorized
	}
	if !pool.Graduated {
		return 0, ErrNotGraduated
	}

	amount := pool.UnsoldBalance
	pool.UnsoldBalance = 0
	if amount > 0 {
		lm.creditTokens(stateDB, pool.Mint, to, amount)
	}
	lm.setPool(stateDB, id, pool)
	return amount, nil
}

// =========================================================================
// State Management
// =========================================================================

// Storage layout per pool, keyed by blake3(prefix || poolID):
//
//	psup: TotalSupply | UnsoldBalance | CirculatingSupply | PlatformAllocation
//	prsv: ReserveBalance | TotalVolume | TradeCount | CreatedAt
//	pcrv: BasePrice | Slope | CreatorFeeBps | flags+kind
//	pcrt: creator address
//	pnam/psym: string bytes, length in the final slot byte
//
// Each slot packs four big-endian uint64 words into one 32-byte hash.

const (
	flagPaused      = 1 << 0
	flagGraduated   = 1 << 1
	flagMintRevoked = 1 << 2
)

// getPool retrieves pool state, memory cache first. Returns nil when the
// pool does not exist (a pool always has nonzero TotalSupply).
func (lm *LaunchManager) getPool(stateDB contract.StateDB, id [32]byte) *Pool {
	if pool, ok := lm.pools[id]; ok {
		return pool
	}

	supplyHash := stateDB.GetState(launchPoolAddr, makeStorageKey(poolSupplyPrefix, id[:]))
	if supplyHash == (common.Hash{}) {
		return nil
	}

	pool := &Pool{ID: id}
	pool.TotalSupply = binary.BigEndian.Uint64(supplyHash[0:8])
	pool.UnsoldBalance = binary.BigEndian.Uint64(supplyHash[8:16])
	pool.CirculatingSupply = binary.BigEndian.Uint64(supplyHash[16:24])
	pool.PlatformAllocation = binary.BigEndian.Uint64(supplyHash[24:32])

	reserveHash := stateDB.GetState(launchPoolAddr, makeStorageKey(poolReservePrefix, id[:]))
	pool.ReserveBalance = binary.BigEndian.Uint64(reserveHash[0:8])
	pool.TotalVolume = binary.BigEndian.Uint64(reserveHash[8:16])
	pool.TradeCount = binary.BigEndian.Uint64(reserveHash[16:24])
	pool.CreatedAt = binary.BigEndian.Uint64(reserveHash[24:32])

	curveHash := stateDB.GetState(launchPoolAddr, makeStorageKey(poolCurvePrefix, id[:]))
	pool.Params.BasePrice = binary.BigEndian.Uint64(curveHash[0:8])
	pool.Params.Slope = binary.BigEndian.Uint64(curveHash[8:16])
	pool.CreatorFeeBps = binary.BigEndian.Uint64(curveHash[16:24])
	flags := curveHash[24]
	pool.Paused = flags&flagPaused != 0
	pool.Graduated = flags&flagGraduated != 0
	pool.MintRevoked = flags&flagMintRevoked != 0
	pool.Kind = AssetKind(curveHash[25])

	creatorHash := stateDB.GetState(launchPoolAddr, makeStorageKey(poolCreatorPrefix, id[:]))
	pool.Creator = common.BytesToAddress(creatorHash[12:32])

	mintHash := stateDB.GetState(launchPoolAddr, makeStorageKey(poolCreatorPrefix, append(id[:], []byte("mint")...)))
	pool.Mint = common.BytesToAddress(mintHash[12:32])

	pool.Name = unpackString(stateDB.GetState(launchPoolAddr, makeStorageKey(poolNamePrefix, id[:])))
	pool.Symbol = unpackString(stateDB.GetState(launchPoolAddr, makeStorageKey(poolSymbolPrefix, id[:])))

	lm.pools[id] = pool
	return pool
}

// setPool saves pool state to storage and refreshes the cache
func (lm *LaunchManager) setPool(stateDB contract.StateDB, id [32]byte, pool *Pool) {
	lm.pools[id] = pool

	var supplyHash common.Hash
	binary.BigEndian.PutUint64(supplyHash[0:8], pool.TotalSupply)
	binary.BigEndian.PutUint64(supplyHash[8:16], pool.UnsoldBalance)
	binary.BigEndian.PutUint64(supplyHash[16:24], pool.CirculatingSupply)
	binary.BigEndian.PutUint64(supplyHash[24:32], pool.PlatformAllocation)
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolSupplyPrefix, id[:]), supplyHash)

	var reserveHash common.Hash
	binary.BigEndian.PutUint64(reserveHash[0:8], pool.ReserveBalance)
	binary.BigEndian.PutUint64(reserveHash[8:16], pool.TotalVolume)
	binary.BigEndian.PutUint64(reserveHash[16:24], pool.TradeCount)
	binary.BigEndian.PutUint64(reserveHash[24:32], pool.CreatedAt)
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolReservePrefix, id[:]), reserveHash)

	var curveHash common.Hash
	binary.BigEndian.PutUint64(curveHash[0:8], pool.Params.BasePrice)
	binary.BigEndian.PutUint64(curveHash[8:16], pool.Params.Slope)
	binary.BigEndian.PutUint64(curveHash[16:24], pool.CreatorFeeBps)
	var flags byte
	if pool.Paused {
		flags |= flagPaused
	}
	if pool.Graduated {
		flags |= flagGraduated
	}
	if pool.MintRevoked {
		flags |= flagMintRevoked
	}
	curveHash[24] = flags
	curveHash[25] = byte(pool.Kind)
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolCurvePrefix, id[:]), curveHash)

	var creatorHash common.Hash
	copy(creatorHash[12:32], pool.Creator.Bytes())
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolCreatorPrefix, id[:]), creatorHash)

	var mintHash common.Hash
	copy(mintHash[12:32], pool.Mint.Bytes())
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolCreatorPrefix, append(id[:], []byte("mint")...)), mintHash)

	stateDB.SetState(launchPoolAddr, makeStorageKey(poolNamePrefix, id[:]), packString(pool.Name))
	stateDB.SetState(launchPoolAddr, makeStorageKey(poolSymbolPrefix, id[:]), packString(pool.Symbol))
}

// packString fits up to 31 bytes of s into a hash, length in the last byte.
func packString(s string) common.Hash {
	var h common.Hash
	b := []byte(s)
	if len(b) > 31 {
		b = b[:31]
	}
	copy(h[:], b)
	h[31] = byte(len(b))
	return h
}

func unpackString(h common.Hash) string {
	n := int(h[31])
	if n > 31 {
		n = 31
	}
	return string(h[:n])
}

// =========================================================================
// Token Ledger
// =========================================================================

// Launched assets live in a ledger inside precompile storage:
// blake3("tbal" || mint || holder) -> balance.

func tokenLedgerKey(mint, holder common.Address) common.Hash {
	h := blake3.New()
	h.Write(tokenLedgerPrefix)
	h.Write(mint.Bytes())
	h.Write(holder.Bytes())
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

func (lm *LaunchManager) tokenBalance(stateDB contract.StateDB, mint, holder common.Address) uint64 {
	val := stateDB.GetState(launchPoolAddr, tokenLedgerKey(mint, holder))
	return binary.BigEndian.Uint64(val[24:32])
}

func (lm *LaunchManager) creditTokens(stateDB contract.StateDB, mint, holder common.Address, amount uint64) {
	bal := lm.tokenBalance(stateDB, mint, holder) + amount
	var val common.Hash
	binary.BigEndian.PutUint64(val[24:32], bal)
	stateDB.SetState(launchPoolAddr, tokenLedgerKey(mint, holder), val)
}

func (lm *LaunchManager) debitTokens(stateDB contract.StateDB, mint, holder common.Address, amount uint64) {
	bal := lm.tokenBalance(stateDB, mint, holder) - amount
	var val common.Hash
	binary.BigEndian.PutUint64(val[24:32], bal)
	stateDB.SetState(launchPoolAddr, tokenLedgerKey(mint, holder), val)
}
