// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launch

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/launchpad/contract"
	"github.com/luxfi/launchpad/modules"
)

var _ contract.Configurator = (*configurator)(nil)
var _ contract.StatefulPrecompiledContract = (*LaunchContract)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "launchpadConfig"

// ContractLaunchPoolAddress is where the launchpad precompile lives.
var ContractLaunchPoolAddress = common.HexToAddress(LaunchPoolAddress)

// LaunchpadPrecompile is the singleton instance
var LaunchpadPrecompile = &LaunchContract{
	manager: NewLaunchManager(log.New("module", "launchpad")),
}

// Module is the precompile module (LaunchPool at 0xA100)
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      ContractLaunchPoolAddress,
	Contract:     LaunchpadPrecompile,
	Configurator: &configurator{},
}

// Method selectors for the launch pool. Admin and graduation operations
// are deliberately absent: they are capability-gated Go APIs, reachable
// only by the holder of the AdminCap minted at creation.
const (
	SelectorCreate       uint32 = 0x01000000 // create(address,uint8,string,string,uint64,uint64)
	SelectorBuy          uint32 = 0x02000000 // buy(bytes32,uint64,uint64)
	SelectorSell         uint32 = 0x03000000 // sell(bytes32,uint64,uint64)
	SelectorGetPool      uint32 = 0x04000000 // getPool(bytes32)
	SelectorPrice        uint32 = 0x05000000 // price(bytes32)
	SelectorEstimateBuy  uint32 = 0x06000000 // estimateBuy(bytes32,uint64)
	SelectorEstimateSell uint32 = 0x07000000 // estimateSell(bytes32,uint64)
)

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

func (*configurator) MakeConfig() contract.Config {
	return new(Config)
}

func (*configurator) Configure(
	cfg contract.Config,
	state contract.StateDB,
	blockContext contract.BlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T: %v", &Config{}, cfg, cfg)
	}
	if err := config.Verify(); err != nil {
		return err
	}
	if !state.Exist(ContractLaunchPoolAddress) {
		state.CreateAccount(ContractLaunchPoolAddress)
	}
	LaunchpadPrecompile.manager.SetConfig(config)
	return nil
}

// Config implements the contract.Config interface and carries the platform
// configuration every pool reads at trade time.
type Config struct {
	Upgrade contract.Upgrade `json:"upgrade,omitempty"`

	// TradingFeeBps is the platform's cut of every trade, capped at
	// MaxTradingFeeBps.
	TradingFeeBps uint64 `json:"tradingFeeBps,omitempty"`

	// CreationFee is charged in reserve units when a pool launches.
	CreationFee uint64 `json:"creationFee,omitempty"`

	// PlatformAllocationBps of each total supply is carved to the
	// treasury at creation, capped at MaxAllocationBps.
	PlatformAllocationBps uint64 `json:"platformAllocationBps,omitempty"`

	// GraduationThreshold is the market cap a pool must reach before it
	// may graduate.
	GraduationThreshold uint64 `json:"graduationThreshold,omitempty"`

	// MinGraduationLiquidity is the reserve floor for graduation.
	MinGraduationLiquidity uint64 `json:"minGraduationLiquidity,omitempty"`

	// Paused halts creation and trading platform-wide.
	Paused bool `json:"paused,omitempty"`

	// Treasury receives platform fees and allocations.
	Treasury common.Address `json:"treasury,omitempty"`

	// Curve parameters every new pool is created with.
	CurveBasePrice uint64 `json:"curveBasePrice,omitempty"`
	CurveSlope     uint64 `json:"curveSlope,omitempty"`
}

// DefaultConfig returns the platform defaults used before configuration.
func DefaultConfig() *Config {
	return &Config{
		TradingFeeBps:          100, // 1%
		CreationFee:            0,
		PlatformAllocationBps:  0,
		GraduationThreshold:    1_000_000_000,
		MinGraduationLiquidity: 100_000_000,
		CurveBasePrice:         1_000,
		CurveSlope:             1_000_000,
	}
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg contract.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.TradingFeeBps == other.TradingFeeBps &&
		c.CreationFee == other.CreationFee &&
		c.PlatformAllocationBps == other.PlatformAllocationBps &&
		c.GraduationThreshold == other.GraduationThreshold &&
		c.MinGraduationLiquidity == other.MinGraduationLiquidity &&
		c.Paused == other.Paused &&
		c.Treasury == other.Treasury &&
		c.CurveBasePrice == other.CurveBasePrice &&
		c.CurveSlope == other.CurveSlope
}

func (c *Config) Verify() error {
	if c.TradingFeeBps > MaxTradingFeeBps {
		return fmt.Errorf("%w: trading fee %d bps", ErrFeeTooHigh, c.TradingFeeBps)
	}
	if c.PlatformAllocationBps > MaxAllocationBps {
		return fmt.Errorf("%w: platform allocation %d bps", ErrFeeTooHigh, c.PlatformAllocationBps)
	}
	if c.CurveBasePrice == 0 && c.CurveSlope == 0 {
		return fmt.Errorf("curve parameters must not both be zero")
	}
	return nil
}

// LaunchContract implements the launchpad precompile
type LaunchContract struct {
	manager *LaunchManager
}

// Manager exposes the underlying launch manager for Go callers (the
// graduation coordinator and registry wire through it).
func (c *LaunchContract) Manager() *LaunchManager {
	return c.manager
}

// Run executes the precompile
func (c *LaunchContract) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) (ret []byte, remainingGas uint64, err error) {
	if len(input) < 4 {
		return nil, suppliedGas, fmt.Errorf("input too short")
	}

	selector := binary.BigEndian.Uint32(input[:4])
	data := input[4:]

	switch selector {
	case SelectorCreate:
		return c.runCreate(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorBuy:
		return c.runBuy(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSell:
		return c.runSell(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorGetPool:
		return c.runGetPool(accessibleState, data, suppliedGas)
	case SelectorPrice:
		return c.runPrice(accessibleState, data, suppliedGas)
	case SelectorEstimateBuy:
		return c.runEstimate(accessibleState, data, suppliedGas, true)
	case SelectorEstimateSell:
		return c.runEstimate(accessibleState, data, suppliedGas, false)
	default:
		return nil, suppliedGas, fmt.Errorf("unknown method selector: %x", selector)
	}
}

func (c *LaunchContract) runCreate(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	if suppliedGas < GasCreate {
		return nil, 0, fmt.Errorf("out of gas")
	}

	meta, creatorFeeBps, payment, err := DecodeCreateInput(input)
	if err != nil {
		return nil, suppliedGas - GasCreate, err
	}

	// Host callers get a fresh authority for the mint they name; the
	// pool-exists check still rejects relaunching an existing mint.
	authority := NewMintAuthority(meta.Mint)
	id, _, err := c.manager.Create(state.GetStateDB(), authority, meta, creatorFeeBps, payment, caller)
	if err != nil {
		return nil, suppliedGas - GasCreate, err
	}

	return id[:], suppliedGas - GasCreate, nil
}

func (c *LaunchContract) runBuy(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	if suppliedGas < GasBuy {
		return nil, 0, fmt.Errorf("out of gas")
	}

	id, amount, limit, err := DecodeTradeInput(input)
	if err != nil {
		return nil, suppliedGas - GasBuy, err
	}

	tokens, err := c.manager.Buy(state.GetStateDB(), id, caller, amount, limit)
	if err != nil {
		return nil, suppliedGas - GasBuy, err
	}

	return encodeUint64(tokens), suppliedGas - GasBuy, nil
}

func (c *LaunchContract) runSell(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, fmt.Errorf("cannot write in read-only mode")
	}
	if suppliedGas < GasSell {
		return nil, 0, fmt.Errorf("out of gas")
	}

	id, amount, limit, err := DecodeTradeInput(input)
	if err != nil {
		return nil, suppliedGas - GasSell, err
	}

	out, err := c.manager.Sell(state.GetStateDB(), id, caller, amount, limit)
	if err != nil {
		return nil, suppliedGas - GasSell, err
	}

	return encodeUint64(out), suppliedGas - GasSell, nil
}

func (c *LaunchContract) runGetPool(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	if suppliedGas < GasPoolRead {
		return nil, 0, fmt.Errorf("out of gas")
	}
	if len(input) < 32 {
		return nil, suppliedGas - GasPoolRead, fmt.Errorf("input too short for pool id")
	}

	var id [32]byte
	copy(id[:], input[:32])

	pool, err := c.manager.GetPool(state.GetStateDB(), id)
	if err != nil {
		return nil, suppliedGas - GasPoolRead, err
	}

	return EncodePoolState(pool), suppliedGas - GasPoolRead, nil
}

func (c *LaunchContract) runPrice(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
) ([]byte, uint64, error) {
	if suppliedGas < GasQuote {
		return nil, 0, fmt.Errorf("out of gas")
	}
	if len(input) < 32 {
		return nil, suppliedGas - GasQuote, fmt.Errorf("input too short for pool id")
	}

	var id [32]byte
	copy(id[:], input[:32])

	price, err := c.manager.Price(state.GetStateDB(), id)
	if err != nil {
		return nil, suppliedGas - GasQuote, err
	}

	return encodeUint64(price), suppliedGas - GasQuote, nil
}

func (c *LaunchContract) runEstimate(
	state contract.AccessibleState,
	input []byte,
	suppliedGas uint64,
	isBuy bool,
) ([]byte, uint64, error) {
	if suppliedGas < GasQuote {
		return nil, 0, fmt.Errorf("out of gas")
	}
	if len(input) < 40 {
		return nil, suppliedGas - GasQuote, fmt.Errorf("input too short for estimate")
	}

	var id [32]byte
	copy(id[:], input[:32])
	amount := binary.BigEndian.Uint64(input[32:40])

	var out uint64
	var err error
	if isBuy {
		out, err = c.manager.EstimateBuy(state.GetStateDB(), id, amount)
	} else {
		out, err = c.manager.EstimateSell(state.GetStateDB(), id, amount)
	}
	if err != nil {
		return nil, suppliedGas - GasQuote, err
	}

	return encodeUint64(out), suppliedGas - GasQuote, nil
}

// RequiredGas returns the gas required for the precompile input
func (c *LaunchContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return GasBuy
	}

	selector := binary.BigEndian.Uint32(input[:4])
	switch selector {
	case SelectorCreate:
		return GasCreate
	case SelectorBuy:
		return GasBuy
	case SelectorSell:
		return GasSell
	case SelectorGetPool:
		return GasPoolRead
	case SelectorPrice, SelectorEstimateBuy, SelectorEstimateSell:
		return GasQuote
	default:
		return GasBuy
	}
}

// =========================================================================
// Encoding
// =========================================================================

// DecodeCreateInput decodes a create call:
//
//	mint (32, address right-aligned) | kind (1) | feeBps (8) |
//	payment (8) | totalSupply (8) | nameLen (1) | name | symLen (1) | symbol
func DecodeCreateInput(input []byte) (Metadata, uint64, uint64, error) {
	if len(input) < 58 {
		return Metadata{}, 0, 0, fmt.Errorf("input too short for create")
	}

	meta := Metadata{
		Mint: common.BytesToAddress(input[12:32]),
		Kind: AssetKind(input[32]),
	}
	creatorFeeBps := binary.BigEndian.Uint64(input[33:41])
	payment := binary.BigEndian.Uint64(input[41:49])
	meta.TotalSupply = binary.BigEndian.Uint64(input[49:57])

	rest := input[57:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return Metadata{}, 0, 0, fmt.Errorf("input too short for name")
	}
	meta.Name = string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	symLen := int(rest[0])
	if len(rest) < 1+symLen {
		return Metadata{}, 0, 0, fmt.Errorf("input too short for symbol")
	}
	meta.Symbol = string(rest[1 : 1+symLen])

	return meta, creatorFeeBps, payment, nil
}

// DecodeTradeInput decodes a buy or sell call:
//
//	poolID (32) | amount (8) | limit (8)
func DecodeTradeInput(input []byte) ([32]byte, uint64, uint64, error) {
	var id [32]byte
	if len(input) < 48 {
		return id, 0, 0, fmt.Errorf("input too short for trade")
	}
	copy(id[:], input[:32])
	amount := binary.BigEndian.Uint64(input[32:40])
	limit := binary.BigEndian.Uint64(input[40:48])
	return id, amount, limit, nil
}

// EncodePoolState encodes pool state for return
func EncodePoolState(pool *Pool) []byte {
	result := make([]byte, 128)
	copy(result[0:32], pool.ID[:])
	binary.BigEndian.PutUint64(result[32:40], pool.TotalSupply)
	binary.BigEndian.PutUint64(result[40:48], pool.CirculatingSupply)
	binary.BigEndian.PutUint64(result[48:56], pool.UnsoldBalance)
	binary.BigEndian.PutUint64(result[56:64], pool.ReserveBalance)
	binary.BigEndian.PutUint64(result[64:72], pool.CreatorFeeBps)
	binary.BigEndian.PutUint64(result[72:80], pool.TotalVolume)
	binary.BigEndian.PutUint64(result[80:88], pool.TradeCount)
	var flags byte
	if pool.Paused {
		flags |= flagPaused
	}
	if pool.Graduated {
		flags |= flagGraduated
	}
	result[88] = flags
	copy(result[96:116], pool.Creator.Bytes())
	return result
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:32], v)
	return out
}
