// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launch

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/launchpad/contract"
)

func newTestContract(cfg *Config) (*LaunchContract, *mockAccessibleState) {
	lm, db := newTestManager(cfg)
	return &LaunchContract{manager: lm}, &mockAccessibleState{
		stateDB: db,
		block:   &mockBlockContext{number: 1, timestamp: 1_700_000_000},
	}
}

func encodeCreateInput(mint common.Address, kind AssetKind, feeBps, payment, totalSupply uint64, name, symbol string) []byte {
	input := make([]byte, 0, 64)
	input = binary.BigEndian.AppendUint32(input, SelectorCreate)
	var mintWord [32]byte
	copy(mintWord[12:], mint.Bytes())
	input = append(input, mintWord[:]...)
	input = append(input, byte(kind))
	input = binary.BigEndian.AppendUint64(input, feeBps)
	input = binary.BigEndian.AppendUint64(input, payment)
	input = binary.BigEndian.AppendUint64(input, totalSupply)
	input = append(input, byte(len(name)))
	input = append(input, name...)
	input = append(input, byte(len(symbol)))
	input = append(input, symbol...)
	return input
}

func encodeTradeInput(selector uint32, id [32]byte, amount, limit uint64) []byte {
	input := make([]byte, 0, 52)
	input = binary.BigEndian.AppendUint32(input, selector)
	input = append(input, id[:]...)
	input = binary.BigEndian.AppendUint64(input, amount)
	input = binary.BigEndian.AppendUint64(input, limit)
	return input
}

func TestRunCreateAndBuy(t *testing.T) {
	c, state := newTestContract(testConfig())

	input := encodeCreateInput(testMint, AssetMeme, 500, 10_000, 1_000_000_000, "Test Token", "TEST")
	ret, remaining, err := c.Run(state, testCreator, ContractLaunchPoolAddress, input, GasCreate+1_000, false)
	require.NoError(t, err)
	if remaining != 1_000 {
		t.Errorf("remaining gas = %d, want 1000", remaining)
	}

	var id [32]byte
	copy(id[:], ret)
	if id != PoolID(testMint) {
		t.Fatal("returned pool id mismatch")
	}

	buyInput := encodeTradeInput(SelectorBuy, id, 1_000_000, 0)
	ret, _, err = c.Run(state, testBuyer, ContractLaunchPoolAddress, buyInput, GasBuy, false)
	require.NoError(t, err)
	if got := binary.BigEndian.Uint64(ret[24:32]); got != 944 {
		t.Errorf("tokens out = %d, want 944", got)
	}

	sellInput := encodeTradeInput(SelectorSell, id, 944, 0)
	ret, _, err = c.Run(state, testBuyer, ContractLaunchPoolAddress, sellInput, GasSell, false)
	require.NoError(t, err)
	if got := binary.BigEndian.Uint64(ret[24:32]); got != 892_501 {
		t.Errorf("reserve out = %d, want 892501", got)
	}
}

func TestRunQuotes(t *testing.T) {
	c, state := newTestContract(testConfig())

	input := encodeCreateInput(testMint, AssetStandard, 500, 10_000, 1_000_000_000, "Test", "T")
	ret, _, err := c.Run(state, testCreator, ContractLaunchPoolAddress, input, GasCreate, false)
	require.NoError(t, err)
	var id [32]byte
	copy(id[:], ret)

	priceInput := binary.BigEndian.AppendUint32(nil, SelectorPrice)
	priceInput = append(priceInput, id[:]...)
	ret, _, err = c.Run(state, testBuyer, ContractLaunchPoolAddress, priceInput, GasQuote, true)
	require.NoError(t, err)
	if got := binary.BigEndian.Uint64(ret[24:32]); got != 1_000 {
		t.Errorf("price = %d, want 1000", got)
	}

	estInput := binary.BigEndian.AppendUint32(nil, SelectorEstimateBuy)
	estInput = append(estInput, id[:]...)
	estInput = binary.BigEndian.AppendUint64(estInput, 1_000_000)
	ret, _, err = c.Run(state, testBuyer, ContractLaunchPoolAddress, estInput, GasQuote, true)
	require.NoError(t, err)
	if got := binary.BigEndian.Uint64(ret[24:32]); got != 944 {
		t.Errorf("estimate = %d, want 944", got)
	}

	poolInput := binary.BigEndian.AppendUint32(nil, SelectorGetPool)
	poolInput = append(poolInput, id[:]...)
	ret, _, err = c.Run(state, testBuyer, ContractLaunchPoolAddress, poolInput, GasPoolRead, true)
	require.NoError(t, err)
	if got := binary.BigEndian.Uint64(ret[32:40]); got != 1_000_000_000 {
		t.Errorf("encoded total supply = %d", got)
	}
}

func TestRunRejections(t *testing.T) {
	c, state := newTestContract(testConfig())

	// Writes refused in read-only mode, gas untouched.
	input := encodeCreateInput(testMint, AssetStandard, 0, 10_000, 1_000, "T", "T")
	_, remaining, err := c.Run(state, testCreator, ContractLaunchPoolAddress, input, GasCreate, true)
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("read-only create: err = %v", err)
	}
	if remaining != GasCreate {
		t.Errorf("read-only failure burned gas: %d", remaining)
	}

	// Out of gas.
	if _, _, err := c.Run(state, testCreator, ContractLaunchPoolAddress, input, GasCreate-1, false); err == nil {
		t.Fatal("expected out of gas")
	}

	// Unknown selector and truncated input.
	bad := binary.BigEndian.AppendUint32(nil, 0xdeadbeef)
	if _, _, err := c.Run(state, testCreator, ContractLaunchPoolAddress, bad, GasBuy, false); err == nil {
		t.Fatal("expected unknown selector error")
	}
	if _, _, err := c.Run(state, testCreator, ContractLaunchPoolAddress, []byte{0x01}, GasBuy, false); err == nil {
		t.Fatal("expected input too short error")
	}
}

func TestRequiredGas(t *testing.T) {
	c, _ := newTestContract(testConfig())

	tests := []struct {
		selector uint32
		want     uint64
	}{
		{SelectorCreate, GasCreate},
		{SelectorBuy, GasBuy},
		{SelectorSell, GasSell},
		{SelectorGetPool, GasPoolRead},
		{SelectorPrice, GasQuote},
		{SelectorEstimateBuy, GasQuote},
		{SelectorEstimateSell, GasQuote},
	}
	for _, tt := range tests {
		input := binary.BigEndian.AppendUint32(nil, tt.selector)
		if got := c.RequiredGas(input); got != tt.want {
			t.Errorf("RequiredGas(%#x) = %d, want %d", tt.selector, got, tt.want)
		}
	}
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(c *Config) {}},
		{name: "trading fee at cap", mutate: func(c *Config) { c.TradingFeeBps = MaxTradingFeeBps }},
		{name: "trading fee over cap", mutate: func(c *Config) { c.TradingFeeBps = MaxTradingFeeBps + 1 }, wantErr: true},
		{name: "allocation over cap", mutate: func(c *Config) { c.PlatformAllocationBps = MaxAllocationBps + 1 }, wantErr: true},
		{name: "degenerate curve", mutate: func(c *Config) { c.CurveBasePrice = 0; c.CurveSlope = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Verify()
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigEqual(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	if !a.Equal(b) {
		t.Fatal("identical configs not equal")
	}
	b.TradingFeeBps++
	if a.Equal(b) {
		t.Fatal("differing configs equal")
	}
	if a.Equal(nil) {
		t.Fatal("nil config equal")
	}

	ts := uint64(1_700_000_000)
	a.Upgrade.BlockTimestamp = &ts
	if a.Timestamp() == nil || *a.Timestamp() != ts {
		t.Fatal("timestamp not surfaced")
	}
	if a.Key() != ConfigKey {
		t.Fatalf("Key() = %q", a.Key())
	}
}

func TestConfigure(t *testing.T) {
	db := NewMockStateDB()
	lm := NewLaunchManager(log.NewNoOpLogger())
	orig := LaunchpadPrecompile.manager
	LaunchpadPrecompile.manager = lm
	defer func() { LaunchpadPrecompile.manager = orig }()

	cfg := testConfig()
	var c contract.Configurator = &configurator{}
	require.NoError(t, c.Configure(cfg, db, &mockBlockContext{number: 1}))

	if !db.Exist(ContractLaunchPoolAddress) {
		t.Fatal("precompile account not created")
	}
	if lm.cfg != cfg {
		t.Fatal("config not installed on manager")
	}

	bad := testConfig()
	bad.TradingFeeBps = MaxTradingFeeBps + 1
	err := c.Configure(bad, db, &mockBlockContext{number: 1})
	if !errors.Is(err, ErrFeeTooHigh) {
		t.Fatalf("invalid config accepted: %v", err)
	}
}

func TestCreateInputRoundTrip(t *testing.T) {
	input := encodeCreateInput(testMint, AssetGameItem, 250, 5_000, 777_000, "My Token", "MTK")
	meta, feeBps, payment, err := DecodeCreateInput(input[4:])
	require.NoError(t, err)

	if meta.Mint != testMint || meta.Kind != AssetGameItem {
		t.Errorf("mint/kind mismatch: %+v", meta)
	}
	if feeBps != 250 || payment != 5_000 || meta.TotalSupply != 777_000 {
		t.Errorf("numbers mismatch: fee=%d payment=%d supply=%d", feeBps, payment, meta.TotalSupply)
	}
	if meta.Name != "My Token" || meta.Symbol != "MTK" {
		t.Errorf("strings mismatch: name=%q symbol=%q", meta.Name, meta.Symbol)
	}

	if _, _, _, err := DecodeCreateInput(input[4:20]); err == nil {
		t.Fatal("truncated input accepted")
	}
}
