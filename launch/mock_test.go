// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launch

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/launchpad/contract"
)

// MockStateDB is an in-memory StateDB for tests.
type MockStateDB struct {
	state    map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
	accounts map[common.Address]bool
	block    uint64
}

var _ contract.StateDB = (*MockStateDB)(nil)

func NewMockStateDB() *MockStateDB {
	return &MockStateDB{
		state:    make(map[common.Address]map[common.Hash]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		accounts: make(map[common.Address]bool),
		block:    1,
	}
}

func (m *MockStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if s, ok := m.state[addr]; ok {
		return s[key]
	}
	return common.Hash{}
}

func (m *MockStateDB) SetState(addr common.Address, key common.Hash, value common.Hash) {
	if _, ok := m.state[addr]; !ok {
		m.state[addr] = make(map[common.Hash]common.Hash)
	}
	m.state[addr][key] = value
}

func (m *MockStateDB) GetBalance(addr common.Address) *uint256.Int {
	if b, ok := m.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (m *MockStateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	b := m.GetBalance(addr)
	m.balances[addr] = b.Add(b, amount)
}

func (m *MockStateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	b := m.GetBalance(addr)
	m.balances[addr] = b.Sub(b, amount)
}

func (m *MockStateDB) Exist(addr common.Address) bool {
	return m.accounts[addr]
}

func (m *MockStateDB) CreateAccount(addr common.Address) {
	m.accounts[addr] = true
}

func (m *MockStateDB) GetBlockNumber() uint64 {
	return m.block
}

// mockBlockContext satisfies contract.BlockContext for configure tests.
type mockBlockContext struct {
	number    uint64
	timestamp uint64
}

func (b *mockBlockContext) Number() *big.Int { return new(big.Int).SetUint64(b.number) }

func (b *mockBlockContext) Timestamp() uint64 { return b.timestamp }

// mockAccessibleState bundles the mock state for Run tests.
type mockAccessibleState struct {
	stateDB *MockStateDB
	block   *mockBlockContext
}

func (a *mockAccessibleState) GetStateDB() contract.StateDB { return a.stateDB }

func (a *mockAccessibleState) GetBlockContext() contract.BlockContext { return a.block }
