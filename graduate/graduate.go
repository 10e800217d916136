// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package graduate drives a pool's exit from the bonding curve. Graduation
// is a three-step hand-off: seal the pool (one-way flag, trading stops),
// then drain reserve and unsold tokens into the migration escrow. The
// curve never trades against a drained pool again.
package graduate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/launchpad/contract"
	"github.com/luxfi/launchpad/launch"
)

// Status tracks how far a pool has moved through graduation.
type Status uint8

const (
	// Pending: not yet sealed; trading continues.
	Pending Status = iota
	// Sealed: graduated flag set, trading stopped, balances still held.
	Sealed
	// Drained: reserve and unsold tokens moved to escrow.
	Drained
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Sealed:
		return "sealed"
	case Drained:
		return "drained"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

var (
	ErrAlreadyDrained  = errors.New("pool already drained")
	ErrDrainIncomplete = errors.New("drain left a nonzero balance")
)

// Coordinator executes graduations against the launch manager.
type Coordinator struct {
	mu      sync.Mutex
	manager *launch.LaunchManager
	escrow  common.Address
	status  map[[32]byte]Status
	log     log.Logger
}

// NewCoordinator returns a coordinator draining into escrow.
func NewCoordinator(manager *launch.LaunchManager, escrow common.Address, logger log.Logger) *Coordinator {
	return &Coordinator{
		manager: manager,
		escrow:  escrow,
		status:  make(map[[32]byte]Status),
		log:     logger,
	}
}

// Status returns the recorded graduation progress for a pool.
func (c *Coordinator) Status(id [32]byte) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[id]
}

// Graduate runs the full hand-off for one pool: readiness check, seal,
// drain both balances, verify nothing is left behind. The capability must
// be the pool's AdminCap; every step below re-checks it.
func (c *Coordinator) Graduate(stateDB contract.StateDB, adminCap *launch.AdminCap, id [32]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status[id] == Drained {
		return ErrAlreadyDrained
	}

	ready, err := c.manager.CheckGraduationReady(stateDB, id)
	if err != nil {
		return err
	}
	if !ready {
		return launch.ErrNotReady
	}

	if err := c.manager.SetGraduated(stateDB, adminCap, id); err != nil {
		return err
	}
	c.status[id] = Sealed
	c.log.Info("pool sealed for graduation", "pool", common.Hash(id).Hex())

	reserve, err := c.manager.ExtractReserve(stateDB, adminCap, id, c.escrow)
	if err != nil {
		return err
	}
	tokens, err := c.manager.ExtractTokens(stateDB, adminCap, id, c.escrow)
	if err != nil {
		return err
	}

	pool, err := c.manager.GetPool(stateDB, id)
	if err != nil {
		return err
	}
	if pool.ReserveBalance != 0 || pool.UnsoldBalance != 0 {
		return fmt.Errorf("%w: reserve=%d unsold=%d", ErrDrainIncomplete,
			pool.ReserveBalance, pool.UnsoldBalance)
	}

	c.status[id] = Drained
	c.log.Info("pool drained to escrow",
		"pool", common.Hash(id).Hex(),
		"escrow", c.escrow.Hex(),
		"reserve", reserve,
		"tokens", tokens,
	)
	return nil
}
