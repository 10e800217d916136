// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package badge derives cosmetic trust signals from pool state. Badges are
// read-only decoration for discovery surfaces; nothing in the trading core
// consults them and they carry no authority.
package badge

import (
	"github.com/luxfi/launchpad/launch"
)

// Badge is a display label earned by a pool.
type Badge string

const (
	// FairFees: creator fee at or below half the cap.
	FairFees Badge = "fair-fees"
	// DeepLiquidity: reserve at or above the graduation liquidity floor.
	DeepLiquidity Badge = "deep-liquidity"
	// Graduated: the pool completed its curve.
	Graduated Badge = "graduated"
	// Veteran: a hundred trades or more.
	Veteran Badge = "veteran"
)

const veteranTradeCount = 100

// Evaluate returns the badges a pool currently earns. The pool snapshot
// comes from LaunchManager.GetPool; cfg supplies the platform thresholds.
func Evaluate(pool *launch.Pool, cfg *launch.Config) []Badge {
	var badges []Badge

	if pool.CreatorFeeBps <= launch.MaxCreatorFeeBps/2 {
		badges = append(badges, FairFees)
	}
	if cfg != nil && cfg.MinGraduationLiquidity > 0 &&
		pool.ReserveBalance >= cfg.MinGraduationLiquidity {
		badges = append(badges, DeepLiquidity)
	}
	if pool.Graduated {
		badges = append(badges, Graduated)
	}
	if pool.TradeCount >= veteranTradeCount {
		badges = append(badges, Veteran)
	}

	return badges
}

// Has reports whether badges contains b.
func Has(badges []Badge, b Badge) bool {
	for _, x := range badges {
		if x == b {
			return true
		}
	}
	return false
}
