// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package badge

import (
	"testing"

	"github.com/luxfi/launchpad/launch"
)

func testCfg() *launch.Config {
	return &launch.Config{
		MinGraduationLiquidity: 500_000,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		pool launch.Pool
		want []Badge
	}{
		{
			name: "fresh pool with modest fee",
			pool: launch.Pool{CreatorFeeBps: 100},
			want: []Badge{FairFees},
		},
		{
			name: "fee at half the cap still fair",
			pool: launch.Pool{CreatorFeeBps: launch.MaxCreatorFeeBps / 2},
			want: []Badge{FairFees},
		},
		{
			name: "max fee earns nothing",
			pool: launch.Pool{CreatorFeeBps: launch.MaxCreatorFeeBps},
			want: nil,
		},
		{
			name: "deep liquidity",
			pool: launch.Pool{CreatorFeeBps: 400, ReserveBalance: 600_000},
			want: []Badge{DeepLiquidity},
		},
		{
			name: "graduated veteran",
			pool: launch.Pool{CreatorFeeBps: 0, Graduated: true, TradeCount: 150},
			want: []Badge{FairFees, Graduated, Veteran},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(&tt.pool, testCfg())
			if len(got) != len(tt.want) {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
			for _, b := range tt.want {
				if !Has(got, b) {
					t.Errorf("missing badge %q in %v", b, got)
				}
			}
		})
	}
}

func TestEvaluateNilConfig(t *testing.T) {
	pool := launch.Pool{CreatorFeeBps: 0, ReserveBalance: 1_000_000}
	got := Evaluate(&pool, nil)
	if Has(got, DeepLiquidity) {
		t.Fatal("deep-liquidity awarded without a configured floor")
	}
	if !Has(got, FairFees) {
		t.Fatal("fair-fees should not depend on config")
	}
}
