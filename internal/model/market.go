package model

import (
	"fmt"
	"sort"
)

// Bounds defines a closed numeric range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FeeTier defines the trading fee rate applicable from the given volume.
type FeeTier struct {
	MinVolume uint64  `json:"minVolume"`
	Rate      float64 `json:"fees"`
}

// MarketInfo describes the market limits fetched from the exchange.
// It is read-only for the decision pipeline and refreshed by the caller.
type MarketInfo struct {
	Quantity      Bounds    `json:"quantity"`
	Leverage      Bounds    `json:"leverage"`
	MaxOpenTrades int       `json:"maxTradeCount"`
	Fees          []FeeTier `json:"fees"`
}

// FeeRate returns the trading fee rate for the given volume,
// picking the highest-volume tier whose minimum volume is covered.
func (m MarketInfo) FeeRate(volume uint64) (float64, error) {
	tiers := make([]FeeTier, len(m.Fees))
	copy(tiers, m.Fees)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinVolume > tiers[j].MinVolume
	})
	for _, tier := range tiers {
		if volume >= tier.MinVolume {
			return tier.Rate, nil
		}
	}
	return 0, fmt.Errorf("no matching fee tier found for volume %d", volume)
}

// Account describes the user account state on the exchange.
type Account struct {
	// Balance is the available balance in sats.
	Balance uint64 `json:"balance"`
	UID     string `json:"uid"`
}
