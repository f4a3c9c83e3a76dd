package trader

import (
	"testing"
	"time"

	"github.com/drakos74/free-fall/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {

	valid := Config{
		RiskPerTrade: 0.01,
		RiskToReward: 0.8,
		RiskToLoss:   0.75,
		Leverage:     20,
		TradeGap:     5 * time.Second,
	}

	type test struct {
		mutate func(c *Config)
		err    bool
	}

	tests := map[string]test{
		"valid": {
			mutate: func(c *Config) {},
		},
		"zero-risk": {
			mutate: func(c *Config) { c.RiskPerTrade = 0 },
			err:    true,
		},
		"risk-above-one": {
			mutate: func(c *Config) { c.RiskPerTrade = 1.5 },
			err:    true,
		},
		"zero-reward": {
			mutate: func(c *Config) { c.RiskToReward = 0 },
			err:    true,
		},
		"zero-loss": {
			mutate: func(c *Config) { c.RiskToLoss = 0 },
			err:    true,
		},
		"zero-leverage": {
			mutate: func(c *Config) { c.Leverage = 0 },
			err:    true,
		},
		"negative-gap": {
			mutate: func(c *Config) { c.TradeGap = -time.Second },
			err:    true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuantity(t *testing.T) {

	config := Config{
		RiskPerTrade: 0.01,
		RiskToReward: 0.8,
		RiskToLoss:   0.75,
		Leverage:     20,
	}

	market := model.MarketInfo{
		Quantity: model.Bounds{Min: 1, Max: 500},
	}

	type test struct {
		balance   uint64
		entry     float64
		atr       float64
		maxTrades int
		quantity  float64
		err       error
	}

	tests := map[string]test{
		"nominal": {
			// 1_000_000 sats at 100k is 1000 quote units,
			// 1% over 2 trades leaves 5 per trade, levered by 20 over an atr of 100.
			balance:   1_000_000,
			entry:     100_000,
			atr:       100,
			maxTrades: 2,
			quantity:  1,
		},
		"clamped-to-min": {
			balance:   1_000_000,
			entry:     100_000,
			atr:       1000,
			maxTrades: 2,
			quantity:  1,
		},
		"clamped-to-max": {
			balance:   1_000_000_000,
			entry:     100_000,
			atr:       10,
			maxTrades: 2,
			quantity:  500,
		},
		"no-atr": {
			balance:   1_000_000,
			entry:     100_000,
			atr:       0,
			maxTrades: 2,
			err:       ErrNoATR,
		},
		"invalid-entry": {
			balance:   1_000_000,
			entry:     0,
			atr:       100,
			maxTrades: 2,
			err:       assert.AnError,
		},
		"invalid-max-trades": {
			balance:   1_000_000,
			entry:     100_000,
			atr:       100,
			maxTrades: 0,
			err:       assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			quantity, err := Quantity(tt.balance, tt.entry, tt.atr, tt.maxTrades, config, market)
			if tt.err != nil {
				assert.Error(t, err)
				if tt.err == ErrNoATR {
					assert.Equal(t, ErrNoATR, err)
				}
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.quantity, quantity, 0.0001)
			assert.GreaterOrEqual(t, quantity, market.Quantity.Min)
			assert.LessOrEqual(t, quantity, market.Quantity.Max)
		})
	}
}

func TestStopTarget(t *testing.T) {

	config := Config{
		RiskPerTrade: 0.01,
		RiskToReward: 0.8,
		RiskToLoss:   0.75,
		Leverage:     20,
	}

	type test struct {
		side   model.Side
		entry  float64
		atr    float64
		stop   float64
		target float64
		err    bool
	}

	tests := map[string]test{
		"long": {
			// a leveraged atr distance of 1000, scaled by the risk ratios.
			side:   model.Long,
			entry:  100_000,
			atr:    50,
			stop:   99_250,
			target: 100_800,
		},
		"short": {
			side:   model.Short,
			entry:  100_000,
			atr:    50,
			stop:   100_750,
			target: 99_200,
		},
		"no-side": {
			side:  model.NoSide,
			entry: 100_000,
			atr:   50,
			err:   true,
		},
		"no-atr": {
			side:  model.Long,
			entry: 100_000,
			atr:   0,
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stop, target, err := StopTarget(tt.side, tt.entry, tt.atr, config)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.stop, stop, 0.0001)
			assert.InDelta(t, tt.target, target, 0.0001)
		})
	}
}
