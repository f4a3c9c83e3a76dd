package trader

import (
	"errors"
	"fmt"
	"time"

	"github.com/drakos74/free-fall/internal/model"
)

// ErrNoATR signals that the snapshot carries no usable volatility measure.
// Sizing without it would mean trading with an unbounded stop distance.
var ErrNoATR = errors.New("atr is required for the trade")

// Config carries the risk parameters of the trader.
type Config struct {
	// RiskPerTrade is the fraction of the account balance at risk across all open trades.
	RiskPerTrade float64 `json:"risk_per_trade"`
	// RiskToReward scales the take-profit distance relative to the leveraged atr.
	RiskToReward float64 `json:"risk_to_reward"`
	// RiskToLoss scales the stop-loss distance relative to the leveraged atr.
	RiskToLoss float64 `json:"risk_to_loss"`
	// Leverage is the leverage applied to every order.
	Leverage int `json:"leverage"`
	// TradeGap is the minimum duration between two consecutive trades.
	TradeGap time.Duration `json:"-"`
}

// Validate checks the config for values that would break the sizing math.
func (c Config) Validate() error {
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return fmt.Errorf("risk per trade must be in (0,1]: %f", c.RiskPerTrade)
	}
	if c.RiskToReward <= 0 {
		return fmt.Errorf("risk to reward must be positive: %f", c.RiskToReward)
	}
	if c.RiskToLoss <= 0 {
		return fmt.Errorf("risk to loss must be positive: %f", c.RiskToLoss)
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive: %d", c.Leverage)
	}
	if c.TradeGap < 0 {
		return fmt.Errorf("trade gap must not be negative: %s", c.TradeGap)
	}
	return nil
}

// Quantity computes the order quantity in quote units for the given balance.
// The risk budget is the configured fraction of the balance split evenly
// across the maximum number of concurrent trades, scaled by leverage and
// divided by the atr so that a one-atr adverse move consumes the budget.
// The result is clamped to the market quantity bounds.
func Quantity(balance uint64, entry float64, atr float64, maxTrades int, config Config, market model.MarketInfo) (float64, error) {
	if atr <= 0 {
		return 0, ErrNoATR
	}
	if entry <= 0 {
		return 0, fmt.Errorf("entry price must be positive: %f", entry)
	}
	if maxTrades <= 0 {
		return 0, fmt.Errorf("max trades must be positive: %d", maxTrades)
	}
	balanceQuote := float64(balance) * entry / model.SatsPerBTC
	perTrade := balanceQuote * config.RiskPerTrade / float64(maxTrades)
	quantity := perTrade * float64(config.Leverage) / atr
	if quantity < market.Quantity.Min {
		quantity = market.Quantity.Min
	}
	if quantity > market.Quantity.Max {
		quantity = market.Quantity.Max
	}
	return quantity, nil
}

// StopTarget derives the stop-loss and take-profit prices for the entry.
// Both distances start from the leveraged atr and are scaled by the
// respective risk ratio, with the direction following the side.
func StopTarget(side model.Side, entry float64, atr float64, config Config) (stop float64, target float64, err error) {
	if atr <= 0 {
		return 0, 0, ErrNoATR
	}
	distance := atr * float64(config.Leverage)
	switch side {
	case model.Long:
		stop = entry - distance*config.RiskToLoss
		target = entry + distance*config.RiskToReward
	case model.Short:
		stop = entry + distance*config.RiskToLoss
		target = entry - distance*config.RiskToReward
	default:
		return 0, 0, fmt.Errorf("cannot derive stop and target for side: %s", side.String())
	}
	return stop, target, nil
}
