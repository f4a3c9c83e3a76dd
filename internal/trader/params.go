package trader

import (
	"fmt"

	"github.com/drakos74/free-fall/internal/model"
	"github.com/shopspring/decimal"
)

// Params carries the derived margin requirements of a prospective trade.
// All sats amounts are floored, never rounded, matching the settlement
// arithmetic of the exchange.
type Params struct {
	// Quantity is the order quantity in quote units.
	Quantity float64
	// Margin is the required margin in sats.
	Margin uint64
	// Liquidation is the estimated liquidation price.
	Liquidation float64
	// Maintenance is the estimated opening and closing fee reserve in sats.
	Maintenance uint64
}

// NewParams derives the margin, liquidation price and maintenance reserve
// for a trade of the given quantity at the given entry price.
func NewParams(side model.Side, entry float64, quantity float64, leverage int, market model.MarketInfo) (Params, error) {
	if entry <= 0 {
		return Params{}, fmt.Errorf("entry price must be positive: %f", entry)
	}
	if quantity <= 0 {
		return Params{}, fmt.Errorf("quantity must be positive: %f", quantity)
	}
	if leverage <= 0 {
		return Params{}, fmt.Errorf("leverage must be positive: %d", leverage)
	}

	marginSats := floorSats(quantity / (entry * float64(leverage)))
	margin := float64(marginSats) / model.SatsPerBTC

	rate, err := market.FeeRate(marginSats)
	if err != nil {
		return Params{}, fmt.Errorf("could not resolve fee rate: %w", err)
	}

	var liquidation float64
	switch side {
	case model.Long:
		liquidation = 1 / (1/entry + margin/quantity)
	case model.Short:
		inverse := 1/entry - margin/quantity
		if inverse <= 0 {
			return Params{}, fmt.Errorf("short liquidation out of range for entry %f", entry)
		}
		liquidation = 1 / inverse
	default:
		return Params{}, fmt.Errorf("cannot derive params for side: %s", side.String())
	}

	maintenance := floorSats((quantity/entry + quantity/liquidation) * rate)

	return Params{
		Quantity:    quantity,
		Margin:      marginSats,
		Liquidation: liquidation,
		Maintenance: maintenance,
	}, nil
}

// floorSats converts a btc amount to sats, flooring any sub-sat remainder.
func floorSats(btc float64) uint64 {
	sats := decimal.NewFromFloat(btc).
		Mul(decimal.NewFromInt(model.SatsPerBTC)).
		Floor()
	if sats.IsNegative() {
		return 0
	}
	return uint64(sats.IntPart())
}
