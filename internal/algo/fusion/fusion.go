package fusion

import (
	"fmt"
	"math"

	"github.com/drakos74/free-fall/internal/algo/indicator"
	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	// highVolatility is the atr threshold relative to the spot price.
	highVolatility = 0.005
	// buyFactor scales the high volatility threshold for the strong buy band.
	buyFactor = 1.5
	// sellFactor scales the high volatility threshold for the strong sell band.
	sellFactor = 1.75

	strongThreshold = 1.55
	weakThreshold   = 0.2
)

// Weights carries the scoring weight per indicator category.
// MA and EMA share one weight category.
type Weights struct {
	Bollinger float64 `json:"bollinger"`
	RSI       float64 `json:"rsi"`
	MAEMA     float64 `json:"ma_ema"`
	ATR       float64 `json:"atr"`
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		Bollinger: 0.25,
		RSI:       0.30,
		MAEMA:     0.20,
		ATR:       0.25,
	}
}

// Validate rejects negative weights and warns when the weights
// do not sum up to one. The mismatch is not an error.
func (w Weights) Validate() error {
	for name, weight := range map[string]float64{
		"bollinger": w.Bollinger,
		"rsi":       w.RSI,
		"ma_ema":    w.MAEMA,
		"atr":       w.ATR,
	} {
		if weight < 0 {
			return fmt.Errorf("weight for %s must not be negative: %f", name, weight)
		}
	}
	sum := w.Bollinger + w.RSI + w.MAEMA + w.ATR
	if math.Abs(sum-1) > 0.001 {
		log.Warn().Float64("sum", sum).Msg("signal weights do not sum up to 1.0")
	}
	return nil
}

// Engine fuses the latest tick price with an indicator snapshot
// into a discrete trading signal. Evaluation is pure: identical inputs
// always produce the identical signal.
type Engine struct {
	weights Weights
	gap     float64
}

// New creates a new fusion engine with the given weights and gap band.
func New(weights Weights, gap float64) *Engine {
	return &Engine{
		weights: weights,
		gap:     gap,
	}
}

// Evaluate scores the given price against the snapshot and returns the
// signal with the accumulated score. An absent indicator contributes zero.
// Validation failures produce Undefined, which downstream consumers treat
// exactly like Hold.
func (e *Engine) Evaluate(price float64, snapshot indicator.Snapshot) (model.Signal, float64) {
	if !e.validate(price, snapshot) {
		return model.Undefined, 0
	}

	var score float64
	score += e.bollinger(price, snapshot.Bar.Bollinger)
	score += e.rsi(snapshot.Bar.RSI)
	score += e.band(price, snapshot.Bar.MA)
	score += e.band(price, snapshot.Bar.EMA)
	score += e.atr(price, snapshot.ATR)

	return classify(score), score
}

// validate rejects out-of-range inputs before any scoring happens.
func (e *Engine) validate(price float64, snapshot indicator.Snapshot) bool {
	if price <= 0 {
		log.Warn().Float64("price", price).Msg("invalid tick price")
		return false
	}
	if b := snapshot.Bar.Bollinger; b.Valid {
		if b.Lower < 0 || b.Middle < 0 || b.Upper < 0 {
			log.Warn().
				Float64("lower", b.Lower).
				Float64("middle", b.Middle).
				Float64("upper", b.Upper).
				Msg("invalid bollinger bands")
			return false
		}
	}
	if rsi := snapshot.Bar.RSI; rsi.Valid && (rsi.Float64 < 0 || rsi.Float64 > 100) {
		log.Warn().Float64("rsi", rsi.Float64).Msg("invalid rsi")
		return false
	}
	if ma := snapshot.Bar.MA; ma.Valid && ma.Float64 < 0 {
		log.Warn().Float64("ma", ma.Float64).Msg("invalid ma")
		return false
	}
	if ema := snapshot.Bar.EMA; ema.Valid && ema.Float64 < 0 {
		log.Warn().Float64("ema", ema.Float64).Msg("invalid ema")
		return false
	}
	if atr := snapshot.ATR; atr.Valid && atr.Float64 < 0 {
		log.Warn().Float64("atr", atr.Float64).Msg("invalid atr")
		return false
	}
	return true
}

func (e *Engine) bollinger(price float64, bands indicator.Bands) float64 {
	if !bands.Valid {
		return 0
	}
	w := e.weights.Bollinger
	switch {
	case price > bands.Upper+e.gap:
		return -2 * w
	case price < bands.Lower-e.gap:
		return 2 * w
	case price > bands.Upper:
		return -1 * w
	case price < bands.Lower:
		return 1 * w
	}
	return 0
}

func (e *Engine) rsi(rsi indicator.Value) float64 {
	if !rsi.Valid {
		return 0
	}
	w := e.weights.RSI
	switch {
	case rsi.Float64 > 80:
		return -2 * w
	case rsi.Float64 > 70:
		return -1 * w
	case rsi.Float64 < 20:
		return 2 * w
	case rsi.Float64 < 30:
		return 1 * w
	}
	return 0
}

// band scores the price against a moving average value with the gap band.
// MA and EMA are evaluated identically and independently.
func (e *Engine) band(price float64, value indicator.Value) float64 {
	if !value.Valid {
		return 0
	}
	w := e.weights.MAEMA
	switch {
	case price > value.Float64+e.gap:
		return -2 * w
	case price > value.Float64:
		return -1 * w
	case price < value.Float64-e.gap:
		return 2 * w
	case price < value.Float64:
		return 1 * w
	}
	return 0
}

func (e *Engine) atr(price float64, atr indicator.Value) float64 {
	if !atr.Valid {
		return 0
	}
	w := e.weights.ATR
	hv := highVolatility * price
	buyT := buyFactor * hv
	sellT := sellFactor * hv
	switch {
	case atr.Float64 > sellT && price > atr.Float64+sellT:
		return -2 * w
	case atr.Float64 > sellT && price < atr.Float64-buyT:
		return 2 * w
	case atr.Float64 > hv && price > atr.Float64:
		return -1 * w
	case atr.Float64 > hv && price < atr.Float64:
		return 1 * w
	}
	return 0
}

func classify(score float64) model.Signal {
	switch {
	case score >= strongThreshold:
		return model.StrongBuy
	case score <= -strongThreshold:
		return model.StrongSell
	case score > weakThreshold:
		return model.Buy
	case score < -weakThreshold:
		return model.Sell
	}
	return model.Hold
}
