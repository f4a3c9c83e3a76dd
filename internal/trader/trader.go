package trader

import (
	"fmt"
	"sync"
	"time"

	"github.com/drakos74/free-fall/internal/algo/merge"
	"github.com/drakos74/free-fall/internal/api"
	"github.com/drakos74/free-fall/internal/emoji"
	coinmath "github.com/drakos74/free-fall/internal/math"
	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

// Name identifies the trader in the audit trail.
const Name = "trader"

// Trader consumes fused decisions and turns the directional ones into market
// orders, subject to the risk sizing and the gate admission rules.
// All exchange calls happen outside the market lock.
type Trader struct {
	coin     model.Coin
	config   Config
	exchange api.Exchange
	user     api.User
	gate     *Gate

	lock   sync.RWMutex
	market model.MarketInfo
}

// New creates a trader for the given coin.
// The market limits must be loaded with RefreshMarket before trading starts.
func New(coin model.Coin, config Config, exchange api.Exchange, user api.User) (*Trader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trader config: %w", err)
	}
	return &Trader{
		coin:     coin,
		config:   config,
		exchange: exchange,
		user:     user,
		gate:     NewGate(config.TradeGap),
	}, nil
}

// RefreshMarket fetches the market limits from the exchange and caches them.
func (t *Trader) RefreshMarket() error {
	market, err := t.exchange.Market()
	if err != nil {
		return fmt.Errorf("could not fetch market limits: %w", err)
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.market = market
	return nil
}

// Market returns the cached market limits.
func (t *Trader) Market() model.MarketInfo {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.market
}

// Trade consumes decisions until the channel closes.
func (t *Trader) Trade(decisions <-chan merge.Decision) {
	for decision := range decisions {
		t.process(decision)
	}
	log.Info().Str("coin", string(t.coin)).Msg("closing trader")
}

func (t *Trader) process(decision merge.Decision) {
	if !decision.Signal.Directional() {
		log.Debug().
			Str("coin", string(t.coin)).
			Str("signal", decision.Signal.String()).
			Float64("score", decision.Score).
			Msg("no directional signal")
		return
	}

	t.audit(fmt.Sprintf("%s Signal: %s (score %.2f) at price %s",
		emoji.MapSignal(decision.Signal), decision.Signal.String(), decision.Score, coinmath.Format(decision.Price)))

	side := decision.Signal.Side()
	market := t.Market()

	open, err := t.exchange.OpenCount()
	if err != nil {
		t.fail("Error fetching open trades", err)
		return
	}

	account, err := t.exchange.Account()
	if err != nil {
		t.fail("Error fetching account balance", err)
		return
	}

	ticker, err := t.exchange.Ticker()
	if err != nil {
		t.fail("Error fetching ticker", err)
		return
	}
	entry := ticker.Entry(side)

	var atr float64
	if decision.Snapshot.ATR.Valid {
		atr = decision.Snapshot.ATR.Float64
	}

	quantity, err := Quantity(account.Balance, entry, atr, market.MaxOpenTrades, t.config, market)
	if err != nil {
		t.reject(fmt.Sprintf("sizing failed: %s", err.Error()))
		return
	}

	stop, target, err := StopTarget(side, entry, atr, t.config)
	if err != nil {
		t.reject(fmt.Sprintf("sizing failed: %s", err.Error()))
		return
	}

	params, err := NewParams(side, entry, quantity, t.config.Leverage, market)
	if err != nil {
		t.reject(fmt.Sprintf("sizing failed: %s", err.Error()))
		return
	}

	ok, reason := t.gate.Check(decision.Signal, open, market.MaxOpenTrades, account.Balance, params.Margin, time.Now())
	if !ok {
		if reason != "" {
			t.reject(reason)
		}
		return
	}

	order := model.NewOrder(t.coin).
		Market().
		WithSide(side).
		WithLeverage(t.config.Leverage).
		WithQuantity(params.Quantity).
		WithStop(stop).
		WithTarget(target).
		Create()

	confirmed, err := t.exchange.OpenOrder(order)
	if err != nil {
		t.fail("Error creating trade", err)
		return
	}

	metrics.Observer.IncrementOrders(string(t.coin), side.String())
	log.Info().
		Str("coin", string(t.coin)).
		Str("id", confirmed.ID).
		Str("side", side.String()).
		Float64("quantity", params.Quantity).
		Float64("stop", stop).
		Float64("target", target).
		Uint64("margin", params.Margin).
		Float64("liquidation", params.Liquidation).
		Msg("trade created")
	t.audit(fmt.Sprintf("%s Trade successfully created for signal: %s\n%s side = %s , quantity = %s , margin = %d sats\nstop = %s , target = %s , liquidation = %s",
		emoji.Money, decision.Signal.String(), emoji.MapSide(side), side.String(),
		coinmath.Format(params.Quantity), params.Margin,
		coinmath.Format(stop), coinmath.Format(target), coinmath.Format(params.Liquidation)))
}

// reject reports a rule or sizing rejection to the user and the metrics.
func (t *Trader) reject(reason string) {
	metrics.Observer.IncrementRejections(string(t.coin), reason)
	log.Info().Str("coin", string(t.coin)).Str("reason", reason).Msg("no trade created")
	t.audit(fmt.Sprintf("No trade created: %s", reason))
}

// fail reports an exchange interaction failure. The decision is dropped,
// the loop carries on with the next one.
func (t *Trader) fail(context string, err error) {
	log.Error().Err(err).Str("coin", string(t.coin)).Msg(context)
	t.audit(fmt.Sprintf("%s: %s", context, err.Error()))
}

func (t *Trader) audit(msg string) {
	t.user.Send(api.Private, api.NewMessage(api.Audit(Name, msg)))
}
