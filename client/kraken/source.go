// Package kraken provides an alternative tick source backed by the
// kraken public websocket ticker stream.
package kraken

import (
	"fmt"
	"strconv"
	"time"

	ws "github.com/aopoltorzhicky/go_kraken/websocket"
	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

// Name identifies the client in the config.
const Name = "kraken"

var pairs = map[model.Coin]string{
	model.BTC: ws.BTCEUR,
}

// Source streams ticker updates as price ticks.
type Source struct {
	coin model.Coin
}

// NewSource creates a tick source for the given coin.
func NewSource(coin model.Coin) *Source {
	return &Source{
		coin: coin,
	}
}

// Ticks connects to the websocket, subscribes to the ticker and returns
// the tick channel. The channel closes when the stop channel closes.
func (s *Source) Ticks(stop <-chan struct{}) (model.TickSource, error) {
	pair, ok := pairs[s.coin]
	if !ok {
		return nil, fmt.Errorf("no kraken pair for coin: %s", s.coin)
	}

	kraken := ws.NewKraken(ws.ProdBaseURL)
	if err := kraken.Connect(); err != nil {
		return nil, fmt.Errorf("could not connect to kraken: %w", err)
	}
	if err := kraken.SubscribeTicker([]string{pair}); err != nil {
		return nil, fmt.Errorf("could not subscribe to ticker: %w", err)
	}
	log.Info().Str("coin", string(s.coin)).Str("pair", pair).Msg("subscribed to kraken ticker")

	out := make(model.TickSource)

	go func() {
		defer close(out)
		lastPrice := 0.0
		for {
			select {
			case <-stop:
				if err := kraken.Close(); err != nil {
					log.Warn().Err(err).Msg("could not close kraken connection")
				}
				return
			case update := <-kraken.Listen():
				data, ok := update.Data.(ws.TickerUpdate)
				if !ok {
					continue
				}
				price, err := strconv.ParseFloat(data.Ask.Price.String(), 64)
				if err != nil {
					log.Warn().Err(err).Str("coin", string(s.coin)).Msg("could not parse ticker price")
					continue
				}
				tick := &model.Tick{
					Price:     price,
					Direction: tickDirection(price, lastPrice),
					Time:      time.Now(),
				}
				lastPrice = price
				select {
				case out <- tick:
					metrics.Observer.IncrementTicks(string(s.coin), Name)
				case <-stop:
					return
				}
			}
		}
	}()

	return out, nil
}

func tickDirection(price, last float64) string {
	switch {
	case last == 0 || price == last:
		return "ZeroTick"
	case price > last:
		return "PlusTick"
	default:
		return "MinusTick"
	}
}
