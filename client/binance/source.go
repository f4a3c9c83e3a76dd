// Package binance provides an alternative tick source and bar history
// backed by the binance spot market. It carries no order surface, the
// feed is price data only.
package binance

import (
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/rs/zerolog/log"
)

// Name identifies the client in the config.
const Name = "binance"

// Source streams kline updates as price ticks.
type Source struct {
	coin        model.Coin
	granularity cointime.Granularity
}

// NewSource creates a tick source for the given coin.
func NewSource(coin model.Coin, granularity cointime.Granularity) *Source {
	return &Source{
		coin:        coin,
		granularity: granularity,
	}
}

// Ticks subscribes to the kline stream and returns the tick channel.
// The channel closes when the stop channel closes or the stream ends.
func (s *Source) Ticks(stop <-chan struct{}) (model.TickSource, error) {
	pair, err := Pair(s.coin)
	if err != nil {
		return nil, err
	}
	interval, err := Interval(s.granularity)
	if err != nil {
		return nil, err
	}

	out := make(model.TickSource)

	handler := func(event *binance.WsKlineEvent) {
		tick, err := fromKlineEvent(event)
		if err != nil {
			log.Warn().Err(err).Str("coin", string(s.coin)).Msg("could not parse kline event")
			return
		}
		select {
		case out <- tick:
			metrics.Observer.IncrementTicks(string(s.coin), Name)
		case <-stop:
		}
	}
	errHandler := func(err error) {
		log.Warn().Err(err).Str("coin", string(s.coin)).Msg("kline stream interrupted")
	}

	doneC, stopC, err := binance.WsKlineServe(pair, interval, handler, errHandler)
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to kline stream: %w", err)
	}
	log.Info().Str("coin", string(s.coin)).Str("pair", pair).Str("interval", interval).Msg("subscribed to kline stream")

	go func() {
		defer close(out)
		select {
		case <-stop:
			close(stopC)
			<-doneC
		case <-doneC:
			log.Warn().Str("coin", string(s.coin)).Msg("kline stream closed")
		}
	}()

	return out, nil
}
