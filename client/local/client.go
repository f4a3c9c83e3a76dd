// Package local provides scripted implementations of the exchange
// interfaces for tests and dry runs. The source replays a fixed tick
// script, the history serves a fixed series and the exchange records
// the orders it receives.
package local

import (
	"sync"

	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
)

// Name identifies the client in the config.
const Name = "local"

// Source replays the given ticks in order and closes the stream.
type Source struct {
	ticks []model.Tick
}

// NewSource creates a replay source for the given ticks.
func NewSource(ticks ...model.Tick) *Source {
	return &Source{
		ticks: ticks,
	}
}

// Ticks replays the scripted ticks until exhausted or stopped.
func (s *Source) Ticks(stop <-chan struct{}) (model.TickSource, error) {
	out := make(model.TickSource)
	go func() {
		defer close(out)
		for i := range s.ticks {
			tick := s.ticks[i]
			select {
			case out <- &tick:
			case <-stop:
				return
			}
		}
	}()
	return out, nil
}

// History serves a fixed series, filtered by the requested window.
type History struct {
	bars   []model.Bar
	prices []model.Point
	index  []model.Point
}

// NewHistory creates a history over the given series.
func NewHistory(bars []model.Bar, prices, index []model.Point) *History {
	return &History{
		bars:   bars,
		prices: prices,
		index:  index,
	}
}

// Bars returns the scripted bars within the given window.
func (h *History) Bars(from, to int64, limit int) ([]model.Bar, error) {
	out := make([]model.Bar, 0, len(h.bars))
	for _, bar := range h.bars {
		milli := cointime.ToMilli(bar.Time)
		if milli >= from && milli <= to {
			out = append(out, bar)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Prices returns the scripted price points within the given window.
func (h *History) Prices(from, to int64, limit int) ([]model.Point, error) {
	return filter(h.prices, from, to, limit), nil
}

// Index returns the scripted index points within the given window.
func (h *History) Index(from, to int64, limit int) ([]model.Point, error) {
	return filter(h.index, from, to, limit), nil
}

func filter(points []model.Point, from, to int64, limit int) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, point := range points {
		milli := cointime.ToMilli(point.Time)
		if milli >= from && milli <= to {
			out = append(out, point)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// Exchange is a scripted exchange that accepts every order.
type Exchange struct {
	lock    sync.Mutex
	market  model.MarketInfo
	account model.Account
	ticker  model.Ticker
	open    int
	orders  []model.Order
}

// NewExchange creates a local exchange with the given state.
func NewExchange(market model.MarketInfo, account model.Account, ticker model.Ticker) *Exchange {
	return &Exchange{
		market:  market,
		account: account,
		ticker:  ticker,
	}
}

// Market returns the scripted market limits.
func (e *Exchange) Market() (model.MarketInfo, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.market, nil
}

// Account returns the scripted account state.
func (e *Exchange) Account() (model.Account, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.account, nil
}

// OpenCount returns the number of orders accepted so far plus any preset.
func (e *Exchange) OpenCount() (int, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.open + len(e.orders), nil
}

// Ticker returns the scripted ticker.
func (e *Exchange) Ticker() (model.Ticker, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.ticker, nil
}

// OpenOrder records and confirms the order at the scripted entry price.
func (e *Exchange) OpenOrder(order model.Order) (model.Order, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	order.Price = e.ticker.Entry(order.Side)
	e.orders = append(e.orders, order)
	return order, nil
}

// Orders returns the orders recorded so far.
func (e *Exchange) Orders() []model.Order {
	e.lock.Lock()
	defer e.lock.Unlock()
	out := make([]model.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// WithOpen presets the number of already running positions.
func (e *Exchange) WithOpen(open int) *Exchange {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.open = open
	return e
}
