package binance

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
)

// History fetches bar history over the binance rest api.
// The spot klines are public, no credentials are required.
type History struct {
	coin        model.Coin
	granularity cointime.Granularity
	client      *binance.Client
}

// NewHistory creates a bar history client for the given coin.
func NewHistory(coin model.Coin, granularity cointime.Granularity) *History {
	return &History{
		coin:        coin,
		granularity: granularity,
		client:      binance.NewClient("", ""),
	}
}

// Bars returns the bar series between the given unix millisecond timestamps.
func (h *History) Bars(from, to int64, limit int) ([]model.Bar, error) {
	pair, err := Pair(h.coin)
	if err != nil {
		return nil, err
	}
	interval, err := Interval(h.granularity)
	if err != nil {
		return nil, err
	}

	klines, err := h.client.NewKlinesService().
		Symbol(pair).
		Interval(interval).
		StartTime(from).
		EndTime(to).
		Limit(limit).
		Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("could not fetch klines: %w", err)
	}

	bars := make([]model.Bar, 0, len(klines))
	for _, kline := range klines {
		bar, err := fromKline(kline)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Prices is not available on the spot api, the bar closes stand in for it.
func (h *History) Prices(from, to int64, limit int) ([]model.Point, error) {
	return h.points(from, to, limit)
}

// Index is not available on the spot api, the bar closes stand in for it.
func (h *History) Index(from, to int64, limit int) ([]model.Point, error) {
	return h.points(from, to, limit)
}

func (h *History) points(from, to int64, limit int) ([]model.Point, error) {
	bars, err := h.Bars(from, to, limit)
	if err != nil {
		return nil, err
	}
	points := make([]model.Point, len(bars))
	for i, bar := range bars {
		points[i] = model.Point{
			Time:  bar.Time,
			Value: bar.Close,
		}
	}
	return points, nil
}
