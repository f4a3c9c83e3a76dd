package binance

import (
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
)

// pairs maps the internal coin to the binance trading pair.
var pairs = map[model.Coin]string{
	model.BTC: "BTCUSDT",
}

// Pair returns the binance trading pair for the given coin.
func Pair(coin model.Coin) (string, error) {
	pair, ok := pairs[coin]
	if !ok {
		return "", fmt.Errorf("no binance pair for coin: %s", coin)
	}
	return pair, nil
}

// intervals maps the granularity selector to the binance kline interval.
var intervals = map[cointime.Granularity]string{
	cointime.Min1:  "1m",
	cointime.Min3:  "3m",
	cointime.Min5:  "5m",
	cointime.Min15: "15m",
	cointime.Min30: "30m",
	cointime.Hour1: "1h",
	cointime.Hour2: "2h",
	cointime.Hour4: "4h",
	cointime.Day1:  "1d",
	cointime.Week1: "1w",
	cointime.Mon1:  "1M",
}

// Interval returns the kline interval for the given granularity.
func Interval(granularity cointime.Granularity) (string, error) {
	interval, ok := intervals[granularity]
	if !ok {
		return "", fmt.Errorf("no binance interval for granularity: %s", granularity)
	}
	return interval, nil
}

func fromKlineEvent(event *binance.WsKlineEvent) (*model.Tick, error) {
	openPrice, err := strconv.ParseFloat(event.Kline.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse open price: %w", err)
	}
	closePrice, err := strconv.ParseFloat(event.Kline.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse close price: %w", err)
	}
	return &model.Tick{
		Price:     closePrice,
		Direction: direction(closePrice - openPrice),
		Time:      cointime.FromMilli(event.Time),
	}, nil
}

func fromKline(kline *binance.Kline) (model.Bar, error) {
	bar := model.Bar{
		Time: cointime.FromMilli(kline.OpenTime),
	}
	var err error
	if bar.Open, err = strconv.ParseFloat(kline.Open, 64); err != nil {
		return model.Bar{}, fmt.Errorf("could not parse open: %w", err)
	}
	if bar.High, err = strconv.ParseFloat(kline.High, 64); err != nil {
		return model.Bar{}, fmt.Errorf("could not parse high: %w", err)
	}
	if bar.Low, err = strconv.ParseFloat(kline.Low, 64); err != nil {
		return model.Bar{}, fmt.Errorf("could not parse low: %w", err)
	}
	if bar.Close, err = strconv.ParseFloat(kline.Close, 64); err != nil {
		return model.Bar{}, fmt.Errorf("could not parse close: %w", err)
	}
	if bar.Volume, err = strconv.ParseFloat(kline.Volume, 64); err != nil {
		return model.Bar{}, fmt.Errorf("could not parse volume: %w", err)
	}
	return bar, nil
}

func direction(move float64) string {
	switch {
	case move > 0:
		return "PlusTick"
	case move < 0:
		return "MinusTick"
	default:
		return "ZeroTick"
	}
}
