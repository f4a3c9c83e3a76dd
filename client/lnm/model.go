package lnm

import (
	"fmt"
	"math"
	"sort"

	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
)

type ohlcEntry struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type historyEntry struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

type minMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type countLimit struct {
	Max int `json:"max"`
}

type marketLimits struct {
	Quantity minMax     `json:"quantity"`
	Leverage minMax     `json:"leverage"`
	Count    countLimit `json:"count"`
}

type feeTier struct {
	MinVolume uint64  `json:"minVolume"`
	Fees      float64 `json:"fees"`
}

type tradingFees struct {
	Tiers []feeTier `json:"tiers"`
}

type marketFees struct {
	Trading tradingFees `json:"trading"`
}

type futuresMarket struct {
	Active bool         `json:"active"`
	Limits marketLimits `json:"limits"`
	Fees   marketFees   `json:"fees"`
}

type futuresTicker struct {
	Index     float64 `json:"index"`
	LastPrice float64 `json:"lastPrice"`
	AskPrice  float64 `json:"askPrice"`
	BidPrice  float64 `json:"bidPrice"`
}

type userInfo struct {
	UID     string  `json:"uid"`
	Balance float64 `json:"balance"`
}

type tradeEntry struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
	Open    bool   `json:"open"`
}

// tradeRequest is the order payload. The exchange trades integer usd
// quantities and integer price levels.
type tradeRequest struct {
	Type       string `json:"type"`
	Side       string `json:"side"`
	Leverage   int    `json:"leverage"`
	Quantity   uint64 `json:"quantity"`
	Price      uint64 `json:"price,omitempty"`
	Takeprofit uint64 `json:"takeprofit,omitempty"`
	Stoploss   uint64 `json:"stoploss,omitempty"`
}

type tradeResponse struct {
	ID          string  `json:"id"`
	Side        string  `json:"side"`
	Quantity    float64 `json:"quantity"`
	Margin      float64 `json:"margin"`
	Leverage    float64 `json:"leverage"`
	Price       float64 `json:"price"`
	Liquidation float64 `json:"liquidation"`
}

type tickData struct {
	LastPrice         float64 `json:"lastPrice"`
	LastTickDirection string  `json:"lastTickDirection"`
	Time              int64   `json:"time"`
}

func newBars(entries []ohlcEntry) []model.Bar {
	bars := make([]model.Bar, 0, len(entries))
	for _, entry := range entries {
		bars = append(bars, model.Bar{
			Time:   cointime.FromMilli(entry.Time),
			Open:   entry.Open,
			High:   entry.High,
			Low:    entry.Low,
			Close:  entry.Close,
			Volume: entry.Volume,
		})
	}
	return bars
}

func newPoints(entries []historyEntry) []model.Point {
	points := make([]model.Point, 0, len(entries))
	for _, entry := range entries {
		points = append(points, model.Point{
			Time:  cointime.FromMilli(entry.Time),
			Value: entry.Value,
		})
	}
	return points
}

func newMarketInfo(market futuresMarket) model.MarketInfo {
	fees := make([]model.FeeTier, 0, len(market.Fees.Trading.Tiers))
	for _, tier := range market.Fees.Trading.Tiers {
		fees = append(fees, model.FeeTier{
			MinVolume: tier.MinVolume,
			Rate:      tier.Fees,
		})
	}
	return model.MarketInfo{
		Quantity: model.Bounds{
			Min: market.Limits.Quantity.Min,
			Max: market.Limits.Quantity.Max,
		},
		Leverage: model.Bounds{
			Min: market.Limits.Leverage.Min,
			Max: market.Limits.Leverage.Max,
		},
		MaxOpenTrades: market.Limits.Count.Max,
		Fees:          fees,
	}
}

// roundLevel rounds a price level to the nearest integer unit.
// Negative levels saturate to zero so the zero value is dropped from the
// payload instead of wrapping around the unsigned range.
func roundLevel(f float64) uint64 {
	if f <= 0 {
		return 0
	}
	return uint64(math.Round(f))
}

func newTradeRequest(order model.Order) (tradeRequest, error) {
	request := tradeRequest{
		Leverage:   order.Leverage,
		Quantity:   roundLevel(order.Quantity),
		Takeprofit: roundLevel(order.Target),
		Stoploss:   roundLevel(order.Stop),
	}

	switch order.Side {
	case model.Long:
		request.Side = "b"
	case model.Short:
		request.Side = "s"
	default:
		return tradeRequest{}, fmt.Errorf("cannot map order side: %s", order.Side.String())
	}

	switch order.Kind {
	case model.Market:
		request.Type = "m"
	case model.Limit:
		request.Type = "l"
		request.Price = roundLevel(order.Price)
	default:
		return tradeRequest{}, fmt.Errorf("cannot map order kind: %s", order.Kind.String())
	}

	if request.Quantity == 0 {
		return tradeRequest{}, fmt.Errorf("order quantity rounds to zero: %f", order.Quantity)
	}
	return request, nil
}

// sortBars sorts ascending by time and drops duplicate timestamps,
// keeping the first occurrence.
func sortBars(bars []model.Bar) []model.Bar {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
	out := make([]model.Bar, 0, len(bars))
	for _, bar := range bars {
		if len(out) > 0 && bar.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, bar)
	}
	return out
}

func sortPoints(points []model.Point) []model.Point {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	out := make([]model.Point, 0, len(points))
	for _, point := range points {
		if len(out) > 0 && point.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, point)
	}
	return out
}
