package model

import (
	"time"
)

// Tick defines a single live price update from the exchange feed.
type Tick struct {
	Price     float64   `json:"lastPrice"`
	Direction string    `json:"lastTickDirection"`
	Time      time.Time `json:"time"`
}

// TickSource is a channel for receiving and sending ticks.
type TickSource chan *Tick

// Ticker carries the current best bid/ask of the market.
type Ticker struct {
	Ask  float64 `json:"askPrice"`
	Bid  float64 `json:"bidPrice"`
	Last float64 `json:"lastPrice"`
}

// Entry returns the entry price for the given side.
func (t Ticker) Entry(side Side) float64 {
	if side == Short {
		return t.Bid
	}
	return t.Ask
}

// Bar is an open/high/low/close/volume aggregate over a fixed time granularity.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Point is a single timestamped value of the price or index history.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Closes extracts the close series from the given bars in order.
func Closes(bars []Bar) []float64 {
	cc := make([]float64, len(bars))
	for i, b := range bars {
		cc[i] = b.Close
	}
	return cc
}

// Highs extracts the high series from the given bars in order.
func Highs(bars []Bar) []float64 {
	hh := make([]float64, len(bars))
	for i, b := range bars {
		hh[i] = b.High
	}
	return hh
}

// Lows extracts the low series from the given bars in order.
func Lows(bars []Bar) []float64 {
	ll := make([]float64, len(bars))
	for i, b := range bars {
		ll[i] = b.Low
	}
	return ll
}

// Values extracts the value series from the given points in order.
func Values(points []Point) []float64 {
	vv := make([]float64, len(points))
	for i, p := range points {
		vv[i] = p.Value
	}
	return vv
}

// AppendBars merges the new bars into the series keeping only entries strictly
// after the last known bar, preserving the fixed series length.
// The series stays ascending by time and deduplicated.
func AppendBars(bars []Bar, update []Bar) []Bar {
	if len(bars) == 0 {
		return update
	}
	size := len(bars)
	last := bars[len(bars)-1].Time
	for _, b := range update {
		if b.Time.After(last) {
			bars = append(bars, b)
			last = b.Time
		}
	}
	if len(bars) > size {
		bars = bars[len(bars)-size:]
	}
	return bars
}
