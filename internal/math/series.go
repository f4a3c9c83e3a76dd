package math

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// The indicator calculations below mirror the exchange-side reference
// implementation bit for bit. An indicator is "absent" (ok=false) while its
// source series has fewer points than the configured period. Absence is a
// normal state for a warming-up series, never an error.

// MovingAverage returns the mean of the last period elements.
func MovingAverage(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}
	return stat.Mean(series[len(series)-period:], nil), true
}

// ExponentialMovingAverage returns the EMA over the series,
// seeded with the mean of the first period elements and smoothed
// with a factor of 2/(period+1) in arrival order.
func ExponentialMovingAverage(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}
	factor := 2 / (float64(period) + 1)
	ema := stat.Mean(series[:period], nil)
	for _, price := range series[period:] {
		ema = (price-ema)*factor + ema
	}
	return ema, true
}

// Bands carries the three bollinger band values.
type Bands struct {
	Lower  float64 `json:"lower"`
	Middle float64 `json:"middle"`
	Upper  float64 `json:"upper"`
}

// BollingerBands returns the bands around the trailing window mean,
// offset by mult times the population standard deviation of the window.
func BollingerBands(series []float64, period int, mult float64) (Bands, bool) {
	if period <= 0 || len(series) < period {
		return Bands{}, false
	}
	window := series[len(series)-period:]
	middle := stat.Mean(window, nil)
	variance := 0.0
	for _, price := range window {
		variance += (price - middle) * (price - middle)
	}
	// population variance, not the sample estimate
	std := math.Sqrt(variance / float64(period))
	return Bands{
		Lower:  middle - mult*std,
		Middle: middle,
		Upper:  middle + mult*std,
	}, true
}

// RSI returns the relative strength index over the series.
// The gain/loss averages are seeded with the sum of the first period steps
// divided by the period and Wilder-smoothed over the rest of the series.
// A series of exactly period points carries period-1 steps and still yields
// a value, only fewer points than the period are absent.
func RSI(series []float64, period int) (float64, bool) {
	if period <= 0 || len(series) < period {
		return 0, false
	}
	gains := make([]float64, 0, len(series)-1)
	losses := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		diff := series[i] - series[i-1]
		if diff > 0 {
			gains = append(gains, diff)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -diff)
		}
	}
	seed := period
	if len(gains) < seed {
		seed = len(gains)
	}
	p := float64(period)
	avgGain := floats.Sum(gains[:seed]) / p
	avgLoss := floats.Sum(losses[:seed]) / p
	for i := seed; i < len(gains); i++ {
		avgGain = (avgGain*(p-1) + gains[i]) / p
		avgLoss = (avgLoss*(p-1) + losses[i]) / p
	}
	if avgLoss == 0 {
		return 100, true
	}
	return 100 - 100/(1+avgGain/avgLoss), true
}

// ATR returns the average true range over the given bar series.
// NOTE : the result is the sum of the FIRST period true ranges divided by
// the period, not a rolling Wilder average. This matches the reference
// implementation the sizing logic was calibrated against and must not be
// "fixed" silently. A series of exactly period bars carries period-1 true
// ranges and still yields a value.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	if period <= 0 || len(highs) < period || len(lows) < period || len(closes) < period {
		return 0, false
	}
	n := len(highs)
	if len(lows) < n {
		n = len(lows)
	}
	if len(closes) < n {
		n = len(closes)
	}
	ranges := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		tr := highs[i] - lows[i]
		if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		ranges = append(ranges, tr)
	}
	seed := period
	if len(ranges) < seed {
		seed = len(ranges)
	}
	return floats.Sum(ranges[:seed]) / float64(period), true
}
