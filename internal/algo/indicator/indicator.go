package indicator

import (
	"fmt"
	"time"

	coinmath "github.com/drakos74/free-fall/internal/math"
	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
)

// Periods carries the window configuration for all indicators.
type Periods struct {
	MA              int     `json:"ma"`
	EMA             int     `json:"ema"`
	Bollinger       int     `json:"bollinger"`
	BollingerStdDev float64 `json:"bollinger_std_dev"`
	RSI             int     `json:"rsi"`
	ATR             int     `json:"atr"`
}

// Validate checks that all configured periods are usable.
func (p Periods) Validate() error {
	for name, period := range map[string]int{
		"ma":        p.MA,
		"ema":       p.EMA,
		"bollinger": p.Bollinger,
		"rsi":       p.RSI,
		"atr":       p.ATR,
	} {
		if period <= 0 {
			return fmt.Errorf("period for %s must be positive: %d", name, period)
		}
	}
	if p.BollingerStdDev < 0 {
		return fmt.Errorf("bollinger std dev multiplier must not be negative: %f", p.BollingerStdDev)
	}
	return nil
}

// Value is an optional indicator value.
// It is absent while the source series is shorter than the configured period.
type Value struct {
	Float64 float64
	Valid   bool
}

// Bands is an optional set of bollinger bands.
type Bands struct {
	coinmath.Bands
	Valid bool
}

// Series holds the indicator values computed over one source series.
type Series struct {
	MA        Value
	EMA       Value
	Bollinger Bands
	RSI       Value
}

// Snapshot is the set of all computed indicator values at one point in time.
// Snapshots are immutable and replaced wholesale on every refresh.
type Snapshot struct {
	Coin  model.Coin
	Time  time.Time
	Bar   Series
	Price Series
	Index Series
	ATR   Value
}

// Builder computes indicator snapshots for the configured periods.
type Builder struct {
	coin    model.Coin
	periods Periods
}

// New creates a new snapshot builder.
func New(coin model.Coin, periods Periods) *Builder {
	return &Builder{
		coin:    coin,
		periods: periods,
	}
}

// Compute derives a snapshot from the given bar series and the optional
// price and index histories. A missing auxiliary series leaves its fields
// absent without blocking the primary computation.
func (b *Builder) Compute(bars []model.Bar, prices, index []model.Point) Snapshot {
	snapshot := Snapshot{
		Coin: b.coin,
		Time: time.Now(),
		Bar:  b.series(model.Closes(bars)),
	}
	if atr, ok := coinmath.ATR(model.Highs(bars), model.Lows(bars), model.Closes(bars), b.periods.ATR); ok {
		snapshot.ATR = Value{Float64: atr, Valid: true}
	}
	if len(prices) > 0 {
		snapshot.Price = b.series(model.Values(prices))
	}
	if len(index) > 0 {
		snapshot.Index = b.series(model.Values(index))
	}
	metrics.Observer.IncrementSnapshots(string(b.coin))
	return snapshot
}

func (b *Builder) series(values []float64) Series {
	var s Series
	if ma, ok := coinmath.MovingAverage(values, b.periods.MA); ok {
		s.MA = Value{Float64: ma, Valid: true}
	}
	if ema, ok := coinmath.ExponentialMovingAverage(values, b.periods.EMA); ok {
		s.EMA = Value{Float64: ema, Valid: true}
	}
	if bands, ok := coinmath.BollingerBands(values, b.periods.Bollinger, b.periods.BollingerStdDev); ok {
		s.Bollinger = Bands{Bands: bands, Valid: true}
	}
	if rsi, ok := coinmath.RSI(values, b.periods.RSI); ok {
		s.RSI = Value{Float64: rsi, Valid: true}
	}
	return s
}
