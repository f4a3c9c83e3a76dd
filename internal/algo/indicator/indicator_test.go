package indicator

import (
	"testing"
	"time"

	"github.com/drakos74/free-fall/internal/model"
	"github.com/stretchr/testify/assert"
)

func testPeriods() Periods {
	return Periods{
		MA:              3,
		EMA:             3,
		Bollinger:       3,
		BollingerStdDev: 2,
		RSI:             3,
		ATR:             2,
	}
}

func testBars(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:  time.Unix(int64(i)*60, 0),
			Open:  c - 1,
			High:  c + 2,
			Low:   c - 2,
			Close: c,
		}
	}
	return bars
}

func TestPeriodsValidate(t *testing.T) {

	type test struct {
		mutate func(p *Periods)
		err    bool
	}

	tests := map[string]test{
		"valid": {
			mutate: func(p *Periods) {},
		},
		"zero-ma": {
			mutate: func(p *Periods) { p.MA = 0 },
			err:    true,
		},
		"negative-rsi": {
			mutate: func(p *Periods) { p.RSI = -1 },
			err:    true,
		},
		"negative-std-dev": {
			mutate: func(p *Periods) { p.BollingerStdDev = -0.5 },
			err:    true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := testPeriods()
			tt.mutate(&p)
			err := p.Validate()
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputePrimaryOnly(t *testing.T) {
	builder := New(model.BTC, testPeriods())

	snapshot := builder.Compute(testBars(10, 11, 12, 13, 14), nil, nil)

	assert.True(t, snapshot.Bar.MA.Valid)
	assert.InDelta(t, 13, snapshot.Bar.MA.Float64, 1e-9)
	assert.True(t, snapshot.Bar.EMA.Valid)
	assert.True(t, snapshot.Bar.Bollinger.Valid)
	assert.True(t, snapshot.Bar.RSI.Valid)
	assert.True(t, snapshot.ATR.Valid)

	// absent auxiliary series must not block the primary computation
	assert.False(t, snapshot.Price.MA.Valid)
	assert.False(t, snapshot.Price.EMA.Valid)
	assert.False(t, snapshot.Price.Bollinger.Valid)
	assert.False(t, snapshot.Price.RSI.Valid)
	assert.False(t, snapshot.Index.MA.Valid)
}

func TestComputeShortSeries(t *testing.T) {
	builder := New(model.BTC, testPeriods())

	snapshot := builder.Compute(testBars(10, 11), nil, nil)

	assert.False(t, snapshot.Bar.MA.Valid)
	assert.False(t, snapshot.Bar.EMA.Valid)
	assert.False(t, snapshot.Bar.Bollinger.Valid)
	assert.False(t, snapshot.Bar.RSI.Valid)
	// two bars meet the atr period exactly , a single true range over two
	assert.True(t, snapshot.ATR.Valid)
	assert.InDelta(t, 2, snapshot.ATR.Float64, 1e-9)

	snapshot = builder.Compute(testBars(10), nil, nil)
	assert.False(t, snapshot.ATR.Valid)
}

func TestComputeAuxiliarySeries(t *testing.T) {
	builder := New(model.BTC, testPeriods())

	points := []model.Point{
		{Time: time.Unix(0, 0), Value: 10},
		{Time: time.Unix(60, 0), Value: 11},
		{Time: time.Unix(120, 0), Value: 12},
		{Time: time.Unix(180, 0), Value: 13},
	}

	snapshot := builder.Compute(testBars(10, 11, 12, 13, 14), points, points)

	assert.True(t, snapshot.Price.MA.Valid)
	assert.InDelta(t, 12, snapshot.Price.MA.Float64, 1e-9)
	assert.True(t, snapshot.Index.MA.Valid)
	assert.True(t, snapshot.Price.RSI.Valid)
}

func TestComputeDeterministic(t *testing.T) {
	builder := New(model.BTC, testPeriods())
	bars := testBars(10, 12, 9, 14, 13, 15, 11, 17)

	a := builder.Compute(bars, nil, nil)
	b := builder.Compute(bars, nil, nil)

	a.Time = b.Time
	assert.Equal(t, a, b)
}
