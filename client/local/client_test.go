package local

import (
	"testing"
	"time"

	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceReplaysAllTicks(t *testing.T) {
	source := NewSource(
		model.Tick{Price: 100, Time: time.Unix(1, 0)},
		model.Tick{Price: 101, Time: time.Unix(2, 0)},
		model.Tick{Price: 102, Time: time.Unix(3, 0)},
	)

	stop := make(chan struct{})
	ticks, err := source.Ticks(stop)
	require.NoError(t, err)

	prices := make([]float64, 0, 3)
	for tick := range ticks {
		prices = append(prices, tick.Price)
	}
	assert.Equal(t, []float64{100, 101, 102}, prices)
}

func TestSourceStops(t *testing.T) {
	ticks := make([]model.Tick, 100)
	for i := range ticks {
		ticks[i] = model.Tick{Price: float64(i)}
	}
	source := NewSource(ticks...)

	stop := make(chan struct{})
	out, err := source.Ticks(stop)
	require.NoError(t, err)

	<-out
	close(stop)

	// the channel closes after at most one in-flight tick.
	count := 0
	for range out {
		count++
	}
	assert.LessOrEqual(t, count, 1)
}

func TestHistoryFiltersWindow(t *testing.T) {
	bars := []model.Bar{
		{Time: cointime.FromMilli(1_000), Close: 1},
		{Time: cointime.FromMilli(2_000), Close: 2},
		{Time: cointime.FromMilli(3_000), Close: 3},
		{Time: cointime.FromMilli(4_000), Close: 4},
	}
	history := NewHistory(bars, nil, nil)

	got, err := history.Bars(2_000, 3_000, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, 3.0, got[1].Close)

	got, err = history.Bars(0, 10_000, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestExchangeRecordsOrders(t *testing.T) {
	exchange := NewExchange(
		model.MarketInfo{MaxOpenTrades: 2},
		model.Account{Balance: 1_000_000},
		model.Ticker{Ask: 100_010, Bid: 99_990, Last: 100_000},
	)

	open, err := exchange.OpenCount()
	require.NoError(t, err)
	assert.Equal(t, 0, open)

	order := model.NewOrder(model.BTC).
		Market().
		WithSide(model.Long).
		WithLeverage(20).
		WithQuantity(10).
		Create()

	confirmed, err := exchange.OpenOrder(order)
	require.NoError(t, err)
	assert.Equal(t, 100_010.0, confirmed.Price)

	open, err = exchange.OpenCount()
	require.NoError(t, err)
	assert.Equal(t, 1, open)
	assert.Len(t, exchange.Orders(), 1)
}
