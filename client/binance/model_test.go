package binance

import (
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair(t *testing.T) {
	pair, err := Pair(model.BTC)
	assert.NoError(t, err)
	assert.Equal(t, "BTCUSDT", pair)

	_, err = Pair(model.NoCoin)
	assert.Error(t, err)
}

func TestInterval(t *testing.T) {
	interval, err := Interval(cointime.Min1)
	assert.NoError(t, err)
	assert.Equal(t, "1m", interval)

	interval, err = Interval(cointime.Day1)
	assert.NoError(t, err)
	assert.Equal(t, "1d", interval)

	_, err = Interval(cointime.Granularity("unknown"))
	assert.Error(t, err)
}

func TestFromKlineEvent(t *testing.T) {

	type test struct {
		open      string
		close     string
		direction string
		err       bool
	}

	tests := map[string]test{
		"up":        {open: "100.0", close: "101.5", direction: "PlusTick"},
		"down":      {open: "101.5", close: "100.0", direction: "MinusTick"},
		"flat":      {open: "100.0", close: "100.0", direction: "ZeroTick"},
		"bad-open":  {open: "nan?", close: "100.0", err: true},
		"bad-close": {open: "100.0", close: "", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			event := &binance.WsKlineEvent{
				Time: 1_000_000,
				Kline: binance.WsKline{
					Open:  tt.open,
					Close: tt.close,
				},
			}
			tick, err := fromKlineEvent(event)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.direction, tick.Direction)
			assert.Equal(t, cointime.FromMilli(1_000_000), tick.Time)
		})
	}
}

func TestFromKline(t *testing.T) {
	kline := &binance.Kline{
		OpenTime: 1_000_000,
		Open:     "100.0",
		High:     "105.0",
		Low:      "99.0",
		Close:    "102.0",
		Volume:   "12.5",
	}

	bar, err := fromKline(kline)
	require.NoError(t, err)
	assert.Equal(t, cointime.FromMilli(1_000_000), bar.Time)
	assert.Equal(t, 100.0, bar.Open)
	assert.Equal(t, 105.0, bar.High)
	assert.Equal(t, 99.0, bar.Low)
	assert.Equal(t, 102.0, bar.Close)
	assert.Equal(t, 12.5, bar.Volume)
}
