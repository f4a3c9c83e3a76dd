package lnm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	signature := sign("secret", 1_627_632_000_000, "GET", "/v2/user", "")
	assert.NotEmpty(t, signature)

	// deterministic for the same input.
	assert.Equal(t, signature, sign("secret", 1_627_632_000_000, "GET", "/v2/user", ""))

	// sensitive to every component.
	assert.NotEqual(t, signature, sign("other", 1_627_632_000_000, "GET", "/v2/user", ""))
	assert.NotEqual(t, signature, sign("secret", 1_627_632_000_001, "GET", "/v2/user", ""))
	assert.NotEqual(t, signature, sign("secret", 1_627_632_000_000, "POST", "/v2/user", ""))
	assert.NotEqual(t, signature, sign("secret", 1_627_632_000_000, "GET", "/v2/futures", ""))

	// whitespace in the payload does not change the signature.
	assert.Equal(t,
		sign("secret", 1, "POST", "/v2/futures", `{"side":"b","type":"m"}`),
		sign("secret", 1, "POST", "/v2/futures", "{\"side\": \"b\",\n \"type\": \"m\"}"))

	// the method is uppercased before signing.
	assert.Equal(t,
		sign("secret", 1, "get", "/v2/user", ""),
		sign("secret", 1, "GET", "/v2/user", ""))
}

func newTestClient(serverURL string) *Client {
	client := New(model.BTC, serverURL, cointime.Min1, Credentials{
		Key:        "key",
		Secret:     "secret",
		Passphrase: "passphrase",
	})
	client.now = func() time.Time {
		return time.Unix(1_000_000, 0)
	}
	return client
}

func TestRequestCarriesAuthHeaders(t *testing.T) {
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_, _ = w.Write([]byte(`{"uid":"abc","balance":1000}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	account, err := client.Account()
	require.NoError(t, err)
	assert.Equal(t, "abc", account.UID)
	assert.Equal(t, uint64(1000), account.Balance)

	assert.Equal(t, "key", headers.Get("LNM-ACCESS-KEY"))
	assert.Equal(t, "passphrase", headers.Get("LNM-ACCESS-PASSPHRASE"))
	assert.Equal(t, "1000000000", headers.Get("LNM-ACCESS-TIMESTAMP"))
	assert.NotEmpty(t, headers.Get("LNM-ACCESS-SIGNATURE"))
}

func TestBarsPaginatesAndDeduplicates(t *testing.T) {
	// two pages with one overlapping timestamp, the second page ends the window.
	pages := [][]ohlcEntry{
		{
			{Time: 1_000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
			{Time: 2_000, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
		},
		{
			{Time: 2_000, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
			{Time: 3_000, Open: 2, High: 3, Low: 1.5, Close: 2.5, Volume: 8},
		},
	}
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/futures/ohlcs", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("range"))
		page := pages[0]
		if calls < len(pages) {
			page = pages[calls]
		} else {
			page = nil
		}
		calls++
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.Bars(1_000, 3_500, 2)
	require.NoError(t, err)

	require.Len(t, bars, 3)
	assert.Equal(t, cointime.FromMilli(1_000), bars[0].Time)
	assert.Equal(t, cointime.FromMilli(2_000), bars[1].Time)
	assert.Equal(t, cointime.FromMilli(3_000), bars[2].Time)
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Time.After(bars[i-1].Time))
	}
}

func TestBarsStopsOnEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.Bars(1_000, 10_000, 100)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestOpenCountFiltersRunningTrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "running", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`[{"id":"1","running":true},{"id":"2","running":false},{"id":"3","running":true}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	count, err := client.OpenCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"index":100000,"lastPrice":100005,"askPrice":100010,"bidPrice":99990}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ticker, err := client.Ticker()
	require.NoError(t, err)
	assert.Equal(t, 100_010.0, ticker.Ask)
	assert.Equal(t, 99_990.0, ticker.Bid)
	assert.Equal(t, 100_005.0, ticker.Last)
	assert.Equal(t, 100_010.0, ticker.Entry(model.Long))
	assert.Equal(t, 99_990.0, ticker.Entry(model.Short))
}

func TestMarketInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active":false}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Market()
	assert.Error(t, err)
}

func TestOpenOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var request tradeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "m", request.Type)
		assert.Equal(t, "b", request.Side)

		_, _ = fmt.Fprintf(w, `{"id":"trade-1","side":"b","quantity":%d,"price":100005.5}`, request.Quantity)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order := model.NewOrder(model.BTC).
		Market().
		WithSide(model.Long).
		WithLeverage(20).
		WithQuantity(10).
		WithStop(99_000).
		WithTarget(101_000).
		Create()

	confirmed, err := client.OpenOrder(order)
	require.NoError(t, err)
	assert.Equal(t, "trade-1", confirmed.ID)
	assert.Equal(t, 100_005.5, confirmed.Price)
	assert.Equal(t, model.Long, confirmed.Side)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid request"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Ticker()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")
}
