package lnm

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

// Market returns the current market limits and fee tiers.
func (c *Client) Market() (model.MarketInfo, error) {
	var market futuresMarket
	if err := c.do(http.MethodGet, "/futures/market", nil, nil, &market); err != nil {
		return model.MarketInfo{}, fmt.Errorf("could not fetch market: %w", err)
	}
	if !market.Active {
		return model.MarketInfo{}, fmt.Errorf("market is not active")
	}
	return newMarketInfo(market), nil
}

// Account returns the account state. The api reports the balance in sats.
func (c *Client) Account() (model.Account, error) {
	var user userInfo
	if err := c.do(http.MethodGet, "/user", nil, nil, &user); err != nil {
		return model.Account{}, fmt.Errorf("could not fetch account: %w", err)
	}
	if user.Balance < 0 {
		return model.Account{}, fmt.Errorf("negative account balance: %f", user.Balance)
	}
	return model.Account{
		Balance: uint64(user.Balance),
		UID:     user.UID,
	}, nil
}

// OpenCount returns the number of currently running positions.
func (c *Client) OpenCount() (int, error) {
	query := url.Values{}
	query.Set("type", "running")

	var trades []tradeEntry
	if err := c.do(http.MethodGet, "/futures", query, nil, &trades); err != nil {
		return 0, fmt.Errorf("could not fetch running trades: %w", err)
	}

	count := 0
	for _, trade := range trades {
		if trade.Running {
			count++
		}
	}
	return count, nil
}

// Ticker returns the current best ask and bid.
func (c *Client) Ticker() (model.Ticker, error) {
	var ticker futuresTicker
	if err := c.do(http.MethodGet, "/futures/ticker", nil, nil, &ticker); err != nil {
		return model.Ticker{}, fmt.Errorf("could not fetch ticker: %w", err)
	}
	return model.Ticker{
		Ask:  ticker.AskPrice,
		Bid:  ticker.BidPrice,
		Last: ticker.LastPrice,
	}, nil
}

// OpenOrder submits the given order and returns the confirmed details.
func (c *Client) OpenOrder(order model.Order) (model.Order, error) {
	request, err := newTradeRequest(order)
	if err != nil {
		return model.Order{}, fmt.Errorf("could not map order: %w", err)
	}

	var response tradeResponse
	if err := c.do(http.MethodPost, "/futures", nil, request, &response); err != nil {
		return model.Order{}, fmt.Errorf("could not create trade: %w", err)
	}

	log.Info().
		Str("coin", string(c.coin)).
		Str("id", response.ID).
		Str("side", response.Side).
		Float64("price", response.Price).
		Float64("quantity", response.Quantity).
		Float64("liquidation", response.Liquidation).
		Msg("trade confirmed")

	confirmed := order
	confirmed.ID = response.ID
	confirmed.Price = response.Price
	return confirmed, nil
}
