package lnm

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

// maxPages bounds the pagination loop against an api that keeps
// returning overlapping windows.
const maxPages = 100

// Bars returns the bar history between the given unix millisecond
// timestamps, paginating until the window is covered. The result is
// ascending and deduplicated by timestamp.
func (c *Client) Bars(from, to int64, limit int) ([]model.Bar, error) {
	all := make([]model.Bar, 0, limit)
	currentFrom := from

	for page := 0; currentFrom < to && page < maxPages; page++ {
		query := url.Values{}
		query.Set("range", string(c.granularity))
		query.Set("from", strconv.FormatInt(currentFrom, 10))
		query.Set("to", strconv.FormatInt(to, 10))
		query.Set("limit", strconv.Itoa(limit))

		var entries []ohlcEntry
		if err := c.do(http.MethodGet, "/futures/ohlcs", query, nil, &entries); err != nil {
			return nil, fmt.Errorf("could not fetch bar history: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		all = append(all, newBars(entries)...)
		currentFrom = entries[len(entries)-1].Time + 1
	}

	bars := sortBars(all)
	log.Debug().
		Str("coin", string(c.coin)).
		Int("bars", len(bars)).
		Int64("from", from).
		Int64("to", to).
		Msg("fetched bar history")
	return bars, nil
}

// Prices returns the raw price history between the given timestamps.
func (c *Client) Prices(from, to int64, limit int) ([]model.Point, error) {
	return c.points("/futures/history/price", from, to, limit)
}

// Index returns the index price history between the given timestamps.
func (c *Client) Index(from, to int64, limit int) ([]model.Point, error) {
	return c.points("/futures/history/index", from, to, limit)
}

func (c *Client) points(path string, from, to int64, limit int) ([]model.Point, error) {
	all := make([]model.Point, 0, limit)
	currentFrom := from

	for page := 0; currentFrom < to && page < maxPages; page++ {
		query := url.Values{}
		query.Set("from", strconv.FormatInt(currentFrom, 10))
		query.Set("to", strconv.FormatInt(to, 10))
		query.Set("limit", strconv.Itoa(limit))

		var entries []historyEntry
		if err := c.do(http.MethodGet, path, query, nil, &entries); err != nil {
			return nil, fmt.Errorf("could not fetch history for %s: %w", path, err)
		}
		if len(entries) == 0 {
			break
		}

		all = append(all, newPoints(entries)...)
		currentFrom = entries[len(entries)-1].Time + 1
	}

	return sortPoints(all), nil
}
