package api

import (
	"context"

	"github.com/drakos74/free-fall/internal/model"
)

// FreeFall is the default interaction index.
const FreeFall Index = "free-fall"

// Index defines the user communication channel.
type Index string

const (
	// Public defines the public communication channel.
	Public Index = "public"
	// Private defines the private communication channel.
	Private Index = "private"
)

// Source exposes the low level interface for consuming the live tick stream.
// A stream interruption surfaces as an absence of new ticks, never as a panic.
type Source interface {
	// Ticks returns a channel of price ticks in arrival order.
	// The stream stops and the channel closes when the stop channel is closed.
	Ticks(stop <-chan struct{}) (model.TickSource, error)
}

// History exposes the aggregated market history of the exchange.
// Implementations return ordered, deduplicated series ascending by time.
type History interface {
	// Bars returns the bar series between the given unix millisecond timestamps.
	Bars(from, to int64, limit int) ([]model.Bar, error)
	// Prices returns the raw price history between the given timestamps.
	Prices(from, to int64, limit int) ([]model.Point, error)
	// Index returns the index price history between the given timestamps.
	Index(from, to int64, limit int) ([]model.Point, error)
}

// Exchange exposes the account and order surface of the exchange.
type Exchange interface {
	// Market returns the current market limits and fee tiers.
	Market() (model.MarketInfo, error)
	// Account returns the current account state.
	Account() (model.Account, error)
	// OpenCount returns the number of currently running positions.
	OpenCount() (int, error)
	// Ticker returns the current best ask/bid.
	Ticker() (model.Ticker, error)
	// OpenOrder submits the given order and returns the confirmed details.
	OpenOrder(order model.Order) (model.Order, error)
}

// User defines an external interface for reporting the audit trail.
type User interface {
	// Run starts the user interface implementation and initialises any external connections.
	Run(ctx context.Context) error
	// Send sends a message to the user and returns the message ID.
	Send(channel Index, message *Message) int
}
