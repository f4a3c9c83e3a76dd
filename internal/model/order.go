package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Order defines an order towards the exchange.
type Order struct {
	ID       string
	Coin     Coin
	Side     Side
	Kind     OrderKind
	Leverage int
	Quantity float64
	Price    float64
	Stop     float64
	Target   float64
	Time     time.Time
}

// NewOrder creates a new order for the given coin.
func NewOrder(coin Coin) *Order {
	return &Order{
		Coin: coin,
	}
}

// WithSide defines the side of the order.
func (o *Order) WithSide(s Side) *Order {
	o.mustBeEmpty(int(o.Side))
	o.Side = s
	return o
}

// Market defines an order with market order kind.
func (o *Order) Market() *Order {
	o.mustBeEmpty(int(o.Kind))
	o.Kind = Market
	return o
}

// Limit defines an order with limit order kind at the given price.
func (o *Order) Limit(price float64) *Order {
	o.mustBeEmpty(int(o.Kind))
	o.mustBeZero(o.Price)
	o.Kind = Limit
	o.Price = price
	return o
}

// WithLeverage defines the leverage for this order.
func (o *Order) WithLeverage(l int) *Order {
	o.mustBeEmpty(o.Leverage)
	o.Leverage = l
	return o
}

// WithQuantity defines the quantity for this order in quote units.
func (o *Order) WithQuantity(q float64) *Order {
	o.mustBeZero(o.Quantity)
	o.Quantity = q
	return o
}

// WithStop defines the stop-loss price for this order.
func (o *Order) WithStop(s float64) *Order {
	o.mustBeZero(o.Stop)
	o.Stop = s
	return o
}

// WithTarget defines the take-profit price for this order.
func (o *Order) WithTarget(t float64) *Order {
	o.mustBeZero(o.Target)
	o.Target = t
	return o
}

// Create creates the order based on the given details.
// This will also make a sanity check on the current parameters given.
func (o *Order) Create() Order {
	o.mustNotBeEmpty(int(o.Side))
	o.mustNotBeEmpty(int(o.Kind))
	if o.Kind == Limit {
		o.mustNotBeZero(o.Price)
	}
	o.ID = uuid.New().String()
	o.Time = time.Now()
	return *o
}

func (o *Order) mustBeEmpty(v int) {
	if v != 0 {
		log.Error().Int("value", v).Str("coin", string(o.Coin)).Msg("order field already assigned")
	}
}

func (o *Order) mustNotBeEmpty(v int) {
	if v == 0 {
		log.Error().Str("coin", string(o.Coin)).Msg("order field missing")
	}
}

func (o *Order) mustBeZero(f float64) {
	if f != 0 {
		log.Error().Float64("value", f).Str("coin", string(o.Coin)).Msg("order field already assigned")
	}
}

func (o *Order) mustNotBeZero(f float64) {
	if f == 0 {
		log.Error().Str("coin", string(o.Coin)).Msg("order field missing")
	}
}
