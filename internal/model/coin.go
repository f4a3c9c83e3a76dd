package model

// Coin defines a custom coin type
type Coin string

const (
	// NoCoin is a undefined coin
	NoCoin Coin = ""
	// BTC represents bitcoin
	BTC Coin = "BTC"
)

// SatsPerBTC is the number of satoshis in one bitcoin.
// Balances and margins are tracked in sats throughout.
const SatsPerBTC = 100_000_000

// Side defines the direction of an order or position.
type Side byte

const (
	// NoSide defines a missing side.
	NoSide Side = iota
	// Long defines a position that profits when the price goes up.
	Long
	// Short defines a position that profits when the price goes down.
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return "unknown"
}

// Inv returns the inverse side.
func (s Side) Inv() Side {
	switch s {
	case Long:
		return Short
	case Short:
		return Long
	}
	return NoSide
}

// OrderKind defines the price conditions for an order i.e. market price, limit price.
type OrderKind byte

const (
	// NoOrderKind means the order kind is missing
	NoOrderKind OrderKind = iota
	// Market defines a market order
	Market
	// Limit defines a limit order
	Limit
)

func (k OrderKind) String() string {
	switch k {
	case Market:
		return "market"
	case Limit:
		return "limit"
	}
	return "unknown"
}
