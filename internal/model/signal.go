package model

// Signal defines the discrete trading recommendation derived from the fused
// indicator and price state.
type Signal int8

const (
	// StrongSell is a high confidence sell recommendation.
	StrongSell Signal = iota - 2
	// Sell is a sell recommendation.
	Sell
	// Hold means no action should be taken.
	Hold
	// Buy is a buy recommendation.
	Buy
	// StrongBuy is a high confidence buy recommendation.
	StrongBuy
)

// Undefined denotes a fusion input validation failure.
// It is not a trading recommendation and downstream consumers
// must treat it exactly like Hold.
const Undefined Signal = -128

func (s Signal) String() string {
	switch s {
	case StrongSell:
		return "strong-sell"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	case Buy:
		return "buy"
	case StrongBuy:
		return "strong-buy"
	case Undefined:
		return "undefined"
	}
	return "unknown"
}

// Directional returns true if the signal recommends opening a position.
func (s Signal) Directional() bool {
	switch s {
	case StrongSell, Sell, Buy, StrongBuy:
		return true
	}
	return false
}

// Side returns the position side implied by the signal.
func (s Signal) Side() Side {
	switch s {
	case Buy, StrongBuy:
		return Long
	case Sell, StrongSell:
		return Short
	}
	return NoSide
}
