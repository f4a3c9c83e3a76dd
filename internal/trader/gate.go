package trader

import (
	"sync"
	"time"

	"github.com/drakos74/free-fall/internal/model"
)

// Gate rejection reasons, reported verbatim to the user audit trail.
const (
	ReasonTradeLimit = "Trade limit reached"
	ReasonTradeGap   = "Trade gap not elapsed"
	ReasonBalance    = "Insufficient balance for creating a trade"
)

// Gate enforces the trade admission rules. It is safe for concurrent use,
// although the trader is expected to be its only caller.
type Gate struct {
	lock      sync.Mutex
	gap       time.Duration
	lastTrade time.Time
}

// NewGate creates a gate with the given minimum duration between trades.
func NewGate(gap time.Duration) *Gate {
	return &Gate{
		gap: gap,
	}
}

// Check runs the admission rules in order and returns whether the trade may
// proceed, together with the rejection reason when it may not.
// A non-directional signal never trades and never counts as a rejection,
// so it passes back with an empty reason.
// On a full pass the gate records the trade time, so the caller must
// dispatch the order it checked for.
func (g *Gate) Check(signal model.Signal, open int, maxTrades int, balance uint64, margin uint64, now time.Time) (bool, string) {
	if !signal.Directional() {
		return false, ""
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	if open >= maxTrades {
		return false, ReasonTradeLimit
	}
	if !g.lastTrade.IsZero() && now.Sub(g.lastTrade) < g.gap {
		return false, ReasonTradeGap
	}
	if balance <= margin {
		return false, ReasonBalance
	}

	g.lastTrade = now
	return true, ""
}

// LastTrade returns the time of the last admitted trade.
func (g *Gate) LastTrade() time.Time {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.lastTrade
}
