package merge

import (
	"time"

	"github.com/drakos74/free-fall/internal/algo/fusion"
	"github.com/drakos74/free-fall/internal/algo/indicator"
	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
	"github.com/rs/zerolog/log"
)

// Update is the tagged message union feeding the merger.
// Exactly one of the two fields is set.
type Update struct {
	tick     *model.Tick
	snapshot *indicator.Snapshot
}

// TickUpdate wraps a tick into an update for the price slot.
func TickUpdate(tick model.Tick) Update {
	return Update{tick: &tick}
}

// SnapshotUpdate wraps an indicator snapshot into an update for the indicator slot.
func SnapshotUpdate(snapshot indicator.Snapshot) Update {
	return Update{snapshot: &snapshot}
}

// Decision pairs a fused signal with the context it was derived from.
type Decision struct {
	Signal   model.Signal
	Score    float64
	Price    float64
	Snapshot indicator.Snapshot
	Time     time.Time
}

// Merger owns the decision context, i.e. the latest tick price and the
// latest indicator snapshot. Each producer updates only its own slot and the
// merger re-fuses on every update against the last known value of the other
// slot (merge-latest). No decision is emitted before both slots have been
// populated once.
type Merger struct {
	coin      model.Coin
	engine    *fusion.Engine
	updates   chan Update
	decisions chan Decision
}

// New creates a new merger with bounded channels of the given capacity.
// A full channel blocks the producer rather than dropping an update.
func New(coin model.Coin, engine *fusion.Engine, buffer int) *Merger {
	return &Merger{
		coin:      coin,
		engine:    engine,
		updates:   make(chan Update, buffer),
		decisions: make(chan Decision, buffer),
	}
}

// Updates exposes the producer side of the merger.
func (m *Merger) Updates() chan<- Update {
	return m.updates
}

// Decisions exposes the consumer side of the merger.
func (m *Merger) Decisions() <-chan Decision {
	return m.decisions
}

// Run consumes updates until the stop channel closes, then flushes any
// pending updates before closing the decisions channel. Run is the only
// goroutine touching the context slots.
func (m *Merger) Run(stop <-chan struct{}) {
	defer func() {
		log.Info().Str("coin", string(m.coin)).Msg("closing merger")
		close(m.decisions)
	}()

	var tick *model.Tick
	var snapshot *indicator.Snapshot

	apply := func(u Update) {
		switch {
		case u.tick != nil:
			tick = u.tick
		case u.snapshot != nil:
			snapshot = u.snapshot
		default:
			log.Warn().Str("coin", string(m.coin)).Msg("empty update")
			return
		}
		// fusion is skipped , not queued , until both slots are populated
		if tick == nil || snapshot == nil {
			return
		}
		signal, score := m.engine.Evaluate(tick.Price, *snapshot)
		metrics.Observer.IncrementSignals(string(m.coin), signal.String())
		m.decisions <- Decision{
			Signal:   signal,
			Score:    score,
			Price:    tick.Price,
			Snapshot: *snapshot,
			Time:     tick.Time,
		}
	}

	for {
		select {
		case u := <-m.updates:
			apply(u)
		case <-stop:
			for {
				select {
				case u := <-m.updates:
					apply(u)
				default:
					return
				}
			}
		}
	}
}
