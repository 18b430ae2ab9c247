// Package ingest supplies database mutations to plinko-hintd: a simulated
// generator for demo/bench runs, and an Ethereum block-following source
// that turns per-block balance changes of mapped addresses into update
// events.
package ingest

import "plinkopir/internal/hintengine"

// Update is one database mutation: index i changed from oldValue to
// newValue, with Delta = oldValue XOR newValue precomputed for updateHint.
type Update struct {
	Index    uint64
	OldValue hintengine.Parity
	NewValue hintengine.Parity
	Delta    hintengine.Parity
}

func deltaOf(old, new_ hintengine.Parity) hintengine.Parity {
	d := old
	d.XOR(new_)
	return d
}

// NewUpdate builds an Update with Delta derived from OldValue/NewValue.
func NewUpdate(index uint64, oldValue, newValue hintengine.Parity) Update {
	return Update{Index: index, OldValue: oldValue, NewValue: newValue, Delta: deltaOf(oldValue, newValue)}
}

// Source yields batches of database updates, one call per logical tick.
// ok=false signals nothing new this tick; callers should keep polling
// rather than treat it as an error. SimulatedSource implements this
// directly; EthBlockSource takes a context (its Next blocks on RPC calls)
// and so is driven separately rather than through this interface.
type Source interface {
	Next() ([]Update, bool, error)
}
