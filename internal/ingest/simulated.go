package ingest

import "plinkopir/internal/hintengine"

// SimulatedSource produces synthetic updates at a fixed rate per tick,
// cycling deterministically through the database. Used for demo runs and
// the throughput bench harness when no RPC endpoint is configured.
type SimulatedSource struct {
	dbSize  uint64
	perTick int
	db      []hintengine.Parity
	tick    uint64
}

// NewSimulatedSource builds a source that mutates perTick entries of a
// dbSize-entry database per call to Next, tracking the current value of
// each entry so it can report a correct OldValue/Delta.
func NewSimulatedSource(dbSize uint64, perTick int) *SimulatedSource {
	return &SimulatedSource{
		dbSize:  dbSize,
		perTick: perTick,
		db:      make([]hintengine.Parity, dbSize),
	}
}

// Next produces perTick updates deterministically keyed by the tick
// counter. It never returns an error; it returns ok=false with no updates
// only when perTick <= 0 or dbSize == 0.
func (s *SimulatedSource) Next() ([]Update, bool, error) {
	if s.perTick <= 0 || s.dbSize == 0 {
		return nil, false, nil
	}

	updates := make([]Update, s.perTick)
	for i := 0; i < s.perTick; i++ {
		index := (s.tick*uint64(s.perTick) + uint64(i)) % s.dbSize
		old := s.db[index]
		next := hintengine.Parity{s.tick*1000 + uint64(i) + 1, 0, 0, 0}
		s.db[index] = next
		updates[i] = NewUpdate(index, old, next)
	}
	s.tick++
	return updates, true, nil
}

// InitialDatabase returns the zero-valued database backing this source,
// useful for seeding a HintEngine's initial streaming build before any
// Next call has mutated it.
func (s *SimulatedSource) InitialDatabase() []hintengine.Parity {
	return s.db
}
