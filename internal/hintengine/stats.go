package hintengine

// Stats is a read-only snapshot of hint availability.
type Stats struct {
	TotalRegular         uint64
	AvailableRegular     uint64
	ConsumedRegular      uint64
	TotalBackup          uint64
	AvailablePromoted    uint64
	RemainingBackup      uint64
	CachedQueries        uint64
	QueriesBeforeRefresh uint64
}

// GetStats returns the current availability snapshot.
func (e *Engine) GetStats() Stats {
	consumed := uint64(len(e.consumedRegular))
	availReg := e.numReg - consumed

	availProm := uint64(0)
	for _, p := range e.promoted {
		if p != nil {
			availProm++
		}
	}

	return Stats{
		TotalRegular:         e.numReg,
		AvailableRegular:     availReg,
		ConsumedRegular:      consumed,
		TotalBackup:          e.numBkp,
		AvailablePromoted:    availProm,
		RemainingBackup:      e.numBkp - e.nextBackup,
		CachedQueries:        uint64(len(e.cache)),
		QueriesBeforeRefresh: availReg + availProm,
	}
}
