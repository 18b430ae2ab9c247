package hintengine

// UpdateHint applies an O(1)-amortized XOR delta to every hint touched by
// database index i. Cached plaintext is never overwritten; if i is cached,
// the promoted hints tied to it (the promoted hint its query was answered
// with, and the hint promoted with QueryIndex i when that query consumed a
// regular hint) have their parity kept in sync even when the natural
// per-block iPRF structure doesn't otherwise touch them (the promotion's
// extra block alpha* was added by override, not by the underlying iPRF
// mapping).
func (e *Engine) UpdateHint(i uint64, delta Parity) {
	if i >= e.n {
		return
	}
	alpha := i / e.w
	beta := i % e.w
	if alpha >= e.c {
		return
	}

	candidates := e.blocks[alpha].Inverse(beta)
	touched := make(map[uint64]bool, len(candidates))
	for _, j := range candidates {
		touched[j] = true
		if j < e.numReg {
			if containsBlock(e.regular[j].Blocks, alpha) {
				e.regular[j].Parity.XOR(delta)
			}
			continue
		}
		k := j - e.numReg
		if e.promoted[k] != nil && containsBlock(e.promoted[k].Blocks, alpha) {
			e.promoted[k].Parity.XOR(delta)
		}
		if e.backup[k] != nil {
			if containsBlock(e.backup[k].Blocks, alpha) {
				e.backup[k].ParityIn.XOR(delta)
			} else {
				e.backup[k].ParityOut.XOR(delta)
			}
		}
	}

	if entry, ok := e.cache[i]; ok {
		for k, p := range e.promoted {
			j := e.numReg + uint64(k)
			if p == nil || touched[j] {
				continue
			}
			if j == entry.hintIdx || p.QueryIndex == i {
				p.Parity.XOR(delta)
			}
		}
	}
}
