package render

// Gate is a poll-based deadline for one task. It never blocks; callers ask
// whether the task is due and mark it when it ran.
type Gate struct {
	last  uint32
	armed bool
}

// Due reports whether at least interval ms passed since the last Mark. An
// unarmed gate is always due. The subtraction is unsigned so a counter
// wraparound never yields a huge or negative elapsed time.
func (g *Gate) Due(now, interval uint32) bool {
	if !g.armed {
		return true
	}
	return now-g.last >= interval
}

// Mark records that the task ran at now.
func (g *Gate) Mark(now uint32) {
	g.last = now
	g.armed = true
}

// Disarm makes the next Due call succeed regardless of time.
func (g *Gate) Disarm() {
	g.armed = false
}
