package nvram

// Memory is a volatile Storage, used for tests and when no database is configured.
type Memory struct {
	shadow
	durable []byte
	commits int
}

// NewMemory creates an erased region of size bytes.
func NewMemory(size int) *Memory {
	m := &Memory{shadow: newShadow(size)}
	m.durable = make([]byte, size)
	copy(m.durable, m.data)
	return m
}

// Commit copies pending writes into the durable image.
func (m *Memory) Commit() error {
	if !m.dirty {
		return nil
	}
	copy(m.durable, m.data)
	m.dirty = false
	m.commits++
	return nil
}

// Commits returns how many commits actually wrote data.
func (m *Memory) Commits() int {
	return m.commits
}

// Reopen simulates a power cycle: uncommitted writes are lost.
func (m *Memory) Reopen() *Memory {
	n := &Memory{shadow: newShadow(len(m.durable)), commits: m.commits}
	copy(n.data, m.durable)
	n.durable = make([]byte, len(m.durable))
	copy(n.durable, m.durable)
	return n
}

// Erase resets the region and commits.
func (m *Memory) Erase() error {
	m.shadow.Erase()
	return m.Commit()
}
