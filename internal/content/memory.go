package content

import (
	"sync"

	"github.com/fixitydb/fixity/internal/cid"
)

// Memory is an in-memory Store, useful for tests and for workspaces that
// never persist (spec.md §9 lists an ephemeral in-memory mode explicitly).
type Memory struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

// NewMemory constructs an empty in-memory content store.
func NewMemory() *Memory {
	return &Memory{objs: make(map[string][]byte)}
}

func (m *Memory) Exists(c cid.Cid) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objs[string(c.AsBytes())]
	return ok, nil
}

func (m *Memory) ReadUnchecked(c cid.Cid) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.objs[string(c.AsBytes())]
	if !ok {
		return nil, errNotFound(c)
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (m *Memory) WriteUnchecked(c cid.Cid, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objs[string(c.AsBytes())]; ok {
		return nil
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	m.objs[string(c.AsBytes())] = cp
	return nil
}

// Len reports the number of distinct objects stored, mostly useful in tests
// asserting on structural sharing (spec.md §8).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objs)
}
