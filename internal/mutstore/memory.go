package mutstore

import (
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store backed by a map (List sorts the keys it
// returns), used for tests and ephemeral workspaces.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.data[key]
	if !ok {
		return nil, errNotFound(key)
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (m *Memory) Put(key string, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(buf))
	copy(cp, buf)
	m.data[key] = cp
	return nil
}

func (m *Memory) Exists(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) List(prefix, delimiter string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return listWithDelimiter(keys(m.data), prefix, delimiter), nil
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// listWithDelimiter implements the common-prefix listing semantics shared
// by Memory and FS: keys are filtered by prefix, then (if delimiter is
// set) truncated at the first delimiter past the prefix and deduplicated.
func listWithDelimiter(allKeys []string, prefix, delimiter string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, k := range allKeys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		entry := k
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				entry = prefix + rest[:idx+len(delimiter)]
			}
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	sort.Strings(out)
	return out
}
