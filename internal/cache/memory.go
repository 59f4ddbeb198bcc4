package cache

import "sync"

// Memory is an in-memory Cache for tests and as a last-resort fallback when
// the durable cache cannot be opened: state keeps working for the session
// but nothing survives restart.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (c *Memory) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (c *Memory) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	c.m[key] = v
	return nil
}

func (c *Memory) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *Memory) Close() error { return nil }
