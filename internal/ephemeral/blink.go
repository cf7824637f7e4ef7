package ephemeral

import "sync"

// BlinkMap is the un-namespaced store shared by every addon of one request
type BlinkMap struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewBlinkMap creates an empty blink map
func NewBlinkMap() *BlinkMap {
	return &BlinkMap{data: make(map[string]any)}
}

// Get returns the value under key, or def
func (b *BlinkMap) Get(key string, def any) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v, ok := b.data[key]; ok {
		return v
	}
	return def
}

// Set stores value under key
func (b *BlinkMap) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// Exists reports whether key is set
func (b *BlinkMap) Exists(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok
}

// Destroy clears the whole map, for every addon
func (b *BlinkMap) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string]any)
}

// Len returns the number of stored keys
func (b *BlinkMap) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
