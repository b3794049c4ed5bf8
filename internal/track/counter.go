package track

import "sync"

// Counter hands out per-key sequence numbers for unnamed assertions.
//
// Keys are typically a snapshot directory joined with a test name, so
// repeated unnamed assertions inside one test get 0, 1, 2, ... in call
// order while other tests keep their own sequences.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Counter struct {
	mu   sync.Mutex
	next map[string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{next: make(map[string]int)}
}

// Next returns the next index for key, starting at 0.
func (c *Counter) Next(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next[key]
	c.next[key] = n + 1
	return n
}

// Reset forgets every key.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = make(map[string]int)
}
