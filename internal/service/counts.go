// internal/service/counts.go
package service

import "sync"

// deliveryCounts is the thread-safe accumulator shared by the fan-out
// workers of one dispatch.
type deliveryCounts struct {
	mu     sync.Mutex
	sent   int
	failed int
}

func (c *deliveryCounts) ok() {
	c.mu.Lock()
	c.sent++
	c.mu.Unlock()
}

func (c *deliveryCounts) fail() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

func (c *deliveryCounts) totals() (sent, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent, c.failed
}
