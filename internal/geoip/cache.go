package geoip

import "sync"

// Cache is a fixed-capacity, insertion-ordered map of geolocation results.
// When full it evicts the oldest entry. It is injected into the Client so
// tests can reset it between cases.
type Cache struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string]Result
}

func NewCache(max int) *Cache {
	if max <= 0 {
		max = 1
	}
	return &Cache{
		max:     max,
		entries: make(map[string]Result, max),
	}
}

func (c *Cache) Get(ip string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[ip]
	return r, ok
}

func (c *Cache) Put(ip string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[ip]; !exists {
		c.order = append(c.order, ip)
	}
	c.entries[ip] = r
	for len(c.entries) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.entries = make(map[string]Result, c.max)
}
