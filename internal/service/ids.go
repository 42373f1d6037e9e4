package service

import (
	"sync"
	"time"
)

// idClock issues post ids derived from the current time in milliseconds.
// Two calls inside the same millisecond would collide, so the clock bumps
// past the last issued value instead; ids therefore stay unique and
// creation order implies id order.
type idClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDClock(now func() time.Time) *idClock {
	if now == nil {
		now = time.Now
	}
	return &idClock{now: now}
}

// Seed moves the clock past an already-issued id, so a restart never
// hands out an id the stored collection is using.
func (c *idClock) Seed(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}

func (c *idClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}
