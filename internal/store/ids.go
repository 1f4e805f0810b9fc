package store

import (
	"sync"
	"time"
)

// idGenerator hands out time-based ids that never repeat, even when called
// several times within the same millisecond
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator(seed int64) *idGenerator {
	return &idGenerator{last: seed, now: time.Now}
}

func (g *idGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
