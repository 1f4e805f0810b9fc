package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservers_OrderAndUnsubscribe(t *testing.T) {
	var o observers
	var got []string

	unsubA := o.Subscribe(func() { got = append(got, "a") })
	o.Subscribe(func() { got = append(got, "b") })

	o.notify()
	unsubA()
	unsubA()
	o.notify()

	assert.Equal(t, []string{"a", "b", "b"}, got)
}

func TestObservers_ListenerMayUnsubscribe(t *testing.T) {
	var o observers
	calls := 0

	var unsubscribe func()
	unsubscribe = o.Subscribe(func() {
		calls++
		unsubscribe()
	})

	o.notify()
	o.notify()
	assert.Equal(t, 1, calls)
}

func TestIDGenerator_StrictlyIncreasing(t *testing.T) {
	g := newIDGenerator(0)
	fixed := time.UnixMilli(1_700_000_000_000)
	g.now = func() time.Time { return fixed }

	first := g.Next()
	assert.Equal(t, fixed.UnixMilli(), first)
	assert.Equal(t, first+1, g.Next())
	assert.Equal(t, first+2, g.Next())
}

func TestIDGenerator_SeedAboveClock(t *testing.T) {
	g := newIDGenerator(1 << 60)
	assert.Equal(t, int64(1<<60+1), g.Next())
}

func TestIDGenerator_Concurrent(t *testing.T) {
	g := newIDGenerator(0)

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := g.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1600)
}
