package store

import "sync"

// Listener is called synchronously after every successful mutation of a store
type Listener func()

type subscription struct {
	id int
	fn Listener
}

// observers is the subscriber registry embedded in every store
type observers struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (o *observers) Subscribe(fn Listener) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *observers) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

// notify runs the listeners in subscription order. It must be called without
// the owning store's lock held so listeners can read the store.
func (o *observers) notify() {
	o.mu.Lock()
	subs := append([]subscription(nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}
