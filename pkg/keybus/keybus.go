// Package keybus routes shared key presses (typically the cancel key) to
// whichever components have subscribed for them. Hosts that embed several
// input widgets register each widget's cancel callback here instead of every
// widget installing its own global listener. The dispatcher uses
// reference-counted start/stop so that it is live exactly while at least one
// component is mounted.
package keybus

import "sync"

// Subscription is the handle returned by Subscribe. Cancelling it removes
// the callback from the dispatcher.
type Subscription struct {
	dispatcher *Dispatcher
	key        string
	id         int
}

// Cancel removes the subscription. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.remove(s)
	s.dispatcher = nil
}

type callback struct {
	id int
	fn func()
}

// Dispatcher holds the callback registry. The zero value is not usable; use
// NewDispatcher or the package-level Default.
type Dispatcher struct {
	mu     sync.Mutex
	refs   int
	nextID int
	subs   map[string][]callback
}

// Default is the process-wide dispatcher shared by components that don't
// bring their own.
var Default = NewDispatcher()

// NewDispatcher returns an empty, stopped dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string][]callback)}
}

// Start increments the reference count. The dispatcher delivers key presses
// while the count is positive. Each Start must be paired with a Stop.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs++
}

// Stop decrements the reference count. When it reaches zero the dispatcher
// stops delivering key presses but keeps its registry, so a later Start
// resumes delivery to existing subscriptions.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs > 0 {
		d.refs--
	}
}

// Subscribe registers a callback for a key. The key string uses the same
// names Bubble Tea reports, e.g. "esc".
func (d *Dispatcher) Subscribe(key string, fn func()) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.subs[key] = append(d.subs[key], callback{id: d.nextID, fn: fn})
	return &Subscription{dispatcher: d, key: key, id: d.nextID}
}

func (d *Dispatcher) remove(s *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cbs := d.subs[s.key]
	for i, cb := range cbs {
		if cb.id == s.id {
			d.subs[s.key] = append(cbs[:i], cbs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers a key press to all callbacks registered for it and
// returns how many were notified. A stopped dispatcher delivers nothing.
func (d *Dispatcher) Dispatch(key string) int {
	d.mu.Lock()
	if d.refs == 0 {
		d.mu.Unlock()
		return 0
	}
	cbs := make([]callback, len(d.subs[key]))
	copy(cbs, d.subs[key])
	d.mu.Unlock()

	for _, cb := range cbs {
		cb.fn()
	}
	return len(cbs)
}
