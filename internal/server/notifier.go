package server

import (
	"sync"

	"github.com/leapstack-labs/sqlrestore/internal/restore"
)

// Notifier broadcasts restored statements to event stream listeners.
// Listeners receive a ping and read the statement with Latest, so a slow
// listener only ever sees the newest one.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
	latest    *restore.Result
}

// NewNotifier creates a Notifier with no listeners.
func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a ping after each Publish.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Publish stores res as the latest statement and pings all listeners.
// Non-blocking: a listener with a pending ping is skipped.
func (n *Notifier) Publish(res *restore.Result) {
	n.mu.Lock()
	n.latest = res
	n.mu.Unlock()

	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Latest returns the most recently published statement, or nil.
func (n *Notifier) Latest() *restore.Result {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.latest
}
