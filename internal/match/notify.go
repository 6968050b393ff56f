package match

import (
	"sync"

	"github.com/duelforge/duel-server-go/internal/duel"
)

// Update is pushed to subscribers after every applied action.
type Update struct {
	MatchID  string
	PlayerID string // who submitted the action
	Version  int
	Events   []duel.Event
	Finished bool
}

// Listener receives match updates.
type Listener func(Update)

// Notifier is a synchronous publish/subscribe fanout for match updates.
type Notifier struct {
	mu         sync.RWMutex
	listeners  map[int]Listener
	nextHandle int
}

// NewNotifier constructs an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns a handle for removal.
func (n *Notifier) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	handle := n.nextHandle
	n.nextHandle++
	n.listeners[handle] = listener
	return handle
}

// Unsubscribe removes the listener identified by the handle.
func (n *Notifier) Unsubscribe(handle int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, handle)
}

// Publish delivers the update to every listener synchronously.
func (n *Notifier) Publish(update Update) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, listener := range n.listeners {
		listener(update)
	}
}
