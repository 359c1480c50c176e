// Package event is the grid core's outward boundary: a small typed
// in-process bus carrying fire-and-forget notifications to sibling UI
// surfaces (detail panel, selection toolbar). Publishing never blocks;
// a slow subscriber misses the notification rather than stalling the
// event loop.
package event

import "sync"

// Event names.
const (
	SelectionChanged = "selection_changed"
	ClearCell        = "clear_cell"
	SelectAllLoaded  = "select_all_loaded"
	InvertSelection  = "invert_selection"
	DetailNavigate   = "detail_navigate"
	DetailToggle     = "detail_toggle"
)

// SelectionChangedPayload reports the new single selection.
type SelectionChangedPayload struct {
	RowID    string
	RowIndex int
}

// ClearCellPayload asks a collaborator to clear one cell's value.
type ClearCellPayload struct {
	RowID    string
	FieldKey string
}

// DetailNavigatePayload moves the detail panel by ±1 record.
type DetailNavigatePayload struct {
	Delta int
}

// Notification is one published event.
type Notification struct {
	Name    string
	Payload any
}

// Bus fans notifications out to subscribers.
type Bus struct {
	mu        sync.RWMutex
	listeners []chan Notification
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe returns a buffered channel receiving all notifications.
// The caller must Unsubscribe when done.
func (b *Bus) Subscribe() chan Notification {
	ch := make(chan Notification, 16)
	b.mu.Lock()
	b.listeners = append(b.listeners, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel returned by Subscribe.
func (b *Bus) Unsubscribe(ch chan Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends a notification to every subscriber without blocking.
func (b *Bus) Publish(name string, payload any) {
	n := Notification{Name: name, Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.listeners {
		select {
		case ch <- n:
		default:
			// subscriber is behind; drop rather than block the UI loop
		}
	}
}
