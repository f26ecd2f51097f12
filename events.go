package tableview

import (
	"fmt"
	"sync"
)

// EventKind identifies a change notification emitted
// by a Record or a Collection.
type EventKind int

const (
	// EventAdd is emitted by a Collection for every appended Record.
	EventAdd EventKind = iota + 1
	// EventRemove is emitted by a Collection for every removed Record.
	EventRemove
	// EventReset is emitted by a Collection when all records were replaced.
	EventReset
	// EventChange is emitted by a Record when one of its fields changed.
	EventChange
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventReset:
		return "reset"
	case EventChange:
		return "change"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is passed to a Listener.
type Event struct {
	Kind EventKind

	// Record is the added, removed or changed record.
	// It is nil for EventReset.
	Record *Record

	// Index is the position of Record within the Collection
	// for EventAdd and EventRemove, else -1.
	Index int

	// Key is the changed field for EventChange.
	Key string

	// Previous holds the records of the Collection
	// before an EventReset.
	Previous []*Record
}

// Listener is called synchronously in the goroutine
// that caused the event.
type Listener func(Event)

// Notifier is implemented by Record and Collection.
type Notifier interface {
	On(kind EventKind, listener Listener) *Subscription
}

// Subscription is returned by Notifier.On
// and removes the listener with Unsubscribe.
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Unsubscribe removes the listener from its Notifier.
// It is safe to call multiple times and on a nil Subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.unsubscribe)
}

type listenerEntry struct {
	id       uint64
	listener Listener
}

// emitter is embedded by the notifying types.
type emitter struct {
	mu        sync.Mutex
	lastID    uint64
	listeners map[EventKind][]listenerEntry
}

// On registers listener for events of kind.
func (e *emitter) On(kind EventKind, listener Listener) *Subscription {
	if listener == nil {
		panic("tableview: nil Listener")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[EventKind][]listenerEntry)
	}
	e.lastID++
	id := e.lastID
	e.listeners[kind] = append(e.listeners[kind], listenerEntry{id: id, listener: listener})

	return &Subscription{unsubscribe: func() { e.off(kind, id) }}
}

func (e *emitter) off(kind EventKind, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.listeners[kind]
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// numListeners returns the number of listeners registered for kind.
func (e *emitter) numListeners(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[kind])
}

// emit calls the listeners of event.Kind outside of the lock,
// so listeners may subscribe, unsubscribe or emit themselves.
func (e *emitter) emit(event Event) {
	e.mu.Lock()
	entries := append([]listenerEntry(nil), e.listeners[event.Kind]...)
	e.mu.Unlock()

	for _, entry := range entries {
		entry.listener(event)
	}
}
