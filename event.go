package bytesocket

import "sync"

// EventType names an event emitted by a Socket.
type EventType string

// Events emitted by a Socket.
const (
	// EventConnect is emitted once the transport confirms the connection.
	EventConnect EventType = "connect"
	// EventClose is emitted when the connection has shut down without error.
	EventClose EventType = "close"
	// EventIOError is emitted for transport failures and connect timeouts.
	// Event.Err holds the cause and matches ErrIO.
	EventIOError EventType = "ioError"
	// EventSocketData is emitted after inbound bytes were buffered.
	// Listeners read them through the socket's typed reads.
	EventSocketData EventType = "socketData"
)

// Event is delivered to a Dispatcher.
type Event struct {
	Type EventType
	// Err is set for EventIOError.
	Err error
	// Bytes is the size of the chunk that triggered EventSocketData.
	Bytes int
}

// Dispatcher receives the events of a socket. Dispatch is called from the
// socket's event queue, one event at a time, without socket locks held.
type Dispatcher interface {
	Dispatch(ev Event)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(Event)

// Dispatch calls f(ev).
func (f DispatcherFunc) Dispatch(ev Event) {
	f(ev)
}

type listener struct {
	fn func(Event)
}

// Emitter is a Dispatcher that fans events out to listeners registered per type.
// The zero value is ready to use.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[EventType][]*listener
}

// NewEmitter creates an Emitter without listeners.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventType][]*listener)}
}

// On registers fn for events of type t. The returned function removes it.
// Listeners run in registration order.
func (e *Emitter) On(t EventType, fn func(Event)) (off func()) {
	l := &listener{fn: fn}

	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[EventType][]*listener)
	}
	e.listeners[t] = append(e.listeners[t], l)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		ls := e.listeners[t]
		for i := range ls {
			if ls[i] == l {
				e.listeners[t] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// HasListener reports whether any listener is registered for t.
func (e *Emitter) HasListener(t EventType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[t]) > 0
}

// Dispatch implements Dispatcher.
func (e *Emitter) Dispatch(ev Event) {
	e.mu.RLock()
	ls := e.listeners[ev.Type]
	e.mu.RUnlock()

	for _, l := range ls {
		l.fn(ev)
	}
}
