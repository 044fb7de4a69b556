package bytesocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEmitterOrder(t *testing.T) {
	e := NewEmitter()

	var got []string
	e.On(EventConnect, func(Event) { got = append(got, "first") })
	e.On(EventConnect, func(Event) { got = append(got, "second") })
	e.On(EventClose, func(Event) { got = append(got, "close") })

	e.Dispatch(Event{Type: EventConnect})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestEmitterOff(t *testing.T) {
	e := NewEmitter()

	var a, b int
	offA := e.On(EventSocketData, func(Event) { a++ })
	e.On(EventSocketData, func(Event) { b++ })

	e.Dispatch(Event{Type: EventSocketData})
	offA()
	offA()
	e.Dispatch(Event{Type: EventSocketData})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestEmitterZeroValue(t *testing.T) {
	var e Emitter
	assert.False(t, e.HasListener(EventConnect))
	e.Dispatch(Event{Type: EventConnect})

	var got int
	off := e.On(EventConnect, func(Event) { got++ })
	e.Dispatch(Event{Type: EventConnect})
	off()
	e.Dispatch(Event{Type: EventConnect})

	assert.Equal(t, 1, got)
}

func TestEmitterHasListener(t *testing.T) {
	e := NewEmitter()
	assert.False(t, e.HasListener(EventIOError))

	off := e.On(EventIOError, func(Event) {})
	assert.True(t, e.HasListener(EventIOError))
	assert.False(t, e.HasListener(EventClose))

	off()
	assert.False(t, e.HasListener(EventIOError))
}

func TestEmitterOffDuringDispatch(t *testing.T) {
	e := NewEmitter()

	var calls int
	var off func()
	off = e.On(EventClose, func(Event) {
		calls++
		off()
	})
	e.On(EventClose, func(Event) { calls++ })

	e.Dispatch(Event{Type: EventClose})
	e.Dispatch(Event{Type: EventClose})

	assert.Equal(t, 3, calls)
}

func TestEmitterPassesEvent(t *testing.T) {
	e := NewEmitter()

	var got Event
	e.On(EventIOError, func(ev Event) { got = ev })
	e.Dispatch(Event{Type: EventIOError, Err: ErrConnectTimeout})

	assert.ErrorIs(t, got.Err, ErrConnectTimeout)
}

func TestDispatcherFunc(t *testing.T) {
	var got EventType
	var d Dispatcher = DispatcherFunc(func(ev Event) { got = ev.Type })

	d.Dispatch(Event{Type: EventSocketData})
	assert.Equal(t, EventSocketData, got)
}

// mockDispatcher records dispatched events.
type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ev Event) {
	m.Called(ev)
}

func TestMockDispatcher(t *testing.T) {
	m := &mockDispatcher{}
	m.On("Dispatch", Event{Type: EventConnect}).Once()

	m.Dispatch(Event{Type: EventConnect})
	m.AssertExpectations(t)
}
