package widget

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mapstorm/mapstorm/internal/event"
)

// registration is one listener entry on an Emitter.
type registration struct {
	id string
	fn event.Callback
}

// Emitter is an in-process event source. It implements event.Source.
// Listeners for the same event name are invoked in registration order.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]registration
	closed    bool

	emitted   uint64
	delivered uint64
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]registration)}
}

// AddListener registers fn for the named event and returns a handle whose
// Detach removes the registration. Detach is idempotent here, but callers
// must not rely on that: the event.Handle contract promises at-most-once.
func (e *Emitter) AddListener(name string, fn event.Callback) (event.Handle, error) {
	if name == "" {
		return nil, event.ErrEmptyEventName
	}
	if fn == nil {
		return nil, event.ErrNilCallback
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, event.ErrSourceClosed
	}

	id := uuid.NewString()
	e.listeners[name] = append(e.listeners[name], registration{id: id, fn: fn})
	return &handle{emitter: e, name: name, id: id}, nil
}

// Emit invokes every listener registered for name with the native event
// object. Returns the number of listeners invoked.
func (e *Emitter) Emit(name string, native any) int {
	e.mu.RLock()
	regs := e.listeners[name]
	// Copy so listeners can detach from inside a callback.
	callbacks := make([]event.Callback, len(regs))
	for i, r := range regs {
		callbacks[i] = r.fn
	}
	e.mu.RUnlock()

	e.mu.Lock()
	e.emitted++
	e.delivered += uint64(len(callbacks))
	e.mu.Unlock()

	for _, fn := range callbacks {
		fn(native)
	}
	return len(callbacks)
}

// ListenerCount returns the number of listeners registered for name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

// Close drops every listener; further AddListener calls fail with
// event.ErrSourceClosed. Emit on a closed emitter delivers nothing.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.listeners = make(map[string][]registration)
}

// detach removes one registration by event name and ID.
func (e *Emitter) detach(name, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[name]
	for i, r := range regs {
		if r.id == id {
			e.listeners[name] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}

// handle is the removal capability returned by AddListener.
type handle struct {
	emitter *Emitter
	name    string
	id      string
}

// Detach removes the registration from the emitter.
func (h *handle) Detach() {
	h.emitter.detach(h.name, h.id)
}

// Ensure Emitter implements the native listener primitive.
var _ event.Source = (*Emitter)(nil)
