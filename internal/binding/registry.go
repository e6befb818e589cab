package binding

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mapstorm/mapstorm/internal/event"
)

// Registry states.
const (
	stateUninitialized int32 = iota
	stateActive
	stateTornDown
)

// RemoveFunc is a removal capability: invoking it detaches exactly one
// previously established native binding. The underlying widget does not
// guarantee idempotence, so the registry calls each capability at most
// once.
type RemoveFunc func()

// Scheduler defers a function onto the component's owning scheduling
// context. It mirrors the schedule package's Loop to avoid a dependency
// on it.
type Scheduler interface {
	Submit(fn func()) error
}

// Registry binds resolved handler mappings to a live event source and
// owns the per-component store of removal capabilities. The zero value is
// uninitialized; use NewRegistry.
type Registry struct {
	mu    sync.Mutex
	state atomic.Int32
	sched Scheduler
	store map[string]RemoveFunc

	// Stats
	callbacks     atomic.Uint64
	scheduled     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
}

// NewRegistry creates an active registry whose deferred handler
// invocations run on sched.
func NewRegistry(sched Scheduler) *Registry {
	r := &Registry{
		sched: sched,
		store: make(map[string]RemoveFunc),
	}
	r.state.Store(stateActive)
	return r
}

// Bind attaches every pair of the resolved mapping to target, in mapping
// order. For each pair it builds a callback adapter that assembles the
// dispatch payload and defers the handler invocation to the scheduler,
// registers the adapter with the target's native add-listener primitive,
// and stores the returned handle's detach operation under the event name.
//
// Re-binding an event name that already has a live binding detaches the
// prior handle before overwriting it.
//
// A failure of the native add-listener primitive propagates to the caller
// unwrapped; bindings established earlier in the same call stay in the
// store and are released at teardown. extra is referenced, not copied; it
// reaches handlers verbatim under Dispatch.Extra.
func (r *Registry) Bind(ctx context.Context, target event.Source, m *Mapping, extra map[string]any) error {
	if r == nil || r.state.Load() == stateUninitialized {
		return ErrNotInitialized
	}
	if r.state.Load() == stateTornDown {
		return ErrTornDown
	}
	if r.sched == nil {
		return ErrNilScheduler
	}
	if target == nil {
		return ErrNilTarget
	}
	if m.Len() == 0 {
		return nil
	}

	var bindErr error
	m.Range(func(name string, h event.Handler) bool {
		handle, err := target.AddListener(name, r.adapter(ctx, name, target, h, extra))
		if err != nil {
			bindErr = err
			return false
		}
		if handle == nil {
			bindErr = ErrNilHandle
			return false
		}

		r.mu.Lock()
		if prior := r.store[name]; prior != nil {
			prior()
		}
		r.store[name] = handle.Detach
		r.mu.Unlock()
		return true
	})
	return bindErr
}

// adapter builds the native callback for one binding. The widget invokes
// it with a native event object; the adapter assembles the dispatch
// payload and schedules the handler on the owning loop rather than
// running it on the native callback stack. Callbacks arriving after
// teardown are dropped.
func (r *Registry) adapter(ctx context.Context, name string, target event.Source, h event.Handler, extra map[string]any) event.Callback {
	return func(native any) {
		r.callbacks.Add(1)
		if r.state.Load() != stateActive {
			r.dropped.Add(1)
			return
		}

		d := event.Dispatch{
			EventName: name,
			Target:    target,
			Native:    native,
			Extra:     extra,
		}
		err := r.sched.Submit(func() {
			if err := h.Handle(ctx, d); err != nil {
				r.handlerErrors.Add(1)
			}
		})
		if err != nil {
			r.dropped.Add(1)
			return
		}
		r.scheduled.Add(1)
	}
}

// ReleaseAll invokes every stored removal capability exactly once, clears
// the store and tears the registry down. Nil capabilities are skipped.
// Calling it on an empty, uninitialized or already torn-down registry is
// a no-op; it never fails.
func (r *Registry) ReleaseAll() {
	if r == nil {
		return
	}
	if !r.state.CompareAndSwap(stateActive, stateTornDown) {
		return
	}

	r.mu.Lock()
	store := r.store
	r.store = make(map[string]RemoveFunc)
	r.mu.Unlock()

	for _, remove := range store {
		if remove == nil {
			continue
		}
		remove()
	}
}

// Len returns the number of live bindings in the store.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

// Bound reports whether an event name has a live binding.
func (r *Registry) Bound(name string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store[name] != nil
}

// IsActive reports whether the registry accepts Bind calls.
func (r *Registry) IsActive() bool {
	return r != nil && r.state.Load() == stateActive
}

// Stats returns registry counters.
func (r *Registry) Stats() Stats {
	return Stats{
		CallbacksReceived: r.callbacks.Load(),
		TasksScheduled:    r.scheduled.Load(),
		TasksDropped:      r.dropped.Load(),
		HandlerErrors:     r.handlerErrors.Load(),
	}
}

// Stats contains listener registry counters.
type Stats struct {
	// CallbacksReceived is the number of native callbacks observed.
	CallbacksReceived uint64

	// TasksScheduled is the number of handler invocations deferred onto
	// the owning scheduler.
	TasksScheduled uint64

	// TasksDropped counts callbacks dropped after teardown or on a
	// saturated scheduler.
	TasksDropped uint64

	// HandlerErrors is the number of handler invocations that returned an
	// error.
	HandlerErrors uint64
}
