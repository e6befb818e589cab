package binding

import (
	"context"
	"errors"
	"testing"

	"github.com/mapstorm/mapstorm/internal/event"
)

// queueScheduler records submitted tasks for explicit draining.
type queueScheduler struct {
	tasks []func()
	err   error
}

func (s *queueScheduler) Submit(fn func()) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, fn)
	return nil
}

func (s *queueScheduler) drain() {
	for _, fn := range s.tasks {
		fn()
	}
	s.tasks = nil
}

// fakeHandle counts detach calls.
type fakeHandle struct {
	detached int
}

func (h *fakeHandle) Detach() { h.detached++ }

// fakeSource records listener registrations and hands out fakeHandles.
type fakeSource struct {
	listeners map[string]event.Callback
	handles   map[string][]*fakeHandle
	failOn    string
	nilHandle bool
}

var errAddListener = errors.New("add listener failed")

func newFakeSource() *fakeSource {
	return &fakeSource{
		listeners: make(map[string]event.Callback),
		handles:   make(map[string][]*fakeHandle),
	}
}

func (s *fakeSource) AddListener(name string, fn event.Callback) (event.Handle, error) {
	if name == s.failOn {
		return nil, errAddListener
	}
	if s.nilHandle {
		return nil, nil
	}
	s.listeners[name] = fn
	h := &fakeHandle{}
	s.handles[name] = append(s.handles[name], h)
	return h, nil
}

func (s *fakeSource) detachCount(name string) int {
	total := 0
	for _, h := range s.handles[name] {
		total += h.detached
	}
	return total
}

func mappingOf(entries ...string) *Mapping {
	m := NewMapping()
	for _, name := range entries {
		m.Set(name, event.HandlerFunc(func(context.Context, event.Dispatch) error { return nil }))
	}
	return m
}

func TestRegistry_ZeroValueRejectsBind(t *testing.T) {
	var r Registry
	err := r.Bind(context.Background(), newFakeSource(), mappingOf("click"), nil)
	if err != ErrNotInitialized {
		t.Fatalf("Bind() on zero value = %v, want ErrNotInitialized", err)
	}
}

func TestRegistry_BindStoresOneEntryPerEventName(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(&queueScheduler{})

	if err := r.Bind(context.Background(), src, mappingOf("click", "drag", "zoomchanged"), nil); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	if got := r.Len(); got != 3 {
		t.Errorf("store size = %d, want 3", got)
	}
	for _, name := range []string{"click", "drag", "zoomchanged"} {
		if !r.Bound(name) {
			t.Errorf("expected %s to be bound", name)
		}
	}
}

func TestRegistry_BindEmptyMappingBindsNothing(t *testing.T) {
	r := NewRegistry(&queueScheduler{})
	if err := r.Bind(context.Background(), newFakeSource(), NewMapping(), nil); err != nil {
		t.Fatalf("Bind() with empty mapping failed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("store size = %d, want 0", r.Len())
	}
}

func TestRegistry_BindNilTarget(t *testing.T) {
	r := NewRegistry(&queueScheduler{})
	if err := r.Bind(context.Background(), nil, mappingOf("click"), nil); err != ErrNilTarget {
		t.Fatalf("Bind(nil target) = %v, want ErrNilTarget", err)
	}
}

func TestRegistry_ReleaseAllDetachesEachBindingOnce(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(&queueScheduler{})

	if err := r.Bind(context.Background(), src, mappingOf("click", "drag"), nil); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	r.ReleaseAll()

	if got := src.detachCount("click") + src.detachCount("drag"); got != 2 {
		t.Errorf("detach operations = %d, want 2", got)
	}
	if r.Len() != 0 {
		t.Errorf("store size after teardown = %d, want 0", r.Len())
	}
}

func TestRegistry_ReleaseAllIsIdempotent(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(&queueScheduler{})

	if err := r.Bind(context.Background(), src, mappingOf("click"), nil); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	r.ReleaseAll()
	r.ReleaseAll() // must not detach again or panic

	if got := src.detachCount("click"); got != 1 {
		t.Errorf("detach operations = %d, want 1", got)
	}
	if r.Len() != 0 {
		t.Errorf("store size = %d, want 0", r.Len())
	}
}

func TestRegistry_BindAfterTeardown(t *testing.T) {
	r := NewRegistry(&queueScheduler{})
	r.ReleaseAll()

	err := r.Bind(context.Background(), newFakeSource(), mappingOf("click"), nil)
	if err != ErrTornDown {
		t.Fatalf("Bind() after teardown = %v, want ErrTornDown", err)
	}
}

func TestRegistry_RebindDetachesPriorHandle(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(&queueScheduler{})
	ctx := context.Background()

	if err := r.Bind(ctx, src, mappingOf("click"), nil); err != nil {
		t.Fatalf("first Bind() failed: %v", err)
	}
	if err := r.Bind(ctx, src, mappingOf("click"), nil); err != nil {
		t.Fatalf("second Bind() failed: %v", err)
	}

	if got := src.handles["click"][0].detached; got != 1 {
		t.Errorf("prior handle detached %d times, want 1", got)
	}
	if got := src.handles["click"][1].detached; got != 0 {
		t.Errorf("new handle detached %d times, want 0", got)
	}
	if r.Len() != 1 {
		t.Errorf("store size = %d, want 1", r.Len())
	}
}

func TestRegistry_AddListenerFailurePropagates(t *testing.T) {
	src := newFakeSource()
	src.failOn = "drag"
	r := NewRegistry(&queueScheduler{})

	m := mappingOf("click", "drag", "zoomchanged")
	err := r.Bind(context.Background(), src, m, nil)
	if err != errAddListener {
		t.Fatalf("Bind() = %v, want the source's error unwrapped", err)
	}

	// The binding established before the failure stays in the store.
	if !r.Bound("click") {
		t.Error("click binding should survive a later failure")
	}
	if r.Bound("zoomchanged") {
		t.Error("binding after the failure must not exist")
	}
}

func TestRegistry_NilHandleRejected(t *testing.T) {
	src := newFakeSource()
	src.nilHandle = true
	r := NewRegistry(&queueScheduler{})

	err := r.Bind(context.Background(), src, mappingOf("click"), nil)
	if err != ErrNilHandle {
		t.Fatalf("Bind() = %v, want ErrNilHandle", err)
	}
}

func TestRegistry_HandlerInvocationIsDeferred(t *testing.T) {
	src := newFakeSource()
	sched := &queueScheduler{}
	r := NewRegistry(sched)

	var got event.Dispatch
	m := NewMapping()
	m.Set("click", event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
		got = d
		return nil
	}))

	extra := map[string]any{"layer": "base", "eventName": "spoofed"}
	if err := r.Bind(context.Background(), src, m, extra); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	native := struct{ X int }{X: 7}
	src.listeners["click"](native)

	if got.EventName != "" {
		t.Fatal("handler ran synchronously on the native callback stack")
	}

	sched.drain()

	if got.EventName != "click" {
		t.Errorf("EventName = %q, want click (derived field wins over extra)", got.EventName)
	}
	if got.Target != event.Source(src) {
		t.Error("Target should be the bound source")
	}
	if got.Native != any(native) {
		t.Error("Native should carry the widget's event object")
	}
	if got.Extra["layer"] != "base" || got.Extra["eventName"] != "spoofed" {
		t.Error("Extra should carry the caller payload verbatim")
	}
}

func TestRegistry_CallbackAfterTeardownIsDropped(t *testing.T) {
	src := newFakeSource()
	sched := &queueScheduler{}
	r := NewRegistry(sched)

	if err := r.Bind(context.Background(), src, mappingOf("click"), nil); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}
	cb := src.listeners["click"]

	r.ReleaseAll()
	cb(nil) // native event already in flight when teardown began

	if len(sched.tasks) != 0 {
		t.Errorf("scheduled tasks = %d, want 0 after teardown", len(sched.tasks))
	}
	if got := r.Stats().TasksDropped; got != 1 {
		t.Errorf("TasksDropped = %d, want 1", got)
	}
}

func TestRegistry_SchedulerFailureCountsDrop(t *testing.T) {
	src := newFakeSource()
	sched := &queueScheduler{err: errors.New("queue full")}
	r := NewRegistry(sched)

	if err := r.Bind(context.Background(), src, mappingOf("click"), nil); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}
	src.listeners["click"](nil)

	stats := r.Stats()
	if stats.TasksScheduled != 0 {
		t.Errorf("TasksScheduled = %d, want 0", stats.TasksScheduled)
	}
	if stats.TasksDropped != 1 {
		t.Errorf("TasksDropped = %d, want 1", stats.TasksDropped)
	}
}
