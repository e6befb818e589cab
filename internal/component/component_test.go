package component

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mapstorm/mapstorm/internal/binding"
	"github.com/mapstorm/mapstorm/internal/event"
	"github.com/mapstorm/mapstorm/internal/logging"
	"github.com/mapstorm/mapstorm/internal/widget"
)

func countingHandler(n *atomic.Int32) event.Handler {
	return event.HandlerFunc(func(context.Context, event.Dispatch) error {
		n.Add(1)
		return nil
	})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}

func TestComponent_Lifecycle(t *testing.T) {
	c := New(Config{Name: "map"}, logging.Discard())

	if got := c.State(); got != StateConfigured {
		t.Fatalf("initial state = %v, want configured", got)
	}
	if err := c.Attach(context.Background(), widget.NewEmitter()); err != ErrNotInitialized {
		t.Fatalf("Attach() before Init = %v, want ErrNotInitialized", err)
	}

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if got := c.State(); got != StateActive {
		t.Fatalf("state after Init = %v, want active", got)
	}
	if err := c.Init(); err != ErrAlreadyInitialized {
		t.Fatalf("second Init() = %v, want ErrAlreadyInitialized", err)
	}

	if err := c.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() failed: %v", err)
	}
	if got := c.State(); got != StateTornDown {
		t.Fatalf("state after Teardown = %v, want torn down", got)
	}
	if err := c.Teardown(context.Background()); err != nil {
		t.Fatalf("second Teardown() = %v, want nil no-op", err)
	}
	if err := c.Init(); err != ErrTornDown {
		t.Fatalf("Init() after Teardown = %v, want ErrTornDown", err)
	}
	if err := c.Attach(context.Background(), widget.NewEmitter()); err != ErrTornDown {
		t.Fatalf("Attach() after Teardown = %v, want ErrTornDown", err)
	}
}

func TestComponent_AttachBindsDeclaredSlots(t *testing.T) {
	var clicks atomic.Int32
	c := New(Config{
		Name: "map",
		Props: []Prop{
			{Name: "onClick", Handler: countingHandler(&clicks)},
			{Name: "onDrag", Handler: nil}, // declared slot without a value
			{Name: "label"},                // not handler-shaped
			{Name: "onInit", Handler: countingHandler(&clicks)}, // lifecycle hook
		},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	if got := c.Bindings(); got != 1 {
		t.Fatalf("Bindings() = %d, want 1 (only onClick resolves)", got)
	}
	if got := src.ListenerCount("click"); got != 1 {
		t.Errorf("click listeners = %d, want 1", got)
	}
	for _, name := range []string{"drag", "label", "init"} {
		if got := src.ListenerCount(name); got != 0 {
			t.Errorf("%s listeners = %d, want 0", name, got)
		}
	}
}

func TestComponent_HandlerRunsDeferred(t *testing.T) {
	var clicks atomic.Int32
	c := New(Config{
		Name:  "map",
		Props: []Prop{{Name: "onClick", Handler: countingHandler(&clicks)}},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	src.Emit("click", nil)
	src.Emit("click", nil)

	waitFor(t, func() bool { return clicks.Load() == 2 })
}

func TestComponent_ExplicitEventsMerge(t *testing.T) {
	var explicit, property atomic.Int32
	events := binding.NewMapping()
	events.Set("onClick", countingHandler(&explicit))
	events.Set("onZoomChanged", countingHandler(&explicit))

	c := New(Config{
		Name:   "map",
		Events: events,
		Props:  []Prop{{Name: "onClick", Handler: countingHandler(&property)}},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	if got := c.Bindings(); got != 2 {
		t.Fatalf("Bindings() = %d, want 2", got)
	}

	src.Emit("click", nil)
	src.Emit("zoom_changed", nil) // explicit-only key has no listener: raw name derives to zoomchanged
	src.Emit("zoomchanged", nil)

	waitFor(t, func() bool { return property.Load() == 1 && explicit.Load() == 1 })
	if explicit.Load() != 1 {
		t.Errorf("explicit handler ran %d times, want 1 (overridden for click)", explicit.Load())
	}
}

func TestComponent_ReattachRebinds(t *testing.T) {
	var clicks atomic.Int32
	c := New(Config{
		Name:  "map",
		Props: []Prop{{Name: "onClick", Handler: countingHandler(&clicks)}},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	ctx := context.Background()
	if err := c.Attach(ctx, src); err != nil {
		t.Fatalf("first Attach() failed: %v", err)
	}
	if err := c.Attach(ctx, src); err != nil {
		t.Fatalf("second Attach() failed: %v", err)
	}

	// The stale listener was detached, so one emit means one invocation.
	if got := src.ListenerCount("click"); got != 1 {
		t.Fatalf("click listeners after re-attach = %d, want 1", got)
	}
	src.Emit("click", nil)
	waitFor(t, func() bool { return clicks.Load() == 1 })
}

func TestComponent_TeardownReleasesBindings(t *testing.T) {
	var clicks atomic.Int32
	c := New(Config{
		Name:  "map",
		Props: []Prop{{Name: "onClick", Handler: countingHandler(&clicks)}},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	if err := c.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() failed: %v", err)
	}

	if got := src.ListenerCount("click"); got != 0 {
		t.Errorf("click listeners after teardown = %d, want 0", got)
	}
	if got := c.Bindings(); got != 0 {
		t.Errorf("Bindings() after teardown = %d, want 0", got)
	}

	src.Emit("click", nil)
	time.Sleep(20 * time.Millisecond)
	if got := clicks.Load(); got != 0 {
		t.Errorf("handler ran %d times after teardown, want 0", got)
	}
}

func TestComponent_ConfiguredIgnore(t *testing.T) {
	var calls atomic.Int32
	c := New(Config{
		Name:   "map",
		Ignore: []string{"onHover"},
		Props: []Prop{
			{Name: "onHover", Handler: countingHandler(&calls)},
			{Name: "onClick", Handler: countingHandler(&calls)},
		},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	if got := src.ListenerCount("hover"); got != 0 {
		t.Errorf("ignored slot bound %d listeners, want 0", got)
	}
	if got := src.ListenerCount("click"); got != 1 {
		t.Errorf("click listeners = %d, want 1", got)
	}
}

func TestComponent_PayloadReachesHandler(t *testing.T) {
	var got atomic.Value
	c := New(Config{
		Name:    "map",
		Payload: map[string]any{"region": "test"},
		Props: []Prop{{Name: "onClick", Handler: event.HandlerFunc(
			func(_ context.Context, d event.Dispatch) error {
				got.Store(d)
				return nil
			})}},
	}, logging.Discard())

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	src := widget.NewEmitter()
	if err := c.Attach(context.Background(), src); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}

	src.Emit("click", widget.ClickEvent{X: 1, Y: 2})
	waitFor(t, func() bool { return got.Load() != nil })

	d := got.Load().(event.Dispatch)
	if d.EventName != "click" {
		t.Errorf("EventName = %q, want click", d.EventName)
	}
	if d.Extra["region"] != "test" {
		t.Errorf("Extra[region] = %v, want test", d.Extra["region"])
	}
	if _, ok := d.Native.(widget.ClickEvent); !ok {
		t.Errorf("Native = %T, want widget.ClickEvent", d.Native)
	}
}

func TestComponent_RunOnOwner(t *testing.T) {
	c := New(Config{Name: "map"}, logging.Discard())

	if err := c.RunOnOwner(func() {}); err != ErrNotInitialized {
		t.Fatalf("RunOnOwner() before Init = %v, want ErrNotInitialized", err)
	}

	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer c.Teardown(context.Background())

	done := make(chan struct{})
	if err := c.RunOnOwner(func() { close(done) }); err != nil {
		t.Fatalf("RunOnOwner() failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deferred task never ran")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateConfigured, "configured"},
		{StateActive, "active"},
		{StateTornDown, "torn down"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
