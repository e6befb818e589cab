package component

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mapstorm/mapstorm/internal/binding"
	"github.com/mapstorm/mapstorm/internal/event"
	"github.com/mapstorm/mapstorm/internal/schedule"
)

// State is the lifecycle state of a component instance.
type State int32

const (
	// StateConfigured is the initial state: configuration captured, no
	// store or loop yet.
	StateConfigured State = iota

	// StateActive means Init has run; Attach and Teardown are legal.
	StateActive

	// StateTornDown means Teardown has run; only reads are legal.
	StateTornDown
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateActive:
		return "active"
	case StateTornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// Prop is one declared handler slot: a handler-shaped property name and
// its current handler value. A nil handler is a declared slot with no
// value and never produces a binding.
type Prop struct {
	Name    string
	Handler event.Handler
}

// Config is the static declaration of a component's handled events.
type Config struct {
	// Name identifies the component in logs.
	Name string

	// Events is the explicit events mapping, keyed by raw name
	// (typically handler-shaped, e.g. "onClick").
	Events *binding.Mapping

	// Props are the declared handler slots, in declaration order.
	// Property-derived handlers override explicit entries sharing the
	// same raw key.
	Props []Prop

	// Ignore lists additional property names never treated as handler
	// slots, on top of the lifecycle hook names.
	Ignore []string

	// Payload is attached to every dispatch under Dispatch.Extra.
	Payload map[string]any

	// QueueSize bounds the component's task loop; 0 uses the loop default.
	QueueSize int
}

// Lifecycle hook names are never handler slots, whatever the config says.
var defaultIgnore = []string{"onInit", "onTeardown", "onAttach"}

// Component wires declared handler slots to a map widget's event source.
// It owns one listener registry and one task loop for its whole lifetime.
type Component struct {
	cfg   Config
	log   zerolog.Logger
	state atomic.Int32

	loop     *schedule.Loop
	registry *binding.Registry
}

// New captures the configuration. The component stays inert until Init.
func New(cfg Config, logger zerolog.Logger) *Component {
	return &Component{
		cfg: cfg,
		log: logger.With().Str("component", cfg.Name).Logger(),
	}
}

// Name returns the configured component name.
func (c *Component) Name() string {
	return c.cfg.Name
}

// State returns the current lifecycle state.
func (c *Component) State() State {
	return State(c.state.Load())
}

// Init creates the empty listener store and starts the owning task loop.
func (c *Component) Init() error {
	if !c.state.CompareAndSwap(int32(StateConfigured), int32(StateActive)) {
		if c.State() == StateTornDown {
			return ErrTornDown
		}
		return ErrAlreadyInitialized
	}

	opts := []schedule.Option{
		schedule.WithPanicHandler(func(v any, stack []byte) {
			c.log.Error().Interface("panic", v).Bytes("stack", stack).Msg("handler panicked")
		}),
	}
	if c.cfg.QueueSize > 0 {
		opts = append(opts, schedule.WithQueueSize(c.cfg.QueueSize))
	}

	c.loop = schedule.NewLoop(opts...)
	if err := c.loop.Start(); err != nil {
		c.state.Store(int32(StateConfigured))
		return err
	}
	c.registry = binding.NewRegistry(c.loop)

	c.log.Debug().Msg("component initialized")
	return nil
}

// Attach resolves the component's declared handlers and binds them to
// target. May be called more than once; re-binding an event name detaches
// the previous binding first. A native binding failure propagates to the
// caller.
func (c *Component) Attach(ctx context.Context, target event.Source) error {
	switch c.State() {
	case StateConfigured:
		return ErrNotInitialized
	case StateTornDown:
		return ErrTornDown
	}

	resolved := binding.Resolve(c.cfg.Events, c.propNames(), c.lookup(), c.ignoreSet())
	if err := c.registry.Bind(ctx, target, resolved, c.cfg.Payload); err != nil {
		return err
	}

	c.log.Debug().
		Int("bindings", resolved.Len()).
		Strs("events", resolved.Keys()).
		Msg("component attached")
	return nil
}

// Teardown releases every native binding exactly once and stops the task
// loop, draining work already deferred. Safe to call twice; the second
// call is a no-op.
func (c *Component) Teardown(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateActive), int32(StateTornDown)) {
		return nil
	}

	c.registry.ReleaseAll()
	err := c.loop.Stop(ctx)
	if err != nil && err != schedule.ErrNotRunning {
		c.log.Warn().Err(err).Msg("task loop did not drain cleanly")
		return err
	}

	c.log.Debug().Msg("component torn down")
	return nil
}

// RunOnOwner defers fn onto the component's task loop, in FIFO order with
// deferred handler invocations.
func (c *Component) RunOnOwner(fn func()) error {
	if c.State() != StateActive {
		return ErrNotInitialized
	}
	return c.loop.Submit(fn)
}

// Bindings returns the number of live native bindings.
func (c *Component) Bindings() int {
	if c.registry == nil {
		return 0
	}
	return c.registry.Len()
}

// propNames returns the declared slot names in declaration order.
func (c *Component) propNames() []string {
	names := make([]string, len(c.cfg.Props))
	for i, p := range c.cfg.Props {
		names[i] = p.Name
	}
	return names
}

// lookup builds the property value lookup over the declared slots.
func (c *Component) lookup() binding.LookupFunc {
	values := make(map[string]event.Handler, len(c.cfg.Props))
	for _, p := range c.cfg.Props {
		values[p.Name] = p.Handler
	}
	return func(name string) event.Handler {
		return values[name]
	}
}

// ignoreSet merges the lifecycle hook names with the configured ignores.
func (c *Component) ignoreSet() binding.IgnoreSet {
	s := binding.NewIgnoreSet(defaultIgnore...)
	for _, n := range c.cfg.Ignore {
		s[n] = struct{}{}
	}
	return s
}
