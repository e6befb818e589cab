package app

import (
	"context"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/mapstorm/mapstorm/internal/component"
	"github.com/mapstorm/mapstorm/internal/config"
	"github.com/mapstorm/mapstorm/internal/logging"
	"github.com/mapstorm/mapstorm/internal/script"
	"github.com/mapstorm/mapstorm/internal/term"
	"github.com/mapstorm/mapstorm/internal/widget"
)

// scriptSlots are the handler properties a user script may define. The
// slot set is static: scripts declare handled events by defining these
// functions, not by being reflected over.
var scriptSlots = []string{
	"onClick",
	"onDblClick",
	"onDrag",
	"onDragEnd",
	"onCenterChanged",
	"onZoomChanged",
	"onMarkerAdded",
}

// panStep is the cell distance one arrow key press pans.
const panStep = 4

// doubleClickWindow is the maximum delay between two clicks on the same
// cell for them to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// Options configure the application.
type Options struct {
	ConfigPath string
	ScriptPath string
	Verbosity  int
	Version    string
}

// Application coordinates the widget, the terminal and the components.
type Application struct {
	opts Options
	cfg  config.Config
	log  zerolog.Logger

	logCloser io.Closer
	view      *widget.MapView
	screen    *term.Screen
	status    *statusBar
	script    *script.Host
	watcher   *config.Watcher

	components []*component.Component

	// Drag gesture state, touched only from the terminal event loop.
	dragging   bool
	dragMoved  bool
	lastX      int
	lastY      int
	lastClick  time.Time
	lastClickX int
	lastClickY int
}

// New loads configuration, sets up logging and builds the widget and
// components. The terminal is not touched until Run.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	verbosity := cfg.Log.Verbosity
	if opts.Verbosity > verbosity {
		verbosity = opts.Verbosity
	}
	logger, closer, err := logging.Setup(verbosity, cfg.Log.Path)
	if err != nil {
		return nil, err
	}

	a := &Application{
		opts:      opts,
		cfg:       cfg,
		log:       logger.With().Str("version", opts.Version).Logger(),
		logCloser: closer,
	}

	a.view = widget.NewMapView(
		widget.WithCenter(widget.Coord{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon}),
		widget.WithZoom(cfg.Map.Zoom),
		widget.WithZoomRange(cfg.Map.MinZoom, cfg.Map.MaxZoom),
	)

	a.status = newStatusBar(a.view.Center(), a.view.Zoom())
	a.components = append(a.components, component.New(component.Config{
		Name:  "statusbar",
		Props: a.status.props(),
	}, a.log))

	if sc := a.buildScriptComponent(); sc != nil {
		a.components = append(a.components, sc)
	}

	if opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath)
		if err != nil {
			a.log.Warn().Err(err).Msg("config watching disabled")
		} else {
			a.watcher = w
		}
	}

	return a, nil
}

// buildScriptComponent loads the Lua script, if any, and declares a
// component whose handler slots come from the script's functions. Slots
// the script leaves undefined resolve to nil handlers and never bind.
func (a *Application) buildScriptComponent() *component.Component {
	path := a.opts.ScriptPath
	if path == "" {
		path = a.cfg.Script.Path
	}
	if path == "" || !a.cfg.Script.Enabled {
		return nil
	}

	host, err := script.Load(path)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("script disabled")
		return nil
	}
	a.script = host

	props := make([]component.Prop, 0, len(scriptSlots))
	for _, name := range scriptSlots {
		props = append(props, component.Prop{Name: name, Handler: host.Handler(name)})
	}

	return component.New(component.Config{
		Name:    "script:" + path,
		Props:   props,
		Payload: a.cfg.Payload,
	}, a.log)
}

// Run enters full-screen mode and processes terminal input until quit.
func (a *Application) Run() error {
	screen, err := term.New()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	a.screen = screen
	defer screen.Fini()

	ctx := context.Background()
	for _, c := range a.components {
		if err := c.Init(); err != nil {
			return err
		}
		if err := c.Attach(ctx, a.view); err != nil {
			return err
		}
		a.log.Info().Str("component", c.Name()).Int("bindings", c.Bindings()).Msg("attached")
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	// Handlers run on component loops, so the status line changes after
	// the triggering terminal event was already rendered. Tick to catch up.
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	a.render()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.handleEvent(ev); err != nil {
				if err == errQuit {
					return nil
				}
				return err
			}
			a.render()

		case <-ticker.C:
			a.render()

		case cfg, ok := <-a.reloads():
			if ok {
				a.applyReload(cfg)
				a.render()
			}

		case err, ok := <-a.watchErrors():
			if ok {
				a.log.Warn().Err(err).Msg("config reload failed")
			}
		}
	}
}

// Shutdown tears the components down, releasing every native binding, and
// closes the script host, watcher and log file. Safe to call after Run
// returns on any path.
func (a *Application) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, c := range a.components {
		if err := c.Teardown(ctx); err != nil {
			a.log.Warn().Err(err).Str("component", c.Name()).Msg("teardown incomplete")
		}
	}
	if a.script != nil {
		a.script.Close()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// reloads returns the watcher's reload channel, or nil (blocking forever)
// when watching is disabled.
func (a *Application) reloads() <-chan config.Config {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Reloads()
}

func (a *Application) watchErrors() <-chan error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Errors()
}

// applyReload applies a changed configuration to the running view.
// Bindings and zoom limits are fixed at construction; only the view
// position and zoom follow the file.
func (a *Application) applyReload(cfg config.Config) {
	a.log.Info().Msg("config reloaded")
	a.cfg = cfg
	a.view.SetCenter(widget.Coord{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon})
	a.view.SetZoom(cfg.Map.Zoom)
}

// handleEvent routes one terminal event. Returns errQuit to exit.
func (a *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		// Redraw happens after every event.
	}
	return nil
}

func (a *Application) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return errQuit
	case tcell.KeyLeft:
		a.pan(panStep, 0)
	case tcell.KeyRight:
		a.pan(-panStep, 0)
	case tcell.KeyUp:
		a.pan(0, panStep)
	case tcell.KeyDown:
		a.pan(0, -panStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return errQuit
		case '+', '=':
			a.view.ZoomIn()
		case '-', '_':
			a.view.ZoomOut()
		case 'm':
			a.view.AddMarker(a.view.Center(), time.Now().Format("15:04:05"))
		}
	}
	return nil
}

// pan performs a keyboard pan as a one-step drag gesture.
func (a *Application) pan(dx, dy int) {
	a.view.DragBy(dx, dy)
	a.view.EndDrag()
}

func (a *Application) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.view.ZoomIn()
	case buttons&tcell.WheelDown != 0:
		a.view.ZoomOut()

	case buttons&tcell.Button1 != 0:
		if !a.dragging {
			a.dragging = true
			a.dragMoved = false
		} else if x != a.lastX || y != a.lastY {
			a.dragMoved = true
			a.view.DragBy(x-a.lastX, y-a.lastY)
		}
		a.lastX, a.lastY = x, y

	case a.dragging:
		a.dragging = false
		if a.dragMoved {
			a.view.EndDrag()
			break
		}
		w, h := a.screen.Size()
		now := time.Now()
		if now.Sub(a.lastClick) < doubleClickWindow && x == a.lastClickX && y == a.lastClickY {
			a.view.DoubleClickAt(x, y, w, h-1)
			a.lastClick = time.Time{}
			break
		}
		a.view.ClickAt(x, y, w, h-1)
		a.lastClick = now
		a.lastClickX, a.lastClickY = x, y
	}
}
