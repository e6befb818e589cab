package script

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/mapstorm/mapstorm/internal/event"
	"github.com/mapstorm/mapstorm/internal/widget"
)

// ErrHostClosed is returned when a handler fires after the host closed.
var ErrHostClosed = errors.New("script host is closed")

// Host wraps a Lua state holding user handler functions.
//
// gopher-lua's LState is not goroutine-safe; all handlers produced by one
// host must run on a single goroutine (the owning component's task loop).
type Host struct {
	mu     sync.Mutex
	L      *lua.LState
	path   string
	closed bool
}

// Load creates a Lua state and runs the script at path.
func Load(path string) (*Host, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	return &Host{L: L, path: path}, nil
}

// Path returns the loaded script path.
func (h *Host) Path() string {
	return h.path
}

// Defined reports whether the script defines a global function with the
// given name.
func (h *Host) Defined(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	_, ok := h.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Handler returns an event.Handler invoking the script function with the
// given name, or nil when the script does not define it. Nil results let
// undefined slots drop silently at resolution time.
func (h *Host) Handler(name string) event.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	fn, ok := h.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}

	return event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			return ErrHostClosed
		}
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, h.payload(d))
	})
}

// Close shuts the Lua state down. Handlers fired afterwards return
// ErrHostClosed.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.L.Close()
}

// payload converts a dispatch into the Lua table handlers receive.
// Callers must hold h.mu.
func (h *Host) payload(d event.Dispatch) *lua.LTable {
	tbl := h.L.NewTable()
	tbl.RawSetString("event_name", lua.LString(d.EventName))

	switch n := d.Native.(type) {
	case widget.ClickEvent:
		tbl.RawSetString("lat", lua.LNumber(n.Pos.Lat))
		tbl.RawSetString("lon", lua.LNumber(n.Pos.Lon))
		tbl.RawSetString("x", lua.LNumber(n.X))
		tbl.RawSetString("y", lua.LNumber(n.Y))
	case widget.DragEvent:
		tbl.RawSetString("delta_lat", lua.LNumber(n.Delta.Lat))
		tbl.RawSetString("delta_lon", lua.LNumber(n.Delta.Lon))
		tbl.RawSetString("lat", lua.LNumber(n.Center.Lat))
		tbl.RawSetString("lon", lua.LNumber(n.Center.Lon))
	case widget.CenterChange:
		tbl.RawSetString("old_lat", lua.LNumber(n.Old.Lat))
		tbl.RawSetString("old_lon", lua.LNumber(n.Old.Lon))
		tbl.RawSetString("lat", lua.LNumber(n.New.Lat))
		tbl.RawSetString("lon", lua.LNumber(n.New.Lon))
	case widget.ZoomChange:
		tbl.RawSetString("old_zoom", lua.LNumber(n.Old))
		tbl.RawSetString("new_zoom", lua.LNumber(n.New))
	case widget.MarkerEvent:
		tbl.RawSetString("label", lua.LString(n.Marker.Label))
		tbl.RawSetString("lat", lua.LNumber(n.Marker.Pos.Lat))
		tbl.RawSetString("lon", lua.LNumber(n.Marker.Pos.Lon))
		tbl.RawSetString("marker_count", lua.LNumber(n.Count))
	}

	if len(d.Extra) > 0 {
		extra := h.L.NewTable()
		for k, v := range d.Extra {
			extra.RawSetString(k, h.toLValue(v))
		}
		tbl.RawSetString("extra", extra)
	}

	return tbl
}

// toLValue converts a Go value from the caller payload to a Lua value.
// Callers must hold h.mu.
func (h *Host) toLValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case map[string]any:
		tbl := h.L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, h.toLValue(item))
		}
		return tbl
	case []any:
		tbl := h.L.NewTable()
		for _, item := range val {
			tbl.Append(h.toLValue(item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprint(val))
	}
}
