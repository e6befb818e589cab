package widget

import (
	"math"
	"sync"
)

// Zoom limits for the map view.
const (
	MinZoom = 0
	MaxZoom = 18

	// cellsPerWorld is the number of terminal cells spanning 360 degrees
	// of longitude at zoom 0. Each zoom step doubles it.
	cellsPerWorld = 16

	// latClamp keeps the view away from the poles, where the projection
	// degenerates.
	latClamp = 85.0
)

// MapView is the interactive map widget. All state changes go through its
// methods, and every observable change emits a native event through the
// embedded Emitter. Safe for use from the frontend's event goroutine
// alongside reads from handler code.
type MapView struct {
	*Emitter

	mu       sync.Mutex
	center   Coord
	zoom     int
	minZoom  int
	maxZoom  int
	markers  []Marker
	dragging bool
}

// ViewOption configures a MapView.
type ViewOption func(*MapView)

// WithCenter sets the initial view center.
func WithCenter(c Coord) ViewOption {
	return func(v *MapView) {
		v.center = c
	}
}

// WithZoom sets the initial zoom level.
func WithZoom(z int) ViewOption {
	return func(v *MapView) {
		v.zoom = z
	}
}

// WithZoomRange restricts the zoom levels reachable through the widget.
func WithZoomRange(min, max int) ViewOption {
	return func(v *MapView) {
		if min >= MinZoom && max <= MaxZoom && min <= max {
			v.minZoom = min
			v.maxZoom = max
		}
	}
}

// NewMapView creates a map view with its own emitter.
func NewMapView(opts ...ViewOption) *MapView {
	v := &MapView{
		Emitter: NewEmitter(),
		zoom:    2,
		minZoom: MinZoom,
		maxZoom: MaxZoom,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.center = normalize(v.center)
	v.zoom = clampInt(v.zoom, v.minZoom, v.maxZoom)
	return v
}

// Center returns the current view center.
func (v *MapView) Center() Coord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

// Zoom returns the current zoom level.
func (v *MapView) Zoom() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Markers returns a copy of the current markers.
func (v *MapView) Markers() []Marker {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Marker, len(v.markers))
	copy(out, v.markers)
	return out
}

// SetCenter moves the view center and emits centerchanged when the
// position actually changes.
func (v *MapView) SetCenter(c Coord) {
	v.mu.Lock()
	old := v.center
	c = normalize(c)
	if c == old {
		v.mu.Unlock()
		return
	}
	v.center = c
	v.mu.Unlock()

	v.Emit(EventCenterChanged, CenterChange{Old: old, New: c})
}

// SetZoom changes the zoom level, clamped to the view's range, and emits
// zoomchanged when the level actually changes.
func (v *MapView) SetZoom(z int) {
	v.mu.Lock()
	old := v.zoom
	z = clampInt(z, v.minZoom, v.maxZoom)
	if z == old {
		v.mu.Unlock()
		return
	}
	v.zoom = z
	v.mu.Unlock()

	v.Emit(EventZoomChanged, ZoomChange{Old: old, New: z})
}

// ZoomIn increases the zoom level by one step.
func (v *MapView) ZoomIn() {
	v.SetZoom(v.Zoom() + 1)
}

// ZoomOut decreases the zoom level by one step.
func (v *MapView) ZoomOut() {
	v.SetZoom(v.Zoom() - 1)
}

// ClickAt reports a pointer click at screen cell (x, y) inside a viewport
// of w by h cells and emits click with the geographic position.
func (v *MapView) ClickAt(x, y, w, h int) {
	pos := v.CellToGeo(x, y, w, h)
	v.Emit(EventClick, ClickEvent{Pos: pos, X: x, Y: y})
}

// DoubleClickAt emits dblclick, then recenters on the clicked position and
// zooms in one step, matching the usual map widget gesture.
func (v *MapView) DoubleClickAt(x, y, w, h int) {
	pos := v.CellToGeo(x, y, w, h)
	v.Emit(EventDblClick, ClickEvent{Pos: pos, X: x, Y: y})
	v.SetCenter(pos)
	v.ZoomIn()
}

// DragBy pans the view by a cell delta. It emits drag with the geographic
// displacement, and centerchanged for the resulting center move. Call
// EndDrag when the gesture finishes.
func (v *MapView) DragBy(dx, dy int) {
	v.mu.Lock()
	lonStep, latStep := v.degreesPerCell()
	delta := Coord{
		Lat: float64(dy) * latStep,
		Lon: float64(-dx) * lonStep,
	}
	old := v.center
	next := normalize(Coord{Lat: old.Lat + delta.Lat, Lon: old.Lon + delta.Lon})
	v.center = next
	v.dragging = true
	v.mu.Unlock()

	v.Emit(EventDrag, DragEvent{Delta: delta, Center: next})
	if next != old {
		v.Emit(EventCenterChanged, CenterChange{Old: old, New: next})
	}
}

// EndDrag finishes a drag gesture, emitting dragend with the final center.
// A no-op when no drag is in progress.
func (v *MapView) EndDrag() {
	v.mu.Lock()
	if !v.dragging {
		v.mu.Unlock()
		return
	}
	v.dragging = false
	center := v.center
	v.mu.Unlock()

	v.Emit(EventDragEnd, DragEvent{Center: center})
}

// AddMarker drops a labeled marker and emits markeradded.
func (v *MapView) AddMarker(pos Coord, label string) {
	m := Marker{Pos: normalize(pos), Label: label}

	v.mu.Lock()
	v.markers = append(v.markers, m)
	count := len(v.markers)
	v.mu.Unlock()

	v.Emit(EventMarkerAdded, MarkerEvent{Marker: m, Count: count})
}

// CellToGeo converts a screen cell position inside a w by h viewport to
// the geographic position it displays, relative to the current center.
func (v *MapView) CellToGeo(x, y, w, h int) Coord {
	v.mu.Lock()
	defer v.mu.Unlock()

	lonStep, latStep := v.degreesPerCell()
	return normalize(Coord{
		Lat: v.center.Lat - float64(y-h/2)*latStep,
		Lon: v.center.Lon + float64(x-w/2)*lonStep,
	})
}

// GeoToCell converts a geographic position to a screen cell inside a w by
// h viewport. ok is false when the position falls outside the viewport.
func (v *MapView) GeoToCell(pos Coord, w, h int) (x, y int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	lonStep, latStep := v.degreesPerCell()
	x = w/2 + int((pos.Lon-v.center.Lon)/lonStep)
	y = h/2 - int((pos.Lat-v.center.Lat)/latStep)
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// DegreesPerCell returns the longitude and latitude span of one terminal
// cell at the current zoom. Used by the renderer to lay out the viewport.
func (v *MapView) DegreesPerCell() (lon, lat float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.degreesPerCell()
}

// degreesPerCell returns the longitude and latitude span of one terminal
// cell at the current zoom. Terminal cells are roughly twice as tall as
// wide, so a cell covers twice as much latitude. Callers must hold v.mu.
func (v *MapView) degreesPerCell() (lon, lat float64) {
	cells := cellsPerWorld << uint(v.zoom)
	lon = 360.0 / float64(cells)
	return lon, lon * 2
}

// normalize wraps longitude into [-180, 180) and clamps latitude away
// from the poles. Non-finite coordinates reset to the origin rather than
// poisoning the projection arithmetic.
func normalize(c Coord) Coord {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		c.Lon = 0
	}
	if math.IsNaN(c.Lat) {
		c.Lat = 0
	}

	c.Lon = math.Mod(c.Lon+180, 360)
	if c.Lon < 0 {
		c.Lon += 360
	}
	c.Lon -= 180

	if c.Lat > latClamp {
		c.Lat = latClamp
	}
	if c.Lat < -latClamp {
		c.Lat = -latClamp
	}
	return c
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
