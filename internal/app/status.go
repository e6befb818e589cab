package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/mapstorm/mapstorm/internal/component"
	"github.com/mapstorm/mapstorm/internal/event"
	"github.com/mapstorm/mapstorm/internal/widget"
)

// statusBar is the model behind the bottom status line. Handlers mutate
// it from the status component's task loop; the render path reads it from
// the terminal loop, hence the lock.
type statusBar struct {
	mu        sync.RWMutex
	center    widget.Coord
	zoom      int
	markers   int
	lastEvent string
}

func newStatusBar(center widget.Coord, zoom int) *statusBar {
	return &statusBar{center: center, zoom: zoom}
}

// Text renders the status line.
func (s *statusBar) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := fmt.Sprintf(" %.4f, %.4f  z%d  markers:%d", s.center.Lat, s.center.Lon, s.zoom, s.markers)
	if s.lastEvent != "" {
		text += "  [" + s.lastEvent + "]"
	}
	return text + "  (q quit, arrows pan, +/- zoom, m marker)"
}

func (s *statusBar) note(event string) {
	s.mu.Lock()
	s.lastEvent = event
	s.mu.Unlock()
}

// props declares the status bar's handler slots. These bind through the
// same resolver and registry as user handlers.
func (s *statusBar) props() []component.Prop {
	return []component.Prop{
		{Name: "onCenterChanged", Handler: event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
			if c, ok := d.Native.(widget.CenterChange); ok {
				s.mu.Lock()
				s.center = c.New
				s.lastEvent = d.EventName
				s.mu.Unlock()
			}
			return nil
		})},
		{Name: "onZoomChanged", Handler: event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
			if z, ok := d.Native.(widget.ZoomChange); ok {
				s.mu.Lock()
				s.zoom = z.New
				s.lastEvent = d.EventName
				s.mu.Unlock()
			}
			return nil
		})},
		{Name: "onMarkerAdded", Handler: event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
			if m, ok := d.Native.(widget.MarkerEvent); ok {
				s.mu.Lock()
				s.markers = m.Count
				s.lastEvent = d.EventName
				s.mu.Unlock()
			}
			return nil
		})},
		{Name: "onClick", Handler: event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
			if c, ok := d.Native.(widget.ClickEvent); ok {
				s.note(fmt.Sprintf("click %.4f,%.4f", c.Pos.Lat, c.Pos.Lon))
			}
			return nil
		})},
		{Name: "onDragEnd", Handler: event.HandlerFunc(func(_ context.Context, d event.Dispatch) error {
			s.note(d.EventName)
			return nil
		})},
	}
}
