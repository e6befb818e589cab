// Package term wraps tcell for the full-screen viewer.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen is the terminal backend. It owns the tcell screen and serializes
// drawing calls.
type Screen struct {
	mu sync.Mutex
	s  tcell.Screen
}

// New creates a terminal screen.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Screen{s: s}, nil
}

// Init puts the terminal into full-screen mode with mouse reporting.
func (t *Screen) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.s.Init(); err != nil {
		return err
	}
	t.s.EnableMouse()
	t.s.HideCursor()
	return nil
}

// Fini restores the terminal.
func (t *Screen) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Fini()
}

// Size returns the terminal dimensions in cells.
func (t *Screen) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.Size()
}

// Clear erases the back buffer.
func (t *Screen) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Clear()
}

// Show flushes the back buffer to the terminal.
func (t *Screen) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Show()
}

// SetCell draws one rune.
func (t *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.SetContent(x, y, r, nil, style)
}

// SetText draws a string starting at (x, y).
func (t *Screen) SetText(x, y int, text string, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range text {
		t.s.SetContent(x+i, y, r, nil, style)
	}
}

// PollEvent blocks until the next terminal event. Returns nil after Fini.
func (t *Screen) PollEvent() tcell.Event {
	return t.s.PollEvent()
}
