package app

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

var (
	styleMap     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAxis    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleMarker  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCenter  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleMarkerL = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// gridSpacing returns the graticule spacing in degrees for a zoom level.
func gridSpacing(zoom int) float64 {
	switch {
	case zoom <= 1:
		return 45
	case zoom <= 3:
		return 15
	case zoom <= 5:
		return 5
	case zoom <= 8:
		return 1
	case zoom <= 11:
		return 0.25
	default:
		return 0.05
	}
}

// crossesLine reports whether the interval [val-half, val+half) contains a
// multiple of spacing.
func crossesLine(val, half, spacing float64) bool {
	return math.Floor((val+half)/spacing) != math.Floor((val-half)/spacing)
}

// render draws the graticule, markers, center cross and status line.
func (a *Application) render() {
	w, h := a.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}
	mapH := h - 1

	a.screen.Clear()

	center := a.view.Center()
	zoom := a.view.Zoom()
	lonStep, latStep := a.view.DegreesPerCell()
	spacing := gridSpacing(zoom)

	for y := 0; y < mapH; y++ {
		lat := center.Lat - float64(y-mapH/2)*latStep
		onParallel := crossesLine(lat, latStep/2, spacing)
		onEquator := crossesLine(lat, latStep/2, 180)

		for x := 0; x < w; x++ {
			lon := center.Lon + float64(x-w/2)*lonStep
			onMeridian := crossesLine(lon, lonStep/2, spacing)
			onPrime := crossesLine(lon, lonStep/2, 360)

			var r rune
			style := styleMap
			switch {
			case onParallel && onMeridian:
				r = '+'
			case onEquator || onPrime:
				r = '·'
				style = styleAxis
			case onParallel:
				r = '-'
			case onMeridian:
				r = '|'
			default:
				continue
			}
			a.screen.SetCell(x, y, r, style)
		}
	}

	for _, m := range a.view.Markers() {
		x, y, ok := a.view.GeoToCell(m.Pos, w, mapH)
		if !ok {
			continue
		}
		a.screen.SetCell(x, y, '*', styleMarker)
		if m.Label != "" && x+1 < w {
			a.screen.SetText(x+1, y, m.Label, styleMarkerL)
		}
	}

	a.screen.SetCell(w/2, mapH/2, '+', styleCenter)
	a.renderStatus(w, h)

	a.screen.Show()
}

// renderStatus draws the bottom status line padded to the full width.
func (a *Application) renderStatus(w, h int) {
	a.screen.SetText(0, h-1, fitLine(a.status.Text(), w), styleStatus)
}

// fitLine clamps text to w cells and pads with spaces. Truncation is by
// rune so multi-byte characters in labels are never split.
func fitLine(text string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) > w {
		return string(runes[:w])
	}
	for len(runes) < w {
		runes = append(runes, ' ')
	}
	return string(runes)
}
