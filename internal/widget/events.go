package widget

// Native event names emitted by the map view. Names are lowercase with
// no separators so handler-shaped property names resolve onto them
// directly (onZoomChanged binds zoomchanged).
const (
	EventClick         = "click"
	EventDblClick      = "dblclick"
	EventDrag          = "drag"
	EventDragEnd       = "dragend"
	EventCenterChanged = "centerchanged"
	EventZoomChanged   = "zoomchanged"
	EventMarkerAdded   = "markeradded"
)

// Coord is a geographic position in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Marker is a labeled point on the map.
type Marker struct {
	Pos   Coord
	Label string
}

// ClickEvent is the native object for click and dblclick.
type ClickEvent struct {
	// Pos is the geographic position under the pointer.
	Pos Coord

	// X, Y are the screen cell coordinates of the click.
	X int
	Y int
}

// DragEvent is the native object for drag and dragend.
type DragEvent struct {
	// Delta is the geographic displacement of this drag step.
	Delta Coord

	// Center is the view center after the step.
	Center Coord
}

// CenterChange is the native object for centerchanged.
type CenterChange struct {
	Old Coord
	New Coord
}

// ZoomChange is the native object for zoomchanged.
type ZoomChange struct {
	Old int
	New int
}

// MarkerEvent is the native object for markeradded.
type MarkerEvent struct {
	Marker Marker

	// Count is the total number of markers after the addition.
	Count int
}
