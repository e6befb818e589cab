// Package script hosts user-supplied Lua handlers for map events.
//
// A script defines global functions named like handler properties:
//
//	function onClick(e)
//	    print("clicked " .. e.lat .. "," .. e.lon)
//	end
//
//	function onZoomChanged(e)
//	    print("zoom " .. e.old_zoom .. " -> " .. e.new_zoom)
//	end
//
// The host surfaces each defined function as an event.Handler; slots the
// script does not define stay nil and therefore never bind. Handlers run
// on the owning component's task loop, which satisfies gopher-lua's
// single-goroutine requirement; the host's mutex guards against misuse
// from other goroutines.
package script
