package raster

import "github.com/gdamore/tcell/v2"

// Cell is one terminal output unit: a display rune plus its tcell style.
// Cells are value types and compare with ==.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// sentinelCell can never equal a rendered cell (no real cell carries a
// negative rune), so a buffer initialized with it diffs as fully changed.
var sentinelCell = Cell{Ch: -1}
