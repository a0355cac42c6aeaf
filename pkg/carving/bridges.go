package carving

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// minBridgeSpan is the span length a bridge must exceed: BuildABridge
// paves only spans of more than minBridgeSpan cells (spec §4.5).
const minBridgeSpan = 3

// BuildABridge attempts to pave exactly one bridge and reports whether it
// succeeded. The driving loop (pkg/dungeon) calls this repeatedly until it
// returns false (spec §4.5, invariant P9).
func BuildABridge(lv *level.Level, depth, accelerator int, s *rng.Stream) bool {
	ratioX := bridgeRatio(depth, accelerator, s)
	ratioY := bridgeRatio(depth, accelerator, s)

	rows := make([]int, lv.Height)
	s.FillSequentialList(rows)
	cols := make([]int, lv.Width)
	s.FillSequentialList(cols)

	for _, y := range rows {
		for _, x := range cols {
			if span, ok := tryBridge(lv, x, y, 1, 0, ratioX); ok {
				paveBridge(lv, span)
				return true
			}
		}
	}
	for _, x := range cols {
		for _, y := range rows {
			if span, ok := tryBridge(lv, x, y, 0, 1, ratioY); ok {
				paveBridge(lv, span)
				return true
			}
		}
	}
	return false
}

// bridgeRatio computes bridgeRatioX/Y = 100 + (100 + 100*depth*accelerator/9)
// * randRange(10,20)/10 (spec §4.5).
func bridgeRatio(depth, accelerator int, s *rng.Stream) int {
	base := 100 + 100*depth*accelerator/9
	return 100 + base*s.RandRange(10, 20)/10
}

type bridgeSpan struct {
	cells     []grid.Point
	start, end grid.Point
}

// tryBridge walks from (x,y) in direction (dx,dy) as long as cells are
// bridgeable and not secret or blocking; foundExposure tracks whether
// either transverse neighbor is ever non-blocking along the way. The span
// is accepted per the five conditions of spec §4.5.
func tryBridge(lv *level.Level, x, y, dx, dy, ratio int) (bridgeSpan, bool) {
	start := lv.Get(x, y)
	if start == nil || !start.IsPassable() || start.MachineNumber != 0 {
		return bridgeSpan{}, false
	}

	foundExposure := false
	var cells []grid.Point
	cx, cy := x, y
	for {
		cx += dx
		cy += dy
		c := lv.Get(cx, cy)
		if c == nil {
			return bridgeSpan{}, false
		}
		if !isBridgeable(c) {
			// Candidate terminal cell: passable, non-bridgeable, not in a
			// machine.
			if !c.IsPassable() || c.MachineNumber != 0 {
				return bridgeSpan{}, false
			}
			if len(cells) <= minBridgeSpan || !foundExposure {
				return bridgeSpan{}, false
			}
			end := grid.Point{X: cx, Y: cy}
			span := bridgeSpan{cells: cells, start: grid.Point{X: x, Y: y}, end: end}
			dist := pathingDistance(lv, span.start, end)
			if 100*dist/len(cells) <= ratio {
				return bridgeSpan{}, false
			}
			return span, true
		}
		if !c.IsPassable() || c.Tile(catalog.LayerDungeon).MechFlags&catalog.TMIsSecret != 0 {
			return bridgeSpan{}, false
		}

		n1 := lv.Get(cx+dy, cy+dx)
		n2 := lv.Get(cx-dy, cy-dx)
		if !transverseOK(n1) || !transverseOK(n2) {
			return bridgeSpan{}, false
		}
		if notBridgeBlocking(n1) || notBridgeBlocking(n2) {
			foundExposure = true
		}
		cells = append(cells, grid.Point{X: cx, Y: cy})
	}
}

func isBridgeable(c *level.Cell) bool {
	for l := 0; l < catalog.NumLayers; l++ {
		t := c.Tile(catalog.Layer(l))
		if t.Flags&catalog.TCanBeBridged != 0 {
			return true
		}
	}
	return false
}

// transverseOK requires each transverse neighbor to be either a pathing
// blocker or itself bridgeable (spec §4.5: "bridgeable-and-blocking").
func transverseOK(c *level.Cell) bool {
	return c != nil && (c.IsPathingBlocker() || isBridgeable(c))
}

func notBridgeBlocking(c *level.Cell) bool {
	return c != nil && !c.IsPathingBlocker()
}

func paveBridge(lv *level.Level, span bridgeSpan) {
	for _, p := range span.cells {
		lv.At(p.X, p.Y).Layers[catalog.LayerLiquid] = catalog.BridgeID
	}
	lv.At(span.start.X, span.start.Y).Layers[catalog.LayerSurface] = catalog.BridgeEdgeID
	lv.At(span.end.X, span.end.Y).Layers[catalog.LayerSurface] = catalog.BridgeEdgeID
}

// pathingDistance returns the shortest cardinal-step path length between a
// and b through cells that are not T_PATHING_BLOCKER, or the Manhattan
// distance between a and b if no such path exists.
func pathingDistance(lv *level.Level, a, b grid.Point) int {
	visited := grid.New(lv.Width, lv.Height)
	type node struct {
		p grid.Point
		d int
	}
	queue := []node{{a, 0}}
	visited.Set(a.X, a.Y, 1)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.p == b {
			return n.d
		}
		for _, nb := range grid.CardinalNeighbors(n.p) {
			if !lv.InBounds(nb.X, nb.Y) || visited.Get(nb.X, nb.Y) == 1 {
				continue
			}
			c := lv.At(nb.X, nb.Y)
			if c.IsPathingBlocker() && nb != b {
				continue
			}
			visited.Set(nb.X, nb.Y, 1)
			queue = append(queue, node{nb, n.d + 1})
		}
	}
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
