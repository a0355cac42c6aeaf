package analysis

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// gateSitePocketMax bounds how large a "pocket" a gate site may guard; a
// chokepoint whose ChokeMap value (the cells cut off from the side of its
// first passable cardinal neighbor) exceeds this is treated as a corridor
// bisecting the level rather than a room entrance (spec §4.8, "transition
// from inside a pocket to outside").
const gateSitePocketMax = 60

// ChokeResult is the per-cell output of AnalyzeMap.
type ChokeResult struct {
	// ChokeMap holds, for each passable cell, the size of the largest
	// region that becomes unreachable from the rest of the level when that
	// cell alone is blocked. Zero means the cell is not a chokepoint.
	ChokeMap *grid.Grid
}

// AnalyzeMap computes IN_LOOP, IS_CHOKEPOINT/chokeMap, and IS_GATE_SITE
// across every passable cell of lv, setting the corresponding CellFlags in
// place and returning the chokeMap (spec §4.8). It re-derives everything
// from scratch each call; callers re-run it whenever a tile mutation
// crosses the passability boundary.
func AnalyzeMap(lv *level.Level) *ChokeResult {
	chokeMap := grid.New(lv.Width, lv.Height)

	var passable []grid.Point
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Clear(level.InLoop | level.IsChokepoint | level.IsGateSite)
		if c.IsPassable() {
			passable = append(passable, grid.Point{X: x, Y: y})
		}
	})
	total := len(passable)

	for _, p := range passable {
		region := largestDisconnectedRegion(lv, p, total)
		if region <= 0 {
			lv.At(p.X, p.Y).Set(level.InLoop)
			continue
		}
		chokeMap.Set(p.X, p.Y, region)
		lv.At(p.X, p.Y).Set(level.IsChokepoint)
		if region <= gateSitePocketMax {
			lv.At(p.X, p.Y).Set(level.IsGateSite)
		}
	}

	return &ChokeResult{ChokeMap: chokeMap}
}

// largestDisconnectedRegion blocks the cell at p, floods from one of its
// still-passable neighbors, and returns how many of the remaining
// total-1 passable cells were left unreached — an approximation of "the
// largest region that becomes disconnected" that treats every unreached
// cell as one region (spec §4.8; see DESIGN.md for the exact-vs-approximate
// tradeoff).
func largestDisconnectedRegion(lv *level.Level, p grid.Point, total int) int {
	var seed *grid.Point
	for _, n := range grid.CardinalNeighbors(p) {
		if !lv.InBounds(n.X, n.Y) || n == p {
			continue
		}
		if lv.At(n.X, n.Y).IsPassable() {
			s := n
			seed = &s
			break
		}
	}
	if seed == nil {
		return 0
	}

	walkable := func(q grid.Point) bool {
		if q == p {
			return false
		}
		if !lv.InBounds(q.X, q.Y) {
			return false
		}
		return lv.At(q.X, q.Y).IsPassable()
	}

	marks := grid.New(lv.Width, lv.Height)
	visited := grid.FloodFill(lv.Width, lv.Height, *seed, walkable, marks, 1)

	unreached := (total - 1) - visited
	if unreached < 0 {
		unreached = 0
	}
	return unreached
}
