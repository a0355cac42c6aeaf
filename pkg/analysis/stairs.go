package analysis

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// ValidStairLoc reports whether (x,y) is a wall cell suitable for a stair:
// no neighbor belongs to a machine, exactly three cardinal neighbors are
// passability blockers, the single non-blocker neighbor has fewer than two
// passable arcs, and both diagonals flanking that neighbor are blockers
// (spec §4.9) — the classic "stairway niche" shape, a 1-wide dead-end
// poking into a wall.
func ValidStairLoc(lv *level.Level, x, y int) bool {
	c := lv.Get(x, y)
	if c == nil || c.Layers[catalog.LayerDungeon] != catalog.WallID {
		return false
	}

	cardinals := grid.CardinalNeighbors(grid.Point{X: x, Y: y})
	blockers := 0
	openDir := -1
	for i, n := range cardinals {
		nc := lv.Get(n.X, n.Y)
		if nc == nil {
			return false
		}
		if nc.MachineNumber != 0 {
			return false
		}
		if nc.IsPathingBlocker() {
			blockers++
		} else {
			openDir = i
		}
	}
	if blockers != 3 || openDir < 0 {
		return false
	}

	open := cardinals[openDir]
	if lv.At(open.X, open.Y).IsPathingBlocker() {
		return false
	}
	if lv.CountPassableArcs(open.X, open.Y) >= 2 {
		return false
	}

	// Diagonals flanking the open direction: the two grid cells adjacent
	// to both (x,y) and `open` diagonally.
	for _, d := range flankingDiagonals(x, y, open.X, open.Y) {
		dc := lv.Get(d.X, d.Y)
		if dc == nil || !dc.IsPathingBlocker() {
			return false
		}
	}
	return true
}

func flankingDiagonals(x, y, ox, oy int) [2]grid.Point {
	if ox == x {
		// Open direction is vertical; diagonals are at (x±1, oy).
		return [2]grid.Point{{X: x - 1, Y: oy}, {X: x + 1, Y: oy}}
	}
	return [2]grid.Point{{X: ox, Y: y - 1}, {X: ox, Y: y + 1}}
}

// StairKind selects which tile pair a stair placement stamps.
type StairKind int

const (
	DownStairs StairKind = iota
	UpStairs
)

// PlaceStairs builds the valid-stair-location grid and stamps the nearest
// qualifying cell to desired, falling back to any open non-trap
// non-machine cell if nothing qualifies. On the deepest level a down-stair
// request stamps DUNGEON_PORTAL instead; on level 1 an up-stair request
// stamps DUNGEON_EXIT instead (spec §4.9). Returns the placed location.
func PlaceStairs(lv *level.Level, depth, deepestLevel int, kind StairKind, desired grid.Point) grid.Point {
	best := findNearestValidStairLoc(lv, desired)
	if best == nil {
		best = findAnyOpenCell(lv, desired)
	}
	if best == nil {
		return desired
	}

	tile := catalog.DownStairsID
	if kind == DownStairs && depth >= deepestLevel {
		tile = catalog.DungeonPortalID
	} else if kind == UpStairs {
		tile = catalog.UpStairsID
		if depth <= 1 {
			tile = catalog.DungeonExitID
		}
	}

	c := lv.At(best.X, best.Y)
	c.Layers[catalog.LayerDungeon] = tile
	c.Set(level.HasStairs)
	return *best
}

func findNearestValidStairLoc(lv *level.Level, desired grid.Point) *grid.Point {
	var best *grid.Point
	bestDist := -1
	lv.ForEach(func(x, y int, c *level.Cell) {
		if !ValidStairLoc(lv, x, y) {
			return
		}
		dx, dy := x-desired.X, y-desired.Y
		d := dx*dx + dy*dy
		if best == nil || d < bestDist {
			p := grid.Point{X: x, Y: y}
			best = &p
			bestDist = d
		}
	})
	return best
}

func findAnyOpenCell(lv *level.Level, desired grid.Point) *grid.Point {
	var best *grid.Point
	bestDist := -1
	lv.ForEach(func(x, y int, c *level.Cell) {
		if !c.IsPassable() || c.MachineNumber != 0 {
			return
		}
		if c.Layers[catalog.LayerDungeon] == catalog.PressurePlateID {
			return
		}
		dx, dy := x-desired.X, y-desired.Y
		d := dx*dx + dy*dy
		if best == nil || d < bestDist {
			p := grid.Point{X: x, Y: y}
			best = &p
			bestDist = d
		}
	})
	return best
}
