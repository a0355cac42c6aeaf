package carving

import (
	"math"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// lakeOffsetAttempts is the number of random offsets tried per blob size
// (spec §4.4).
const lakeOffsetAttempts = 20

// DepthMilestones carries the depth thresholds lake/liquid selection needs
// (spec §6 "Global constants").
type DepthMilestones struct {
	DeepestLevel        int
	MinimumLavaLevel    int
	MinimumBrimstoneLevel int
}

// DesignLakes attempts to place one lake, trying lakeMaxHeight descending
// from 15 to 10 (width from 30 down in steps of 2), generating one blob
// per size and trying up to 20 random offsets before falling back to the
// next smaller size. Returns the lakeMap (1 where the accepted lake
// occupies the grid) and whether a lake was placed. On acceptance, the
// blob's footprint is stamped onto lakeMap and set to FLOOR on the
// dungeon layer (spec §4.4).
func DesignLakes(lv *level.Level, s *rng.Stream) (*grid.Grid, bool) {
	lakeMap := grid.New(lv.Width, lv.Height)

	for i := 0; i < 6; i++ {
		h := 15 - i
		w := 30 - 2*i
		if h < 1 || w < 1 {
			continue
		}
		blob := CreateBlob(s, w, h, 45, 50)

		for attempt := 0; attempt < lakeOffsetAttempts; attempt++ {
			dx := s.RandRange(1, lv.Width-blob.Width-1)
			dy := s.RandRange(1, lv.Height-blob.Height-1)
			if dx < 1 || dy < 1 {
				continue
			}

			if lakeDisruptsPassability(lv, lakeMap, blob, dx, dy) {
				continue
			}

			stampLakeBlob(lv, lakeMap, blob, dx, dy)
			return lakeMap, true
		}
	}

	return lakeMap, false
}

func stampLakeBlob(lv *level.Level, lakeMap *grid.Grid, blob *Blob, dx, dy int) {
	for y := 0; y < blob.Height; y++ {
		for x := 0; x < blob.Width; x++ {
			if blob.Grid.Get(blob.MinX+x, blob.MinY+y) != 1 {
				continue
			}
			gx, gy := dx+x, dy+y
			if !lv.InBounds(gx, gy) {
				continue
			}
			lakeMap.Set(gx, gy, 1)
			lv.At(gx, gy).Layers[catalog.LayerDungeon] = catalog.FloorID
		}
	}
}

// lakeDisruptsPassability reports whether placing blob at (dx,dy) would
// disconnect the level: it floods from any passable cell outside the
// candidate lake through cells that are not pathing-blocked (or connect
// the level) and not inside the lake or candidate blob; if any such
// passable cell remains unvisited, the lake disrupts passability
// (spec §4.4).
func lakeDisruptsPassability(lv *level.Level, lakeMap *grid.Grid, blob *Blob, dx, dy int) bool {
	inCandidate := func(x, y int) bool {
		lx, ly := x-dx, y-dy
		if lx < 0 || lx >= blob.Width || ly < 0 || ly >= blob.Height {
			return false
		}
		return blob.Grid.Get(blob.MinX+lx, blob.MinY+ly) == 1
	}

	var seed *grid.Point
	lv.ForEach(func(x, y int, c *level.Cell) {
		if seed != nil {
			return
		}
		if !c.IsPassable() {
			return
		}
		if lakeMap.Get(x, y) == 1 || inCandidate(x, y) {
			return
		}
		p := grid.Point{X: x, Y: y}
		seed = &p
	})
	if seed == nil {
		return false
	}

	walkable := func(p grid.Point) bool {
		if !lv.InBounds(p.X, p.Y) {
			return false
		}
		c := lv.At(p.X, p.Y)
		if lakeMap.Get(p.X, p.Y) == 1 || inCandidate(p.X, p.Y) {
			return false
		}
		return !c.IsPathingBlocker() || c.ConnectsLevel()
	}

	marks := grid.New(lv.Width, lv.Height)
	grid.FloodFill(lv.Width, lv.Height, *seed, walkable, marks, 1)

	disrupts := false
	lv.ForEach(func(x, y int, c *level.Cell) {
		if disrupts {
			return
		}
		if !c.IsPassable() {
			return
		}
		if lakeMap.Get(x, y) == 1 || inCandidate(x, y) {
			return
		}
		if marks.Get(x, y) != 1 {
			disrupts = true
		}
	})
	return disrupts
}

// LiquidType picks a depth-appropriate deep/shallow liquid pair, forced to
// water on the deepest level (spec §4.4, §8 scenario 3).
func LiquidType(depth int, dm DepthMilestones, s *rng.Stream) (deep, shallow catalog.TileID) {
	if depth >= dm.DeepestLevel {
		return catalog.DeepWaterID, catalog.ShallowWaterID
	}
	if depth >= dm.MinimumBrimstoneLevel && s.RandPercent(20) {
		return catalog.BrimstoneID, catalog.RubbleID
	}
	if depth >= dm.MinimumLavaLevel && s.RandPercent(35) {
		return catalog.LavaID, catalog.ObsidianBridgeID
	}
	return catalog.DeepWaterID, catalog.ShallowWaterID
}

// FillLakes stamps the chosen liquid onto every lakeMap cell and paints a
// wreath of the shallow companion liquid in a ring around the lake,
// converting any doors the wreath overlaps to FLOOR (spec §4.4).
func FillLakes(lv *level.Level, lakeMap *grid.Grid, depth int, dm DepthMilestones, s *rng.Stream) {
	deep, shallow := LiquidType(depth, dm, s)
	const wreathWidth = 2

	wreath := grid.New(lv.Width, lv.Height)
	lv.ForEach(func(x, y int, c *level.Cell) {
		if lakeMap.Get(x, y) != 1 {
			return
		}
		c.Layers[catalog.LayerLiquid] = deep
		for _, n := range grid.CardinalNeighbors(grid.Point{X: x, Y: y}) {
			if lv.InBounds(n.X, n.Y) && lakeMap.Get(n.X, n.Y) != 1 {
				wreath.Set(n.X, n.Y, 1)
			}
		}
	})

	createWreath(lv, wreath, shallow, wreathWidth)
}

// createWreath paints shallow on every empty Liquid cell within Euclidean
// distance width of a wreath-marked cell.
func createWreath(lv *level.Level, wreath *grid.Grid, shallow catalog.TileID, width int) {
	var marked []grid.Point
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			if wreath.Get(x, y) == 1 {
				marked = append(marked, grid.Point{X: x, Y: y})
			}
		}
	}

	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[catalog.LayerLiquid] != catalog.NothingID {
			return
		}
		for _, m := range marked {
			dx, dy := float64(x-m.X), float64(y-m.Y)
			if math.Sqrt(dx*dx+dy*dy) <= float64(width) {
				c.Layers[catalog.LayerLiquid] = shallow
				if c.Layers[catalog.LayerDungeon] == catalog.DoorID {
					c.Layers[catalog.LayerDungeon] = catalog.FloorID
				}
				return
			}
		}
	})
}

// cleanBoundaryPasses bounds the alternating-direction fixed-point scan.
const cleanBoundaryPasses = 8

// CleanUpLakeBoundaries iterates (alternating scan direction) until
// stable: for each non-secret wall-like lake boundary, if both neighbors
// on one axis are the same non-subject lake type, replace the wall with
// that lake type (spec §4.4).
func CleanUpLakeBoundaries(lv *level.Level) {
	for pass := 0; pass < cleanBoundaryPasses; pass++ {
		changed := false
		reverse := pass%2 == 1
		for yi := 0; yi < lv.Height; yi++ {
			y := yi
			if reverse {
				y = lv.Height - 1 - yi
			}
			for xi := 0; xi < lv.Width; xi++ {
				x := xi
				if reverse {
					x = lv.Width - 1 - xi
				}
				if fixLakeBoundary(lv, x, y) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

func fixLakeBoundary(lv *level.Level, x, y int) bool {
	c := lv.At(x, y)
	if c.Layers[catalog.LayerDungeon] != catalog.WallID {
		return false
	}
	if c.Tile(catalog.LayerDungeon).MechFlags&catalog.TMIsSecret != 0 {
		return false
	}

	west, east := lv.Get(x-1, y), lv.Get(x+1, y)
	if sameNonNothingLiquid(west, east) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
		c.Layers[catalog.LayerLiquid] = west.Layers[catalog.LayerLiquid]
		return true
	}
	north, south := lv.Get(x, y-1), lv.Get(x, y+1)
	if sameNonNothingLiquid(north, south) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
		c.Layers[catalog.LayerLiquid] = north.Layers[catalog.LayerLiquid]
		return true
	}
	return false
}

func sameNonNothingLiquid(a, b *level.Cell) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Layers[catalog.LayerLiquid] == catalog.NothingID {
		return false
	}
	return a.Layers[catalog.LayerLiquid] == b.Layers[catalog.LayerLiquid]
}
