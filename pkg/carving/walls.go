package carving

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// wallFinishPasses bounds the granite<->wall fixed-point iteration; each
// pass can only flip cells whose exposure changed, so this converges fast
// in practice.
const wallFinishPasses = 4

// FinishWalls promotes GRANITE that touches a non-fully-blocking neighbor
// into WALL, and demotes WALL that touches nothing exposed back to
// GRANITE (spec §4.3, invariant 3). includeDiagonals selects 8-way
// neighborhoods (the final pass) versus 4-way (the pass before lakes).
func FinishWalls(lv *level.Level, includeDiagonals bool) {
	for pass := 0; pass < wallFinishPasses; pass++ {
		changed := false
		lv.ForEach(func(x, y int, c *level.Cell) {
			switch c.Layers[catalog.LayerDungeon] {
			case catalog.GraniteID:
				if hasExposedNeighbor(lv, x, y, includeDiagonals) {
					c.Layers[catalog.LayerDungeon] = catalog.WallID
					changed = true
				}
			case catalog.WallID:
				if !hasExposedNeighbor(lv, x, y, includeDiagonals) {
					c.Layers[catalog.LayerDungeon] = catalog.GraniteID
					changed = true
				}
			}
		})
		if !changed {
			break
		}
	}
}

// hasExposedNeighbor reports whether any neighbor of (x,y) is passable or
// does not block vision — the promotion/demotion criterion of invariant 3.
func hasExposedNeighbor(lv *level.Level, x, y int, includeDiagonals bool) bool {
	offsets := cardinalOffsets[:]
	if includeDiagonals {
		offsets = eightOffsets[:]
	}
	for _, o := range offsets {
		c := lv.Get(x+o[0], y+o[1])
		if c == nil {
			continue
		}
		if c.IsPassable() || !c.BlocksVision() {
			return true
		}
	}
	return false
}

var cardinalOffsets = [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}
var eightOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// removeDiagonalPasses bounds the fixed-point loop; worst case is bounded
// by level area but convergence is fast since each fix can only destroy
// diagonal openings, never create new ones elsewhere.
const removeDiagonalPasses = 50

// RemoveDiagonalOpenings iterates until fixed point, demoting one wall
// cell of every 2x2 diagonal-only opening to match a passable diagonal
// neighbor (spec §4.3, invariant 2). Per the spec's Open Question, the
// reference flips a fair coin to choose which wall cell to fix, then
// skips (does not retry) if the chosen cell is protected by a monster or
// machine membership.
func RemoveDiagonalOpenings(lv *level.Level, s *rng.Stream) {
	for pass := 0; pass < removeDiagonalPasses; pass++ {
		changed := false
		for y := 0; y < lv.Height-1; y++ {
			for x := 0; x < lv.Width-1; x++ {
				if fixDiagonalOpening(lv, x, y, s) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// fixDiagonalOpening inspects the 2x2 window with top-left (x,y) and, if
// it is a diagonal-only opening, attempts the fix. Returns whether a fix
// was applied.
func fixDiagonalOpening(lv *level.Level, x, y int, s *rng.Stream) bool {
	tl, tr := lv.At(x, y), lv.At(x+1, y)
	bl, br := lv.At(x, y+1), lv.At(x+1, y+1)

	// Diagonal A: tl/br passable, tr/bl both pathing blockers.
	if tl.IsPassable() && br.IsPassable() && tr.IsPathingBlocker() && bl.IsPathingBlocker() {
		return applyDiagonalFix(lv, tl, tr, bl, s)
	}
	// Diagonal B: tr/bl passable, tl/br both pathing blockers.
	if tr.IsPassable() && bl.IsPassable() && tl.IsPathingBlocker() && br.IsPathingBlocker() {
		return applyDiagonalFix(lv, tr, tl, br, s)
	}
	return false
}

// applyDiagonalFix flips a coin to choose one of the two blocking cells
// and copies the passable source cell's layers onto it, unless that
// target is protected.
func applyDiagonalFix(lv *level.Level, source, blockerA, blockerB *level.Cell, s *rng.Stream) bool {
	target := blockerA
	if s.Bool() {
		target = blockerB
	}
	if target.Has(level.HasMonster) || target.MachineNumber != 0 {
		return false
	}
	target.Layers = source.Layers
	return true
}

// FinishDoors classifies remaining DOOR cells: orphans (passable on both
// axes) and dead-ends (3+ cardinal neighbors are pathing blockers) revert
// to FLOOR; the rest may be converted to SECRET_DOOR with probability
// clamp(floor(67*(depth-1)/(amuletLevel-1)), 0, 67) (spec §4.3). Cells
// already claimed by a machine are skipped.
func FinishDoors(lv *level.Level, depth, amuletLevel int, s *rng.Stream) {
	secretPct := 0
	if amuletLevel > 1 {
		secretPct = clamp(67*(depth-1)/(amuletLevel-1), 0, 67)
	}

	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[catalog.LayerDungeon] != catalog.DoorID {
			return
		}
		if c.MachineNumber != 0 {
			return
		}

		west, east := lv.Get(x-1, y), lv.Get(x+1, y)
		north, south := lv.Get(x, y-1), lv.Get(x, y+1)

		horizontalPassable := notBlocking(west) || notBlocking(east)
		verticalPassable := notBlocking(north) || notBlocking(south)
		if horizontalPassable && verticalPassable {
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
			return
		}

		blockers := 0
		for _, n := range []*level.Cell{west, east, north, south} {
			if n == nil || n.IsPathingBlocker() {
				blockers++
			}
		}
		if blockers >= 3 {
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
			return
		}

		if s.RandPercent(secretPct) {
			c.Layers[catalog.LayerDungeon] = catalog.SecretDoorID
		}
	})
}

func notBlocking(c *level.Cell) bool {
	return c != nil && !c.Tile(catalog.LayerDungeon).Blocks()
}
