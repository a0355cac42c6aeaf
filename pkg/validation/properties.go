// Package validation checks a generated dungeon.Artifact against the
// quantified invariants P1-P6 of spec §8 (P7-P9 are exercised by the
// package tests) and reports summary metrics,
// grounded on the teacher's pkg/validation validator.go/metrics.go shape.
package validation

import (
	"fmt"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/dungeon"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// connectedPredicate reports whether a cell counts as passable for the
// connectivity invariant (P1): cardinally-passable cells, secret doors,
// and anything carrying TMConnectsLevel (spec §8 P1).
func connectedPredicate(lv *level.Level) func(grid.Point) bool {
	return func(p grid.Point) bool {
		c := lv.Get(p.X, p.Y)
		if c == nil {
			return false
		}
		return c.IsPassable() || c.IsSecretDoor() || c.ConnectsLevel()
	}
}

// CheckConnectivity implements P1: the transitive closure of cardinal
// adjacency over the connectedPredicate cells has exactly one component
// touching both the up-stairs and down-stairs cells.
func CheckConnectivity(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	lv := artifact.Level
	marks := grid.New(lv.Width, lv.Height)
	walkable := connectedPredicate(lv)

	visited := grid.FloodFill(lv.Width, lv.Height, artifact.UpStairs, walkable, marks, 1)
	if visited == 0 {
		return dungeon.ConstraintResult{Name: "P1 connectivity", Satisfied: false,
			Details: "up-stairs cell is not walkable under the connectivity predicate"}
	}
	if marks.Get(artifact.DownStairs.X, artifact.DownStairs.Y) != 1 {
		return dungeon.ConstraintResult{Name: "P1 connectivity", Satisfied: false,
			Details: "down-stairs is not in the up-stairs's connected component"}
	}
	return dungeon.ConstraintResult{Name: "P1 connectivity", Satisfied: true}
}

// CheckNoDiagonalOpenings implements P2: no 2x2 window has two passable
// cells on one diagonal and two pathing blockers on the other (spec §3
// invariant 2, §8 P2).
func CheckNoDiagonalOpenings(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	lv := artifact.Level
	for y := 0; y < lv.Height-1; y++ {
		for x := 0; x < lv.Width-1; x++ {
			tl, tr := lv.At(x, y), lv.At(x+1, y)
			bl, br := lv.At(x, y+1), lv.At(x+1, y+1)
			diagA := tl.IsPassable() && br.IsPassable() && tr.IsPathingBlocker() && bl.IsPathingBlocker()
			diagB := tr.IsPassable() && bl.IsPassable() && tl.IsPathingBlocker() && br.IsPathingBlocker()
			if diagA || diagB {
				return dungeon.ConstraintResult{Name: "P2 no diagonal openings", Satisfied: false,
					Details: fmt.Sprintf("diagonal-only opening survives at window (%d,%d)", x, y)}
			}
		}
	}
	return dungeon.ConstraintResult{Name: "P2 no diagonal openings", Satisfied: true}
}

// CheckWallExposure implements P3: every WALL cell has at least one
// 8-neighbor that is not both vision- and passability-blocking; every
// GRANITE cell has none (spec §3 invariant 3, §8 P3).
func CheckWallExposure(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	lv := artifact.Level
	bad := ""
	lv.ForEach(func(x, y int, c *level.Cell) {
		if bad != "" {
			return
		}
		id := c.Layers[catalog.LayerDungeon]
		if id != catalog.WallID && id != catalog.GraniteID {
			return
		}
		exposed := hasUnblockedNeighbor(lv, x, y)
		switch id {
		case catalog.WallID:
			if !exposed {
				bad = fmt.Sprintf("WALL at (%d,%d) has no exposed neighbor", x, y)
			}
		case catalog.GraniteID:
			if exposed {
				bad = fmt.Sprintf("GRANITE at (%d,%d) has an exposed neighbor", x, y)
			}
		}
	})
	if bad != "" {
		return dungeon.ConstraintResult{Name: "P3 wall exposure", Satisfied: false, Details: bad}
	}
	return dungeon.ConstraintResult{Name: "P3 wall exposure", Satisfied: true}
}

var eightOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func hasUnblockedNeighbor(lv *level.Level, x, y int) bool {
	for _, o := range eightOffsets {
		c := lv.Get(x+o[0], y+o[1])
		if c == nil {
			continue
		}
		if !(c.BlocksVision() && !c.IsPassable()) {
			return true
		}
	}
	return false
}

// CheckOrphanDoors implements P4: no surviving DOOR cell is passable on
// both axes (spec §8 P4).
func CheckOrphanDoors(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	lv := artifact.Level
	bad := ""
	lv.ForEach(func(x, y int, c *level.Cell) {
		if bad != "" || c.Layers[catalog.LayerDungeon] != catalog.DoorID {
			return
		}
		west, east := lv.Get(x-1, y), lv.Get(x+1, y)
		north, south := lv.Get(x, y-1), lv.Get(x, y+1)
		horizontalPassable := notBlocking(west) || notBlocking(east)
		verticalPassable := notBlocking(north) || notBlocking(south)
		if horizontalPassable && verticalPassable {
			bad = fmt.Sprintf("orphan door at (%d,%d)", x, y)
		}
	})
	if bad != "" {
		return dungeon.ConstraintResult{Name: "P4 orphan doors", Satisfied: false, Details: bad}
	}
	return dungeon.ConstraintResult{Name: "P4 orphan doors", Satisfied: true}
}

func notBlocking(c *level.Cell) bool {
	return c != nil && !c.Tile(catalog.LayerDungeon).Blocks()
}

// CheckMachineContainment implements P5: machineNumber != 0 implies
// IS_IN_ROOM_MACHINE|IS_IN_AREA_MACHINE, unless the cell holds a
// wired/circuit-breaker tile belonging to a BP_NO_INTERIOR_FLAG blueprint
// (spec §8 P5). Blueprint membership per machine number isn't tracked on
// the cell itself, so this check approximates the exemption as "carries
// TMIsWired or TMIsCircuitBreaker on some layer" — sufficient because
// only BP_NO_INTERIOR_FLAG blueprints place those mech flags outside an
// interior.
func CheckMachineContainment(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	lv := artifact.Level
	bad := ""
	lv.ForEach(func(x, y int, c *level.Cell) {
		if bad != "" || c.MachineNumber == 0 {
			return
		}
		if c.Has(level.IsInMachine) {
			return
		}
		if cellHasWiredTile(c) {
			return
		}
		bad = fmt.Sprintf("machine cell at (%d,%d) lacks machine-membership flags", x, y)
	})
	if bad != "" {
		return dungeon.ConstraintResult{Name: "P5 machine containment", Satisfied: false, Details: bad}
	}
	return dungeon.ConstraintResult{Name: "P5 machine containment", Satisfied: true}
}

func cellHasWiredTile(c *level.Cell) bool {
	for l := 0; l < catalog.NumLayers; l++ {
		mf := c.Tile(catalog.Layer(l)).MechFlags
		if mf&(catalog.TMIsWired|catalog.TMIsCircuitBreaker) != 0 {
			return true
		}
	}
	return false
}

// CheckKeyReachability implements P6: every key item has at least one
// KeyLoc recording the cell/machine that eliminates the blocker it guards
// (spec §8 P6).
func CheckKeyReachability(artifact *dungeon.Artifact) dungeon.ConstraintResult {
	for _, res := range artifact.Machines {
		for _, it := range res.Items {
			if it == nil || !it.IsKey {
				continue
			}
			if len(it.KeyLocs) == 0 {
				return dungeon.ConstraintResult{Name: "P6 key reachability", Satisfied: false,
					Details: fmt.Sprintf("key item with no recorded KeyLoc in machine %d", res.MachineNumber)}
			}
		}
	}
	return dungeon.ConstraintResult{Name: "P6 key reachability", Satisfied: true}
}
