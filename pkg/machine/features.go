package machine

import (
	"sort"

	"github.com/dshills/dungeonkeep/pkg/analysis"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/feature"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// buildState threads the data a single blueprint instance's feature
// placement loop needs, so buildAMachine itself can stay a short driver.
type buildState struct {
	b             *Builder
	bp            *catalog.Blueprint
	interior      *Interior
	machineNumber int
	distances     distanceField
	occupied      map[grid.Point]bool // personal-space exclusion
	result        Result
}

// placeFeature resolves a single MachineFeature: builds its candidate
// list, decides an instance count, and places that many instances. It
// reports false if it can't reach MinimumInstanceCount, and BuildAMachine
// then rolls back the whole machine (spec §4.6 step 8f).
func (bs *buildState) placeFeature(mf *catalog.MachineFeature) bool {
	candidates := bs.candidates(mf)

	target := mf.InstanceCountRange.Hi
	if mf.Has(catalog.MFEverywhere) {
		target = len(candidates)
	} else if mf.InstanceCountRange.Hi > mf.InstanceCountRange.Lo {
		target = bs.b.Stream.RandRange(mf.InstanceCountRange.Lo, mf.InstanceCountRange.Hi)
	}

	placed := 0
	for placed < target && len(candidates) > 0 {
		idx := bs.b.Stream.RandRange(0, len(candidates)-1)
		p := candidates[idx]
		candidates[idx] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		if !bs.placeInstance(mf, p) {
			continue
		}
		placed++
		if mf.Has(catalog.MFRepeatUntilNoProgress) && placed >= target {
			target = placed + 1
			if target > len(candidates)+placed {
				break
			}
		}
	}

	return placed >= mf.MinimumInstanceCount
}

// candidates returns, in a deterministic order, every interior (or
// level-wide, for MF_BUILD_ANYWHERE_ON_LEVEL) cell satisfying mf's
// placement predicates (spec §4.6 step 8c). Interior cells come in the
// interior's insertion order; level-wide and wall candidates are
// row-major.
func (bs *buildState) candidates(mf *catalog.MachineFeature) []grid.Point {
	var viewMask *grid.Grid
	if mf.Has(catalog.MFInViewOfOrigin) {
		viewMask = analysis.GetFOVMask(bs.b.Level, bs.interior.Origin, 40, func(c *level.Cell) bool { return c.BlocksVision() })
	} else if mf.Has(catalog.MFInPassableViewOfOrigin) {
		viewMask = analysis.GetFOVMask(bs.b.Level, bs.interior.Origin, 40, func(c *level.Cell) bool { return c.IsPathingBlocker() })
	}

	if mf.Has(catalog.MFBuildAtOrigin) {
		if bs.ok(mf, bs.interior.Origin, viewMask) {
			return []grid.Point{bs.interior.Origin}
		}
		return nil
	}

	var pool []grid.Point
	switch {
	case mf.Has(catalog.MFBuildInWalls):
		pool = bs.wallCandidates(mf)
	case mf.Has(catalog.MFBuildAnywhereOnLevel):
		bs.b.Level.ForEach(func(x, y int, c *level.Cell) {
			pool = append(pool, grid.Point{X: x, Y: y})
		})
	default:
		pool = append([]grid.Point(nil), bs.interior.Cells...)
	}

	var out []grid.Point
	for _, p := range pool {
		if bs.ok(mf, p, viewMask) {
			out = append(out, p)
		}
	}
	return out
}

func (bs *buildState) wallCandidates(mf *catalog.MachineFeature) []grid.Point {
	seen := map[grid.Point]bool{}
	var out []grid.Point
	scan := bs.interior.Cells
	if mf.Has(catalog.MFBuildAnywhereOnLevel) {
		scan = nil
		bs.b.Level.ForEach(func(x, y int, c *level.Cell) { scan = append(scan, grid.Point{X: x, Y: y}) })
	}
	for _, p := range scan {
		for _, n := range grid.CardinalNeighbors(p) {
			if seen[n] || !bs.b.Level.InBounds(n.X, n.Y) {
				continue
			}
			seen[n] = true
			c := bs.b.Level.At(n.X, n.Y)
			if c.IsPathingBlocker() {
				out = append(out, n)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// ok is the conjunction of every per-cell predicate spec §4.6 step 8c
// names.
func (bs *buildState) ok(mf *catalog.MachineFeature, p grid.Point, viewMask *grid.Grid) bool {
	if bs.occupied[p] {
		return false
	}
	if bs.bp.Has(catalog.BPRoom) && !mf.Has(catalog.MFBuildAtOrigin) && p == bs.interior.Origin {
		return false
	}
	if mf.Has(catalog.MFNotInHallway) && bs.b.Level.CountPassableArcs(p.X, p.Y) > 1 {
		return false
	}
	if mf.Has(catalog.MFNotOnLevelPerimeter) {
		if p.X == 0 || p.Y == 0 || p.X == bs.b.Level.Width-1 || p.Y == bs.b.Level.Height-1 {
			return false
		}
	}
	if viewMask != nil && viewMask.Get(p.X, p.Y) == 0 {
		return false
	}

	d := bs.distances.dist.Get(p.X, p.Y)
	if mf.Has(catalog.MFNearOrigin) && (d == analysis.Unreachable || d > bs.distances.p25) {
		return false
	}
	if mf.Has(catalog.MFFarFromOrigin) && (d == analysis.Unreachable || d < bs.distances.p75) {
		return false
	}

	if mf.Has(catalog.MFGenerateItem) && mf.Has(catalog.MFBuildAnywhereOnLevel) {
		c := bs.b.Level.At(p.X, p.Y)
		if c.Has(level.IsChokepoint) || c.Has(level.InLoop) || c.MachineNumber != 0 {
			return false
		}
		if c.Tile(catalog.LayerDungeon).Flags&catalog.TObstructsItems != 0 {
			return false
		}
	}
	return true
}

// placeInstance stamps a single feature occurrence at p: DF propagation,
// plain tile paint, item generation, or horde/monster spawn, then clears
// personal space and marks machine membership (spec §4.6 steps 8d-8e).
func (bs *buildState) placeInstance(mf *catalog.MachineFeature, p grid.Point) bool {
	c := bs.b.Level.At(p.X, p.Y)

	if !mf.Has(catalog.MFPermitBlocking) {
		if mf.Tile != catalog.NothingID || mf.DF != 0 {
			if bs.wouldDisconnectSingleCell(p) {
				return false
			}
		}
	}

	switch {
	case mf.DF != 0:
		feat := catalog.GetFeature(mf.DF)
		if feat == nil {
			return false
		}
		if !feature.SpawnDungeonFeature(bs.b.Level, p.X, p.Y, feat, !mf.Has(catalog.MFPermitBlocking), bs.b.Stream) {
			return false
		}
	case mf.Tile != catalog.NothingID:
		c.Layers[mf.Layer] = mf.Tile
	}

	if mf.Has(catalog.MFImpregnable) {
		c.Set(level.Impregnable)
	}
	c.MachineNumber = bs.machineNumber
	if bs.bp.Has(catalog.BPRoom) || bs.bp.Has(catalog.BPVestibule) {
		c.Set(level.IsInRoomMachine)
	} else {
		c.Set(level.IsInAreaMachine)
	}

	bs.markPersonalSpace(p, mf.PersonalSpace)

	switch {
	case mf.Has(catalog.MFGenerateItem):
		bs.placeItem(mf, p)
	case mf.Has(catalog.MFGenerateHorde):
		bs.placeHorde(mf, p)
	case mf.MonsterID != "":
		bs.placeMonster(mf, p)
	}

	if mf.Has(catalog.MFBuildVestibule) {
		bs.buildVestibuleGuard(p)
	}

	return true
}

// buildVestibuleGuard seeds a BP_VESTIBULE sub-machine at p so this
// feature's cell sits behind its own guarded antechamber
// (MF_BUILD_VESTIBULE, spec §4.6 step 9).
func (bs *buildState) buildVestibuleGuard(p grid.Point) {
	qualifying := catalog.QualifyingBlueprints(bs.b.Depth, catalog.BPVestibule)
	if len(qualifying) == 0 {
		return
	}
	sub := qualifying[bs.b.Stream.RandRange(0, len(qualifying)-1)]
	seed := p
	res, ok := bs.b.BuildAMachine(Request{Blueprint: sub, Seed: &seed, Depth: bs.b.Depth})
	if !ok {
		return
	}
	bs.result.Monsters = append(bs.result.Monsters, res.Monsters...)
	bs.result.Items = append(bs.result.Items, res.Items...)
	bs.result.KeyLocs = append(bs.result.KeyLocs, res.KeyLocs...)
}

// wouldDisconnectSingleCell is the single-cell variant of the lake/DF
// disconnection test, used to veto a feature placement that would sever
// the level (spec §4.6 step 8d, unless MF_PERMIT_BLOCKING).
func (bs *buildState) wouldDisconnectSingleCell(p grid.Point) bool {
	interior := newInterior(p)
	disconnects, _ := bs.b.blockingEffect(interior)
	return disconnects
}

func (bs *buildState) markPersonalSpace(p grid.Point, radius int) {
	if radius <= 0 {
		bs.occupied[p] = true
		return
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			bs.occupied[grid.Point{X: p.X + dx, Y: p.Y + dy}] = true
		}
	}
}
