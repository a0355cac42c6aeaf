package machine

import (
	"sort"

	"github.com/dshills/dungeonkeep/pkg/analysis"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// Interior is a growable, order-stable set of cells anchored at Origin.
// Cells is kept in insertion order so any code iterating it for a weighted
// or uniform pick stays deterministic.
type Interior struct {
	Origin grid.Point
	Cells  []grid.Point
	set    map[grid.Point]bool
}

func newInterior(origin grid.Point) *Interior {
	return &Interior{Origin: origin, Cells: []grid.Point{origin}, set: map[grid.Point]bool{origin: true}}
}

func (it *Interior) Contains(p grid.Point) bool { return it.set[p] }

// add appends p if not already present, returning whether it was new.
func (it *Interior) add(p grid.Point) bool {
	if it.set[p] {
		return false
	}
	it.set[p] = true
	it.Cells = append(it.Cells, p)
	return true
}

func (it *Interior) boundingBox() carvingRect {
	minX, minY := it.Origin.X, it.Origin.Y
	maxX, maxY := it.Origin.X, it.Origin.Y
	for _, p := range it.Cells {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return carvingRect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

type carvingRect struct{ X, Y, W, H int }

// selectOrigin dispatches to the blueprint's origin-selection mode
// (spec §4.6 step 2) and applies the post-growth blocking checks common to
// all three modes.
func (b *Builder) selectOrigin(bp *catalog.Blueprint, seed *grid.Point) (*Interior, bool) {
	const originFailSafe = 50

	for attempt := 0; attempt < originFailSafe; attempt++ {
		var interior *Interior
		var ok bool
		switch {
		case bp.Has(catalog.BPVestibule):
			if seed == nil {
				return nil, false
			}
			interior, ok = b.selectVestibuleInterior(bp, *seed)
		case bp.Has(catalog.BPRoom):
			interior, ok = b.selectRoomInterior(bp)
		default:
			interior, ok = b.selectAreaInterior(bp)
		}
		if !ok {
			continue
		}
		if b.interiorPassesBlockingChecks(bp, interior) {
			return interior, true
		}
	}
	return nil, false
}

// selectRoomInterior picks a gate-site seed whose chokeMap value falls in
// the blueprint's room-size range, then floods cardinal neighbors whose
// choke value does not exceed the seed's (spec §4.6 step 2, BP_ROOM).
func (b *Builder) selectRoomInterior(bp *catalog.Blueprint) (*Interior, bool) {
	var gateSites []grid.Point
	b.Level.ForEach(func(x, y int, c *level.Cell) {
		if !c.Has(level.IsGateSite) {
			return
		}
		v := b.ChokeMap.Get(x, y)
		if v >= bp.RoomSize.Lo && v <= bp.RoomSize.Hi {
			gateSites = append(gateSites, grid.Point{X: x, Y: y})
		}
	})
	if len(gateSites) == 0 {
		return nil, false
	}

	order := make([]int, len(gateSites))
	b.Stream.FillSequentialList(order)

	for _, idx := range order {
		seed := gateSites[idx]
		interior := b.growRoomInterior(seed, bp)
		if interior != nil {
			return interior, true
		}
	}
	return nil, false
}

func (b *Builder) growRoomInterior(seed grid.Point, bp *catalog.Blueprint) *Interior {
	interior := newInterior(seed)
	seedChoke := b.ChokeMap.Get(seed.X, seed.Y)
	queue := []grid.Point{seed}

	for len(queue) > 0 && len(interior.Cells) < bp.RoomSize.Hi {
		p := queue[0]
		queue = queue[1:]
		for _, n := range grid.CardinalNeighbors(p) {
			if interior.Contains(n) || !b.Level.InBounds(n.X, n.Y) {
				continue
			}
			c := b.Level.At(n.X, n.Y)
			if c.Has(level.HasItem) || c.Has(level.HasMonster) {
				continue
			}
			if c.MachineNumber != 0 && !c.Has(level.IsGateSite) {
				continue
			}
			if b.ChokeMap.Get(n.X, n.Y) > seedChoke {
				continue
			}
			interior.add(n)
			queue = append(queue, n)
			if len(interior.Cells) >= bp.RoomSize.Hi {
				break
			}
		}
	}

	if len(interior.Cells) < bp.RoomSize.Lo {
		return nil
	}
	return interior
}

// selectVestibuleInterior computes Dijkstra distance from seed across a
// generic cost map forbidding IS_IN_MACHINE cells, then grows the interior
// in ascending-distance order until the target cell count is reached
// (spec §4.6 step 2, BP_VESTIBULE).
func (b *Builder) selectVestibuleInterior(bp *catalog.Blueprint, seed grid.Point) (*Interior, bool) {
	dm := analysis.DijkstraScan(b.Level, seed, func(c *level.Cell) bool { return c.Has(level.IsInMachine) })

	type ranked struct {
		p grid.Point
		d int
	}
	var reached []ranked
	b.Level.ForEach(func(x, y int, c *level.Cell) {
		d := dm.Get(x, y)
		if d != analysis.Unreachable {
			reached = append(reached, ranked{grid.Point{X: x, Y: y}, d})
		}
	})
	sort.SliceStable(reached, func(i, j int) bool { return reached[i].d < reached[j].d })

	if len(reached) < bp.RoomSize.Lo {
		return nil, false
	}
	target := b.Stream.RandRange(bp.RoomSize.Lo, bp.RoomSize.Hi)
	if target > len(reached) {
		target = len(reached)
	}

	interior := newInterior(seed)
	for _, r := range reached {
		if len(interior.Cells) >= target {
			break
		}
		interior.add(r.p)
	}
	return interior, true
}

// selectAreaInterior picks a random FLOOR cell, grows by ascending Dijkstra
// distance through T_PATHING_BLOCKER, and restarts if the chosen region
// overlaps an item, monster, or existing machine (spec §4.6 step 2, area
// mode).
func (b *Builder) selectAreaInterior(bp *catalog.Blueprint) (*Interior, bool) {
	var floors []grid.Point
	b.Level.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[catalog.LayerDungeon] == catalog.FloorID && c.MachineNumber == 0 {
			floors = append(floors, grid.Point{X: x, Y: y})
		}
	})
	if len(floors) == 0 {
		return nil, false
	}

	const areaFailSafe = 30
	for attempt := 0; attempt < areaFailSafe; attempt++ {
		seed := floors[b.Stream.RandRange(0, len(floors)-1)]

		dm := analysis.DijkstraScan(b.Level, seed, func(c *level.Cell) bool { return c.IsPathingBlocker() })
		type ranked struct {
			p grid.Point
			d int
		}
		var reached []ranked
		b.Level.ForEach(func(x, y int, c *level.Cell) {
			d := dm.Get(x, y)
			if d != analysis.Unreachable {
				reached = append(reached, ranked{grid.Point{X: x, Y: y}, d})
			}
		})
		if len(reached) < bp.RoomSize.Lo {
			continue
		}
		sort.SliceStable(reached, func(i, j int) bool { return reached[i].d < reached[j].d })

		target := b.Stream.RandRange(bp.RoomSize.Lo, bp.RoomSize.Hi)
		if target > len(reached) {
			target = len(reached)
		}

		interior := newInterior(seed)
		tainted := false
		for _, r := range reached {
			if len(interior.Cells) >= target {
				break
			}
			c := b.Level.At(r.p.X, r.p.Y)
			if c.Has(level.HasItem) || c.Has(level.HasMonster) || c.Has(level.IsInMachine) {
				tainted = true
				break
			}
			interior.add(r.p)
		}
		if tainted {
			continue
		}
		return interior, true
	}
	return nil, false
}

// interiorPassesBlockingChecks rejects a grown interior if it would
// disconnect the level when treated as blocking (BP_TREAT_AS_BLOCKING), or
// if it does not (BP_REQUIRE_BLOCKING and the disconnected remainder is
// smaller than 100 cells) — spec §4.6 step 2.
func (b *Builder) interiorPassesBlockingChecks(bp *catalog.Blueprint, interior *Interior) bool {
	if !bp.Has(catalog.BPTreatAsBlocking) && !bp.Has(catalog.BPRequireBlocking) {
		return true
	}

	disconnects, unreached := b.blockingEffect(interior)
	if bp.Has(catalog.BPTreatAsBlocking) && disconnects {
		return false
	}
	if bp.Has(catalog.BPRequireBlocking) && unreached < 100 {
		return false
	}
	return true
}

// blockingEffect floods from a passable cell outside interior and reports
// whether any other passable cell remains unreached — the same
// approximation pkg/carving's lake placement and pkg/feature's
// blockingMarkDisconnects use (one combined "unreached" count standing in
// for the true largest-disconnected-region computation).
func (b *Builder) blockingEffect(interior *Interior) (disconnects bool, unreached int) {
	var seed *grid.Point
	b.Level.ForEach(func(x, y int, c *level.Cell) {
		if seed != nil || interior.Contains(grid.Point{X: x, Y: y}) {
			return
		}
		if c.IsPassable() {
			p := grid.Point{X: x, Y: y}
			seed = &p
		}
	})
	if seed == nil {
		return false, 0
	}

	walkable := func(p grid.Point) bool {
		if interior.Contains(p) {
			return false
		}
		c := b.Level.Get(p.X, p.Y)
		if c == nil {
			return false
		}
		return !c.IsPathingBlocker() || c.ConnectsLevel()
	}
	marks := grid.New(b.Level.Width, b.Level.Height)
	visited := grid.FloodFill(b.Level.Width, b.Level.Height, *seed, walkable, marks, 1)

	total := 0
	b.Level.ForEach(func(x, y int, c *level.Cell) {
		if !interior.Contains(grid.Point{X: x, Y: y}) && c.IsPassable() {
			total++
		}
	})
	unreached = total - visited
	if unreached < 0 {
		unreached = 0
	}
	return unreached > 0, unreached
}
