package machine

import (
	"sort"

	"github.com/dshills/dungeonkeep/pkg/analysis"
	"github.com/dshills/dungeonkeep/pkg/carving"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// prepareInterior applies the blueprint's interior-shaping flags in the
// order spec §4.6 step 4 lists them.
func (b *Builder) prepareInterior(bp *catalog.Blueprint, interior *Interior) {
	if bp.Has(catalog.BPMaximizeInterior) {
		b.expandInterior(interior, 1)
	}
	if bp.Has(catalog.BPOpenInterior) {
		b.expandInterior(interior, 4)
	}
	if bp.Has(catalog.BPPurgeInterior) {
		for _, p := range interior.Cells {
			c := b.Level.At(p.X, p.Y)
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
			c.Layers[catalog.LayerLiquid] = catalog.NothingID
			c.Layers[catalog.LayerGas] = catalog.NothingID
			c.Layers[catalog.LayerSurface] = catalog.NothingID
		}
	}
	if bp.Has(catalog.BPPurgePathingBlockers) {
		for _, p := range interior.Cells {
			c := b.Level.At(p.X, p.Y)
			if c.IsPathingBlocker() {
				c.Layers[catalog.LayerDungeon] = catalog.FloorID
			}
		}
	}
	if bp.Has(catalog.BPPurgeLiquids) {
		for _, p := range interior.Cells {
			b.Level.At(p.X, p.Y).Layers[catalog.LayerLiquid] = catalog.NothingID
		}
	}
	if bp.Has(catalog.BPSurroundWithWalls) {
		b.surroundWithWalls(interior)
	}
	if bp.Has(catalog.BPRedesignInterior) {
		b.redesignInterior(interior)
	}
	if bp.Has(catalog.BPImpregnable) {
		for _, p := range interior.Cells {
			b.Level.At(p.X, p.Y).Set(level.Impregnable)
		}
	}
}

// expandInterior absorbs any wall-like perimeter cell whose passable or
// machine-occupied exterior-neighbor count is below threshold (spec §4.6:
// MAXIMIZE_INTERIOR threshold 1, OPEN_INTERIOR threshold 4).
func (b *Builder) expandInterior(interior *Interior, maxExteriorExposure int) {
	for pass := 0; pass < 3; pass++ {
		var grown []grid.Point
		seen := map[grid.Point]bool{}
		for _, p := range interior.Cells {
			for _, n := range grid.CardinalNeighbors(p) {
				if interior.Contains(n) || seen[n] || !b.Level.InBounds(n.X, n.Y) {
					continue
				}
				seen[n] = true
				c := b.Level.At(n.X, n.Y)
				if !c.IsPathingBlocker() {
					continue
				}
				exposure := 0
				for _, nn := range grid.CardinalNeighbors(n) {
					if interior.Contains(nn) || !b.Level.InBounds(nn.X, nn.Y) {
						continue
					}
					cc := b.Level.At(nn.X, nn.Y)
					if !cc.IsPathingBlocker() || cc.MachineNumber != 0 {
						exposure++
					}
				}
				if exposure < maxExteriorExposure {
					grown = append(grown, n)
				}
			}
		}
		if len(grown) == 0 {
			return
		}
		sort.Slice(grown, func(i, j int) bool {
			if grown[i].Y != grown[j].Y {
				return grown[i].Y < grown[j].Y
			}
			return grown[i].X < grown[j].X
		})
		for _, p := range grown {
			if interior.add(p) {
				b.Level.At(p.X, p.Y).Layers[catalog.LayerDungeon] = catalog.FloorID
			}
		}
	}
}

// redesignInterior re-carves the interior's bounding box from scratch with
// the ordinary room carver, restricted to cells already claimed by
// interior, then patches any cell the recarve left unreachable from
// Origin back to plain floor. This is a bounded simplification of an
// exact re-carve-in-place algorithm — see DESIGN.md.
func (b *Builder) redesignInterior(interior *Interior) {
	box := interior.boundingBox()
	if box.W < 3 || box.H < 3 {
		return
	}

	coarse := carving.CarveDungeon(box.W, box.H, b.Depth, 26, b.Stream)
	for _, p := range interior.Cells {
		lx, ly := p.X-box.X, p.Y-box.Y
		if lx < 0 || ly < 0 || lx >= box.W || ly >= box.H {
			continue
		}
		c := b.Level.At(p.X, p.Y)
		switch coarse.Get(lx, ly) {
		case 1:
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
		case 2:
			c.Layers[catalog.LayerDungeon] = catalog.DoorID
		default:
			c.Layers[catalog.LayerDungeon] = catalog.GraniteID
		}
	}

	blocked := func(c *level.Cell) bool { return c.IsPathingBlocker() }
	dm := analysis.DijkstraScan(b.Level, interior.Origin, blocked)
	for _, p := range interior.Cells {
		if dm.Get(p.X, p.Y) == analysis.Unreachable {
			b.Level.At(p.X, p.Y).Layers[catalog.LayerDungeon] = catalog.FloorID
		}
	}
}

// surroundWithWalls promotes every passable exterior neighbor of the
// interior to WALL, leaving gate sites alone so the machine keeps its
// entrance (spec §4.6 step 4).
func (b *Builder) surroundWithWalls(interior *Interior) {
	seen := map[grid.Point]bool{}
	for _, p := range interior.Cells {
		for _, n := range grid.CardinalNeighbors(p) {
			if interior.Contains(n) || seen[n] || !b.Level.InBounds(n.X, n.Y) {
				continue
			}
			seen[n] = true
			c := b.Level.At(n.X, n.Y)
			if c.Has(level.IsGateSite) || !c.IsPassable() {
				continue
			}
			c.Layers[catalog.LayerDungeon] = catalog.WallID
		}
	}
}

// labelInterior stamps machineNumber and the room-or-area membership flag
// across every interior cell, strips pre-existing wired/circuit-breaker
// tiles back to floor, and converts any secret door inside the interior
// into a plain door (spec §4.6 step 5).
func (b *Builder) labelInterior(bp *catalog.Blueprint, interior *Interior, machineNumber int) {
	membership := level.IsInRoomMachine
	if !bp.Has(catalog.BPRoom) && !bp.Has(catalog.BPVestibule) {
		membership = level.IsInAreaMachine
	}

	for _, p := range interior.Cells {
		c := b.Level.At(p.X, p.Y)
		c.MachineNumber = machineNumber
		c.Set(membership)

		for l := 0; l < catalog.NumLayers; l++ {
			t := c.Tile(catalog.Layer(l))
			if t.MechFlags&(catalog.TMIsWired|catalog.TMIsCircuitBreaker) != 0 {
				c.Layers[l] = catalog.FloorID
			}
		}
		if c.Layers[catalog.LayerDungeon] == catalog.SecretDoorID {
			c.Layers[catalog.LayerDungeon] = catalog.DoorID
		}
	}
}

// distanceField holds each interior cell's cardinal distance from Origin
// plus the 25th/75th percentile thresholds used by MF_NEAR_ORIGIN /
// MF_FAR_FROM_ORIGIN.
type distanceField struct {
	dist      *grid.Grid
	p25, p75  int
}

func (b *Builder) computeDistances(interior *Interior) distanceField {
	dm := analysis.DijkstraScan(b.Level, interior.Origin, func(c *level.Cell) bool { return c.IsPathingBlocker() })

	var values []int
	for _, p := range interior.Cells {
		d := dm.Get(p.X, p.Y)
		if d != analysis.Unreachable {
			values = append(values, d)
		}
	}
	sort.Ints(values)

	field := distanceField{dist: dm}
	if len(values) > 0 {
		field.p25 = values[(len(values)-1)*25/100]
		field.p75 = values[(len(values)-1)*75/100]
	}
	return field
}
