package feature

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// maxWavefrontSteps bounds the flood in place of the original's wrapping
// 100-slot step counter; probability decrements to zero or below well
// before this in every catalog entry, so the cap only guards against a
// future zero-decrement feature looping forever.
const maxWavefrontSteps = 200

// SpawnDungeonFeature paints feat outward from (x,y). Gas-layer features
// simply add to the cell's volume and stamp the gas tile; everything else
// floods via spawnMapDF. If abortIfBlocking is set and the newly-blocked
// cells would disconnect the level, nothing is painted and it returns
// false (spec §4.7).
func SpawnDungeonFeature(lv *level.Level, x, y int, feat *catalog.DungeonFeature, abortIfBlocking bool, s *rng.Stream) bool {
	if feat.Layer == catalog.LayerGas {
		c := lv.Get(x, y)
		if c == nil {
			return false
		}
		c.Volume += feat.StartProbability
		c.Layers[catalog.LayerGas] = feat.Tile
		return true
	}

	marked := spawnMapDF(lv, x, y, feat, s)
	if len(marked) == 0 {
		return false
	}

	if abortIfBlocking && blockingMarkDisconnects(lv, marked, feat.Tile) {
		return false
	}

	stampMarked(lv, marked, feat)

	if feat.Subsequent != catalog.DFNone {
		sub := catalog.GetFeature(feat.Subsequent)
		if sub != nil {
			if feat.Flags&catalog.DFFSubseqEverywhere != 0 {
				for _, p := range marked {
					SpawnDungeonFeature(lv, p.X, p.Y, sub, false, s)
				}
			} else {
				SpawnDungeonFeature(lv, x, y, sub, false, s)
			}
		}
	}

	return true
}

// spawnMapDF floods from (x,y) by cardinal steps, marking cells with
// decaying probability. A cell is markable iff it is in-map, its surface
// effects are not obstructed (unless the propagation terrain itself
// occupies it), propagation terrain matches when required, and a uniform
// roll against the current step's probability succeeds.
func spawnMapDF(lv *level.Level, x, y int, feat *catalog.DungeonFeature, s *rng.Stream) []grid.Point {
	visited := grid.New(lv.Width, lv.Height)
	origin := grid.Point{X: x, Y: y}
	if !lv.InBounds(x, y) {
		return nil
	}
	visited.Set(x, y, 1)
	marked := []grid.Point{origin}

	frontier := []grid.Point{origin}
	prob := feat.StartProbability

	for step := 0; step < maxWavefrontSteps && len(frontier) > 0 && prob > 0; step++ {
		var next []grid.Point
		for _, p := range frontier {
			for _, n := range grid.CardinalNeighbors(p) {
				if !lv.InBounds(n.X, n.Y) || visited.Get(n.X, n.Y) == 1 {
					continue
				}
				c := lv.At(n.X, n.Y)
				if feat.RequirePropTerrain && c.Layers[catalog.LayerDungeon] != feat.PropagationTerrain {
					continue
				}
				if !propagationAllowed(c, feat) {
					continue
				}
				if !s.RandPercent(prob) {
					continue
				}
				visited.Set(n.X, n.Y, 1)
				marked = append(marked, n)
				next = append(next, n)
			}
		}
		frontier = next
		prob -= feat.ProbabilityDecrement
	}
	return marked
}

// propagationAllowed reports whether surface effects are clear at c, or
// the propagation terrain itself legitimately occupies it (e.g. a wall
// crack feature propagating across WALL, which obstructs surface effects
// in general but is exactly what this feature is meant to cross).
func propagationAllowed(c *level.Cell, feat *catalog.DungeonFeature) bool {
	obstructed := c.Tile(catalog.LayerDungeon).Flags&catalog.TObstructsSurfaceEffects != 0
	if !obstructed {
		return true
	}
	return feat.RequirePropTerrain && c.Layers[catalog.LayerDungeon] == feat.PropagationTerrain
}

// blockingMarkDisconnects reports whether stamping tile as a pathing
// blocker on every marked cell would sever the level's connectivity,
// checked the same way lake placement is (spec §4.4, reused per §4.7's
// abortIfBlocking clause).
func blockingMarkDisconnects(lv *level.Level, marked []grid.Point, tile catalog.TileID) bool {
	if !catalog.Get(tile).IsPathingBlocker() {
		return false
	}
	inMarked := make(map[grid.Point]bool, len(marked))
	for _, p := range marked {
		inMarked[p] = true
	}

	var seed *grid.Point
	lv.ForEach(func(x, y int, c *level.Cell) {
		if seed != nil || inMarked[grid.Point{X: x, Y: y}] {
			return
		}
		if c.IsPassable() {
			p := grid.Point{X: x, Y: y}
			seed = &p
		}
	})
	if seed == nil {
		return false
	}

	walkable := func(p grid.Point) bool {
		if inMarked[p] {
			return false
		}
		c := lv.Get(p.X, p.Y)
		if c == nil {
			return false
		}
		return !c.IsPathingBlocker() || c.ConnectsLevel()
	}
	marks := grid.New(lv.Width, lv.Height)
	visited := grid.FloodFill(lv.Width, lv.Height, *seed, walkable, marks, 1)

	total := 0
	lv.ForEach(func(x, y int, c *level.Cell) {
		if !inMarked[grid.Point{X: x, Y: y}] && c.IsPassable() {
			total++
		}
	})
	return visited < total
}

// stampMarked paints feat.Tile onto its layer at every marked cell whose
// existing occupant of that same layer doesn't outrank it, unless
// DFFSuperpriority forces the paint regardless (spec §4.7).
func stampMarked(lv *level.Level, marked []grid.Point, feat *catalog.DungeonFeature) {
	newTile := catalog.Get(feat.Tile)
	for _, p := range marked {
		c := lv.At(p.X, p.Y)

		superpriority := feat.Flags&catalog.DFFSuperpriority != 0
		if !superpriority {
			existing := c.Tile(feat.Layer)
			if existing.ID != catalog.NothingID && existing.DrawPriority < newTile.DrawPriority {
				continue
			}
		}

		if feat.Flags&catalog.DFFClearOtherTerrain != 0 {
			for l := 0; l < catalog.NumLayers; l++ {
				if catalog.Layer(l) != feat.Layer {
					c.Layers[l] = catalog.NothingID
				}
			}
		} else if feat.Flags&catalog.DFFClearLowerPriorityTerrain != 0 {
			for l := 0; l < catalog.NumLayers; l++ {
				if catalog.Layer(l) == feat.Layer {
					continue
				}
				if c.Tile(catalog.Layer(l)).DrawPriority > newTile.DrawPriority {
					c.Layers[l] = catalog.NothingID
				}
			}
		}

		c.Layers[feat.Layer] = feat.Tile
		if newTile.Flags&catalog.TIsFire == 0 {
			c.Clear(level.CaughtFireThisTurn)
		}
	}
}
