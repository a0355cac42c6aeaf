package carving

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// StampToLevel transfers the coarse 0/1/2 grid onto the level's dungeon
// layer: 1 becomes FLOOR; 2 becomes DOOR with 60% probability (unless
// depth is the deepest level, where corridors never hide doors), else
// FLOOR (spec §4.2).
func StampToLevel(coarse *grid.Grid, lv *level.Level, depth, deepestLevel int, s *rng.Stream) {
	lv.ForEach(func(x, y int, c *level.Cell) {
		switch coarse.Get(x, y) {
		case coarseFloor:
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
		case coarseDoor:
			if depth < deepestLevel && s.RandPercent(60) {
				c.Layers[catalog.LayerDungeon] = catalog.DoorID
			} else {
				c.Layers[catalog.LayerDungeon] = catalog.FloorID
			}
		}
	})
}
