package analysis

import (
	"testing"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// tworooms builds two 3x3 rooms joined by a single-cell corridor, the
// corridor cell being the canonical chokepoint/gate-site fixture.
func tworooms() *level.Level {
	lv := level.New(11, 5)
	carve := func(x0, y0, x1, y1 int) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				lv.At(x, y).Layers[catalog.LayerDungeon] = catalog.FloorID
			}
		}
	}
	carve(1, 1, 3, 3)
	carve(7, 1, 9, 3)
	lv.At(4, 2).Layers[catalog.LayerDungeon] = catalog.FloorID
	lv.At(5, 2).Layers[catalog.LayerDungeon] = catalog.FloorID
	lv.At(6, 2).Layers[catalog.LayerDungeon] = catalog.FloorID
	return lv
}

func TestAnalyzeMapMarksChokepoint(t *testing.T) {
	lv := tworooms()
	result := AnalyzeMap(lv)

	if !lv.At(5, 2).Has(level.IsChokepoint) {
		t.Error("corridor midpoint should be a chokepoint")
	}
	if result.ChokeMap.Get(5, 2) <= 0 {
		t.Error("chokeMap value at corridor midpoint should be positive")
	}
	if lv.At(2, 2).Has(level.IsChokepoint) {
		t.Error("interior room cell should not be a chokepoint")
	}
}

func TestAnalyzeMapInLoopForRoomInterior(t *testing.T) {
	lv := tworooms()
	AnalyzeMap(lv)
	if !lv.At(2, 2).Has(level.InLoop) {
		t.Error("a well-connected room interior cell should be marked InLoop")
	}
}

func TestDijkstraScanDistances(t *testing.T) {
	lv := tworooms()
	dist := DijkstraScan(lv, grid.Point{X: 2, Y: 2}, func(c *level.Cell) bool { return c.IsPathingBlocker() })

	if dist.Get(2, 2) != 0 {
		t.Errorf("origin distance = %d, want 0", dist.Get(2, 2))
	}
	if dist.Get(8, 2) <= 0 {
		t.Error("far room should have positive reachable distance")
	}
	if dist.Get(0, 0) != Unreachable {
		t.Error("granite cell should be unreachable")
	}
}

func TestPathingDistanceMonotone(t *testing.T) {
	lv := tworooms()
	near := PathingDistance(lv, grid.Point{X: 2, Y: 2}, grid.Point{X: 5, Y: 2})
	far := PathingDistance(lv, grid.Point{X: 2, Y: 2}, grid.Point{X: 8, Y: 2})
	if near < 0 || far < 0 {
		t.Fatal("expected both distances to be reachable")
	}
	if far <= near {
		t.Errorf("expected far (%d) > near (%d)", far, near)
	}
}

func TestGetFOVMaskBlockedByWall(t *testing.T) {
	lv := level.New(9, 5)
	for x := 1; x < 8; x++ {
		lv.At(x, 2).Layers[catalog.LayerDungeon] = catalog.FloorID
	}
	// A wall segment between origin and a far cell on the same row.
	lv.At(4, 2).Layers[catalog.LayerDungeon] = catalog.WallID

	mask := GetFOVMask(lv, grid.Point{X: 1, Y: 2}, 6, func(c *level.Cell) bool { return c.BlocksVision() })
	if mask.Get(6, 2) == 1 {
		t.Error("cell beyond a vision-blocking wall should not be in the FOV mask")
	}
	if mask.Get(2, 2) != 1 {
		t.Error("cell with clear line of sight should be in the FOV mask")
	}
}

func TestValidStairLocNiche(t *testing.T) {
	lv := level.New(7, 7)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.GraniteID
	})
	// Carve a 1-wide dead-end niche into an otherwise solid wall at (3,3),
	// opening south into a floor room.
	lv.At(3, 3).Layers[catalog.LayerDungeon] = catalog.WallID
	lv.At(3, 4).Layers[catalog.LayerDungeon] = catalog.FloorID
	lv.At(2, 4).Layers[catalog.LayerDungeon] = catalog.WallID
	lv.At(4, 4).Layers[catalog.LayerDungeon] = catalog.WallID

	if !ValidStairLoc(lv, 3, 3) {
		t.Error("expected (3,3) to be a valid stair niche")
	}
	if ValidStairLoc(lv, 3, 4) {
		t.Error("a floor cell can never be a valid stair location")
	}
}

func TestPlaceStairsDeepestLevelUsesPortal(t *testing.T) {
	lv := level.New(7, 7)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.GraniteID
	})
	lv.At(3, 3).Layers[catalog.LayerDungeon] = catalog.WallID
	lv.At(3, 4).Layers[catalog.LayerDungeon] = catalog.FloorID
	lv.At(2, 4).Layers[catalog.LayerDungeon] = catalog.WallID
	lv.At(4, 4).Layers[catalog.LayerDungeon] = catalog.WallID

	loc := PlaceStairs(lv, 26, 26, DownStairs, grid.Point{X: 3, Y: 3})
	if lv.At(loc.X, loc.Y).Layers[catalog.LayerDungeon] != catalog.DungeonPortalID {
		t.Error("deepest-level down stairs should stamp DUNGEON_PORTAL")
	}
}

func TestSetupWaypointsProducesDistanceMaps(t *testing.T) {
	lv := tworooms()
	s := rng.NewStream(1, "waypoints", nil)
	wps := SetupWaypoints(lv, s)
	if len(wps) == 0 {
		t.Fatal("expected at least one waypoint on a passable level")
	}
	for _, w := range wps {
		if w.Distance.Get(w.Pos.X, w.Pos.Y) != 0 {
			t.Errorf("waypoint distance map should be zero at its own origin")
		}
	}
}
