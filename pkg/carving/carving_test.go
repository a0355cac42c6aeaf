package carving

import (
	"testing"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

func newTestStream(label string) *rng.Stream {
	return rng.NewStream(12345, label, nil)
}

func TestCarveDungeonConnected(t *testing.T) {
	const w, h = 60, 40
	s := newTestStream("carve")
	coarse := CarveDungeon(w, h, 3, 26, s)

	floors := 0
	var first grid.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if coarse.Get(x, y) != coarseSolid {
				if floors == 0 {
					first = grid.Point{X: x, Y: y}
				}
				floors++
			}
		}
	}
	if floors == 0 {
		t.Fatal("CarveDungeon produced no floor cells")
	}
	open := func(p grid.Point) bool { return coarse.Get(p.X, p.Y) != coarseSolid }
	if got := grid.FloodFill(w, h, first, open, grid.New(w, h), 1); got != floors {
		t.Fatalf("CarveDungeon produced %d open cells, only %d of them connected", floors, got)
	}
}

func TestCarveDungeonDeterministic(t *testing.T) {
	a := CarveDungeon(50, 30, 5, 26, newTestStream("determ"))
	b := CarveDungeon(50, 30, 5, 26, newTestStream("determ"))

	for y := 0; y < 30; y++ {
		for x := 0; x < 50; x++ {
			if a.Get(x, y) != b.Get(x, y) {
				t.Fatalf("mismatch at (%d,%d): %d vs %d", x, y, a.Get(x, y), b.Get(x, y))
			}
		}
	}
}

func TestStampAndFinishWalls(t *testing.T) {
	const w, h = 30, 20
	s := newTestStream("stamp")
	coarse := CarveDungeon(w, h, 2, 26, s)

	lv := level.New(w, h)
	StampToLevel(coarse, lv, 2, 26, s)
	FinishWalls(lv, false)

	foundWall := false
	foundFloor := false
	lv.ForEach(func(x, y int, c *level.Cell) {
		switch c.Layers[catalog.LayerDungeon] {
		case catalog.WallID:
			foundWall = true
		case catalog.FloorID:
			foundFloor = true
		}
	})
	if !foundFloor {
		t.Error("expected at least one floor cell after stamping")
	}
	if !foundWall {
		t.Error("expected FinishWalls to promote granite bordering floor to wall")
	}
}

func TestFinishWallsConvergesToGranite(t *testing.T) {
	lv := level.New(10, 10)
	FinishWalls(lv, true)
	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[catalog.LayerDungeon] != catalog.GraniteID {
			t.Fatalf("empty level cell (%d,%d) should remain granite, got %v", x, y, c.Layers[catalog.LayerDungeon])
		}
	})
}

func TestRemoveDiagonalOpenings(t *testing.T) {
	lv := level.New(4, 4)
	// Stamp a diagonal-only opening: floor at (1,1) and (2,2), granite
	// (pathing blocker) at (2,1) and (1,2).
	lv.At(1, 1).Layers[catalog.LayerDungeon] = catalog.FloorID
	lv.At(2, 2).Layers[catalog.LayerDungeon] = catalog.FloorID

	s := newTestStream("diag")
	RemoveDiagonalOpenings(lv, s)

	blockers := 0
	for _, p := range [][2]int{{2, 1}, {1, 2}} {
		if lv.At(p[0], p[1]).IsPathingBlocker() {
			blockers++
		}
	}
	if blockers == 2 {
		t.Error("diagonal opening was not fixed: both corner cells remain pathing blockers")
	}
}

func TestFinishDoorsOrphanBecomesFloor(t *testing.T) {
	lv := level.New(5, 5)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			lv.At(x, y).Layers[catalog.LayerDungeon] = catalog.FloorID
		}
	}
	lv.At(2, 2).Layers[catalog.LayerDungeon] = catalog.DoorID

	s := newTestStream("doors")
	FinishDoors(lv, 1, 26, s)

	if lv.At(2, 2).Layers[catalog.LayerDungeon] != catalog.FloorID {
		t.Error("orphan door (passable on both axes) should revert to floor")
	}
}

func TestAddLoopsStraightCorridorNoPanic(t *testing.T) {
	const w, h = 10, 3
	s := newTestStream("loops")
	coarse := grid.New(w, h)
	// A single straight 1-row corridor.
	for x := 1; x < w-1; x++ {
		coarse.Set(x, 1, coarseFloor)
	}
	AddLoops(coarse, w, h, s)
	// With a 1-row corridor there is nothing to loop; this just exercises
	// the scan without panicking and keeps behavior regression-visible.
	_ = coarse
}

func TestDesignLakesStampsFloor(t *testing.T) {
	lv := level.New(80, 50)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
	})
	s := newTestStream("lake")
	lakeMap, ok := DesignLakes(lv, s)
	if !ok {
		t.Fatal("expected a lake to be placed on an all-floor level")
	}
	count := 0
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			if lakeMap.Get(x, y) == 1 {
				count++
			}
		}
	}
	if count == 0 {
		t.Error("lakeMap has no marked cells despite reporting success")
	}
}

func TestDesignLakesRejectsWhenDisconnecting(t *testing.T) {
	// A single-file corridor: any lake covering it would disconnect the
	// level, so DesignLakes must fail to place one inside it.
	lv := level.New(40, 3)
	for x := 1; x < 39; x++ {
		lv.At(x, 1).Layers[catalog.LayerDungeon] = catalog.FloorID
	}
	s := newTestStream("lake-reject")
	_, ok := DesignLakes(lv, s)
	if ok {
		t.Error("expected DesignLakes to refuse a lake that would sever the only corridor")
	}
}

func TestFillLakesPaintsLiquid(t *testing.T) {
	lv := level.New(20, 20)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
	})
	lakeMap, ok := DesignLakes(lv, newTestStream("fill"))
	if !ok {
		t.Fatal("expected lake placement to succeed")
	}

	dm := DepthMilestones{DeepestLevel: 26, MinimumLavaLevel: 10, MinimumBrimstoneLevel: 15}
	FillLakes(lv, lakeMap, 3, dm, newTestStream("fill-liquid"))

	found := false
	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[catalog.LayerLiquid] != catalog.NothingID {
			found = true
		}
	})
	if !found {
		t.Error("expected FillLakes to paint at least one liquid cell")
	}
}

func TestBuildABridgeIdempotentOnFailure(t *testing.T) {
	lv := level.New(10, 10)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.GraniteID
	})
	s := newTestStream("bridge-fail")
	if BuildABridge(lv, 3, 1, s) {
		t.Fatal("expected no bridge to be found on a level with no liquid")
	}
	// Calling again should still return false without panicking.
	if BuildABridge(lv, 3, 1, s) {
		t.Fatal("expected repeated failure on an unchanged all-granite level")
	}
}

