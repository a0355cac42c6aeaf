package level

import (
	"testing"

	"github.com/dshills/dungeonkeep/pkg/catalog"
)

func TestNew_EmptyLevelIsAllGranite(t *testing.T) {
	lv := New(10, 8)
	lv.ForEach(func(x, y int, c *Cell) {
		if c.Layers[catalog.LayerDungeon] != catalog.GraniteID {
			t.Fatalf("cell (%d,%d) dungeon layer = %v, want granite", x, y, c.Layers[catalog.LayerDungeon])
		}
		for l := 1; l < catalog.NumLayers; l++ {
			if c.Layers[l] != catalog.NothingID {
				t.Fatalf("cell (%d,%d) layer %d = %v, want nothing", x, y, l, c.Layers[l])
			}
		}
		if c.Flags != 0 {
			t.Fatalf("cell (%d,%d) flags nonzero on a fresh level", x, y)
		}
	})
}

func TestGraniteIsNotPassableAndBlocksVision(t *testing.T) {
	lv := New(3, 3)
	c := lv.At(1, 1)
	if c.IsPassable() {
		t.Fatalf("granite cell reported as passable")
	}
	if !c.BlocksVision() {
		t.Fatalf("granite cell should block vision")
	}
}

func TestFloorIsPassable(t *testing.T) {
	lv := New(3, 3)
	lv.At(1, 1).Layers[catalog.LayerDungeon] = catalog.FloorID
	if !lv.At(1, 1).IsPassable() {
		t.Fatalf("floor cell should be passable")
	}
}

func TestCloneAndCopyFromAreIndependent(t *testing.T) {
	lv := New(4, 4)
	lv.At(0, 0).Layers[catalog.LayerDungeon] = catalog.FloorID
	snap := lv.Clone()

	lv.At(0, 0).Layers[catalog.LayerDungeon] = catalog.WallID
	if snap.At(0, 0).Layers[catalog.LayerDungeon] != catalog.FloorID {
		t.Fatalf("clone should not observe later mutation of original")
	}

	lv.CopyFrom(snap)
	if lv.At(0, 0).Layers[catalog.LayerDungeon] != catalog.FloorID {
		t.Fatalf("CopyFrom should restore snapshot contents")
	}
}

func TestCountPassableArcs_Corridor(t *testing.T) {
	lv := New(5, 5)
	// Horizontal corridor through the middle row.
	for x := 0; x < 5; x++ {
		lv.At(x, 2).Layers[catalog.LayerDungeon] = catalog.FloorID
	}
	if got := lv.CountPassableArcs(2, 2); got != 2 {
		t.Fatalf("CountPassableArcs on a straight corridor = %d, want 2", got)
	}
}

func TestIsSecretDoor(t *testing.T) {
	lv := New(2, 2)
	lv.At(0, 0).Layers[catalog.LayerDungeon] = catalog.SecretDoorID
	if !lv.At(0, 0).IsSecretDoor() {
		t.Fatalf("expected secret door cell to report IsSecretDoor")
	}
	if lv.At(1, 1).IsSecretDoor() {
		t.Fatalf("granite cell should not report IsSecretDoor")
	}
}
