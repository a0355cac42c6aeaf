package feature

import (
	"testing"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

func floorLevel(w, h int) *level.Level {
	lv := level.New(w, h)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
	})
	return lv
}

func TestSpawnDungeonFeaturePaintsSurface(t *testing.T) {
	lv := floorLevel(20, 20)
	s := rng.NewStream(7, "grass", nil)
	feat := catalog.GetFeature(catalog.DFGrassPatch)

	ok := SpawnDungeonFeature(lv, 10, 10, feat, false, s)
	if !ok {
		t.Fatal("expected grass patch to place at least the origin cell")
	}
	if lv.At(10, 10).Layers[catalog.LayerSurface] != catalog.GrassID {
		t.Error("origin cell should carry the grass tile on the surface layer")
	}
}

func TestSpawnDungeonFeatureGasAddsVolume(t *testing.T) {
	lv := floorLevel(5, 5)
	s := rng.NewStream(1, "gas", nil)
	feat := catalog.GetFeature(catalog.DFFlameJet)

	ok := SpawnDungeonFeature(lv, 2, 2, feat, false, s)
	if !ok {
		t.Fatal("expected gas feature to succeed")
	}
	if lv.At(2, 2).Volume != feat.StartProbability {
		t.Errorf("volume = %d, want %d", lv.At(2, 2).Volume, feat.StartProbability)
	}
}

func TestSpawnDungeonFeatureChainsSubsequent(t *testing.T) {
	lv := floorLevel(20, 20)
	s := rng.NewStream(3, "swamp", nil)
	feat := catalog.GetFeature(catalog.DFSwamp)

	SpawnDungeonFeature(lv, 10, 10, feat, false, s)
	if lv.At(10, 10).Layers[catalog.LayerLiquid] != catalog.ShallowWaterID {
		t.Error("swamp should paint shallow water at its origin")
	}
	if lv.At(10, 10).Layers[catalog.LayerSurface] != catalog.GrassID {
		t.Error("swamp's subsequent grass patch should have painted the origin's surface layer")
	}
}

func TestSpawnDungeonFeatureRespectsPropagationTerrain(t *testing.T) {
	lv := level.New(10, 10)
	lv.ForEach(func(x, y int, c *level.Cell) {
		c.Layers[catalog.LayerDungeon] = catalog.FloorID
	})
	lv.At(5, 5).Layers[catalog.LayerDungeon] = catalog.WallID
	s := rng.NewStream(9, "crack", nil)
	feat := catalog.GetFeature(catalog.DFCaveWallCrack)

	SpawnDungeonFeature(lv, 5, 5, feat, false, s)
	if lv.At(4, 5).Layers[catalog.LayerSurface] == catalog.RubbleID {
		t.Error("wall crack should not propagate onto a floor neighbor, only onto WALL cells")
	}
}

func TestSpawnDungeonFeatureAbortsWhenBlocking(t *testing.T) {
	// A single-file corridor whose only route would be severed by a
	// pathing-blocking feature.
	lv := level.New(10, 3)
	for x := 1; x < 9; x++ {
		lv.At(x, 1).Layers[catalog.LayerDungeon] = catalog.FloorID
	}
	s := rng.NewStream(4, "abort", nil)
	feat := &catalog.DungeonFeature{
		ID: 9001, Tile: catalog.WallID, Layer: catalog.LayerDungeon,
		StartProbability: 100, ProbabilityDecrement: 100,
	}

	ok := SpawnDungeonFeature(lv, 4, 1, feat, true, s)
	if ok {
		t.Error("expected abortIfBlocking to refuse a feature that severs the only corridor")
	}
	if lv.At(4, 1).Layers[catalog.LayerDungeon] != catalog.FloorID {
		t.Error("aborted feature must not mutate the level")
	}
}
