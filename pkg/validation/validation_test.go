package validation

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/dungeonkeep/pkg/carving"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/dungeon"
	"github.com/dshills/dungeonkeep/pkg/feature"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

func testConfig(seed uint64, width, height, depth, deepest int) *dungeon.Config {
	return &dungeon.Config{
		Seed: seed, Width: width, Height: height,
		Depth: depth, DeepestLevel: deepest,
		MinimumLavaLevel: deepest, MinimumBrimstoneLevel: deepest,
	}
}

func generate(t *testing.T, cfg *dungeon.Config) *dungeon.Artifact {
	t.Helper()
	g := dungeon.NewGeneratorWithValidator(NewValidator())
	artifact, err := g.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return artifact
}

// TestValidatorPassesGeneratedLevels is an example-based sanity check that
// the property checks agree with a real pipeline run across a handful of
// sizes and depths.
func TestValidatorPassesGeneratedLevels(t *testing.T) {
	cases := []*dungeon.Config{
		testConfig(1, 40, 40, 1, 10),
		testConfig(2, 60, 50, 5, 10),
		testConfig(3, 80, 80, 10, 10),
	}
	for _, cfg := range cases {
		artifact := generate(t, cfg)
		if artifact.Report == nil {
			t.Fatal("expected a populated validation report")
		}
		if !artifact.Report.Passed {
			t.Errorf("seed %d: validation failed: %v", cfg.Seed, artifact.Report.Errors)
		}
	}
}

// TestPropertiesHoldAcrossRandomConfigs drives P1-P6 with rapid over a
// range of widths, heights, depths and seeds (spec §8).
func TestPropertiesHoldAcrossRandomConfigs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(25, 60).Draw(rt, "width")
		height := rapid.IntRange(25, 60).Draw(rt, "height")
		deepest := rapid.IntRange(1, 12).Draw(rt, "deepest")
		depth := rapid.IntRange(1, deepest).Draw(rt, "depth")
		seed := rapid.Uint64().Draw(rt, "seed")

		cfg := testConfig(seed, width, height, depth, deepest)
		g := dungeon.NewGenerator()
		artifact, err := g.Generate(context.Background(), cfg)
		if err != nil {
			rt.Fatalf("Generate: %v", err)
		}

		for _, check := range checks {
			result := check(artifact)
			if !result.Satisfied {
				rt.Fatalf("%s violated: %s", result.Name, result.Details)
			}
		}
	})
}

// TestDeterminism implements P7: identical seed, depth, and stub
// collaborator produce byte-identical grids and machine arrays.
func TestDeterminism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(25, 50).Draw(rt, "width")
		height := rapid.IntRange(25, 50).Draw(rt, "height")
		depth := rapid.IntRange(1, 8).Draw(rt, "depth")
		seed := rapid.Uint64().Draw(rt, "seed")

		cfg := testConfig(seed, width, height, depth, 10)
		a1 := generate(t, cfg)
		a2 := generate(t, cfg)

		if a1.Level.Width != a2.Level.Width || a1.Level.Height != a2.Level.Height {
			rt.Fatal("dimensions diverged across identical runs")
		}
		for y := 0; y < a1.Level.Height; y++ {
			for x := 0; x < a1.Level.Width; x++ {
				if *a1.Level.At(x, y) != *a2.Level.At(x, y) {
					rt.Fatalf("cell (%d,%d) diverged across identical seeds", x, y)
				}
			}
		}
		if len(a1.Machines) != len(a2.Machines) {
			rt.Fatalf("machine count diverged: %d vs %d", len(a1.Machines), len(a2.Machines))
		}
		for i := range a1.Machines {
			if a1.Machines[i].MachineNumber != a2.Machines[i].MachineNumber {
				rt.Fatalf("machine %d number diverged: %d vs %d", i,
					a1.Machines[i].MachineNumber, a2.Machines[i].MachineNumber)
			}
		}
	})
}

// TestDungeonFeatureWavefrontIsBounded implements P8: spawnMapDF's
// flood terminates within ceil(startProbability/decrement)+2 cardinal
// steps of the origin, approximated here by bounding every marked cell's
// cardinal distance from the origin rather than instrumenting the
// internal step counter.
func TestDungeonFeatureWavefrontIsBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(30, 60).Draw(rt, "size")
		seed := rapid.Uint64().Draw(rt, "seed")

		lv := level.New(size, size)
		lv.ForEach(func(x, y int, c *level.Cell) {
			c.Layers[catalog.LayerDungeon] = catalog.FloorID
		})

		feat := catalog.GetFeature(catalog.DFGrassPatch)
		if feat == nil {
			rt.Skip("DFGrassPatch not registered")
		}
		s := rng.NewStream(seed, "df-bound", nil)
		ox, oy := size/2, size/2
		feature.SpawnDungeonFeature(lv, ox, oy, feat, false, s)

		maxSteps := (feat.StartProbability+feat.ProbabilityDecrement-1)/feat.ProbabilityDecrement + 2
		lv.ForEach(func(x, y int, c *level.Cell) {
			if c.Layers[catalog.LayerSurface] != feat.Tile {
				return
			}
			dist := abs(x-ox) + abs(y-oy)
			if dist > maxSteps {
				rt.Fatalf("feature reached (%d,%d), %d cardinal steps from origin, exceeding bound %d",
					x, y, dist, maxSteps)
			}
		})
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// TestBridgeIdempotence implements P9: once BuildABridge returns false,
// calling it again leaves the level unmodified and still returns false.
func TestBridgeIdempotence(t *testing.T) {
	lv, s := fullyBridgedLevel(t)

	before := lv.Clone()
	if ok := carving.BuildABridge(lv, 5, 1, s); ok {
		t.Fatal("expected no further bridge to be buildable")
	}
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			if *lv.At(x, y) != *before.At(x, y) {
				t.Fatalf("level mutated at (%d,%d) by a no-op BuildABridge call", x, y)
			}
		}
	}
}

func fullyBridgedLevel(t *testing.T) (*level.Level, *rng.Stream) {
	t.Helper()
	s := rng.NewStream(4242, "bridge-idempotence", nil)
	coarse := carving.CarveDungeon(60, 60, 5, 10, s)
	lv := level.New(60, 60)
	carving.StampToLevel(coarse, lv, 5, 10, s)
	carving.FinishWalls(lv, false)
	lakeMap, _ := carving.DesignLakes(lv, s)
	carving.FillLakes(lv, lakeMap, 5, carving.DepthMilestones{DeepestLevel: 10, MinimumLavaLevel: 10, MinimumBrimstoneLevel: 10}, s)
	carving.RemoveDiagonalOpenings(lv, s)
	carving.CleanUpLakeBoundaries(lv)
	for carving.BuildABridge(lv, 5, 1, s) {
	}
	return lv, s
}
