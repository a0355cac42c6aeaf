package validation

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/dungeon"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// computeMetrics tallies the summary figures of dungeon.Metrics from a
// finished Artifact (SPEC_FULL.md §5, supplementing spec §8's concrete
// scenarios with a reportable summary rather than only pass/fail).
func computeMetrics(artifact *dungeon.Artifact) *dungeon.Metrics {
	m := &dungeon.Metrics{
		TileCounts:   map[catalog.TileID]int{},
		MachineCount: len(artifact.Machines),
	}

	artifact.Level.ForEach(func(x, y int, c *level.Cell) {
		m.TileCounts[c.Layers[catalog.LayerDungeon]]++
		if isLakeTile(c.Layers[catalog.LayerLiquid]) {
			m.LakeCellCount++
		}
		if isBridgeTile(c.Layers[catalog.LayerLiquid]) || isBridgeTile(c.Layers[catalog.LayerSurface]) {
			m.BridgeCellCount++
		}
		if c.Has(level.IsChokepoint) {
			m.ChokepointCount++
		}
	})

	return m
}

func isLakeTile(id catalog.TileID) bool {
	switch id {
	case catalog.DeepWaterID, catalog.ShallowWaterID, catalog.LavaID, catalog.BrimstoneID:
		return true
	default:
		return false
	}
}

func isBridgeTile(id catalog.TileID) bool {
	switch id {
	case catalog.BridgeID, catalog.BridgeEdgeID, catalog.ObsidianBridgeID:
		return true
	default:
		return false
	}
}
