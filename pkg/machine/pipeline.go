package machine

import (
	"sort"

	"github.com/dshills/dungeonkeep/pkg/analysis"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// LevelResult accumulates every successful machine build run against one
// level.
type LevelResult struct {
	Results []Result
}

// AddMachines is the top-level driver of spec §4.6: it analyzes the level
// once for chokepoints, places the depth-26 amulet vault when deepestLevel
// is reached, then attempts reward-count-many further blueprint
// instances, each picked by depth-qualification and frequency weight.
func AddMachines(lv *level.Level, depth, deepestLevel int, collab Collaborator, s *rng.Stream) LevelResult {
	choke := analysis.AnalyzeMap(lv)
	b := NewBuilder(lv, choke.ChokeMap, depth, collab, s)

	var out LevelResult

	if depth == deepestLevel {
		const amuletRetries = 50
		for attempt := 0; attempt < amuletRetries; attempt++ {
			bp := catalog.Blueprints[catalog.BlueprintAmulet]
			if bp == nil {
				break
			}
			res, ok := b.BuildAMachine(Request{Blueprint: bp, Depth: depth})
			if ok {
				out.Results = append(out.Results, res)
				break
			}
		}
	}

	rewardCount := rewardMachineCount(depth)
	const attemptFailSafe = 50
	placed := 0
	attempts := 0
	for placed < rewardCount && attempts < attemptFailSafe {
		attempts++
		qualifying := catalog.QualifyingBlueprints(depth, 0)
		bp := pickByFrequency(qualifying, s)
		if bp == nil {
			continue
		}
		res, ok := b.BuildAMachine(Request{Blueprint: bp, Depth: depth})
		if !ok {
			continue
		}
		out.Results = append(out.Results, res)
		placed++
		choke = analysis.AnalyzeMap(lv)
		b.ChokeMap = choke.ChokeMap
	}

	return out
}

// rewardMachineCount scales the number of non-amulet machine attempts with
// depth: shallow levels get one or two vaults, deep levels up to five.
// There is no canonical formula in the source material for this; chosen
// to keep generation time bounded while still exercising the blueprint
// catalog across a full run.
func rewardMachineCount(depth int) int {
	n := 1 + depth/6
	if n > 5 {
		n = 5
	}
	return n
}

// pickByFrequency draws one blueprint with probability proportional to
// Frequency (treating 0 as "never drawn unsolicited"), breaking ties by
// blueprint ID for determinism.
func pickByFrequency(blueprints []*catalog.Blueprint, s *rng.Stream) *catalog.Blueprint {
	var weighted []*catalog.Blueprint
	for _, bp := range blueprints {
		if bp.Frequency > 0 {
			weighted = append(weighted, bp)
		}
	}
	if len(weighted) == 0 {
		return nil
	}
	sort.Slice(weighted, func(i, j int) bool { return weighted[i].ID < weighted[j].ID })

	total := 0
	for _, bp := range weighted {
		total += bp.Frequency
	}
	roll := s.RandRange(0, total-1)
	for _, bp := range weighted {
		if roll < bp.Frequency {
			return bp
		}
		roll -= bp.Frequency
	}
	return weighted[len(weighted)-1]
}
