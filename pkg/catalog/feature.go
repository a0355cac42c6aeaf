package catalog

import "sort"

// DFFlags are dungeon-feature propagation/drawing behaviors (spec §3).
type DFFlags uint32

const (
	DFFPermitBlocking DFFlags = 1 << iota
	DFFTreatAsBlocking
	DFFSuperpriority
	DFFBlockedByOtherLayers
	DFFClearLowerPriorityTerrain
	DFFClearOtherTerrain
	DFFSubseqEverywhere
)

// DungeonFeatureID identifies a catalog DungeonFeature entry.
type DungeonFeatureID int

// Well-known dungeon feature IDs.
const (
	DFNone DungeonFeatureID = iota
	DFFlameJet
	DFShallowFlood
	DFGrassPatch
	DFBloodSplatter
	DFRubblePatch
	DFSwamp
	DFCaveWallCrack
)

// DungeonFeature is a terrain paintbrush that propagates across the grid by
// a decaying-probability flood (spec §4.7).
type DungeonFeature struct {
	ID                  DungeonFeatureID
	Tile                TileID
	Layer               Layer
	PropagationTerrain  TileID // NothingID = propagate over anything not blocking surface effects
	RequirePropTerrain  bool
	StartProbability    int
	ProbabilityDecrement int
	Subsequent          DungeonFeatureID
	Flags               DFFlags
}

// Features is the registry of every known dungeon feature, keyed by ID.
var Features = map[DungeonFeatureID]*DungeonFeature{}

func registerFeature(f *DungeonFeature) *DungeonFeature {
	Features[f.ID] = f
	return f
}

func init() {
	registerFeature(&DungeonFeature{
		ID: DFFlameJet, Tile: TileID(0), Layer: LayerGas,
		StartProbability: 100, ProbabilityDecrement: 100,
	})
	registerFeature(&DungeonFeature{
		ID: DFShallowFlood, Tile: ShallowWaterID, Layer: LayerLiquid,
		StartProbability: 90, ProbabilityDecrement: 15,
		Flags: DFFClearLowerPriorityTerrain,
	})
	registerFeature(&DungeonFeature{
		ID: DFGrassPatch, Tile: GrassID, Layer: LayerSurface,
		StartProbability: 80, ProbabilityDecrement: 20,
	})
	registerFeature(&DungeonFeature{
		ID: DFBloodSplatter, Tile: BloodID, Layer: LayerSurface,
		StartProbability: 60, ProbabilityDecrement: 30,
		Flags: DFFSuperpriority,
	})
	registerFeature(&DungeonFeature{
		ID: DFRubblePatch, Tile: RubbleID, Layer: LayerSurface,
		StartProbability: 70, ProbabilityDecrement: 25,
	})
	registerFeature(&DungeonFeature{
		ID: DFSwamp, Tile: ShallowWaterID, Layer: LayerLiquid,
		StartProbability: 50, ProbabilityDecrement: 10,
		Subsequent: DFGrassPatch,
	})
	registerFeature(&DungeonFeature{
		ID: DFCaveWallCrack, Tile: RubbleID, Layer: LayerSurface,
		PropagationTerrain: WallID, RequirePropTerrain: true,
		StartProbability: 40, ProbabilityDecrement: 20,
	})
}

// GetFeature returns the catalog entry for id, or nil if unknown.
func GetFeature(id DungeonFeatureID) *DungeonFeature {
	return Features[id]
}

// AutoGenerator is a lightweight spawner: terrain + DF + machine to
// instantiate each level, gated by a foundation-tile requirement, depth
// range, and a linear count formula (spec §3).
type AutoGenerator struct {
	ID                 int
	Tile               TileID
	Layer              Layer
	DF                 DungeonFeatureID
	BlueprintID        int // 0 = none
	RequiredFoundation TileID
	RequiredLayer      Layer
	DepthMin, DepthMax int
	Intercept, Slope   int // count = min(MaxNumber, floor((intercept + depth*slope)/100))
	MaxNumber          int
	IsMachine          bool // run after machines (per-level control flow ordering)
}

// AutoGenerators is the registry of every known autogenerator, keyed by ID.
var AutoGenerators = map[int]*AutoGenerator{}

func registerAutoGen(a *AutoGenerator) *AutoGenerator {
	AutoGenerators[a.ID] = a
	return a
}

func init() {
	registerAutoGen(&AutoGenerator{
		ID: 1, DF: DFGrassPatch, RequiredFoundation: FloorID, RequiredLayer: LayerDungeon,
		DepthMin: 1, DepthMax: 10, Intercept: 150, Slope: -5, MaxNumber: 3,
	})
	registerAutoGen(&AutoGenerator{
		ID: 2, DF: DFRubblePatch, RequiredFoundation: FloorID, RequiredLayer: LayerDungeon,
		DepthMin: 3, DepthMax: 26, Intercept: 50, Slope: 4, MaxNumber: 4,
	})
	registerAutoGen(&AutoGenerator{
		ID: 3, BlueprintID: BlueprintFireTrapRoom, IsMachine: true,
		RequiredFoundation: FloorID, RequiredLayer: LayerDungeon,
		DepthMin: 4, DepthMax: 24, Intercept: 20, Slope: 3, MaxNumber: 2,
	})
}

// Count evaluates the autogenerator's linear count formula at depth.
func (a *AutoGenerator) Count(depth int) int {
	n := (a.Intercept + depth*a.Slope) / 100
	if n < 0 {
		n = 0
	}
	if n > a.MaxNumber {
		n = a.MaxNumber
	}
	return n
}

// SortedAutoGeneratorIDs returns autogenerator IDs in ascending order, so
// callers iterating the registry get a deterministic scan order instead of
// Go's randomized map iteration.
func SortedAutoGeneratorIDs() []int {
	ids := make([]int, 0, len(AutoGenerators))
	for id := range AutoGenerators {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
