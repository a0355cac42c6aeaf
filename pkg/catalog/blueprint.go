package catalog

import "sort"

// BPFlags are blueprint-level behavior flags (spec §3).
type BPFlags uint32

const (
	BPRoom BPFlags = 1 << iota
	BPVestibule
	BPReward
	BPAdoptItem
	BPPurgeInterior
	BPPurgeLiquids
	BPPurgePathingBlockers
	BPSurroundWithWalls
	BPMaximizeInterior
	BPOpenInterior
	BPRedesignInterior
	BPImpregnable
	BPTreatAsBlocking
	BPRequireBlocking
	BPNoInteriorFlag
)

// MFFlags are per-feature placement directives (spec §3).
type MFFlags uint64

const (
	MFGenerateItem MFFlags = 1 << iota
	MFAdoptItem
	MFOutsourceItemToMachine
	MFBuildVestibule
	MFBuildAtOrigin
	MFBuildInWalls
	MFBuildAnywhereOnLevel
	MFNearOrigin
	MFFarFromOrigin
	MFInViewOfOrigin
	MFInPassableViewOfOrigin
	MFNotInHallway
	MFNotOnLevelPerimeter
	MFTreatAsBlocking
	MFPermitBlocking
	MFImpregnable
	MFEverywhere
	MFAlternative
	MFAlternative2
	MFRepeatUntilNoProgress
	MFMonsterTakeItem
	MFMonsterSleeping
	MFMonsterFleeing
	MFMonstersDormant
	MFGenerateHorde
	MFKeyDisposable
	MFSkeletonKey
	MFNoThrowingWeapons
	MFRequireGoodRunic
	MFRequireHeavyWeapon
)

// IntRange is an inclusive [Lo, Hi] integer range.
type IntRange struct{ Lo, Hi int }

// ItemSpec describes an item an MF_GENERATE_ITEM feature may produce.
type ItemSpec struct {
	Category string
	Kind     string
	IsKey    bool
}

// MachineFeature is a single placement directive inside a Blueprint
// (spec §3).
type MachineFeature struct {
	DF                  DungeonFeatureID // 0 = none
	Tile                TileID           // NothingID = none
	Layer               Layer
	InstanceCountRange  IntRange
	MinimumInstanceCount int
	Item                *ItemSpec
	MonsterID           string
	PersonalSpace       int
	HordeFlags          []string
	Flags               MFFlags
}

func (f *MachineFeature) Has(flag MFFlags) bool { return f.Flags&flag != 0 }

// Blueprint is a declarative machine template (spec §3).
type Blueprint struct {
	ID             int
	DepthMin       int
	DepthMax       int
	RoomSize       IntRange
	Frequency      int
	Flags          BPFlags
	DungeonProfile string
	Features       []MachineFeature
}

func (b *Blueprint) Has(flag BPFlags) bool { return b.Flags&flag != 0 }

// Blueprints is the registry of every known blueprint, keyed by ID.
var Blueprints = map[int]*Blueprint{}

func registerBlueprint(b *Blueprint) *Blueprint {
	Blueprints[b.ID] = b
	return b
}

// Well-known blueprint IDs.
const (
	BlueprintAmulet       = 1
	BlueprintLockedVault  = 16
	BlueprintGuardianVault = 17
	BlueprintFireTrapRoom = 18
	BlueprintFloodedVault = 19
	BlueprintTreasureRoom = 20
)

func init() {
	registerBlueprint(&Blueprint{
		ID: BlueprintAmulet, DepthMin: 26, DepthMax: 26,
		RoomSize: IntRange{40, 100}, Frequency: 0,
		Flags: BPRoom | BPReward | BPSurroundWithWalls | BPImpregnable,
		Features: []MachineFeature{
			{Tile: AltarID, Layer: LayerDungeon, InstanceCountRange: IntRange{1, 1}, MinimumInstanceCount: 1,
				Item: &ItemSpec{Category: "amulet", Kind: "amulet_of_yendor", IsKey: false},
				Flags: MFGenerateItem | MFBuildAtOrigin},
		},
	})

	// Blueprint 16: a locked-door vestibule guarding a key-gated vault.
	registerBlueprint(&Blueprint{
		ID: BlueprintLockedVault, DepthMin: 2, DepthMax: 24,
		RoomSize: IntRange{2, 8}, Frequency: 40,
		Flags: BPVestibule | BPSurroundWithWalls,
		Features: []MachineFeature{
			{Tile: LockedDoorID, Layer: LayerDungeon, InstanceCountRange: IntRange{1, 1}, MinimumInstanceCount: 1,
				Flags: MFBuildAtOrigin | MFImpregnable},
		},
	})

	registerBlueprint(&Blueprint{
		ID: BlueprintGuardianVault, DepthMin: 3, DepthMax: 24,
		RoomSize: IntRange{20, 60}, Frequency: 30,
		Flags: BPRoom | BPReward | BPAdoptItem | BPSurroundWithWalls,
		Features: []MachineFeature{
			{Tile: AltarID, Layer: LayerDungeon, InstanceCountRange: IntRange{1, 1}, MinimumInstanceCount: 1,
				Item:  &ItemSpec{Category: "weapon", Kind: "random"},
				Flags: MFGenerateItem | MFAdoptItem | MFBuildAtOrigin},
			{MonsterID: "guardian", InstanceCountRange: IntRange{1, 2}, MinimumInstanceCount: 1,
				Flags: MFGenerateHorde | MFNearOrigin},
		},
	})

	registerBlueprint(&Blueprint{
		ID: BlueprintFireTrapRoom, DepthMin: 4, DepthMax: 24,
		RoomSize: IntRange{15, 40}, Frequency: 0,
		Flags: BPRoom,
		Features: []MachineFeature{
			{DF: DFFlameJet, InstanceCountRange: IntRange{2, 4}, MinimumInstanceCount: 1,
				Flags: MFBuildAnywhereOnLevel | MFNotInHallway},
		},
	})

	registerBlueprint(&Blueprint{
		ID: BlueprintFloodedVault, DepthMin: 5, DepthMax: 20,
		RoomSize: IntRange{20, 50}, Frequency: 0,
		Flags: BPRoom | BPPurgeLiquids,
		Features: []MachineFeature{
			{DF: DFShallowFlood, InstanceCountRange: IntRange{1, 1}, MinimumInstanceCount: 0,
				Flags: MFBuildAtOrigin | MFEverywhere},
		},
	})

	registerBlueprint(&Blueprint{
		ID: BlueprintTreasureRoom, DepthMin: 1, DepthMax: 24,
		RoomSize: IntRange{10, 30}, Frequency: 25,
		Flags: BPRoom | BPReward,
		Features: []MachineFeature{
			{Tile: AltarID, Layer: LayerDungeon, InstanceCountRange: IntRange{1, 3}, MinimumInstanceCount: 1,
				Item:  &ItemSpec{Category: "potion", Kind: "random"},
				Flags: MFGenerateItem | MFNotOnLevelPerimeter},
		},
	})
}

// QualifyingBlueprints returns blueprints whose depth range includes depth,
// that carry every flag in required, and — unless required carries
// BPAdoptItem or BPVestibule itself — exclude adopt-item/vestibule
// blueprints from unsolicited selection (spec §4.6 "Qualification").
func QualifyingBlueprints(depth int, required BPFlags) []*Blueprint {
	ids := make([]int, 0, len(Blueprints))
	for id := range Blueprints {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*Blueprint, 0, len(ids))
	for _, id := range ids {
		b := Blueprints[id]
		if depth < b.DepthMin || depth > b.DepthMax {
			continue
		}
		if b.Flags&required != required {
			continue
		}
		if required&(BPAdoptItem|BPVestibule) == 0 && b.Flags&(BPAdoptItem|BPVestibule) != 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}
