package catalog

// TileFlags are terrain properties of a TileType (spec §3).
type TileFlags uint32

const (
	TObstructsPassability TileFlags = 1 << iota
	TObstructsVision
	TObstructsDiagonalMovement
	TLakePathingBlocker
	TCanBeBridged
	TIsFire
	TIsDeepWater
	TLavaInstaDeath
	TAutoDescent
	TObstructsSurfaceEffects
	TObstructsItems
)

// TPathingBlocker is the union of flags that make a tile impassable to
// normal movement.
const TPathingBlocker = TObstructsPassability | TObstructsDiagonalMovement

// MechFlags are mechanical (non-terrain) properties of a TileType.
type MechFlags uint32

const (
	TMIsSecret MechFlags = 1 << iota
	TMConnectsLevel
	TMIsWired
	TMIsCircuitBreaker
	TMPromotesWithKey
	TMExtinguishesFire
)

// Layer identifies one of the four stacked tile slots a Cell carries.
type Layer int

const (
	LayerDungeon Layer = iota
	LayerLiquid
	LayerGas
	LayerSurface
	NumLayers = 4
)

// TileID identifies a catalog entry. Zero value is the "no tile" sentinel
// NothingID.
type TileID int

// Well-known tile IDs referenced directly by carving/machine/feature logic.
const (
	NothingID TileID = iota
	GraniteID
	WallID
	FloorID
	DoorID
	SecretDoorID
	LockedDoorID
	BridgeID
	BridgeEdgeID
	DeepWaterID
	ShallowWaterID
	LavaID
	ObsidianBridgeID
	ChasmID
	ChasmEdgeID
	BrimstoneID
	GrassID
	BloodID
	CarpetID
	RubbleID
	StatueID
	UpStairsID
	DownStairsID
	DungeonPortalID
	DungeonExitID
	TorchWallID
	LeverID
	LeverWallID
	AltarID
	PressurePlateID
	firstUserTileID
)

// Tile is one catalog entry: a terrain+mechanics definition plus a layering
// priority used when multiple features compete to be drawn on the same
// layer (lower DrawPriority wins).
type Tile struct {
	ID           TileID
	Name         string
	Flags        TileFlags
	MechFlags    MechFlags
	DrawPriority int
	Layer        Layer
}

// Tiles is the registry of every known tile, keyed by ID.
var Tiles = map[TileID]*Tile{}

func register(t *Tile) *Tile {
	Tiles[t.ID] = t
	return t
}

func init() {
	register(&Tile{ID: NothingID, Name: "nothing", Layer: LayerDungeon, DrawPriority: 1000})
	register(&Tile{ID: GraniteID, Name: "granite", Layer: LayerDungeon, DrawPriority: 10,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement | TObstructsSurfaceEffects | TObstructsItems})
	register(&Tile{ID: WallID, Name: "wall", Layer: LayerDungeon, DrawPriority: 20,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement | TObstructsSurfaceEffects | TObstructsItems})
	register(&Tile{ID: FloorID, Name: "floor", Layer: LayerDungeon, DrawPriority: 100})
	register(&Tile{ID: DoorID, Name: "door", Layer: LayerDungeon, DrawPriority: 50,
		Flags: TObstructsVision})
	register(&Tile{ID: SecretDoorID, Name: "secret_door", Layer: LayerDungeon, DrawPriority: 21,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement,
		MechFlags: TMIsSecret})
	register(&Tile{ID: LockedDoorID, Name: "locked_door", Layer: LayerDungeon, DrawPriority: 22,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement,
		MechFlags: TMPromotesWithKey})
	register(&Tile{ID: BridgeID, Name: "bridge", Layer: LayerLiquid, DrawPriority: 60})
	register(&Tile{ID: BridgeEdgeID, Name: "bridge_edge", Layer: LayerSurface, DrawPriority: 61})
	register(&Tile{ID: DeepWaterID, Name: "deep_water", Layer: LayerLiquid, DrawPriority: 70,
		Flags: TLakePathingBlocker | TIsDeepWater | TCanBeBridged})
	register(&Tile{ID: ShallowWaterID, Name: "shallow_water", Layer: LayerLiquid, DrawPriority: 90})
	register(&Tile{ID: LavaID, Name: "lava", Layer: LayerLiquid, DrawPriority: 65,
		Flags: TLakePathingBlocker | TLavaInstaDeath | TIsFire | TCanBeBridged})
	register(&Tile{ID: ObsidianBridgeID, Name: "obsidian_bridge", Layer: LayerLiquid, DrawPriority: 63})
	register(&Tile{ID: ChasmID, Name: "chasm", Layer: LayerLiquid, DrawPriority: 66,
		Flags: TLakePathingBlocker | TAutoDescent | TCanBeBridged})
	register(&Tile{ID: ChasmEdgeID, Name: "chasm_edge", Layer: LayerSurface, DrawPriority: 67})
	register(&Tile{ID: BrimstoneID, Name: "brimstone", Layer: LayerLiquid, DrawPriority: 68,
		Flags: TLakePathingBlocker})
	register(&Tile{ID: GrassID, Name: "grass", Layer: LayerSurface, DrawPriority: 200})
	register(&Tile{ID: BloodID, Name: "blood", Layer: LayerSurface, DrawPriority: 210})
	register(&Tile{ID: CarpetID, Name: "carpet", Layer: LayerSurface, DrawPriority: 205})
	register(&Tile{ID: RubbleID, Name: "rubble", Layer: LayerSurface, DrawPriority: 190})
	register(&Tile{ID: StatueID, Name: "statue", Layer: LayerDungeon, DrawPriority: 23,
		Flags: TObstructsPassability | TObstructsDiagonalMovement})
	register(&Tile{ID: UpStairsID, Name: "up_stairs", Layer: LayerDungeon, DrawPriority: 15})
	register(&Tile{ID: DownStairsID, Name: "down_stairs", Layer: LayerDungeon, DrawPriority: 15})
	register(&Tile{ID: DungeonPortalID, Name: "dungeon_portal", Layer: LayerDungeon, DrawPriority: 15})
	register(&Tile{ID: DungeonExitID, Name: "dungeon_exit", Layer: LayerDungeon, DrawPriority: 15})
	register(&Tile{ID: TorchWallID, Name: "torch_wall", Layer: LayerDungeon, DrawPriority: 19,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement})
	register(&Tile{ID: LeverID, Name: "lever", Layer: LayerSurface, DrawPriority: 150,
		MechFlags: TMIsWired})
	register(&Tile{ID: LeverWallID, Name: "lever_wall", Layer: LayerDungeon, DrawPriority: 19,
		Flags: TObstructsPassability | TObstructsVision | TObstructsDiagonalMovement,
		MechFlags: TMIsWired | TMIsCircuitBreaker})
	register(&Tile{ID: AltarID, Name: "altar", Layer: LayerDungeon, DrawPriority: 40,
		Flags: TObstructsItems})
	register(&Tile{ID: PressurePlateID, Name: "pressure_plate", Layer: LayerSurface, DrawPriority: 150,
		MechFlags: TMIsWired})
}

// Get returns the catalog entry for id, or the Nothing tile if unknown.
func Get(id TileID) *Tile {
	if t, ok := Tiles[id]; ok {
		return t
	}
	return Tiles[NothingID]
}

// Blocks reports whether this tile obstructs normal passability.
func (t *Tile) Blocks() bool { return t.Flags&TObstructsPassability != 0 }

// BlocksDiagonal reports whether this tile obstructs diagonal movement.
func (t *Tile) BlocksDiagonal() bool { return t.Flags&TObstructsDiagonalMovement != 0 }

// BlocksVision reports whether this tile obstructs vision.
func (t *Tile) BlocksVision() bool { return t.Flags&TObstructsVision != 0 }

// IsPathingBlocker reports whether this tile blocks both passability and
// diagonal movement (the union used throughout pathing code).
func (t *Tile) IsPathingBlocker() bool { return t.Flags&TPathingBlocker == TPathingBlocker }
