package level

import "github.com/dshills/dungeonkeep/pkg/catalog"

// CellFlags are the runtime flags of spec §3 (excluding the
// visibility/memory bits, which belong to a runtime renderer, not
// generation).
type CellFlags uint32

const (
	HasMonster CellFlags = 1 << iota
	HasItem
	HasStairs
	HasPlayer
	IsInRoomMachine
	IsInAreaMachine
	IsGateSite
	IsChokepoint
	InLoop
	Impregnable
	CaughtFireThisTurn
)

// IsInMachine is the union of the two machine-membership flags.
const IsInMachine = IsInRoomMachine | IsInAreaMachine

// Cell is a single grid position (spec §3).
type Cell struct {
	Layers        [catalog.NumLayers]catalog.TileID
	Flags         CellFlags
	MachineNumber int
	Volume        int
}

// NewCell returns a cell with every layer set to NothingID except the
// dungeon layer, which defaults to GraniteID (the "solid rock" starting
// state of a freshly cleared level).
func NewCell() Cell {
	var c Cell
	c.Layers[catalog.LayerDungeon] = catalog.GraniteID
	return c
}

// Tile returns the catalog entry occupying layer l.
func (c *Cell) Tile(l catalog.Layer) *catalog.Tile {
	return catalog.Get(c.Layers[l])
}

// HighestPriorityTile returns the tile with the lowest DrawPriority value
// (i.e. the one that visually wins) across all four layers.
func (c *Cell) HighestPriorityTile() *catalog.Tile {
	best := catalog.Get(catalog.NothingID)
	for l := 0; l < catalog.NumLayers; l++ {
		t := c.Tile(catalog.Layer(l))
		if t.ID == catalog.NothingID {
			continue
		}
		if best.ID == catalog.NothingID || t.DrawPriority < best.DrawPriority {
			best = t
		}
	}
	return best
}

// IsPassable reports whether no layer obstructs passability.
func (c *Cell) IsPassable() bool {
	for l := 0; l < catalog.NumLayers; l++ {
		if c.Tile(catalog.Layer(l)).Blocks() {
			return false
		}
	}
	return true
}

// IsPathingBlocker reports whether any layer is a full pathing blocker
// (obstructs both passability and diagonal movement).
func (c *Cell) IsPathingBlocker() bool {
	for l := 0; l < catalog.NumLayers; l++ {
		if c.Tile(catalog.Layer(l)).IsPathingBlocker() {
			return true
		}
	}
	return false
}

// BlocksVision reports whether any layer obstructs vision.
func (c *Cell) BlocksVision() bool {
	for l := 0; l < catalog.NumLayers; l++ {
		if c.Tile(catalog.Layer(l)).BlocksVision() {
			return true
		}
	}
	return false
}

// IsSecretDoor reports whether the dungeon layer holds a secret door,
// which the connectivity invariant treats as passable (spec §8 P1).
func (c *Cell) IsSecretDoor() bool {
	return c.Layers[catalog.LayerDungeon] == catalog.SecretDoorID
}

// ConnectsLevel reports whether any layer's tile carries TMConnectsLevel,
// meaning it must be treated as passable for the lake-disruption and DF
// blocking-abort checks even if it also obstructs passability.
func (c *Cell) ConnectsLevel() bool {
	for l := 0; l < catalog.NumLayers; l++ {
		if c.Tile(catalog.Layer(l)).MechFlags&catalog.TMConnectsLevel != 0 {
			return true
		}
	}
	return false
}

// Has reports whether every bit in flags is set.
func (c *Cell) Has(flags CellFlags) bool { return c.Flags&flags == flags }

// Set sets the given bits.
func (c *Cell) Set(flags CellFlags) { c.Flags |= flags }

// Clear clears the given bits.
func (c *Cell) Clear(flags CellFlags) { c.Flags &^= flags }
