package machine

import "github.com/dshills/dungeonkeep/pkg/catalog"

// Item is the minimal shape a machine build needs from the item system:
// enough to record key-lock relationships and category-uniqueness, without
// pulling in a full item engine (spec §6 "Item / monster collaborator").
type Item struct {
	ID       int
	Category string
	Kind     string
	IsKey    bool
	KeyLocs  []KeyLoc
}

// KeyLoc records one cell (or machine) that, once traversed, should be
// treated as unlocking the blocker this key guards (spec §4.6 step 10).
type KeyLoc struct {
	X, Y          int
	MachineNumber int
	Disposable    bool
}

// Monster is the minimal shape a machine build needs from the monster
// system.
type Monster struct {
	ID          int
	Kind        string
	X, Y        int
	MachineHome int
	IsLeader    bool
	State       string // "sleeping" | "fleeing" | "dormant" | ""
	Item        *Item  // carried item, for the torch-bearer step
}

// Collaborator is everything buildAMachine needs from the item/monster
// system (spec §6). Implementations are expected to be cheap and
// side-effect-scoped to a single build attempt; Reset is not part of the
// contract because rollback is handled by the caller discarding whatever
// Items/Monsters a failed build produced.
type Collaborator interface {
	GenerateItem(spec *catalog.ItemSpec) *Item
	DeleteItem(it *Item)
	SpawnHorde(kind string, x, y int, flags []string, count int) []*Monster
	GenerateMonster(kind string, depth int) *Monster
	KillCreature(m *Monster)
}

// StubCollaborator is a minimal, deterministic Collaborator used by tests
// and by callers that don't yet have a real item/monster engine wired in.
// It allocates sequential IDs and otherwise does nothing.
type StubCollaborator struct {
	nextItemID    int
	nextMonsterID int
}

// NewStubCollaborator returns a fresh StubCollaborator with its ID
// counters reset.
func NewStubCollaborator() *StubCollaborator {
	return &StubCollaborator{}
}

func (c *StubCollaborator) GenerateItem(spec *catalog.ItemSpec) *Item {
	c.nextItemID++
	if spec == nil {
		return &Item{ID: c.nextItemID}
	}
	return &Item{ID: c.nextItemID, Category: spec.Category, Kind: spec.Kind, IsKey: spec.IsKey}
}

func (c *StubCollaborator) DeleteItem(it *Item) {}

func (c *StubCollaborator) SpawnHorde(kind string, x, y int, flags []string, count int) []*Monster {
	if count <= 0 {
		count = 1
	}
	out := make([]*Monster, count)
	for i := range out {
		c.nextMonsterID++
		out[i] = &Monster{ID: c.nextMonsterID, Kind: kind, X: x, Y: y}
	}
	return out
}

func (c *StubCollaborator) GenerateMonster(kind string, depth int) *Monster {
	c.nextMonsterID++
	return &Monster{ID: c.nextMonsterID, Kind: kind}
}

func (c *StubCollaborator) KillCreature(m *Monster) {}
