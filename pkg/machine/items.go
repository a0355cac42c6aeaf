package machine

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// placeItem resolves MF_GENERATE_ITEM: adopt a caller-supplied item
// (MF_ADOPT_ITEM), outsource generation to a sub-machine
// (MF_OUTSOURCE_ITEM_TO_MACHINE), or generate directly through the
// Collaborator, then binds the result as a key if applicable (spec §4.6
// steps 9-10).
func (bs *buildState) placeItem(mf *catalog.MachineFeature, p grid.Point) {
	var it *Item

	switch {
	case mf.Has(catalog.MFAdoptItem) && bs.result.AdoptedItem != nil:
		it = bs.result.AdoptedItem
	case mf.Has(catalog.MFOutsourceItemToMachine):
		it = bs.outsourceItem(p)
	default:
		it = bs.b.Collab.GenerateItem(mf.Item)
	}
	if it == nil {
		return
	}

	// A unique-category item (the amulet) may appear at most once per
	// level; retry generation rather than place a second copy (spec §4.6
	// step 9).
	const duplicateRetries = 1000
	claimed := bs.b.claimUnique(it.Category)
	for attempt := 0; !claimed && attempt < duplicateRetries; attempt++ {
		bs.b.Collab.DeleteItem(it)
		it = bs.b.Collab.GenerateItem(mf.Item)
		if it == nil {
			return
		}
		claimed = bs.b.claimUnique(it.Category)
	}
	if !claimed {
		bs.b.Collab.DeleteItem(it)
		return
	}

	bs.result.Items = append(bs.result.Items, it)
	if bs.bp.Has(catalog.BPAdoptItem) && bs.result.AdoptedItem == nil {
		bs.result.AdoptedItem = it
	}

	if mf.Has(catalog.MFSkeletonKey) {
		bs.result.KeyLocs = append(bs.result.KeyLocs, KeyLoc{X: -1, Y: -1, MachineNumber: bs.machineNumber, Disposable: false})
		return
	}
	if it.IsKey {
		loc := KeyLoc{
			X: p.X, Y: p.Y, MachineNumber: bs.machineNumber,
			Disposable: mf.Has(catalog.MFKeyDisposable),
		}
		it.KeyLocs = append(it.KeyLocs, loc)
		bs.result.KeyLocs = append(bs.result.KeyLocs, loc)
	}
}

// outsourceItem retries up to 10 times to run a BP_ADOPT_ITEM sub-machine
// elsewhere on the level and claims the item it produces (spec §4.6
// step 9, MF_OUTSOURCE_ITEM_TO_MACHINE).
func (bs *buildState) outsourceItem(at grid.Point) *Item {
	qualifying := catalog.QualifyingBlueprints(bs.b.Depth, catalog.BPAdoptItem)
	if len(qualifying) == 0 {
		return bs.b.Collab.GenerateItem(mfItemSpec(bs.bp, at))
	}

	const outsourceRetries = 10
	for attempt := 0; attempt < outsourceRetries; attempt++ {
		sub := qualifying[bs.b.Stream.RandRange(0, len(qualifying)-1)]
		res, ok := bs.b.BuildAMachine(Request{Blueprint: sub, Depth: bs.b.Depth})
		if !ok {
			continue
		}
		bs.result.Monsters = append(bs.result.Monsters, res.Monsters...)
		bs.result.KeyLocs = append(bs.result.KeyLocs, res.KeyLocs...)
		if res.AdoptedItem != nil {
			return res.AdoptedItem
		}
	}
	return bs.b.Collab.GenerateItem(mfItemSpec(bs.bp, at))
}

func mfItemSpec(bp *catalog.Blueprint, at grid.Point) *catalog.ItemSpec {
	for i := range bp.Features {
		if bp.Features[i].Item != nil {
			return bp.Features[i].Item
		}
	}
	return nil
}

// placeHorde spawns a monster group through the Collaborator and tags the
// result as belonging to this machine (spec §4.6 step 11,
// MF_GENERATE_HORDE).
func (bs *buildState) placeHorde(mf *catalog.MachineFeature, p grid.Point) {
	monsters := bs.b.Collab.SpawnHorde(mf.MonsterID, p.X, p.Y, mf.HordeFlags, mf.InstanceCountRange.Hi)
	for i, m := range monsters {
		m.MachineHome = bs.machineNumber
		m.IsLeader = i == 0
		m.State = monsterState(mf)
		bs.result.Monsters = append(bs.result.Monsters, m)
	}
	bs.bindTorchBearer(mf, monsters)
}

// placeMonster generates a single monster for a plain MonsterID feature.
func (bs *buildState) placeMonster(mf *catalog.MachineFeature, p grid.Point) {
	m := bs.b.Collab.GenerateMonster(mf.MonsterID, bs.b.Depth)
	if m == nil {
		return
	}
	m.X, m.Y = p.X, p.Y
	m.MachineHome = bs.machineNumber
	m.State = monsterState(mf)
	bs.result.Monsters = append(bs.result.Monsters, m)
	bs.bindTorchBearer(mf, []*Monster{m})
}

func monsterState(mf *catalog.MachineFeature) string {
	switch {
	case mf.Has(catalog.MFMonsterSleeping):
		return "sleeping"
	case mf.Has(catalog.MFMonsterFleeing):
		return "fleeing"
	case mf.Has(catalog.MFMonstersDormant):
		return "dormant"
	default:
		return ""
	}
}

// bindTorchBearer hands the most recently generated item to the first
// spawned monster when MF_MONSTER_TAKE_ITEM is set (spec §4.6 step 12).
func (bs *buildState) bindTorchBearer(mf *catalog.MachineFeature, monsters []*Monster) {
	if !mf.Has(catalog.MFMonsterTakeItem) || len(monsters) == 0 || len(bs.result.Items) == 0 {
		return
	}
	monsters[0].Item = bs.result.Items[len(bs.result.Items)-1]
}

// clearInteriorFlag implements BP_NO_INTERIOR_FLAG: once the machine is
// fully built, strip IS_IN_MACHINE/machineNumber from every interior cell
// except the ones now carrying a wired or circuit-breaker tile, which
// must keep their machine number for the wiring pass to find them later
// (spec §4.6 step 13).
func (bs *buildState) clearInteriorFlag() {
	for _, p := range bs.interior.Cells {
		c := bs.b.Level.At(p.X, p.Y)
		keep := false
		for l := 0; l < catalog.NumLayers; l++ {
			t := c.Tile(catalog.Layer(l))
			if t.MechFlags&(catalog.TMIsWired|catalog.TMIsCircuitBreaker) != 0 {
				keep = true
			}
		}
		if keep {
			continue
		}
		c.MachineNumber = 0
		c.Clear(level.IsInRoomMachine | level.IsInAreaMachine)
	}
}
