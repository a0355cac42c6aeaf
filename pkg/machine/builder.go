package machine

import (
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// Builder runs one or more machine-build attempts against a shared level,
// chokeMap, and machine-number counter, so a blueprint's sub-machines
// (MF_OUTSOURCE_ITEM_TO_MACHINE, MF_BUILD_VESTIBULE) can recurse through
// the same Builder instance.
type Builder struct {
	Level    *level.Level
	ChokeMap *grid.Grid
	Depth    int
	Collab   Collaborator
	Stream   *rng.Stream

	nextMachineNumber int
	seenUnique        map[string]bool
}

// uniqueCategories are item categories a level may contain at most one of.
var uniqueCategories = map[string]bool{"amulet": true}

// claimUnique registers category as seen and reports whether this is the
// first claim. Non-unique categories always succeed.
func (b *Builder) claimUnique(category string) bool {
	if !uniqueCategories[category] {
		return true
	}
	if b.seenUnique == nil {
		b.seenUnique = map[string]bool{}
	}
	if b.seenUnique[category] {
		return false
	}
	b.seenUnique[category] = true
	return true
}

// NewBuilder constructs a Builder. chokeMap should come from a prior
// analysis.AnalyzeMap call over lv.
func NewBuilder(lv *level.Level, chokeMap *grid.Grid, depth int, collab Collaborator, s *rng.Stream) *Builder {
	if collab == nil {
		collab = NewStubCollaborator()
	}
	return &Builder{Level: lv, ChokeMap: chokeMap, Depth: depth, Collab: collab, Stream: s}
}

// Result is everything a successful machine build produced.
type Result struct {
	MachineNumber int
	Items         []*Item
	Monsters      []*Monster
	KeyLocs       []KeyLoc
	AdoptedItem   *Item
}

// Request parameterizes one build attempt.
type Request struct {
	Blueprint    *catalog.Blueprint
	Seed         *grid.Point // required for BP_VESTIBULE, ignored otherwise
	AdoptiveItem *Item       // for BP_ADOPT_ITEM / MF_ADOPT_ITEM sub-machines
	Depth        int
}

// BuildAMachine runs the full pipeline of spec §4.6 for one blueprint
// instance: select origin/interior, snapshot the level, prepare the
// interior, label it, compute distances, resolve alternatives, place
// features, and either commit or roll back to the snapshot.
func (b *Builder) BuildAMachine(req Request) (Result, bool) {
	bp := req.Blueprint
	interior, ok := b.selectOrigin(bp, req.Seed)
	if !ok {
		return Result{}, false
	}

	snapshot := b.Level.Clone()

	b.nextMachineNumber++
	machineNumber := b.nextMachineNumber

	b.prepareInterior(bp, interior)
	b.labelInterior(bp, interior, machineNumber)

	distances := b.computeDistances(interior)

	active := resolveAlternatives(bp.Features, b.Stream)

	build := &buildState{
		b:             b,
		bp:            bp,
		interior:      interior,
		machineNumber: machineNumber,
		distances:     distances,
		occupied:      map[grid.Point]bool{},
		result:        Result{MachineNumber: machineNumber, AdoptedItem: req.AdoptiveItem},
	}

	for i := range active {
		if !active[i].skip {
			if !build.placeFeature(&bp.Features[active[i].index]) {
				b.rollback(snapshot, build)
				b.nextMachineNumber--
				return Result{}, false
			}
		}
	}

	if bp.Has(catalog.BPNoInteriorFlag) {
		build.clearInteriorFlag()
	}

	return build.result, true
}

// rollback restores lv from snapshot and discards every item/monster the
// failed attempt generated (spec §4.6's point-of-no-return semantics).
func (b *Builder) rollback(snapshot *level.Level, build *buildState) {
	b.Level.CopyFrom(snapshot)
	for _, it := range build.result.Items {
		b.Collab.DeleteItem(it)
	}
	for _, m := range build.result.Monsters {
		b.Collab.KillCreature(m)
	}
}

type featureSlot struct {
	index int
	skip  bool
}

// resolveAlternatives keeps exactly one feature from each MF_ALTERNATIVE /
// MF_ALTERNATIVE_2 run, chosen uniformly, and marks the rest skipped
// (spec §4.6 step 7).
func resolveAlternatives(features []catalog.MachineFeature, s *rng.Stream) []featureSlot {
	out := make([]featureSlot, len(features))
	for i := range features {
		out[i] = featureSlot{index: i}
	}

	resolveGroup := func(flag catalog.MFFlags) {
		var group []int
		for i := range features {
			if features[i].Has(flag) {
				group = append(group, i)
			}
		}
		if len(group) < 2 {
			return
		}
		keep := group[s.RandRange(0, len(group)-1)]
		for _, idx := range group {
			if idx != keep {
				out[idx].skip = true
			}
		}
	}
	resolveGroup(catalog.MFAlternative)
	resolveGroup(catalog.MFAlternative2)
	return out
}
