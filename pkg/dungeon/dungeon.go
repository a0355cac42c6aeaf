// Package dungeon is the top-level driver of spec §2: it sequences every
// other package into one complete level generation pass, derives per-stage
// RNG streams from Config.Hash, and assembles the result into an Artifact.
package dungeon

import (
	"context"
	"fmt"

	"github.com/dshills/dungeonkeep/pkg/analysis"
	"github.com/dshills/dungeonkeep/pkg/carving"
	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/feature"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/machine"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// bridgeAccelerator scales BuildABridge's depth term. The source material
// has no canonical value for this coefficient; 1 keeps the ratio formula's
// depth contribution modest across the whole 1-26 range.
const bridgeAccelerator = 1

// Artifact is everything one Generate call produces (spec §2's pipeline
// output): the finished level grid plus the bookkeeping later stages
// (export, validation) need.
type Artifact struct {
	Level      *level.Level
	Depth      int
	Seed       uint64
	ConfigHash []byte

	UpStairs   grid.Point
	DownStairs grid.Point

	Machines  []machine.Result
	Waypoints []analysis.Waypoint

	// Report is populated only when the Generator was built with a
	// Validator (NewGeneratorWithValidator).
	Report *ValidationReport
}

// Metrics summarizes a generated level for reporting, independent of
// pass/fail status (spec §8 concrete scenarios, supplemented per
// SPEC_FULL.md §5: cell counts per tile type, machine/lake/bridge/
// chokepoint counts).
type Metrics struct {
	TileCounts      map[catalog.TileID]int
	MachineCount    int
	LakeCellCount   int
	BridgeCellCount int
	ChokepointCount int
}

// ConstraintResult is one named check's outcome, mirroring the teacher's
// hard/soft constraint result shape.
type ConstraintResult struct {
	Name      string
	Satisfied bool
	Details   string
}

// ValidationReport is the output of a Validator pass: pass/fail plus the
// per-property results and computed metrics.
type ValidationReport struct {
	Passed  bool
	Results []ConstraintResult
	Errors  []string
	Metrics *Metrics
}

// Validator checks a generated Artifact against the quantified invariants
// of spec §8 (the default validator checks P1-P6). Kept as an interface here, rather than imported
// concretely, so pkg/validation can depend on pkg/dungeon without a cycle.
type Validator interface {
	Validate(ctx context.Context, artifact *Artifact, cfg *Config) (*ValidationReport, error)
}

// Generator produces one complete level per call.
type Generator interface {
	Generate(ctx context.Context, cfg *Config) (*Artifact, error)
}

// DefaultGenerator sequences the full pipeline of spec §2 using the real
// carving/analysis/feature/machine packages.
type DefaultGenerator struct {
	collab    machine.Collaborator
	validator Validator
}

// NewGenerator returns a DefaultGenerator with a stub item/monster
// collaborator and no validator.
func NewGenerator() *DefaultGenerator {
	return &DefaultGenerator{collab: machine.NewStubCollaborator()}
}

// NewGeneratorWithValidator returns a DefaultGenerator that runs v.Validate
// against every Artifact it produces.
func NewGeneratorWithValidator(v Validator) *DefaultGenerator {
	g := NewGenerator()
	g.validator = v
	return g
}

// SetValidator installs or replaces the generator's validator.
func (g *DefaultGenerator) SetValidator(v Validator) { g.validator = v }

// SetCollaborator installs a non-stub item/monster collaborator.
func (g *DefaultGenerator) SetCollaborator(c machine.Collaborator) { g.collab = c }

func ctxDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Generate runs the control flow of spec §2 end to end: carve rooms and
// loops, finish cardinal walls, design and fill lakes, run non-machine
// autogenerators, remove diagonal openings, add machines, run machine
// autogenerators, clean lake boundaries, build bridges until none fit,
// finish doors, finish diagonal walls, place stairs, compute waypoints.
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *Config) (*Artifact, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	configHash := cfg.Hash()
	streams := rng.NewStreams(cfg.Seed, cfg.Depth, configHash)
	s := streams.Substantive

	dm := carving.DepthMilestones{
		DeepestLevel:          cfg.DeepestLevel,
		MinimumLavaLevel:      cfg.MinimumLavaLevel,
		MinimumBrimstoneLevel: cfg.MinimumBrimstoneLevel,
	}

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	coarse := carving.CarveDungeon(cfg.Width, cfg.Height, cfg.Depth, cfg.DeepestLevel, s)
	lv := level.New(cfg.Width, cfg.Height)
	carving.StampToLevel(coarse, lv, cfg.Depth, cfg.DeepestLevel, s)

	carving.FinishWalls(lv, false)

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	lakeMap, _ := carving.DesignLakes(lv, s)
	carving.FillLakes(lv, lakeMap, cfg.Depth, dm, s)

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	runAutoGenerators(lv, cfg.Depth, false, g.collab, s)

	carving.RemoveDiagonalOpenings(lv, s)

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	machineResult := machine.AddMachines(lv, cfg.Depth, cfg.DeepestLevel, g.collab, s)

	runAutoGenerators(lv, cfg.Depth, true, g.collab, s)

	carving.CleanUpLakeBoundaries(lv)

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	for carving.BuildABridge(lv, cfg.Depth, bridgeAccelerator, s) {
	}

	carving.FinishDoors(lv, cfg.Depth, cfg.DeepestLevel, s)
	carving.FinishWalls(lv, true)

	if err := ctxDone(ctx); err != nil {
		return nil, err
	}
	down := analysis.PlaceStairs(lv, cfg.Depth, cfg.DeepestLevel, analysis.DownStairs,
		grid.Point{X: cfg.Width / 2, Y: cfg.Height - 2})
	up := analysis.PlaceStairs(lv, cfg.Depth, cfg.DeepestLevel, analysis.UpStairs,
		grid.Point{X: cfg.Width / 2, Y: 1})

	waypoints := analysis.SetupWaypoints(lv, s)

	artifact := &Artifact{
		Level:      lv,
		Depth:      cfg.Depth,
		Seed:       cfg.Seed,
		ConfigHash: configHash,
		UpStairs:   up,
		DownStairs: down,
		Machines:   machineResult.Results,
		Waypoints:  waypoints,
	}

	if g.validator != nil {
		if err := ctxDone(ctx); err != nil {
			return nil, err
		}
		report, err := g.validator.Validate(ctx, artifact, cfg)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		artifact.Report = report
	}

	return artifact, nil
}

// runAutoGenerators instantiates every catalog AutoGenerator whose IsMachine
// flag matches wantMachine and whose depth range includes depth, in
// ascending ID order (spec §3 AutoGenerator, §2 control flow: non-machine
// autogenerators run before AddMachines, machine ones after).
func runAutoGenerators(lv *level.Level, depth int, wantMachine bool, collab machine.Collaborator, s *rng.Stream) {
	for _, id := range catalog.SortedAutoGeneratorIDs() {
		a := catalog.AutoGenerators[id]
		if a.IsMachine != wantMachine {
			continue
		}
		if depth < a.DepthMin || depth > a.DepthMax {
			continue
		}
		count := a.Count(depth)
		for i := 0; i < count; i++ {
			p, ok := randomMatchingLocation(lv, a.RequiredFoundation, a.RequiredLayer, s)
			if !ok {
				continue
			}
			switch {
			case a.BlueprintID != 0:
				choke := analysis.AnalyzeMap(lv)
				b := machine.NewBuilder(lv, choke.ChokeMap, depth, collab, s)
				bp := catalog.Blueprints[a.BlueprintID]
				if bp != nil {
					b.BuildAMachine(machine.Request{Blueprint: bp, Seed: &p, Depth: depth})
				}
			case a.DF != catalog.DFNone:
				feat := catalog.GetFeature(a.DF)
				if feat != nil {
					feature.SpawnDungeonFeature(lv, p.X, p.Y, feat, false, s)
				}
			case a.Tile != catalog.NothingID:
				lv.At(p.X, p.Y).Layers[a.Layer] = a.Tile
			}
		}
	}
}

// randomMatchingLocation uniformly samples one cell whose foundation layer
// holds the required tile, scanning candidates in row-major order before
// drawing the index so the draw itself is the only source of
// non-determinism (spec §5 ordering guarantees).
func randomMatchingLocation(lv *level.Level, foundation catalog.TileID, layer catalog.Layer, s *rng.Stream) (grid.Point, bool) {
	var candidates []grid.Point
	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.Layers[layer] == foundation {
			candidates = append(candidates, grid.Point{X: x, Y: y})
		}
	})
	if len(candidates) == 0 {
		return grid.Point{}, false
	}
	// lv.ForEach already visits in row-major order, so candidates is already
	// deterministically ordered; only the draw below is random.
	return candidates[s.RandRange(0, len(candidates)-1)], true
}
