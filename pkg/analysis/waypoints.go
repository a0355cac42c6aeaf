package analysis

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// MaxWaypointCount bounds how many waypoints SetupWaypoints will place
// (spec §4.9).
const MaxWaypointCount = 16

// waypointFOVRadius is the scent-obstruction FOV disk radius used to
// reject waypoint candidates too close to an already-chosen one.
const waypointFOVRadius = 12

// Waypoint is one sampled location plus its precomputed distance map,
// consulted later by monster AI for pathing toward points of interest.
type Waypoint struct {
	Pos      grid.Point
	Distance *grid.Grid
}

// SetupWaypoints greedily samples up to MaxWaypointCount passable cells
// whose FOV disks do not overlap any previously chosen waypoint, and runs
// a Dijkstra scan from each over a generic T_PATHING_BLOCKER cost map
// (spec §4.9).
func SetupWaypoints(lv *level.Level, s *rng.Stream) []Waypoint {
	var candidates []grid.Point
	lv.ForEach(func(x, y int, c *level.Cell) {
		if c.IsPassable() {
			candidates = append(candidates, grid.Point{X: x, Y: y})
		}
	})
	if len(candidates) == 0 {
		return nil
	}

	order := make([]int, len(candidates))
	s.FillSequentialList(order)

	covered := grid.New(lv.Width, lv.Height)
	var waypoints []Waypoint

	blocked := func(c *level.Cell) bool { return c.IsPathingBlocker() }

	for _, idx := range order {
		if len(waypoints) >= MaxWaypointCount {
			break
		}
		p := candidates[idx]
		if covered.Get(p.X, p.Y) == 1 {
			continue
		}

		dist := DijkstraScan(lv, p, blocked)
		waypoints = append(waypoints, Waypoint{Pos: p, Distance: dist})

		disk := GetFOVMask(lv, p, waypointFOVRadius, func(c *level.Cell) bool { return c.BlocksVision() })
		for y := 0; y < lv.Height; y++ {
			for x := 0; x < lv.Width; x++ {
				if disk.Get(x, y) == 1 {
					covered.Set(x, y, 1)
				}
			}
		}
	}
	return waypoints
}
