package carving

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// loopDistanceThreshold is the shortest-path length (in floor-cell steps)
// beyond which two floor cells separated by exactly one wall are
// considered worth connecting directly (spec §4.2).
const loopDistanceThreshold = 18

// maxLoopsAdded bounds how many walls AddLoops will punch through, so a
// sparse cavern level doesn't turn into Swiss cheese.
const maxLoopsAdded = 24

// AddLoops scans pairs of floor cells separated by exactly one wall whose
// shortest existing path exceeds loopDistanceThreshold, and punches
// through to reduce dead ends (spec §4.2).
func AddLoops(coarse *grid.Grid, width, height int, s *rng.Stream) {
	added := 0
	for y := 1; y < height-1 && added < maxLoopsAdded; y++ {
		for x := 1; x < width-1 && added < maxLoopsAdded; x++ {
			if coarse.Get(x, y) != coarseSolid {
				continue
			}
			// Horizontal gap: floor at (x-1,y) and (x+1,y).
			if coarse.Get(x-1, y) == coarseFloor && coarse.Get(x+1, y) == coarseFloor {
				if wouldReduceDeadEnd(coarse, width, height, grid.Point{X: x - 1, Y: y}, grid.Point{X: x + 1, Y: y}) {
					coarse.Set(x, y, coarseFloor)
					added++
					continue
				}
			}
			// Vertical gap.
			if coarse.Get(x, y-1) == coarseFloor && coarse.Get(x, y+1) == coarseFloor {
				if wouldReduceDeadEnd(coarse, width, height, grid.Point{X: x, Y: y - 1}, grid.Point{X: x, Y: y + 1}) {
					coarse.Set(x, y, coarseFloor)
					added++
				}
			}
		}
	}
}

// wouldReduceDeadEnd reports whether the shortest existing floor-only path
// between a and b exceeds loopDistanceThreshold (or doesn't exist at all),
// meaning punching the wall between them shortens a long detour.
func wouldReduceDeadEnd(coarse *grid.Grid, width, height int, a, b grid.Point) bool {
	dist := bfsDistance(coarse, width, height, a, b)
	return dist < 0 || dist > loopDistanceThreshold
}

func bfsDistance(coarse *grid.Grid, width, height int, a, b grid.Point) int {
	visited := grid.New(width, height)
	type node struct {
		p grid.Point
		d int
	}
	queue := []node{{a, 0}}
	visited.Set(a.X, a.Y, 1)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.p == b {
			return n.d
		}
		for _, nb := range grid.CardinalNeighbors(n.p) {
			if nb.X < 0 || nb.X >= width || nb.Y < 0 || nb.Y >= height {
				continue
			}
			if coarse.Get(nb.X, nb.Y) == coarseSolid {
				continue
			}
			if visited.Get(nb.X, nb.Y) == 1 {
				continue
			}
			visited.Set(nb.X, nb.Y, 1)
			queue = append(queue, node{nb, n.d + 1})
		}
	}
	return -1
}
