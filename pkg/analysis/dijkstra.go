package analysis

import (
	"container/heap"

	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// Unreachable is the sentinel distance value for cells the scan never
// reaches.
const Unreachable = -1

// DijkstraScan computes shortest cardinal-step distances from origin
// across lv, treating any cell for which blocked returns true as
// impassable. Used both for machine interior growth (distance from a
// vestibule seed, spec §4.6 step 2) and for waypoint distance maps
// (spec §4.9).
func DijkstraScan(lv *level.Level, origin grid.Point, blocked func(*level.Cell) bool) *grid.Grid {
	dist := grid.New(lv.Width, lv.Height)
	dist.Fill(Unreachable)

	if !lv.InBounds(origin.X, origin.Y) || blocked(lv.At(origin.X, origin.Y)) {
		return dist
	}

	pq := &pointHeap{{p: origin, d: 0}}
	dist.Set(origin.X, origin.Y, 0)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pointDist)
		if cur.d != dist.Get(cur.p.X, cur.p.Y) {
			continue // stale entry
		}
		for _, n := range grid.CardinalNeighbors(cur.p) {
			if !lv.InBounds(n.X, n.Y) {
				continue
			}
			if blocked(lv.At(n.X, n.Y)) {
				continue
			}
			nd := cur.d + 1
			existing := dist.Get(n.X, n.Y)
			if existing != Unreachable && existing <= nd {
				continue
			}
			dist.Set(n.X, n.Y, nd)
			heap.Push(pq, pointDist{p: n, d: nd})
		}
	}
	return dist
}

// PathingDistance is a convenience wrapper around DijkstraScan that blocks
// on T_PATHING_BLOCKER cells, matching the cost map most callers want
// (spec §4.5, §4.9).
func PathingDistance(lv *level.Level, a, b grid.Point) int {
	dm := DijkstraScan(lv, a, func(c *level.Cell) bool { return c.IsPathingBlocker() })
	return dm.Get(b.X, b.Y)
}

type pointDist struct {
	p grid.Point
	d int
}

// pointHeap is a container/heap min-heap ordered by distance.
type pointHeap []pointDist

func (h pointHeap) Len() int            { return len(h) }
func (h pointHeap) Less(i, j int) bool  { return h[i].d < h[j].d }
func (h pointHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pointHeap) Push(x interface{}) { *h = append(*h, x.(pointDist)) }
func (h *pointHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
