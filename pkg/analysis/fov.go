package analysis

import (
	"math"

	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// GetFOVMask returns a grid marked 1 for every cell within radius of
// origin that is not occluded by an opaque cell on the straight line
// between them (spec §4.6 step 8b "view map", §4.9 waypoint FOV disks).
// This is a coarse ray-per-cell scan rather than a recursive shadowcaster,
// matching the generation-time (not render-time) precision the pipeline
// needs.
func GetFOVMask(lv *level.Level, origin grid.Point, radius int, opaque func(*level.Cell) bool) *grid.Grid {
	mask := grid.New(lv.Width, lv.Height)
	if !lv.InBounds(origin.X, origin.Y) {
		return mask
	}
	mask.Set(origin.X, origin.Y, 1)

	minX, maxX := clampRange(origin.X-radius, origin.X+radius, lv.Width)
	minY, maxY := clampRange(origin.Y-radius, origin.Y+radius, lv.Height)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x == origin.X && y == origin.Y {
				continue
			}
			dx, dy := float64(x-origin.X), float64(y-origin.Y)
			if dx*dx+dy*dy > float64(radius*radius) {
				continue
			}
			if lineOfSight(lv, origin, grid.Point{X: x, Y: y}, opaque) {
				mask.Set(x, y, 1)
			}
		}
	}
	return mask
}

func clampRange(lo, hi, size int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > size-1 {
		hi = size - 1
	}
	return lo, hi
}

// lineOfSight walks a Bresenham line from a to b and reports whether every
// intermediate cell is non-opaque.
func lineOfSight(lv *level.Level, a, b grid.Point, opaque func(*level.Cell) bool) bool {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 == x1 && y0 == y1 {
			return true
		}
		if (x0 != a.X || y0 != a.Y) && (x0 != b.X || y0 != b.Y) {
			c := lv.Get(x0, y0)
			if c == nil || opaque(c) {
				return false
			}
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
