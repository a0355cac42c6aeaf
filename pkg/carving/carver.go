package carving

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

const (
	coarseSolid = 0
	coarseFloor = 1
	coarseDoor  = 2
)

// doorCandidate is a solid cell adjacent to exactly one floor cell, a
// candidate site for the next room attachment (spec §4.2).
type doorCandidate struct {
	X, Y int
	Dir  grid.Point // direction pointing away from the room it is attached to
}

// attachFailSafe bounds the room-attachment loop (spec §7 "Timeouts").
const attachFailSafe = 400

// CarveDungeon builds the coarse room-and-corridor topology of spec §4.2 on
// a numeric grid where 0=solid, 1=floor, 2=candidate door. depth and
// amuletLevel feed ProfileForDepth's weight adjustments.
func CarveDungeon(width, height, depth, amuletLevel int, s *rng.Stream) *grid.Grid {
	profile := ProfileForDepth(depth, amuletLevel)
	coarse := grid.New(width, height)

	firstType := pickRoomType(profile, s)
	first := makeFootprint(firstType, s)
	ox := (width - first.W) / 2
	oy := (height - first.H) / 2
	ox = clamp(ox, 1, width-first.W-1)
	oy = clamp(oy, 1, height-first.H-1)
	stampFootprint(coarse, first, ox, oy)

	candidates := collectPerimeter(coarse, Rect{X: ox, Y: oy, W: first.W, H: first.H}, width, height)

	attempts := 0
	for attempts < attachFailSafe && len(candidates) > 0 {
		attempts++

		idx := s.RandRange(0, len(candidates)-1)
		cand := candidates[idx]
		candidates[idx] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		corridorLen := 0
		if s.RandPercent(profile.CorridorChance) {
			corridorLen = s.RandRange(2, 6)
		}

		rt := pickRoomType(profile, s)
		fp := makeFootprint(rt, s)

		roomOrigin, ok := placeAttachedRoom(coarse, width, height, cand, corridorLen, fp, s)
		if !ok {
			continue
		}

		// Carve the corridor cells between the door candidate and the room.
		cx, cy := cand.X, cand.Y
		for i := 0; i < corridorLen; i++ {
			cx += cand.Dir.X
			cy += cand.Dir.Y
			coarse.Set(cx, cy, coarseFloor)
		}
		coarse.Set(cand.X, cand.Y, coarseDoor)

		candidates = append(candidates, collectPerimeter(coarse, Rect{X: roomOrigin.X, Y: roomOrigin.Y, W: fp.W, H: fp.H}, width, height)...)
	}

	AddLoops(coarse, width, height, s)
	return coarse
}

func pickRoomType(p Profile, s *rng.Stream) RoomType {
	types, weights := weightsInOrder(p)
	if len(types) == 0 {
		return RoomRectangular
	}
	idx := s.WeightedChoice(weights)
	if idx < 0 {
		return RoomRectangular
	}
	return types[idx]
}

func stampFootprint(coarse *grid.Grid, fp *Footprint, ox, oy int) {
	for y := 0; y < fp.H; y++ {
		for x := 0; x < fp.W; x++ {
			if fp.occupied(x, y) {
				coarse.Set(ox+x, oy+y, coarseFloor)
			}
		}
	}
}

// collectPerimeter returns every solid cell directly outside box's four
// edges, tagged with the outward direction, whose only open cardinal
// neighbor is the room floor cell just inside the box. Out-of-bounds or
// already-floor cells are skipped.
func collectPerimeter(coarse *grid.Grid, box Rect, width, height int) []doorCandidate {
	var out []doorCandidate
	add := func(x, y int, dir grid.Point) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		if coarse.Get(x, y) != coarseSolid || coarse.Get(x-dir.X, y-dir.Y) != coarseFloor {
			return
		}
		open := 0
		for _, n := range grid.CardinalNeighbors(grid.Point{X: x, Y: y}) {
			if coarse.Get(n.X, n.Y) != coarseSolid {
				open++
			}
		}
		if open != 1 {
			return
		}
		out = append(out, doorCandidate{X: x, Y: y, Dir: dir})
	}
	for x := box.X; x < box.X+box.W; x++ {
		add(x, box.Y-1, grid.Point{X: 0, Y: -1})
		add(x, box.Y+box.H, grid.Point{X: 0, Y: 1})
	}
	for y := box.Y; y < box.Y+box.H; y++ {
		add(box.X-1, y, grid.Point{X: -1, Y: 0})
		add(box.X+box.W, y, grid.Point{X: 1, Y: 0})
	}
	return out
}

// placeAttachedRoom tries to fit fp so that its edge facing back toward
// cand sits corridorLen+1 cells away from cand along cand.Dir, jittered
// along the perpendicular axis. Returns the room's top-left origin and
// whether placement succeeded (the whole footprint plus a 1-cell margin
// must land on solid ground).
func placeAttachedRoom(coarse *grid.Grid, width, height int, cand doorCandidate, corridorLen int, fp *Footprint, s *rng.Stream) (grid.Point, bool) {
	reach := corridorLen + 1
	attachX := cand.X + cand.Dir.X*reach
	attachY := cand.Y + cand.Dir.Y*reach

	var ox, oy int
	switch {
	case cand.Dir.Y == -1: // growing north: room's bottom edge touches attach row
		oy = attachY - fp.H + 1
		ox = attachX - fp.W/2 + s.RandRange(-1, 1)
	case cand.Dir.Y == 1: // growing south
		oy = attachY
		ox = attachX - fp.W/2 + s.RandRange(-1, 1)
	case cand.Dir.X == -1: // growing west
		ox = attachX - fp.W + 1
		oy = attachY - fp.H/2 + s.RandRange(-1, 1)
	default: // growing east
		ox = attachX
		oy = attachY - fp.H/2 + s.RandRange(-1, 1)
	}

	if ox < 1 || oy < 1 || ox+fp.W+1 > width || oy+fp.H+1 > height {
		return grid.Point{}, false
	}
	if !fp.occupied(attachX-ox, attachY-oy) {
		return grid.Point{}, false
	}

	for y := -1; y <= fp.H; y++ {
		for x := -1; x <= fp.W; x++ {
			gx, gy := ox+x, oy+y
			if gx == cand.X && gy == cand.Y {
				continue
			}
			if (x >= 0 && x < fp.W && y >= 0 && y < fp.H) && !fp.occupied(x, y) {
				continue
			}
			if coarse.Get(gx, gy) != coarseSolid {
				return grid.Point{}, false
			}
		}
	}

	stampFootprint(coarse, fp, ox, oy)
	return grid.Point{X: ox, Y: oy}, true
}
