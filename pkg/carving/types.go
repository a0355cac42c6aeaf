package carving

// RoomType enumerates the shapes the room carver can grow (spec §4.2).
type RoomType int

const (
	RoomRectangular RoomType = iota
	RoomCross
	RoomCircular
	RoomCavern
	RoomEntrance
)

// Profile is a weighted set of room-type frequencies plus CorridorChance
// (probability of interposing a 1-wide corridor between two attached
// rooms). The cross-room chance is the RoomWeights[RoomCross] entry.
type Profile struct {
	RoomWeights    map[RoomType]int
	CorridorChance int
}

// DefaultProfile is the base profile before depth adjustment.
func DefaultProfile() Profile {
	return Profile{
		RoomWeights: map[RoomType]int{
			RoomRectangular: 50,
			RoomCross:       15,
			RoomCircular:    15,
			RoomCavern:      20,
		},
		CorridorChance: 35,
	}
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DescentPercent is clamp(100*(depth-1)/(amuletLevel-1), 0, 100) (spec
// §4.2).
func DescentPercent(depth, amuletLevel int) int {
	if amuletLevel <= 1 {
		return 100
	}
	return clamp(100*(depth-1)/(amuletLevel-1), 0, 100)
}

// ProfileForDepth applies the spec's depth adjustments to the base
// profile: shallow depths favor cross rooms, circular rooms, and caverns;
// the cross-room and corridor chances increase inversely with
// DescentPercent. Depth 1 forces the entrance-room profile.
func ProfileForDepth(depth, amuletLevel int) Profile {
	if depth <= 1 {
		return Profile{
			RoomWeights:    map[RoomType]int{RoomEntrance: 1},
			CorridorChance: 0,
		}
	}

	p := DefaultProfile()
	descent := DescentPercent(depth, amuletLevel)
	inverse := 100 - descent

	if depth <= 5 {
		p.RoomWeights[RoomCross] += 10
		p.RoomWeights[RoomCircular] += 10
		p.RoomWeights[RoomCavern] += 10
	}

	p.RoomWeights[RoomCross] += inverse / 5
	p.CorridorChance = clamp(p.CorridorChance+inverse/4, 10, 80)

	return p
}

// weightsInOrder returns (type, weight) pairs in a fixed, deterministic
// order so a weighted pick never depends on Go's randomized map iteration.
func weightsInOrder(p Profile) ([]RoomType, []int) {
	order := []RoomType{RoomRectangular, RoomCross, RoomCircular, RoomCavern, RoomEntrance}
	types := make([]RoomType, 0, len(order))
	weights := make([]int, 0, len(order))
	for _, rt := range order {
		w, ok := p.RoomWeights[rt]
		if !ok || w <= 0 {
			continue
		}
		types = append(types, rt)
		weights = append(weights, w)
	}
	return types, weights
}

// Rect is an axis-aligned rectangle in grid coordinates.
type Rect struct{ X, Y, W, H int }

// Contains reports whether (x,y) lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
