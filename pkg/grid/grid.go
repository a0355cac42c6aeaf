package grid

import "encoding/json"

// Grid is a rectangular array of ints addressed [x][y], x in [0,Width),
// y in [0,Height). It backs the numeric carving grid (§4.2), lake maps,
// choke maps, and distance maps used throughout generation.
type Grid struct {
	Width, Height int
	cells         []int
}

// New allocates a Width x Height grid, all cells zero.
func New(width, height int) *Grid {
	return &Grid{Width: width, Height: height, cells: make([]int, width*height)}
}

// InBounds reports whether (x,y) is a valid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the value at (x,y), or 0 if out of bounds.
func (g *Grid) Get(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.Width+x]
}

// Set assigns the value at (x,y). Out-of-bounds writes are silently
// ignored, matching the permissive style of neighbor-scanning code that
// probes one cell past an edge.
func (g *Grid) Set(x, y, v int) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.Width+x] = v
}

// Fill assigns v to every cell.
func (g *Grid) Fill(v int) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// ZeroOut assigns 0 to every cell; the v=0 case of Fill, kept as its own
// method to match the spec's explicit zeroOutGrid name.
func (g *Grid) ZeroOut() {
	g.Fill(0)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, cells: make([]int, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// CopyFrom overwrites g's contents with src's. Panics if dimensions
// mismatch, since every caller constructs same-sized snapshot buffers.
func (g *Grid) CopyFrom(src *Grid) {
	if g.Width != src.Width || g.Height != src.Height {
		panic("grid: CopyFrom dimension mismatch")
	}
	copy(g.cells, src.cells)
}

// Point is a grid coordinate.
type Point struct{ X, Y int }

// CardinalNeighbors returns the four cardinal-adjacent points of p, in the
// fixed order N, S, E, W, without bounds checking.
func CardinalNeighbors(p Point) [4]Point {
	return [4]Point{
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
	}
}

// EightNeighbors returns all eight neighbors of p in row-major scan order.
func EightNeighbors(p Point) [8]Point {
	return [8]Point{
		{p.X - 1, p.Y - 1}, {p.X, p.Y - 1}, {p.X + 1, p.Y - 1},
		{p.X - 1, p.Y}, {p.X + 1, p.Y},
		{p.X - 1, p.Y + 1}, {p.X, p.Y + 1}, {p.X + 1, p.Y + 1},
	}
}

// FloodFill marks every cell reachable from seed via cardinal steps through
// walkable, using label as the marker written into marks. It returns the
// number of cells visited (including seed). walkable and marks operate on
// grid coordinates so callers can combine arbitrary predicates without the
// flood fill needing to know about tile semantics.
//
// The fill uses an explicit work-queue rather than recursion: worst-case
// depth is Width*Height, which would overflow a language call stack, and
// frontier order does not matter because walkable is a monotone predicate
// (spec §9 design note).
func FloodFill(width, height int, seed Point, walkable func(Point) bool, marks *Grid, label int) int {
	if !walkable(seed) {
		return 0
	}
	visited := 0
	queue := make([]Point, 0, 64)
	queue = append(queue, seed)
	marks.Set(seed.X, seed.Y, label)
	visited++

	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, n := range CardinalNeighbors(p) {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if marks.Get(n.X, n.Y) == label {
				continue
			}
			if !walkable(n) {
				continue
			}
			marks.Set(n.X, n.Y, label)
			visited++
			queue = append(queue, n)
		}
	}
	return visited
}

// gridJSON is Grid's exported wire shape (see level.levelJSON for why
// cells stays unexported on the live type).
type gridJSON struct {
	Width, Height int
	Cells         []int
}

// MarshalJSON exposes the cell values alongside Width/Height.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Width: g.Width, Height: g.Height, Cells: g.cells})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var j gridJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	g.Width, g.Height, g.cells = j.Width, j.Height, j.Cells
	return nil
}
