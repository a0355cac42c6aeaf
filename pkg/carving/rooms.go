package carving

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// Footprint is a WxH box of which only the 1-valued cells are floor; box
// dimensions may exceed the occupied bounds for non-rectangular shapes.
type Footprint struct {
	Cells  *grid.Grid
	W, H   int
}

// occupied reports whether local (x,y) within the footprint is floor.
func (f *Footprint) occupied(x, y int) bool {
	return f.Cells.Get(x, y) == 1
}

// makeFootprint builds a room footprint of the requested type, sized by
// the given RNG stream.
func makeFootprint(rt RoomType, s *rng.Stream) *Footprint {
	switch rt {
	case RoomEntrance:
		return rectFootprint(3, 3)
	case RoomCross:
		return crossFootprint(s)
	case RoomCircular:
		return circularFootprint(s)
	case RoomCavern:
		return cavernFootprint(s)
	default:
		return rectFootprint(s.RandRange(4, 9), s.RandRange(3, 6))
	}
}

func rectFootprint(w, h int) *Footprint {
	g := grid.New(w, h)
	g.Fill(1)
	return &Footprint{Cells: g, W: w, H: h}
}

func crossFootprint(s *rng.Stream) *Footprint {
	w := s.RandRange(5, 9)
	h := s.RandRange(5, 9)
	g := grid.New(w, h)
	barH := h/2 - h/6
	if barH < 1 {
		barH = 1
	}
	barW := w/2 - w/6
	if barW < 1 {
		barW = 1
	}
	top := h/2 - barH/2
	left := w/2 - barW/2
	for y := top; y < top+barH && y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, 1)
		}
	}
	for x := left; x < left+barW && x < w; x++ {
		for y := 0; y < h; y++ {
			g.Set(x, y, 1)
		}
	}
	return &Footprint{Cells: g, W: w, H: h}
}

func circularFootprint(s *rng.Stream) *Footprint {
	r := s.RandRange(2, 5)
	size := 2*r + 1
	g := grid.New(size, size)
	cx, cy := r, r
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				g.Set(x, y, 1)
			}
		}
	}
	return &Footprint{Cells: g, W: size, H: size}
}

func cavernFootprint(s *rng.Stream) *Footprint {
	size := s.RandRange(7, 13)
	blob := CreateBlob(s, size, size, 48, 40)
	g := grid.New(blob.Width, blob.Height)
	for y := 0; y < blob.Height; y++ {
		for x := 0; x < blob.Width; x++ {
			if blob.Grid.Get(blob.MinX+x, blob.MinY+y) == 1 {
				g.Set(x, y, 1)
			}
		}
	}
	return &Footprint{Cells: g, W: blob.Width, H: blob.Height}
}
