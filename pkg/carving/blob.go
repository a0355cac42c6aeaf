package carving

import (
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/rng"
)

// Blob is a single connected region of 1-cells within a bounding box,
// produced by Blob generator interface of spec §6 (createBlobOnGrid).
type Blob struct {
	Grid                *grid.Grid
	MinX, MinY          int // offset of the occupied bounding box within Grid
	Width, Height       int // occupied bounding box dimensions
}

// CreateBlob grows a single connected blob of roughly the requested
// percent-fill within a maxWidth x maxHeight working grid, using repeated
// cellular-automaton smoothing passes the way the teacher's cavern/lake
// shapes are grown. roundness in [0,100] biases toward a rounder result by
// running more smoothing passes.
func CreateBlob(s *rng.Stream, maxWidth, maxHeight, percentSeeded, roundness int) *Blob {
	g := grid.New(maxWidth, maxHeight)

	for y := 0; y < maxHeight; y++ {
		for x := 0; x < maxWidth; x++ {
			if s.RandRange(0, 99) < percentSeeded {
				g.Set(x, y, 1)
			}
		}
	}

	passes := 4 + roundness/25
	for p := 0; p < passes; p++ {
		next := grid.New(maxWidth, maxHeight)
		for y := 0; y < maxHeight; y++ {
			for x := 0; x < maxWidth; x++ {
				n := countFilledNeighbors(g, x, y)
				cur := g.Get(x, y)
				if cur == 1 {
					if n >= 3 {
						next.Set(x, y, 1)
					}
				} else if n >= 5 {
					next.Set(x, y, 1)
				}
			}
		}
		g = next
	}

	keepLargestConnectedRegion(g, maxWidth, maxHeight)

	minX, minY, maxX, maxY := boundingBoxOf(g, maxWidth, maxHeight)
	if maxX < minX {
		// Degenerate: nothing survived smoothing. Seed a single cell.
		cx, cy := maxWidth/2, maxHeight/2
		g.Set(cx, cy, 1)
		minX, minY, maxX, maxY = cx, cy, cx, cy
	}

	return &Blob{Grid: g, MinX: minX, MinY: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

func countFilledNeighbors(g *grid.Grid, x, y int) int {
	n := 0
	for _, p := range grid.EightNeighbors(grid.Point{X: x, Y: y}) {
		if !g.InBounds(p.X, p.Y) {
			n++ // treat out-of-bounds as filled, biasing growth inward
			continue
		}
		if g.Get(p.X, p.Y) == 1 {
			n++
		}
	}
	return n
}

func boundingBoxOf(g *grid.Grid, w, h int) (minX, minY, maxX, maxY int) {
	minX, minY, maxX, maxY = w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) != 1 {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	return
}

// keepLargestConnectedRegion zeroes every filled cell that is not part of
// the largest 4-connected component, guaranteeing a single connected blob.
func keepLargestConnectedRegion(g *grid.Grid, w, h int) {
	marks := grid.New(w, h)
	label := 0
	bestLabel, bestSize := 0, 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) != 1 || marks.Get(x, y) != 0 {
				continue
			}
			label++
			size := grid.FloodFill(w, h, grid.Point{X: x, Y: y}, func(p grid.Point) bool {
				return g.Get(p.X, p.Y) == 1
			}, marks, label)
			if size > bestSize {
				bestSize = size
				bestLabel = label
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) == 1 && marks.Get(x, y) != bestLabel {
				g.Set(x, y, 0)
			}
		}
	}
}
