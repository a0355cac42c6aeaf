package grid

import "testing"

func TestSetGet_RoundTrip(t *testing.T) {
	g := New(10, 5)
	g.Set(3, 4, 7)
	if got := g.Get(3, 4); got != 7 {
		t.Fatalf("Get(3,4) = %d, want 7", got)
	}
}

func TestGetSet_OutOfBounds(t *testing.T) {
	g := New(4, 4)
	if got := g.Get(-1, 0); got != 0 {
		t.Fatalf("Get out of bounds = %d, want 0", got)
	}
	g.Set(100, 100, 5) // must not panic
}

func TestFill(t *testing.T) {
	g := New(3, 3)
	g.Fill(9)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if g.Get(x, y) != 9 {
				t.Fatalf("cell (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(2, 2)
	g.Set(0, 0, 1)
	clone := g.Clone()
	clone.Set(0, 0, 99)
	if g.Get(0, 0) != 1 {
		t.Fatalf("mutating clone affected original")
	}
}

func TestFloodFill_BoundedRegion(t *testing.T) {
	// 5x1 strip, wall at x=3 splits it into two regions.
	walkable := func(p Point) bool { return p.X != 3 }
	marks := New(5, 1)
	n := FloodFill(5, 1, Point{0, 0}, walkable, marks, 1)
	if n != 3 {
		t.Fatalf("FloodFill visited %d cells, want 3", n)
	}
	if marks.Get(4, 0) == 1 {
		t.Fatalf("flood fill crossed the wall at x=3")
	}
}

func TestFloodFill_SeedNotWalkable(t *testing.T) {
	marks := New(3, 3)
	n := FloodFill(3, 3, Point{1, 1}, func(Point) bool { return false }, marks, 1)
	if n != 0 {
		t.Fatalf("FloodFill from unwalkable seed visited %d cells, want 0", n)
	}
}
