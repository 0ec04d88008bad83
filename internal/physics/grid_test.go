package physics

import "testing"

func TestColumnGridInsertAndClear(t *testing.T) {
	g := NewColumnGrid(100, 4)

	g.Insert(0)
	g.Insert(24.9)
	g.Insert(30)
	g.Insert(99)
	g.Insert(150) // clamped into the last column
	g.Insert(-5)  // clamped into the first column

	if got := g.Count(0); got != 3 {
		t.Fatalf("column 0 = %d, want 3", got)
	}
	if got := g.Count(1); got != 1 {
		t.Fatalf("column 1 = %d, want 1", got)
	}
	if got := g.Count(3); got != 2 {
		t.Fatalf("column 3 = %d, want 2", got)
	}

	lo, hi := g.MinMax()
	if lo != 0 || hi != 3 {
		t.Fatalf("MinMax = %d,%d want 0,3", lo, hi)
	}

	g.Clear()
	for col := 0; col < g.Columns(); col++ {
		if g.Count(col) != 0 {
			t.Fatalf("column %d not cleared", col)
		}
	}
}

func TestColumnGridBounds(t *testing.T) {
	g := NewColumnGrid(80, 8)
	left, width := g.Bounds(3)
	if left != 30 || width != 10 {
		t.Fatalf("Bounds(3) = %v,%v want 30,10", left, width)
	}
}
