package physics

// ColumnGrid is a one-dimensional uniform grid that splits the field width into
// equal columns and counts the items falling in each. It backs the spawn
// coverage map: counts are rebuilt every tick with Clear + Insert.
type ColumnGrid struct {
	width       float64
	columnWidth float64
	invColumn   float64 // 1 / columnWidth (precomputed to avoid division)
	counts      []int
}

// NewColumnGrid creates a grid of n columns spanning width.
func NewColumnGrid(width float64, n int) *ColumnGrid {
	if n < 1 {
		n = 1
	}
	cw := width / float64(n)
	inv := 0.0
	if cw > 0 {
		inv = 1.0 / cw
	}
	return &ColumnGrid{
		width:       width,
		columnWidth: cw,
		invColumn:   inv,
		counts:      make([]int, n),
	}
}

// Clear zeroes every column without reallocating.
func (g *ColumnGrid) Clear() {
	clear(g.counts)
}

// Insert counts an item whose center is at x.
func (g *ColumnGrid) Insert(x float64) {
	g.counts[g.ColumnAt(x)]++
}

// ColumnAt converts an x coordinate to a column index, clamped to the grid.
func (g *ColumnGrid) ColumnAt(x float64) int {
	col := int(x * g.invColumn)
	if col < 0 {
		col = 0
	} else if col >= len(g.counts) {
		col = len(g.counts) - 1
	}
	return col
}

// Columns returns the number of columns.
func (g *ColumnGrid) Columns() int {
	return len(g.counts)
}

// Count returns the item count of column col.
func (g *ColumnGrid) Count(col int) int {
	if col < 0 || col >= len(g.counts) {
		return 0
	}
	return g.counts[col]
}

// Add adjusts a column count directly, used when spawning several items in
// one tick so later picks see earlier ones.
func (g *ColumnGrid) Add(col, n int) {
	if col < 0 || col >= len(g.counts) {
		return
	}
	g.counts[col] += n
}

// MinMax returns the smallest and largest column counts.
func (g *ColumnGrid) MinMax() (lo, hi int) {
	lo, hi = g.counts[0], g.counts[0]
	for _, c := range g.counts[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi
}

// Bounds returns the left edge and width of column col.
func (g *ColumnGrid) Bounds(col int) (left, width float64) {
	return float64(col) * g.columnWidth, g.columnWidth
}
