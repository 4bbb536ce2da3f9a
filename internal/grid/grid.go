package grid

// Grid describes W parallel strips of H lights each. Lights are addressed
// either by a flat index in [0, W*H) or by a (strip, row) pair; the two
// addressings are mutually inverse.
type Grid struct {
	Strips int // W, number of strips
	Rows   int // H, lights per strip
}

func (g Grid) Count() int {
	return g.Strips * g.Rows
}

// Pos maps a flat light index to its (strip, row) position.
func (g Grid) Pos(i int) (strip, row int) {
	return i / g.Rows, i % g.Rows
}

// Index maps a (strip, row) position back to the flat light index.
func (g Grid) Index(strip, row int) int {
	return strip*g.Rows + row
}
