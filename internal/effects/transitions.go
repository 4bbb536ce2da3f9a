package effects

import (
	"math"
	"math/rand"

	"github.com/example/jacketglow/internal/colour"
	"github.com/example/jacketglow/internal/grid"
)

// Fade blends every light uniformly from old to next.
type Fade struct{}

func (Fade) Name() string { return "fade" }

func (Fade) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	c := colour.Lerp(old, next, progress)
	for i := range dst {
		dst[i] = c
	}
}

type wipeAxis int

const (
	axisRows wipeAxis = iota
	axisStrips
)

// wipe sweeps a hard boundary across rows or strips. The forward and
// reverse comparisons are deliberately asymmetric (< sweep vs
// >= extent-sweep); do not unify them.
type wipe struct {
	name    string
	axis    wipeAxis
	reverse bool
}

func newWipe(name string, axis wipeAxis, reverse bool) wipe {
	return wipe{name: name, axis: axis, reverse: reverse}
}

func (w wipe) Name() string { return w.name }

func (w wipe) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	progress = clamp01(progress)
	extent := g.Rows
	if w.axis == axisStrips {
		extent = g.Strips
	}
	sweep := int(progress * float64(extent+1))
	for i := range dst {
		strip, row := g.Pos(i)
		pos := row
		if w.axis == axisStrips {
			pos = strip
		}
		var show bool
		if w.reverse {
			show = pos >= extent-sweep
		} else {
			show = pos < sweep
		}
		if show {
			dst[i] = next
		} else {
			dst[i] = old
		}
	}
}

type chaseDir int

const (
	chaseDown chaseDir = iota
	chaseUp
	chaseSpiral
)

// chase moves a head across the grid with a decaying trail behind it.
// Lights ahead of the head keep the old color, lights further than the
// trail length behind are fully new, and lights inside the trail blend by
// decay^distance.
type chase struct {
	name  string
	dir   chaseDir
	trail int
	decay float64
}

func newChase(name string, dir chaseDir, trail int, decay float64) chase {
	return chase{name: name, dir: dir, trail: trail, decay: decay}
}

func (c chase) Name() string { return c.name }

func (c chase) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	progress = clamp01(progress)
	var head int
	switch c.dir {
	case chaseDown:
		head = int(progress * float64(g.Rows+c.trail))
	case chaseUp:
		head = g.Rows - 1 - int(progress*float64(g.Rows+c.trail))
	case chaseSpiral:
		head = int(progress * float64(g.Count()+c.trail))
	}
	for i := range dst {
		strip, row := g.Pos(i)
		var distance int
		switch c.dir {
		case chaseDown:
			distance = head - row
		case chaseUp:
			distance = row - head
		case chaseSpiral:
			distance = head - g.Index(strip, row)
		}
		switch {
		case distance < 0:
			dst[i] = old
		case distance >= c.trail:
			dst[i] = next
		default:
			dst[i] = colour.Lerp(next, old, math.Pow(c.decay, float64(distance)))
		}
	}
}

// Dissolve flips lights from old to next in a random order. The order is
// generated once per (old, next) pair and reused for every progress sample
// of that transition, so repeated renders at the same progress are
// identical. A new pair regenerates the order.
type Dissolve struct {
	rng      *rand.Rand
	order    []int
	lastOld  colour.Color
	lastNext colour.Color
	havePair bool
}

// NewDissolve builds a dissolve with the given random source. The registry
// supplies a time-seeded source by default; tests can pass a fixed seed for
// reproducible orders.
func NewDissolve(src rand.Source) *Dissolve {
	return &Dissolve{rng: rand.New(src)}
}

func (d *Dissolve) Name() string { return "dissolve" }

func (d *Dissolve) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	progress = clamp01(progress)
	n := g.Count()
	if !d.havePair || old != d.lastOld || next != d.lastNext || len(d.order) != n {
		d.order = d.rng.Perm(n)
		d.lastOld, d.lastNext = old, next
		d.havePair = true
	}
	changed := int(progress * float64(n))
	for i := range dst {
		dst[i] = old
	}
	for i := 0; i < changed && i < len(d.order); i++ {
		dst[d.order[i]] = next
	}
}

// Expand reveals the new color radially from the grid center. The 1.2
// overshoot guarantees the corners are covered at progress 1 even though
// they sit further out than the half-diagonal.
type Expand struct{}

func (Expand) Name() string { return "expand" }

func (Expand) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	progress = clamp01(progress)
	centerStrip := float64(g.Strips) / 2
	centerRow := float64(g.Rows) / 2
	maxDist := math.Sqrt(centerStrip*centerStrip + centerRow*centerRow)
	radius := progress * maxDist * 1.2
	for i := range dst {
		strip, row := g.Pos(i)
		ds := float64(strip) - centerStrip + 0.5
		dr := float64(row) - centerRow + 0.5
		if math.Sqrt(ds*ds+dr*dr) <= radius {
			dst[i] = next
		} else {
			dst[i] = old
		}
	}
}
