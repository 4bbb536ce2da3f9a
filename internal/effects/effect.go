package effects

import (
	"math/rand"
	"sort"
	"time"

	"github.com/example/jacketglow/internal/colour"
	"github.com/example/jacketglow/internal/grid"
)

// Effect renders a one-shot transition between two observed colors. dst
// holds one color per light and is filled completely on every call.
// Implementations are total: progress outside [0,1] is clamped, never
// rejected.
type Effect interface {
	Name() string
	Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64)
}

// BufferEffect is an Effect that additionally animates continuously from
// the history of recently observed colors. Calls must be pure in
// (buf, frame): replaying identical inputs reproduces an identical render.
// An empty buffer renders all lights off.
type BufferEffect interface {
	Effect
	UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64)
}

// Registry is the name-keyed catalog of every effect. It is built once at
// startup and read-only afterwards.
type Registry struct {
	m     map[string]Effect
	names []string
}

// NewRegistry builds the full catalog. src seeds the dissolve shuffle; pass
// nil for a time-seeded source.
func NewRegistry(src rand.Source) *Registry {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	r := &Registry{m: map[string]Effect{}}
	for _, e := range []Effect{
		Fade{},
		newWipe("wipe_down", axisRows, false),
		newWipe("wipe_up", axisRows, true),
		newWipe("wipe_left", axisStrips, false),
		newWipe("wipe_right", axisStrips, true),
		newChase("chase_down", chaseDown, 6, 0.6),
		newChase("chase_up", chaseUp, 6, 0.6),
		newChase("chase_spiral", chaseSpiral, 8, 0.65),
		NewDissolve(src),
		Expand{},
		ColourStack{bufferBase{"colour_stack"}},
		ColourRain{bufferBase{"colour_rain"}},
		ColourTrail{bufferBase{"colour_trail"}},
		ColourWaterfall{bufferBase{"colour_waterfall"}},
		ColourWave{bufferBase{"colour_wave"}},
		ColourSpiral{bufferBase{"colour_spiral"}},
	} {
		r.m[e.Name()] = e
		r.names = append(r.names, e.Name())
	}
	sort.Strings(r.names)
	return r
}

// Get returns the effect registered under name, falling back to fade for
// unknown names. It never fails.
func (r *Registry) Get(name string) Effect {
	if e, ok := r.m[name]; ok {
		return e
	}
	return r.m["fade"]
}

// Has reports whether name is a registered effect.
func (r *Registry) Has(name string) bool {
	_, ok := r.m[name]
	return ok
}

// List returns all registered names in sorted order.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// IsBufferEffect reports whether name designates a buffer-style effect.
// Unknown names are not buffer-style (they fall back to fade).
func (r *Registry) IsBufferEffect(name string) bool {
	e, ok := r.m[name]
	if !ok {
		return false
	}
	_, buffered := e.(BufferEffect)
	return buffered
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mod is a floored modulus: the result is always in [0, m) for m > 0, which
// is what the wrapping index arithmetic below relies on.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
