package effects

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/jacketglow/internal/colour"
)

func renderBuffer(e BufferEffect, buf *colour.Buffer, frame uint64) []colour.Color {
	dst := make([]colour.Color, testGrid.Count())
	// Pre-fill with junk so all-off renders are actually asserted.
	for i := range dst {
		dst[i] = colour.Color{R: 9, G: 9, B: 9}
	}
	e.UpdateFromBuffer(dst, testGrid, buf, frame)
	return dst
}

func historyOf(cs ...colour.Color) *colour.Buffer {
	b := colour.NewBuffer(testGrid.Rows)
	// Push in reverse so cs reads newest-first like the buffer does.
	for i := len(cs) - 1; i >= 0; i-- {
		b.Push(cs[i])
	}
	return b
}

func TestEmptyBufferRendersAllOff(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	empty := colour.NewBuffer(testGrid.Rows)
	for _, name := range reg.List() {
		if !reg.IsBufferEffect(name) {
			continue
		}
		e := reg.Get(name).(BufferEffect)
		assertUniform(t, renderBuffer(e, empty, 17), colour.Off)
	}
}

func TestColourStackFrameZeroScenario(t *testing.T) {
	// buffer = [(255,0,0), (0,255,0)] newest first; frame 0:
	// row 0 pulses at 0.7+0.3*sin(0) = 0.7 -> (178,0,0); row 1 full; rest off.
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255})
	dst := renderBuffer(ColourStack{bufferBase{"colour_stack"}}, buf, 0)
	for strip := 0; strip < testGrid.Strips; strip++ {
		assert.Equal(t, colour.Color{R: 178}, dst[testGrid.Index(strip, 0)], "strip %d row 0", strip)
		assert.Equal(t, colour.Color{G: 255}, dst[testGrid.Index(strip, 1)], "strip %d row 1", strip)
		for row := 2; row < testGrid.Rows; row++ {
			assert.Equal(t, colour.Off, dst[testGrid.Index(strip, row)], "strip %d row %d", strip, row)
		}
	}
}

func TestColourStackPulsesRowZeroOnly(t *testing.T) {
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255})
	frame := uint64(8) // sin(1.6) near peak
	dst := renderBuffer(ColourStack{bufferBase{"colour_stack"}}, buf, frame)
	pulse := 0.7 + 0.3*math.Sin(float64(frame)*0.2)
	assert.Equal(t, colour.Dim(colour.Color{R: 255}, pulse), dst[testGrid.Index(0, 0)])
	assert.Equal(t, colour.Color{G: 255}, dst[testGrid.Index(0, 1)])
}

func TestColourRainScrolls(t *testing.T) {
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255}, colour.Color{B: 255})
	e := ColourRain{bufferBase{"colour_rain"}}
	// frame 0: row r shows buffer[r % 3].
	dst := renderBuffer(e, buf, 0)
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(0, 0)])
	assert.Equal(t, colour.Color{G: 255}, dst[testGrid.Index(0, 1)])
	assert.Equal(t, colour.Color{B: 255}, dst[testGrid.Index(0, 2)])
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(0, 3)])
	// frame 1 shifts by one.
	dst = renderBuffer(e, buf, 1)
	assert.Equal(t, colour.Color{G: 255}, dst[testGrid.Index(0, 0)])
	// offset wraps at 2H: frame 28 renders like frame 0.
	assert.Equal(t, renderBuffer(e, buf, 0), renderBuffer(e, buf, uint64(2*testGrid.Rows)))
}

func TestColourTrail(t *testing.T) {
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255})
	e := ColourTrail{bufferBase{"colour_trail"}}
	// frame 3: head at row 3, trail length min(6, 2) = 2.
	dst := renderBuffer(e, buf, 3)
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(0, 3)]) // distance 0
	assert.Equal(t, colour.Dim(colour.Color{G: 255}, 0.9), dst[testGrid.Index(0, 2)]) // distance 1
	assert.Equal(t, colour.Off, dst[testGrid.Index(0, 1)]) // distance 2, past trail
	assert.Equal(t, colour.Off, dst[testGrid.Index(0, 4)]) // distance wraps to 13
}

func TestColourWaterfallStaggersStrips(t *testing.T) {
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255}, colour.Color{B: 255})
	dst := renderBuffer(ColourWaterfall{bufferBase{"colour_waterfall"}}, buf, 0)
	// flow 0: strip 0 row 0 -> index 0; strip 1 row 0 -> index 2.
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(0, 0)])
	assert.Equal(t, colour.Color{B: 255}, dst[testGrid.Index(1, 0)])
	// row fade: row 1 of strip 0 shows buffer[1] dimmed by 0.85.
	assert.Equal(t, colour.Dim(colour.Color{G: 255}, 0.85), dst[testGrid.Index(0, 1)])
}

func TestColourSpiralWinds(t *testing.T) {
	buf := historyOf(colour.Color{R: 255}, colour.Color{G: 255}, colour.Color{B: 255})
	dst := renderBuffer(ColourSpiral{bufferBase{"colour_spiral"}}, buf, 0)
	// index = (strip*3 + row) % 3.
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(0, 0)])
	assert.Equal(t, colour.Color{G: 255}, dst[testGrid.Index(0, 1)])
	assert.Equal(t, colour.Color{R: 255}, dst[testGrid.Index(1, 0)])
}

func TestBufferEffectsArePure(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	buf := historyOf(colour.Color{R: 200, G: 10}, colour.Color{B: 120}, colour.Color{G: 77})
	for _, name := range reg.List() {
		if !reg.IsBufferEffect(name) {
			continue
		}
		e := reg.Get(name).(BufferEffect)
		for _, frame := range []uint64{0, 1, 13, 14, 27, 28, 1000} {
			assert.Equal(t, renderBuffer(e, buf, frame), renderBuffer(e, buf, frame),
				"%s must be pure at frame %d", name, frame)
		}
	}
}

func TestBufferEffectFallbackTransitionIsFade(t *testing.T) {
	reg := NewRegistry(rand.NewSource(1))
	for _, name := range reg.List() {
		if !reg.IsBufferEffect(name) {
			continue
		}
		e := reg.Get(name)
		assert.Equal(t, render(Fade{}, red, green, 0.5), render(e, red, green, 0.5), name)
	}
}
