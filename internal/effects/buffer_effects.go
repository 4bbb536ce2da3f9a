package effects

import (
	"math"

	"github.com/example/jacketglow/internal/colour"
	"github.com/example/jacketglow/internal/grid"
)

// bufferBase gives every buffer-style effect its name and the uniform-fade
// fallback used when one is asked to run a one-shot transition anyway.
type bufferBase struct {
	name string
}

func (b bufferBase) Name() string { return b.name }

func (b bufferBase) Transition(dst []colour.Color, g grid.Grid, old, next colour.Color, progress float64) {
	c := colour.Lerp(old, next, progress)
	for i := range dst {
		dst[i] = c
	}
}

func allOff(dst []colour.Color) {
	for i := range dst {
		dst[i] = colour.Off
	}
}

// ColourStack shows the history as stacked rows, newest at row 0. The
// newest row pulses; older rows hold full brightness.
type ColourStack struct{ bufferBase }

func (ColourStack) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	pulse := 0.7 + 0.3*math.Sin(float64(frame)*0.2)
	for i := range dst {
		_, row := g.Pos(i)
		if row >= buf.Len() {
			dst[i] = colour.Off
			continue
		}
		factor := 1.0
		if row == 0 {
			factor = pulse
		}
		dst[i] = colour.Dim(buf.At(row), factor)
	}
}

// ColourRain scrolls the history continuously down every strip.
type ColourRain struct{ bufferBase }

func (ColourRain) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	offset := int(frame % uint64(2*g.Rows))
	for i := range dst {
		_, row := g.Pos(i)
		dst[i] = buf.At((row + offset) % buf.Len())
	}
}

// ColourTrail runs a bright head down each strip with a short fading trail
// drawn from the history.
type ColourTrail struct{ bufferBase }

func (ColourTrail) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	head := int(frame % uint64(g.Rows))
	trail := buf.Len()
	if trail > 6 {
		trail = 6
	}
	for i := range dst {
		_, row := g.Pos(i)
		distance := mod(head-row, g.Rows)
		if distance >= trail {
			dst[i] = colour.Off
			continue
		}
		fade := math.Pow(0.9, float64(distance))
		dst[i] = colour.Dim(buf.At(distance%buf.Len()), fade)
	}
}

// ColourWaterfall cascades the history downward with a per-strip stagger
// and a fading tail every eight rows.
type ColourWaterfall struct{ bufferBase }

func (ColourWaterfall) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	flow := int(frame % uint64(buf.Len()))
	for i := range dst {
		strip, row := g.Pos(i)
		idx := (row + flow + strip*2) % buf.Len()
		fade := math.Pow(0.85, float64(row%8))
		dst[i] = colour.Dim(buf.At(idx), fade)
	}
}

// ColourWave flows the history in a sine wave across the strips.
type ColourWave struct{ bufferBase }

func (ColourWave) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	for i := range dst {
		strip, row := g.Pos(i)
		wave := math.Sin(float64(strip)*0.8+float64(frame)*0.15) * 3
		idx := mod(int(math.Floor(float64(row)+wave+float64(frame)*0.5)), buf.Len())
		dst[i] = buf.At(idx)
	}
}

// ColourSpiral winds the history diagonally through the grid.
type ColourSpiral struct{ bufferBase }

func (ColourSpiral) UpdateFromBuffer(dst []colour.Color, g grid.Grid, buf *colour.Buffer, frame uint64) {
	if buf.Len() == 0 {
		allOff(dst)
		return
	}
	step := int(frame % uint64(buf.Len()))
	for i := range dst {
		strip, row := g.Pos(i)
		dst[i] = buf.At((strip*3 + row + step) % buf.Len())
	}
}
