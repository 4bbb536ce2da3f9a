package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/jacketglow/internal/colour"
	"github.com/example/jacketglow/internal/effects"
	"github.com/example/jacketglow/internal/grid"
	"github.com/example/jacketglow/internal/led"
)

// effectsim replays a single effect offline in the terminal, without a
// server: transition effects cycle through a fixed palette, buffer effects
// animate a buffer pre-seeded with the same palette.
func main() {
	var (
		name   = flag.String("effect", "fade", "effect to replay")
		list   = flag.Bool("list", false, "list available effects and exit")
		strips = flag.Int("strips", 6, "number of strips (W)")
		rows   = flag.Int("rows", 14, "lights per strip (H)")
		fps    = flag.Int("fps", 20, "replay frames per second")
		frames = flag.Int("frames", 200, "buffer-effect frames to play")
	)
	flag.Parse()

	registry := effects.NewRegistry(nil)

	if *list {
		fmt.Println("Available effects:")
		for _, n := range registry.List() {
			kind := "transition"
			if registry.IsBufferEffect(n) {
				kind = "buffer"
			}
			fmt.Printf("  %-18s %s\n", n, kind)
		}
		return
	}
	if !registry.Has(*name) {
		log.Fatalf("unknown effect %q; try -list", *name)
	}

	g := grid.Grid{Strips: *strips, Rows: *rows}
	term := led.NewTerm(g, os.Stdout)
	term.SetLabel(*name)

	palette := []colour.Color{
		{R: 255},
		{G: 255},
		{B: 255},
		{R: 255, G: 160},
		{R: 180, B: 255},
	}

	pixels := make([]colour.Color, g.Count())
	rgb := make([]byte, g.Count()*3)
	delay := time.Second / time.Duration(*fps)

	commit := func() {
		colour.Flatten(rgb, pixels)
		if err := term.Write(rgb); err != nil {
			log.Fatalf("write: %v", err)
		}
		time.Sleep(delay)
	}

	if registry.IsBufferEffect(*name) {
		eff := registry.Get(*name).(effects.BufferEffect)
		buf := colour.NewBuffer(g.Rows)
		for _, c := range palette {
			buf.Push(c)
		}
		for f := 0; f < *frames; f++ {
			eff.UpdateFromBuffer(pixels, g, buf, uint64(f))
			commit()
		}
		return
	}

	eff := registry.Get(*name)
	steps := *fps // one second per transition
	old := colour.Off
	for _, next := range palette {
		for f := 0; f <= steps; f++ {
			eff.Transition(pixels, g, old, next, float64(f)/float64(steps))
			commit()
		}
		old = next
	}
}
