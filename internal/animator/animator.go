package animator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/jacketglow/internal/colour"
	"github.com/example/jacketglow/internal/effects"
	"github.com/example/jacketglow/internal/grid"
	"github.com/example/jacketglow/internal/led"
	"github.com/example/jacketglow/internal/poll"
)

// Options wires an Animator to its collaborators.
type Options struct {
	Grid     grid.Grid
	Registry *effects.Registry
	Driver   led.Driver
	Updates  <-chan poll.Update

	// Effect is the initial effect name; unknown names fall back to fade.
	Effect string

	TransitionDuration time.Duration
	TransitionFPS      int
	BufferFPS          int
	// EffectChangePolls rate-limits effect switching: a switch is honored
	// only after this many polls since the previous one.
	EffectChangePolls int

	StartupColor      colour.Color
	NetworkErrorColor colour.Color

	// OnEffectChange, if set, is called after each honored switch.
	OnEffectChange func(name string)
}

// Animator owns the render state: the pixel grid, the color history, the
// frame counter and the active effect. It is single-threaded; every tick
// either advances a one-shot transition to completion or re-renders the
// active buffer effect, and commits full frames to the driver. Effect calls
// only read the buffer and frame counter, so no locking is needed.
type Animator struct {
	g   grid.Grid
	reg *effects.Registry
	drv led.Driver

	updates <-chan poll.Update

	transitionFrames int
	transitionDelay  time.Duration
	frameDelay       time.Duration
	changePolls      int

	startup colour.Color
	netErr  colour.Color

	onEffectChange func(string)

	pixels []colour.Color
	rgb    []byte
	buf    *colour.Buffer
	frame  uint64

	current    colour.Color
	effectName string
	effect     effects.Effect

	pollCount  int
	lastSwitch int

	// sleep is swapped out by tests to make transitions instantaneous.
	sleep func(time.Duration)
}

func New(o Options) *Animator {
	n := o.Grid.Count()
	a := &Animator{
		g:                o.Grid,
		reg:              o.Registry,
		drv:              o.Driver,
		updates:          o.Updates,
		transitionFrames: int(o.TransitionDuration.Seconds() * float64(o.TransitionFPS)),
		transitionDelay:  time.Second / time.Duration(o.TransitionFPS),
		frameDelay:       time.Second / time.Duration(o.BufferFPS),
		changePolls:      o.EffectChangePolls,
		startup:          o.StartupColor,
		netErr:           o.NetworkErrorColor,
		onEffectChange:   o.OnEffectChange,
		pixels:           make([]colour.Color, n),
		rgb:              make([]byte, n*3),
		buf:              colour.NewBuffer(o.Grid.Rows),
		effectName:       o.Registry.Get(o.Effect).Name(),
		effect:           o.Registry.Get(o.Effect),
		sleep:            time.Sleep,
	}
	if a.transitionFrames < 1 {
		a.transitionFrames = 1
	}
	return a
}

// Effect returns the active effect name.
func (a *Animator) Effect() string { return a.effectName }

// Run shows the startup color, then ticks at the buffer frame rate until
// the context is canceled.
func (a *Animator) Run(ctx context.Context) {
	a.commitSolid(a.startup)
	a.sleep(500 * time.Millisecond)

	ticker := time.NewTicker(a.frameDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Step()
		}
	}
}

// Step runs one tick: consume the latest pending poll outcome if any, then
// re-render the active buffer effect for the current frame. A one-shot
// transition triggered by a color change runs synchronously inside the
// tick, so a target observed mid-transition is picked up only on the next
// tick — and only the newest pending one.
func (a *Animator) Step() {
	select {
	case u := <-a.updates:
		a.apply(a.latest(u))
	default:
	}

	if be, ok := a.effect.(effects.BufferEffect); ok && a.buf.Len() > 0 {
		be.UpdateFromBuffer(a.pixels, a.g, a.buf, a.frame)
		a.commit()
	}
	a.frame++
}

// latest drains any backlog and keeps only the newest update.
func (a *Animator) latest(u poll.Update) poll.Update {
	for {
		select {
		case next := <-a.updates:
			u = next
		default:
			return u
		}
	}
}

func (a *Animator) apply(u poll.Update) {
	a.pollCount++
	c := u.Color
	if u.Err != nil {
		log.Warn().Err(u.Err).Msg("poll failed")
		c = a.netErr
	}
	if c != a.current {
		if a.isBufferEffect() {
			a.buf.Push(c)
		} else {
			a.runTransition(a.current, c)
		}
		a.current = c
	}
	if u.Err == nil && u.Effect != "" {
		a.maybeSwitchEffect(u.Effect)
	}
}

// runTransition plays the whole one-shot animation: a fixed number of
// frames over a fixed duration, each rendered and committed before the next.
// It always reaches progress 1.0.
func (a *Animator) runTransition(old, next colour.Color) {
	for f := 0; f <= a.transitionFrames; f++ {
		progress := float64(f) / float64(a.transitionFrames)
		a.effect.Transition(a.pixels, a.g, old, next, progress)
		a.commit()
		a.sleep(a.transitionDelay)
	}
}

func (a *Animator) maybeSwitchEffect(name string) {
	if name == a.effectName || !a.reg.Has(name) {
		return
	}
	if a.pollCount-a.lastSwitch < a.changePolls {
		return
	}
	log.Info().Str("from", a.effectName).Str("to", name).Msg("switching effect")
	a.effectName = name
	a.effect = a.reg.Get(name)
	a.lastSwitch = a.pollCount
	if a.isBufferEffect() {
		a.buf.Reseed(a.current)
	}
	if a.onEffectChange != nil {
		a.onEffectChange(name)
	}
}

func (a *Animator) isBufferEffect() bool {
	_, ok := a.effect.(effects.BufferEffect)
	return ok
}

func (a *Animator) commitSolid(c colour.Color) {
	for i := range a.pixels {
		a.pixels[i] = c
	}
	a.commit()
}

func (a *Animator) commit() {
	colour.Flatten(a.rgb, a.pixels)
	if err := a.drv.Write(a.rgb); err != nil {
		log.Warn().Err(err).Msg("frame commit failed")
	}
}
