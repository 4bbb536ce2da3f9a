package led

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/example/jacketglow/internal/grid"
)

// Term renders each frame as a 2D grid of ANSI 24-bit cells, strips across
// and rows down, the way the desktop simulator always displayed the jacket.
type Term struct {
	mu    sync.Mutex
	g     grid.Grid
	out   io.Writer
	label string
}

func NewTerm(g grid.Grid, out io.Writer) *Term {
	return &Term{g: g, out: out}
}

// SetLabel sets the text shown in the header line, typically the active
// effect name.
func (t *Term) SetLabel(label string) {
	t.mu.Lock()
	t.label = label
	t.mu.Unlock()
}

func (t *Term) Write(rgb []byte) error {
	if len(rgb) != t.g.Count()*3 {
		return fmt.Errorf("frame is %d bytes, want %d", len(rgb), t.g.Count()*3)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var b bytes.Buffer
	// Clear screen, cursor home.
	b.WriteString("\x1b[2J\x1b[H")
	b.WriteString("jacketglow - Ctrl+C to exit")
	if t.label != "" {
		fmt.Fprintf(&b, "  [effect: %s]", t.label)
	}
	b.WriteString("\n\n")
	for row := 0; row < t.g.Rows; row++ {
		b.WriteString("  ")
		for strip := 0; strip < t.g.Strips; strip++ {
			i := t.g.Index(strip, row) * 3
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm  \x1b[0m  ", rgb[i], rgb[i+1], rgb[i+2])
		}
		b.WriteByte('\n')
	}
	_, err := t.out.Write(b.Bytes())
	return err
}

func (t *Term) Close() error { return nil }
