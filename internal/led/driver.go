package led

import "sync"

// Driver abstracts the pixel-bus commit primitive. A frame is always a full
// per-light assignment, 3 bytes per light, committed in one call.
type Driver interface {
	// Write pushes an RGB frame. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Sim captures frames instead of talking to hardware. Used by -sim-only
// runs and by tests that want to inspect what was committed.
type Sim struct {
	mu     sync.Mutex
	last   []byte
	writes int
}

func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append(s.last[:0], rgb...)
	s.writes++
	return nil
}

// Last returns a copy of the most recently committed frame, or nil if
// nothing was written yet.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := make([]byte, len(s.last))
	copy(out, s.last)
	return out
}

// Writes returns how many frames were committed.
func (s *Sim) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Sim) Close() error { return nil }
