package colour

// Buffer is a bounded history of observed colors, newest first. Pushing a
// color when the buffer is full evicts the oldest entry, so the length
// never exceeds the capacity it was created with.
type Buffer struct {
	colors []Color
	cap    int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{cap: capacity}
}

// Push inserts c at the front of the history.
func (b *Buffer) Push(c Color) {
	b.colors = append([]Color{c}, b.colors...)
	if len(b.colors) > b.cap {
		b.colors = b.colors[:b.cap]
	}
}

func (b *Buffer) Len() int {
	return len(b.colors)
}

// At returns the i-th most recent color. i must be in [0, Len()).
func (b *Buffer) At(i int) Color {
	return b.colors[i]
}

// Reseed discards the history and starts over with the given color.
func (b *Buffer) Reseed(c Color) {
	b.colors = b.colors[:0]
	b.Push(c)
}

// Clear empties the history.
func (b *Buffer) Clear() {
	b.colors = b.colors[:0]
}
