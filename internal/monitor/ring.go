package monitor

// Ring is a fixed-capacity FIFO that evicts its oldest item on overflow.
// It is not safe for concurrent use.
type Ring[T any] struct {
	buf   []T
	start int
	n     int
}

// NewRing panics if capacity is not positive.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("monitor: ring capacity must be positive")
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Push(v T) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Items returns a copy, oldest first.
func (r *Ring[T]) Items() []T {
	return r.Last(r.n)
}

// Last returns up to k most recent items, oldest first.
func (r *Ring[T]) Last(k int) []T {
	k = max(0, min(k, r.n))
	out := make([]T, k)
	for i := range k {
		out[i] = r.buf[(r.start+r.n-k+i)%len(r.buf)]
	}
	return out
}

func (r *Ring[T]) Len() int { return r.n }
func (r *Ring[T]) Cap() int { return len(r.buf) }
