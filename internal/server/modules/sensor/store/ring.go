package store

// ring is a fixed-capacity, newest-first log. Prepend overwrites the oldest
// entry once the ring is full, so insertion and eviction are both O(1).
type ring[T any] struct {
	buf   []T
	head  int // index of the newest entry, meaningful only when count > 0
	count int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) prepend(v T) {
	r.head = (r.head - 1 + len(r.buf)) % len(r.buf)
	r.buf[r.head] = v
	if r.count < len(r.buf) {
		r.count++
	}
}

// recent returns up to n entries, newest first, without mutating the ring.
func (r *ring[T]) recent(n int) []T {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

func (r *ring[T]) size() int {
	return r.count
}
