package clock

import "sync/atomic"

// Counter is a monotonically increasing update counter. It only needs to
// distinguish two observed states, so it wraps to zero on overflow.
type Counter struct {
	v atomic.Uint64
}

// Increment bumps the counter and returns the new value.
func (c *Counter) Increment() uint64 {
	return c.v.Add(1)
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return c.v.Load()
}

// Set overwrites the current value.
func (c *Counter) Set(v uint64) {
	c.v.Store(v)
}

// Sum adds the values of several counters, wrapping on overflow.
func Sum(counters ...uint64) uint64 {
	var total uint64
	for _, c := range counters {
		total += c
	}
	return total
}

// NextIncarnation returns the incarnation a member announces after seeing a
// claim about itself at observed while its own incarnation is current.
func NextIncarnation(current, observed uint64) uint64 {
	return max(current, observed) + 1
}
