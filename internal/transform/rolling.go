package transform

import "math"

type rollCell struct {
	v  float64
	ok bool
}

// Rolling is a fixed-size trailing window over a nullable series. Every
// position is pushed, nulls included; statistics cover only the non-null
// cells and require at least minPeriods of them. Standard deviation is
// the population form (divisor n, not n-1).
type Rolling struct {
	cells      []rollCell
	next       int
	pushed     int
	minPeriods int
}

// NewRolling creates a window of the given size. minPeriods may not
// exceed size.
func NewRolling(size, minPeriods int) *Rolling {
	return &Rolling{
		cells:      make([]rollCell, size),
		minPeriods: minPeriods,
	}
}

// Push appends the next observation, evicting the oldest once the
// window is full. A nil value occupies a position but carries no data.
func (r *Rolling) Push(v *float64) {
	cell := rollCell{}
	if v != nil {
		cell = rollCell{v: *v, ok: true}
	}
	r.cells[r.next] = cell
	r.next = (r.next + 1) % len(r.cells)
	if r.pushed < len(r.cells) {
		r.pushed++
	}
}

// Stats returns the mean and population standard deviation of the
// non-null cells currently in the window. ok is false when fewer than
// minPeriods non-null observations are present.
func (r *Rolling) Stats() (mean, std float64, ok bool) {
	n := 0
	sum := 0.0
	for i := 0; i < r.pushed; i++ {
		if c := r.cells[i]; c.ok {
			n++
			sum += c.v
		}
	}
	if n < r.minPeriods || n == 0 {
		return 0, 0, false
	}

	mean = sum / float64(n)
	sq := 0.0
	for i := 0; i < r.pushed; i++ {
		if c := r.cells[i]; c.ok {
			d := c.v - mean
			sq += d * d
		}
	}
	return mean, math.Sqrt(sq / float64(n)), true
}

// Reset empties the window.
func (r *Rolling) Reset() {
	r.next = 0
	r.pushed = 0
}
