package particle

import "github.com/olivier-w/holoforge/internal/geom"

// Trail is a fixed-capacity circular buffer of recent positions. Pushing past
// capacity overwrites the oldest entry; nothing is allocated after creation.
type Trail struct {
	buf []geom.Point3
	w   int // write position
	len int // current fill level
}

// NewTrail creates a trail holding at most size positions.
func NewTrail(size int) Trail {
	return Trail{buf: make([]geom.Point3, max(size, 0))}
}

// Push appends p, overwriting the oldest position if full.
func (t *Trail) Push(p geom.Point3) {
	if len(t.buf) == 0 {
		return
	}
	t.buf[t.w] = p
	t.w = (t.w + 1) % len(t.buf)
	if t.len < len(t.buf) {
		t.len++
	}
}

// Len returns the number of stored positions.
func (t *Trail) Len() int { return t.len }

// Cap returns the trail capacity.
func (t *Trail) Cap() int { return len(t.buf) }

// At returns the i-th stored position, oldest first.
func (t *Trail) At(i int) geom.Point3 {
	start := (t.w - t.len + len(t.buf)) % len(t.buf)
	return t.buf[(start+i)%len(t.buf)]
}

// Newest returns the most recently pushed position.
func (t *Trail) Newest() (geom.Point3, bool) {
	if t.len == 0 {
		return geom.Point3{}, false
	}
	return t.At(t.len - 1), true
}

// Clear empties the trail without releasing its storage.
func (t *Trail) Clear() {
	t.w = 0
	t.len = 0
}

// AppendTo appends the stored positions, oldest first, to dst.
func (t *Trail) AppendTo(dst []geom.Point3) []geom.Point3 {
	for i := range t.len {
		dst = append(dst, t.At(i))
	}
	return dst
}
