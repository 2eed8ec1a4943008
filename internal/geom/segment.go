package geom

// Segment is a line segment between two endpoints. The cached length is kept
// in sync with the endpoints by every mutator.
type Segment struct {
	a, b   Vec
	length float64
}

// NewSegment creates a segment from a to b.
func NewSegment(a, b Vec) Segment {
	return Segment{a: a, b: b, length: a.Distance(b)}
}

func (s Segment) A() Vec { return s.a }
func (s Segment) B() Vec { return s.b }

// Length returns |B-A|.
func (s Segment) Length() float64 { return s.length }

// SetA moves the first endpoint and recomputes the length.
func (s *Segment) SetA(a Vec) {
	s.a = a
	s.length = s.a.Distance(s.b)
}

// SetB moves the second endpoint and recomputes the length.
func (s *Segment) SetB(b Vec) {
	s.b = b
	s.length = s.a.Distance(s.b)
}

// Direction returns the unit vector from A to B, or the zero vector when the
// segment is degenerate.
func (s Segment) Direction() Vec {
	if s.length == 0 {
		return Zero
	}
	d := s.b.Sub(s.a)
	return Vec{d.X / s.length, d.Y / s.length}
}

// NearestPoint returns the point on the segment closest to p.
// A zero-length segment always returns A.
func (s Segment) NearestPoint(p Vec) Vec {
	if s.length == 0 {
		return s.a
	}
	c := s.b.Sub(s.a)
	t := p.Sub(s.a).Dot(c) / c.Dot(c)
	t = min(1, max(0, t))
	return s.a.Add(c.Mult(t))
}

// Translate moves both endpoints by offset. Length is unchanged.
func (s *Segment) Translate(offset Vec) {
	s.a = s.a.Add(offset)
	s.b = s.b.Add(offset)
}
