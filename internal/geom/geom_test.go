package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec_Normalize(t *testing.T) {
	assert.Equal(t, Zero, Zero.Normalize())

	u := V(3, 4).Normalize()
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
	assert.InDelta(t, 1.0, u.Length(), 1e-12)
}

func TestVec_Arithmetic(t *testing.T) {
	a, b := V(1, 2), V(-3, 5)
	assert.Equal(t, V(-2, 7), a.Add(b))
	assert.Equal(t, V(4, -3), a.Sub(b))
	assert.Equal(t, V(2.5, 5), a.Mult(2.5))
	assert.Equal(t, 7.0, a.Dot(b))
	assert.Equal(t, 5.0, V(0, 0).Distance(V(3, 4)))
	assert.True(t, a.Neg().Add(a).Equal(Zero))
}

func TestSegment_NearestPoint(t *testing.T) {
	s := NewSegment(V(0, 0), V(10, 0))

	tests := []struct {
		name string
		p    Vec
		want Vec
	}{
		{"above interior", V(5, 3), V(5, 0)},
		{"before A", V(-4, 2), V(0, 0)},
		{"past B", V(14, -1), V(10, 0)},
		{"on segment", V(7, 0), V(7, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.NearestPoint(tt.p)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}

func TestSegment_Degenerate(t *testing.T) {
	s := NewSegment(V(0, 0), V(0, 0))
	assert.Zero(t, s.Length())
	assert.Equal(t, Zero, s.Direction())
	for _, p := range []Vec{V(1, 1), V(-50, 3), V(0, 0)} {
		assert.Equal(t, V(0, 0), s.NearestPoint(p))
	}
}

func TestSegment_MutatorsKeepLength(t *testing.T) {
	s := NewSegment(V(0, 0), V(3, 4))
	assert.Equal(t, 5.0, s.Length())
	assert.Equal(t, V(0.6, 0.8), s.Direction())

	s.SetB(V(0, 2))
	assert.Equal(t, 2.0, s.Length())

	s.SetA(V(0, -1))
	assert.Equal(t, 3.0, s.Length())

	s.Translate(V(10, 10))
	assert.Equal(t, V(10, 9), s.A())
	assert.Equal(t, V(10, 12), s.B())
	assert.Equal(t, 3.0, s.Length())
}
