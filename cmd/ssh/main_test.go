package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	w, h, err := s.getSize()
	assert.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	s.update(120, 40)
	w, h, _ = s.getSize()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)
}
