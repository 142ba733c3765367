package wavio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterleaveStereo(t *testing.T) {
	dst := make([]float32, 8)
	n := Interleave(dst, [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}, 4)
	assert.Equal(t, 8, n)
	assert.Equal(t, []float32{1, 5, 2, 6, 3, 7, 4, 8}, dst)
}

func TestInterleaveMono(t *testing.T) {
	dst := make([]float32, 3)
	n := Interleave(dst, [][]float32{{1, 2, 3}}, 3)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{1, 2, 3}, dst)
}

func TestInterleaveThreeChannels(t *testing.T) {
	dst := make([]float32, 6)
	n := Interleave(dst, [][]float32{{1, 2}, {3, 4}, {5, 6}}, 2)
	assert.Equal(t, 6, n)
	assert.Equal(t, []float32{1, 3, 5, 2, 4, 6}, dst)
}

func TestInterleaveTruncatesToDestination(t *testing.T) {
	dst := make([]float32, 5)
	n := Interleave(dst, [][]float32{{1, 2, 3}, {4, 5, 6}}, 3)
	assert.Equal(t, 4, n)
	assert.Equal(t, []float32{1, 4, 2, 5, 0}, dst)
}

func TestInterleaveEmpty(t *testing.T) {
	assert.Equal(t, 0, Interleave(make([]float32, 4), nil, 2))
	assert.Equal(t, 0, Interleave(make([]float32, 4), [][]float32{{1}}, 0))
}

func TestDeinterleave(t *testing.T) {
	dst := [][]float32{make([]float32, 3), make([]float32, 3)}
	n := Deinterleave(dst, []float32{1, 5, 2, 6, 3, 7})
	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{1, 2, 3}, dst[0])
	assert.Equal(t, []float32{5, 6, 7}, dst[1])
	assert.Equal(t, 0, Deinterleave(nil, []float32{1}))
}
