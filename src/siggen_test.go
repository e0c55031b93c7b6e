package fpgatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinusoid_Shape(t *testing.T) {
	time, x := Sinusoid(10, 2000, 10, 16, false)

	require.Len(t, x, 2000) // 10 periods at 200 samples each
	require.Len(t, time, 2000)
	assert.Equal(t, 0.0, time[0])

	// Unsigned: everything above zero, peak just below full scale.
	for _, v := range x {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 1<<16)
	}
	assert.Equal(t, int(float64(1<<15)+0.95*float64(1<<15)-2), x[0])
}

func TestSinusoid_SignedIsZeroMean(t *testing.T) {
	_, x := Sinusoid(10, 2000, 10, 16, true)

	sum := 0
	for _, v := range x {
		sum += v
	}
	mean := float64(sum) / float64(len(x))
	assert.InDelta(t, 0, mean, 1.0)
}

func TestTriangle_Bounds(t *testing.T) {
	_, x := Triangle(10, 2000, 2, 8, true)

	require.NotEmpty(t, x)
	assert.Equal(t, int(signalAmp(8)), x[0]) // peak aligned with the cosine
	for _, v := range x {
		assert.GreaterOrEqual(t, v, -128)
		assert.LessOrEqual(t, v, 127)
	}
}

func TestRectangle_TwoLevels(t *testing.T) {
	_, x := Rectangle(10, 2000, 2, 8, true)

	levels := map[int]bool{}
	for _, v := range x {
		levels[v] = true
	}
	assert.Len(t, levels, 2)
}

func TestNoise_WidthLimited(t *testing.T) {
	x := Noise(1000, 4, 8)

	require.Len(t, x, 1000)
	for _, v := range x {
		assert.GreaterOrEqual(t, v, -128)
		assert.LessOrEqual(t, v, 127)
	}
}
