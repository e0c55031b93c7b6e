package fpgatest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFixedPoint_KnownValues(t *testing.T) {
	fp := FixedPoint{TotalBits: 8, FracBits: 6}

	assert.Equal(t, 32, fp.AsInteger(0.5))
	assert.Equal(t, 0.5, fp.AsRational(32))
	assert.Equal(t, -128, fp.MinInteger())
	assert.Equal(t, 127, fp.MaxInteger())
}

func TestFixedPoint_Saturates(t *testing.T) {
	fp := FixedPoint{TotalBits: 8, FracBits: 6}

	assert.Equal(t, 127, fp.AsInteger(1.9999))
	assert.Equal(t, 127, fp.AsInteger(1e9))
	assert.Equal(t, -128, fp.AsInteger(-1e9))
}

func TestFixedPoint_Bounds(t *testing.T) {
	fp := FixedPoint{TotalBits: 8, FracBits: 6}

	assert.False(t, fp.IntegerOutOfBounds(127))
	assert.True(t, fp.IntegerOutOfBounds(128))
	assert.True(t, fp.IntegerOutOfBounds(-129))
	assert.False(t, fp.RationalOutOfBounds(fp.MaxRational()))
	assert.True(t, fp.RationalOutOfBounds(fp.MaxRational()+1))
}

func TestFixedPoint_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var fp = FixedPoint{
			TotalBits: rapid.IntRange(2, 16).Draw(t, "total"),
			FracBits:  rapid.IntRange(0, 14).Draw(t, "frac"),
		}
		var x = rapid.Float64Range(fp.MinRational(), fp.MaxRational()).Draw(t, "x")

		var back = fp.AsRational(fp.AsInteger(x))

		var lsb = 1 / float64(int(1)<<fp.FracBits)
		assert.LessOrEqual(t, math.Abs(back-x), lsb)
	})
}

func TestFixedPoint_Blocks(t *testing.T) {
	fp := FixedPoint{TotalBits: 8, FracBits: 2}

	ints := fp.QuantizeBlock([]float64{0.25, -1, 31.75})
	assert.Equal(t, []int{1, -4, 127}, ints)

	back := fp.DequantizeBlock(ints)
	assert.Equal(t, []float64{0.25, -1, 31.75}, back)
}
