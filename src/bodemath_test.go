package fpgatest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPeaks_SineWave(t *testing.T) {
	const fs, f = 2000.0, 10.0
	x := make([]float64, 2000)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * f * float64(i) / fs)
	}

	peaks := FindPeaks(x, int(0.5*fs/f))

	// 10 full periods, one crest each.
	require.Len(t, peaks, 10)
	for i := 1; i < len(peaks); i++ {
		assert.Greater(t, peaks[i], peaks[i-1])
		assert.GreaterOrEqual(t, peaks[i]-peaks[i-1], 100)
	}
}

func TestFindPeaks_MinDistanceKeepsTaller(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0}

	peaks := FindPeaks(x, 3)

	assert.Equal(t, []int{3}, peaks)
}

func TestExtractGainPhase_Identity(t *testing.T) {
	const fs, f = 2000.0, 10.0
	_, xi := Sinusoid(f, fs, 10, 16, true)
	x := make([]float64, len(xi))
	for i, v := range xi {
		x[i] = float64(v)
	}

	gain, phase, err := ExtractGainPhase(f, fs, x, x, 3)

	require.NoError(t, err)
	assert.Zero(t, gain)
	assert.Zero(t, phase)
}

func TestExtractGainPhase_HalvedAmplitude(t *testing.T) {
	const fs, f = 2000.0, 10.0
	_, xi := Sinusoid(f, fs, 10, 16, true)
	xin := make([]float64, len(xi))
	xout := make([]float64, len(xi))
	for i, v := range xi {
		xin[i] = float64(v)
		xout[i] = float64(v) / 2
	}

	gain, _, err := ExtractGainPhase(f, fs, xin, xout, 3)

	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(0.5), gain, 1e-9)
}

func TestExtractGainPhase_DelayedOutput(t *testing.T) {
	const fs, f = 2000.0, 10.0
	const shift = 5
	n := 2000
	xin := make([]float64, n)
	xout := make([]float64, n)
	for i := 0; i < n; i++ {
		xin[i] = math.Cos(2 * math.Pi * f * float64(i) / fs)
		xout[i] = math.Cos(2 * math.Pi * f * float64(i-shift) / fs)
	}

	_, phase, err := ExtractGainPhase(f, fs, xin, xout, 3)

	require.NoError(t, err)
	// Output lags by 5 samples: 360 * 5 * 10 / 2000 degrees behind.
	assert.InDelta(t, -360.0*shift*f/fs, phase, 1e-6)
}

func TestExtractGainPhase_TraceTooShort(t *testing.T) {
	x := make([]float64, 100)

	_, _, err := ExtractGainPhase(10, 2000, x, x, 3)

	assert.ErrorIs(t, err, ErrPipelineMismatch)
}
