package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Stimulus generators for the experiment drivers.
 *
 *		The periodic generators return integer samples sized
 *		for the effective bitwidth of the target skeleton:
 *		amplitude 0.95 * 2^(bw-1) - 2, offset 2^(bw-1) for
 *		unsigned signals and 0 for signed ones.  Noise is
 *		zero-mean and only cast to the target width.
 *
 *------------------------------------------------------------------*/

import (
	"math"
	"math/rand"
)

func signalAmp(bitwidth int) float64 {
	return 0.95*float64(int(1)<<(bitwidth-1)) - 2
}

func signalOffset(bitwidth int, signed bool) float64 {
	if signed {
		return 0
	}
	return float64(int(1) << (bitwidth - 1))
}

func signalTime(fSig, fs float64, numPeriods int) []float64 {
	tEnd := float64(numPeriods) / fSig
	n := int(math.Round(tEnd * fs))
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / fs
	}
	return t
}

// Sinusoid generates numPeriods of a cosine at fSig sampled at fs.
func Sinusoid(fSig, fs float64, numPeriods, bitwidth int, signed bool) ([]float64, []int) {
	return kernelSignal(fSig, fs, numPeriods, bitwidth, signed, func(phase float64) float64 {
		return math.Cos(2 * math.Pi * phase)
	})
}

// Triangle generates a symmetric triangle wave, peak aligned with the
// sinusoid's.
func Triangle(fSig, fs float64, numPeriods, bitwidth int, signed bool) ([]float64, []int) {
	return kernelSignal(fSig, fs, numPeriods, bitwidth, signed, func(phase float64) float64 {
		p := phase - math.Floor(phase)
		if p < 0.5 {
			return 1 - 4*p
		}
		return 4*p - 3
	})
}

// Rectangle generates a square wave from the sign of the sinusoid kernel.
func Rectangle(fSig, fs float64, numPeriods, bitwidth int, signed bool) ([]float64, []int) {
	return kernelSignal(fSig, fs, numPeriods, bitwidth, signed, func(phase float64) float64 {
		if math.Cos(2*math.Pi*phase) >= 0 {
			return 1
		}
		return -1
	})
}

func kernelSignal(fSig, fs float64, numPeriods, bitwidth int, signed bool, kernel func(float64) float64) ([]float64, []int) {
	t := signalTime(fSig, fs, numPeriods)
	amp := signalAmp(bitwidth)
	offset := signalOffset(bitwidth, signed)

	x := make([]int, len(t))
	for i, ti := range t {
		x[i] = int(offset + amp*kernel(ti*fSig))
	}
	return t, x
}

// Noise generates zero-mean Gaussian noise with the given standard
// deviation, cast to the integer width matching the signal.
func Noise(n int, sigma float64, bitwidth int) []int {
	out := make([]int, n)
	for i := range out {
		v := int64(rand.NormFloat64() * sigma)
		switch {
		case bitwidth <= 8:
			out[i] = int(int8(v))
		case bitwidth <= 16:
			out[i] = int(int16(v))
		default:
			out[i] = int(int32(v))
		}
	}
	return out
}
