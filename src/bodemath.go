package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Gain and phase extraction from recorded in/out traces.
 *
 *		The delay between the two waveforms comes from the mean
 *		offset of their peaks; peaks closer than half a period
 *		are suppressed.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"sort"
)

// FindPeaks returns the indices of local maxima of x, keeping only peaks at
// least minDistance samples apart.  When two peaks compete, the taller one
// survives.  Indices come back in ascending order.
func FindPeaks(x []float64, minDistance int) []int {
	if minDistance < 1 {
		minDistance = 1
	}

	var peaks []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] >= x[i+1] {
			peaks = append(peaks, i)
		}
	}

	byHeight := make([]int, len(peaks))
	copy(byHeight, peaks)
	sort.Slice(byHeight, func(a, b int) bool { return x[byHeight[a]] > x[byHeight[b]] })

	kept := make(map[int]bool)
	for _, p := range byHeight {
		ok := true
		for q := range kept {
			if abs(p-q) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept[p] = true
		}
	}

	var out []int
	for _, p := range peaks {
		if kept[p] {
			out = append(out, p)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ExtractGainPhase compares an input trace with the trace that came back
// from the device at signal frequency fSig and sample rate fs.  The first
// startPeriod periods and the final period are cut off before measuring.
// Returns gain in dB and phase in degrees.
func ExtractGainPhase(fSig, fs float64, xin, xout []float64, startPeriod int) (float64, float64, error) {
	startLook := int(math.Round(float64(startPeriod)*fs/fSig)) - 1
	endLook := int(math.Round(fs/fSig)) - 1
	if startLook < 0 {
		startLook = 0
	}
	if startLook+endLook >= len(xin) || len(xin) != len(xout) {
		return 0, 0, fmt.Errorf("trace of %d samples too short for %d periods lead-in: %w",
			len(xin), startPeriod, ErrPipelineMismatch)
	}
	in := xin[startLook : len(xin)-endLook]
	out := xout[startLook : len(xout)-endLook]

	inMin, inMax := minMax(in)
	outMin, outMax := minMax(out)

	period := int(math.Round(0.5 * fs / fSig))
	pin := FindPeaks(in, period)
	pout := FindPeaks(out, period)

	var delay float64
	n := len(pin)
	if len(pout) < n {
		n = len(pout)
	}
	if n > 0 {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += float64(pin[i] - pout[i])
		}
		delay = sum / float64(n)
	}

	phase := 360 * delay * fSig / fs
	gain := 20 * math.Log10((outMax-outMin)/(inMax-inMin))
	return gain, phase, nil
}

func minMax(x []float64) (float64, float64) {
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
