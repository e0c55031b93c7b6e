package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Bode experiment: sweep the filter skeleton across a
 *		logarithmic frequency range, extract gain and phase per
 *		point and put the reference filter design next to it.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"time"
)

// BodeSettings is the persisted configuration of the filter experiment.
type BodeSettings struct {
	SamplingRate        float64 `yaml:"sampling_rate"`
	FreqStart           float64 `yaml:"freq_start"`
	FreqStop            float64 `yaml:"freq_stop"`
	TotalSteps          int     `yaml:"total_steps"`
	NumIterationsPeriod int     `yaml:"num_iterations_period"`
	BitwidthFilter      int     `yaml:"bitwidth_filter"`
	SignedData          bool    `yaml:"signed_data"`

	RefFilterApply  bool      `yaml:"ref_filter_apply"`
	RefFilterOrder  int       `yaml:"ref_filter_order"`
	RefFilterIIR    bool      `yaml:"ref_filter_iir"`
	RefFilterCorner []float64 `yaml:"ref_filter_corner"`
	RefFilterFType  string    `yaml:"ref_filter_ftype"`
	RefFilterBType  string    `yaml:"ref_filter_btype"`
}

// DefaultBodeSettings seeds a fresh settings file; the bitwidth is
// overwritten from the DUT header before the file is created.
var DefaultBodeSettings = BodeSettings{
	SamplingRate:        2e3,
	FreqStart:           1e1,
	FreqStop:            1e3,
	TotalSteps:          11,
	NumIterationsPeriod: 10,
	BitwidthFilter:      16,
	SignedData:          true,
	RefFilterApply:      true,
	RefFilterOrder:      2,
	RefFilterIIR:        true,
	RefFilterCorner:     []float64{100},
	RefFilterFType:      "butter",
	RefFilterBType:      "low",
}

// SweepFrequencies spans [FreqStart, FreqStop] logarithmically.
func (s BodeSettings) SweepFrequencies() []float64 {
	out := make([]float64, s.TotalSteps)
	lo := math.Log10(s.FreqStart)
	hi := math.Log10(s.FreqStop)
	for i := range out {
		frac := 0.0
		if s.TotalSteps > 1 {
			frac = float64(i) / float64(s.TotalSteps-1)
		}
		out[i] = math.Pow(10, lo+(hi-lo)*frac)
	}
	return out
}

// ReferenceFilter designs the software filter the sweep is judged against.
func (s BodeSettings) ReferenceFilter() (*FilterStage, error) {
	btype, err := ParseFilterResponse(s.RefFilterBType)
	if err != nil {
		return nil, err
	}
	ftype, err := ParseFilterDesign(s.RefFilterFType)
	if err != nil {
		return nil, err
	}
	return NewFilterStage(FilterSpec{
		Order:      s.RefFilterOrder,
		SampleRate: s.SamplingRate,
		Corners:    s.RefFilterCorner,
		Response:   btype,
		Design:     ftype,
		IIR:        s.RefFilterIIR,
	})
}

// BodeResult is the archived outcome of one filter sweep.
type BodeResult struct {
	Frequencies []float64
	GainDUT     []float64 // dB
	PhaseDUT    []float64 // degrees
	GainRef     []float64 // dB
	PhaseRef    []float64 // degrees
	Duration    time.Duration
}

// RunBode drives the filter skeleton with id on the device.
func RunBode(ctx *ExperimentContext, id int) (*BodeResult, error) {
	header, err := ctx.Session.GetHeader(id)
	if err != nil {
		return nil, err
	}

	defaults := DefaultBodeSettings
	if header.BitwidthOutput > 0 {
		defaults.BitwidthFilter = header.BitwidthOutput
	}
	var settings BodeSettings
	if err := ctx.Config.Load(fmt.Sprintf("Config_Bode%03d", id), defaults, &settings); err != nil {
		return nil, err
	}

	freqs := settings.SweepFrequencies()
	result := &BodeResult{Frequencies: freqs}

	if settings.RefFilterApply {
		ref, err := settings.ReferenceFilter()
		if err != nil {
			return nil, err
		}
		gain, phase := ref.FreqResponse(freqs)
		result.GainRef = make([]float64, len(gain))
		for i, g := range gain {
			result.GainRef[i] = 20 * math.Log10(g)
		}
		result.PhaseRef = phase
	}

	scale := LinkScale(settings.BitwidthFilter)
	if err := ctx.Session.Select(id); err != nil {
		return nil, err
	}

	for _, fSig := range freqs {
		_, input := Sinusoid(fSig, settings.SamplingRate, settings.NumIterationsPeriod,
			settings.BitwidthFilter, settings.SignedData)

		payload, err := BuildStream(input, scale, settings.SignedData)
		if err != nil {
			return nil, err
		}
		raw, duration, err := timeStream(ctx.Session, payload)
		if err != nil {
			return nil, err
		}
		result.Duration += duration

		frames, err := ctx.Session.CollectFrames(raw)
		if err != nil {
			return nil, err
		}
		values, err := StreamValues(frames, len(input), settings.SignedData)
		if err != nil {
			return nil, err
		}

		xin := make([]float64, len(input))
		xout := make([]float64, len(input))
		for i := range input {
			xin[i] = float64(input[i])
			xout[i] = float64(values[i] / scale)
		}

		gain, phase, err := ExtractGainPhase(fSig, settings.SamplingRate, xin, xout, 3)
		if err != nil {
			return nil, err
		}
		result.GainDUT = append(result.GainDUT, gain)
		result.PhaseDUT = append(result.PhaseDUT, phase)
		Logger.Debug("bode point", "dut", id, "freq", fSig, "gain_db", gain, "phase_deg", phase)
	}

	dir, err := ctx.NewRunDir("bode", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_bode", result); err != nil {
		return nil, err
	}
	Logger.Info("bode experiment done", "dut", id, "points", len(freqs), "took", result.Duration)
	return result, nil
}
