package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Arithmetic experiment: sweep the full input range of
 *		the math skeleton and compare against the software
 *		product (two inputs) or the plain echo (one input).
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"time"
)

// MathSettings is the persisted configuration of the arithmetic experiment.
type MathSettings struct {
	InputSize    int  `yaml:"input_size"`
	BitwidthData int  `yaml:"bitwidth_data"`
	StepSize     int  `yaml:"step_size"`
	SignedData   bool `yaml:"signed_data"`
	SlowPipeline bool `yaml:"slow_pipeline"`
}

// DefaultMathSettings seeds a fresh settings file; input count and bitwidth
// are overwritten from the DUT header before the file is created.
var DefaultMathSettings = MathSettings{
	InputSize:    2,
	BitwidthData: 8,
	StepSize:     8,
	SignedData:   true,
	SlowPipeline: false,
}

// SweepValues spans the full input range with 2^bw / StepSize evenly spaced
// values, both ends of the range included.
func (s MathSettings) SweepValues() []int {
	count := (1 << s.BitwidthData) / s.StepSize
	if count < 1 {
		count = 1
	}
	top := 1<<s.BitwidthData - 1
	out := make([]int, count)
	for i := range out {
		// Evenly spread across [0, 2^bw - 1], endpoint included.
		v := 0
		if count > 1 {
			v = int(math.Round(float64(i) * float64(top) / float64(count-1)))
		}
		if s.SignedData {
			v -= 1 << (s.BitwidthData - 1)
		}
		out[i] = v
	}
	return out
}

// MathResult is the archived outcome of one arithmetic run.
type MathResult struct {
	Inputs    [][]int
	Output    []int
	Reference []int
	MAE       float64
	Duration  time.Duration
}

// RunMath drives the math skeleton with id on the device.
func RunMath(ctx *ExperimentContext, id int) (*MathResult, error) {
	header, err := ctx.Session.GetHeader(id)
	if err != nil {
		return nil, err
	}

	defaults := DefaultMathSettings
	if header.NumInputs > 0 {
		defaults.InputSize = header.NumInputs
	}
	if header.BitwidthInput > 0 {
		defaults.BitwidthData = header.BitwidthInput
	}
	var settings MathSettings
	if err := ctx.Config.Load(fmt.Sprintf("Config_Math%03d", id), defaults, &settings); err != nil {
		return nil, err
	}

	sweep := settings.SweepValues()
	combos, reference := mathCombinations(sweep, settings.InputSize)
	if combos == nil {
		return nil, fmt.Errorf("math skeleton with %d inputs: %w", settings.InputSize, ErrUnsupportedDUT)
	}

	inScale := LinkScale(settings.BitwidthData)
	outScale := LinkScale(header.BitwidthOutput)

	payload, err := BuildArithmetic(combos, inScale, settings.SignedData, settings.SlowPipeline)
	if err != nil {
		return nil, err
	}

	if err := ctx.Session.Select(id); err != nil {
		return nil, err
	}
	raw, duration, err := timeStream(ctx.Session, payload)
	if err != nil {
		return nil, err
	}
	frames, err := ctx.Session.CollectFrames(raw)
	if err != nil {
		return nil, err
	}
	values, err := ArithmeticValues(frames, len(combos), settings.InputSize,
		settings.SignedData, settings.SlowPipeline)
	if err != nil {
		return nil, err
	}

	output := make([]int, len(values))
	sum := 0.0
	for i, v := range values {
		output[i] = v / outScale
		sum += math.Abs(float64(output[i] - reference[i]))
	}

	result := &MathResult{
		Inputs:    combos,
		Output:    output,
		Reference: reference,
		MAE:       sum / float64(len(reference)),
		Duration:  duration,
	}
	dir, err := ctx.NewRunDir("math", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_math", result); err != nil {
		return nil, err
	}
	Logger.Info("math experiment done", "dut", id, "combos", len(combos), "mae", result.MAE, "took", duration)
	return result, nil
}

// mathCombinations expands the sweep into per-call input tuples and the
// matching software reference: x*y for two inputs, x itself for one.
func mathCombinations(sweep []int, numInputs int) ([][]int, []int) {
	switch numInputs {
	case 1:
		combos := make([][]int, len(sweep))
		ref := make([]int, len(sweep))
		for i, x := range sweep {
			combos[i] = []int{x}
			ref[i] = x
		}
		return combos, ref
	case 2:
		combos := make([][]int, 0, len(sweep)*len(sweep))
		ref := make([]int, 0, len(sweep)*len(sweep))
		for _, x := range sweep {
			for _, y := range sweep {
				combos = append(combos, []int{x, y})
				ref = append(ref, x*y)
			}
		}
		return combos, ref
	}
	return nil, nil
}
