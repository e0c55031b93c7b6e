package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	DNN experiment: verify the skeleton identifier, stream
 *		a quantized input sweep through the creator interface
 *		and compare every output vector against the software
 *		inference model.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"fmt"
	"time"
)

// DNNSettings is the persisted configuration of the DNN experiment.
type DNNSettings struct {
	NumSamplesInput  int   `yaml:"num_samples_input"`
	NumSamplesOutput int   `yaml:"num_samples_output"`
	ModelBitwidth    int   `yaml:"model_bitwidth"`
	ModelBitfrac     int   `yaml:"model_bitfrac"`
	SkeletonID       []int `yaml:"skeleton_id"`
}

// DefaultDNNSettings seeds a fresh settings file; layer sizes and the model
// bitwidth are overwritten from the DUT header before the file is created.
var DefaultDNNSettings = DNNSettings{
	NumSamplesInput:  5,
	NumSamplesOutput: 3,
	ModelBitwidth:    8,
	ModelBitfrac:     2,
	SkeletonID:       []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
}

func (s DNNSettings) skeletonID() []byte {
	out := make([]byte, len(s.SkeletonID))
	for i, v := range s.SkeletonID {
		out[i] = byte(v)
	}
	return out
}

// DNNResult is the archived outcome of one inference run.
type DNNResult struct {
	IDMatched bool
	Inputs    [][]float64
	Outputs   [][]float64
	Expected  [][]float64
	NumTrue   int
	NumFalse  int
	Duration  time.Duration
}

// RunDNN drives the creator skeleton with id on the device, judged against
// the given inference model.
func RunDNN(ctx *ExperimentContext, id int, model InferenceModel) (*DNNResult, error) {
	header, err := ctx.Session.GetHeader(id)
	if err != nil {
		return nil, err
	}

	defaults := DefaultDNNSettings
	if header.NumInputs > 0 {
		defaults.NumSamplesInput = header.NumInputs
	}
	if header.NumOutputs > 0 {
		defaults.NumSamplesOutput = header.NumOutputs
	}
	if header.BitwidthInput > 0 {
		defaults.ModelBitwidth = header.BitwidthInput
	}
	var settings DNNSettings
	if err := ctx.Config.Load(fmt.Sprintf("Config_Creator%03d", id), defaults, &settings); err != nil {
		return nil, err
	}

	params := FixedPoint{TotalBits: settings.ModelBitwidth, FracBits: settings.ModelBitfrac}
	scale := LinkScale(settings.ModelBitwidth)
	result := &DNNResult{}

	if err := ctx.Session.Select(id); err != nil {
		return nil, err
	}

	// Step 1: compare the skeleton identifier with the configured protocol
	// image.  A mismatch is logged and recorded; the sweep still runs.
	deviceID, err := readSkeletonID(ctx.Session, id, scale)
	if err != nil {
		return nil, err
	}
	result.IDMatched = bytes.Equal(deviceID, settings.skeletonID())
	if !result.IDMatched {
		Logger.Error("skeleton id mismatch", "dut", id,
			"device", fmt.Sprintf("%x", deviceID), "expected", fmt.Sprintf("%x", settings.skeletonID()))
	}

	// Step 2: inference sweep.
	inputs := GenerateModelInputs(settings.NumSamplesInput, params)
	result.Inputs = inputs

	var flat []int
	for _, row := range inputs {
		flat = append(flat, params.QuantizeBlock(row)...)
	}
	payload, err := BuildCreator(flat, settings.NumSamplesInput, settings.NumSamplesOutput, scale)
	if err != nil {
		return nil, err
	}

	raw, duration, err := timeStream(ctx.Session, payload)
	if err != nil {
		return nil, err
	}
	result.Duration = duration

	frames, err := ctx.Session.CollectFrames(raw)
	if err != nil {
		return nil, err
	}
	blocks, err := CreatorValues(frames, settings.NumSamplesInput, settings.NumSamplesOutput)
	if err != nil {
		return nil, err
	}
	if len(blocks) != len(inputs) {
		return nil, fmt.Errorf("%d output blocks for %d input rows: %w", len(blocks), len(inputs), ErrPipelineMismatch)
	}

	// Step 3: judge per row.
	for i, block := range blocks {
		out := make([]float64, len(block))
		for j, v := range block {
			out[j] = params.AsRational(v / scale)
		}
		expected := model.Infer(inputs[i])

		result.Outputs = append(result.Outputs, out)
		result.Expected = append(result.Expected, expected)
		if vectorsEqual(out, expected) {
			result.NumTrue++
		} else {
			result.NumFalse++
			Logger.Debug("inference row diverged", "dut", id, "row", i, "got", out, "expected", expected)
		}
	}

	dir, err := ctx.NewRunDir("dnn", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_dnn", result); err != nil {
		return nil, err
	}
	Logger.Info("dnn experiment done", "dut", id,
		"rows", len(inputs), "matched", result.NumTrue, "diverged", result.NumFalse, "took", duration)
	return result, nil
}

func readSkeletonID(s *Session, id, scale int) ([]byte, error) {
	payload, err := BuildSkeletonIDRead(16)
	if err != nil {
		return nil, err
	}
	raw, err := s.Stream(payload)
	if err != nil {
		return nil, err
	}
	frames, err := s.CollectFrames(raw)
	if err != nil {
		return nil, err
	}
	return SkeletonIDValues(frames, 16, scale)
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
