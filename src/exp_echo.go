package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Echo experiment: stream a sinusoid through the echo
 *		skeleton and report the mean absolute error between
 *		what went in and what came back.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"time"
)

// EchoSettings is the persisted configuration of the echo experiment.
type EchoSettings struct {
	SamplingRate float64 `yaml:"sampling_rate"`
	FreqSignal   float64 `yaml:"freq_signal"`
	NumPeriods   int     `yaml:"num_periods"`
	BitwidthData int     `yaml:"bitwidth_data"`
	SignedData   bool    `yaml:"signed_data"`
}

// DefaultEchoSettings seeds a fresh settings file.  The bitwidth is
// overwritten from the DUT header before the file is created.
var DefaultEchoSettings = EchoSettings{
	SamplingRate: 2e3,
	FreqSignal:   1e1,
	NumPeriods:   10,
	BitwidthData: 16,
	SignedData:   false,
}

// EchoResult is the archived outcome of one echo run.
type EchoResult struct {
	Input    []int
	Output   []int
	MAE      float64
	Duration time.Duration
}

// RunEcho drives the echo skeleton with id on the device.
func RunEcho(ctx *ExperimentContext, id int) (*EchoResult, error) {
	header, err := ctx.Session.GetHeader(id)
	if err != nil {
		return nil, err
	}

	defaults := DefaultEchoSettings
	if header.BitwidthOutput > 0 {
		defaults.BitwidthData = header.BitwidthOutput
	}
	var settings EchoSettings
	if err := ctx.Config.Load(fmt.Sprintf("Config_Echo%03d", id), defaults, &settings); err != nil {
		return nil, err
	}

	scale := LinkScale(settings.BitwidthData)
	_, input := Sinusoid(settings.FreqSignal, settings.SamplingRate, settings.NumPeriods,
		settings.BitwidthData, settings.SignedData)

	payload, err := BuildStream(input, scale, settings.SignedData)
	if err != nil {
		return nil, err
	}

	if err := ctx.Session.Select(id); err != nil {
		return nil, err
	}
	if err := ctx.Session.SetLED(true); err != nil {
		return nil, err
	}
	raw, duration, err := timeStream(ctx.Session, payload)
	if err != nil {
		return nil, err
	}
	if err := ctx.Session.SetLED(false); err != nil {
		return nil, err
	}

	frames, err := ctx.Session.CollectFrames(raw)
	if err != nil {
		return nil, err
	}
	values, err := StreamValues(frames, len(input), settings.SignedData)
	if err != nil {
		return nil, err
	}

	output := make([]int, len(values))
	sum := 0.0
	for i, v := range values {
		output[i] = v / scale
		sum += math.Abs(float64(output[i] - input[i]))
	}

	result := &EchoResult{
		Input:    input,
		Output:   output,
		MAE:      sum / float64(len(input)),
		Duration: duration,
	}

	dir, err := ctx.NewRunDir("echo", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_echo", result); err != nil {
		return nil, err
	}
	Logger.Info("echo experiment done", "dut", id, "samples", len(input), "mae", result.MAE, "took", duration)
	return result, nil
}
