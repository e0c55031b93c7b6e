package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Enumerate the DUTs on the device and dispatch each
 *		selected one to its experiment driver.
 *
 *		One failing DUT does not end the run; outcomes are
 *		aggregated and reported together.
 *
 *------------------------------------------------------------------*/

import "fmt"

// OrchestratorOptions steer one embedded-test run.
type OrchestratorOptions struct {
	// SelectedDUTs lists the DUT ids to run; nil runs everything the
	// device advertises.
	SelectedDUTs []int

	// PrintHeaders logs the device table before dispatching.
	PrintHeaders bool

	// Model backs the DNN driver.  Nil falls back to the stock test
	// network sized from the DUT header.
	Model InferenceModel
}

// DUTOutcome is the per-DUT verdict of a run.
type DUTOutcome struct {
	ID   int
	Type DUTType
	Err  error
}

// RunEmbeddedTest enumerates the device and runs the experiment matching
// each selected DUT.  The returned error covers enumeration only; per-DUT
// failures land in the outcomes.
func RunEmbeddedTest(ctx *ExperimentContext, opts OrchestratorOptions) ([]DUTOutcome, error) {
	headers, err := ctx.Session.Enumerate()
	if err != nil {
		return nil, err
	}

	if opts.PrintHeaders {
		Logger.Info("available DUTs on target", "count", len(headers))
		for id, h := range headers {
			Logger.Info("dut", "id", id, "type", h.DUTType,
				"inputs", h.NumInputs, "outputs", h.NumOutputs,
				"bw_in", h.BitwidthInput, "bw_out", h.BitwidthOutput)
		}
	}

	selected := opts.SelectedDUTs
	if selected == nil {
		selected = make([]int, len(headers))
		for id := range headers {
			selected[id] = id
		}
	}

	var outcomes []DUTOutcome
	for _, id := range selected {
		if id < 0 || id >= len(headers) {
			outcomes = append(outcomes, DUTOutcome{ID: id, Err: fmt.Errorf("DUT %d not on device: %w", id, ErrUnsupportedDUT)})
			continue
		}
		h := headers[id]
		outcome := DUTOutcome{ID: id, Type: h.DUTType}
		outcome.Err = dispatch(ctx, id, h, opts)
		if outcome.Err != nil {
			Logger.Error("experiment failed", "dut", id, "type", h.DUTType, "err", outcome.Err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func dispatch(ctx *ExperimentContext, id int, h Header, opts OrchestratorOptions) error {
	switch h.DUTType {
	case DUTEcho:
		_, err := RunEcho(ctx, id)
		return err
	case DUTROM:
		_, err := RunROM(ctx, id)
		return err
	case DUTRAM:
		_, err := RunRAM(ctx, id)
		return err
	case DUTMath:
		_, err := RunMath(ctx, id)
		return err
	case DUTFilter:
		_, err := RunBode(ctx, id)
		return err
	case DUTDNN:
		model := opts.Model
		if model == nil {
			model = NewBasicTestModel(h.NumInputs, h.NumOutputs,
				FixedPoint{TotalBits: h.BitwidthInput, FracBits: 2})
		}
		_, err := RunDNN(ctx, id, model)
		return err
	case DUTDisabled:
		return fmt.Errorf("DUT %d is the disable slot, nothing to test: %w", id, ErrUnsupportedDUT)
	case DUTWindowing, DUTEndToEnd:
		return fmt.Errorf("DUT type %s not implemented: %w", h.DUTType, ErrUnsupportedDUT)
	}
	return fmt.Errorf("DUT type %d outside the protocol table: %w", int(h.DUTType), ErrUnsupportedDUT)
}
