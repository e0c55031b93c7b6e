package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Pure frame-stream builders, one per skeleton calling
 *		convention, and the matching response cadences.
 *
 *		Builders return the byte stream a session can hand to
 *		Stream; the cadence helpers slice the responses that
 *		come back after the pipeline prefix is dropped.
 *
 *------------------------------------------------------------------*/

import "fmt"

// BuildStream prepares the streaming convention used by echo, filter and
// similar 1-in/1-out skeletons: write a sample to adr 0, run one cycle,
// repeat, then two trailing zero frames.
func BuildStream(samples []int, scale int, signed bool) ([]byte, error) {
	var out []byte
	run := mustFrame(RegCtrl, CtrlRun, 0, false)
	for _, v := range samples {
		wr, err := EncodeFrame(RegWrite, 0, v*scale, signed)
		if err != nil {
			return nil, err
		}
		out = append(out, wr...)
		out = append(out, run...)
	}
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	return out, nil
}

// StreamValues extracts one value per sample from a prefix-dropped response
// stream: the run response of each write/run pair carries the DUT output.
func StreamValues(frames [][]byte, numSamples int, signed bool) ([]int, error) {
	if len(frames) < 2*numSamples {
		return nil, fmt.Errorf("stream returned %d frames for %d samples: %w", len(frames), numSamples, ErrPipelineMismatch)
	}
	out := make([]int, numSamples)
	for i := 0; i < numSamples; i++ {
		v, err := DecodeFrameData(frames[2*i+1], signed)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// BuildCall prepares the calling convention used by the ROM sweep: one write
// to arm the skeleton, numRepeat run pulses, two trailing zero frames.
func BuildCall(numRepeat int) ([]byte, error) {
	var out []byte
	out = append(out, mustFrame(RegWrite, 0, 1, false)...)
	run := mustFrame(RegCtrl, CtrlRun, 1, false)
	for i := 0; i < numRepeat; i++ {
		out = append(out, run...)
	}
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	return out, nil
}

// CallValues extracts the numRepeat values a calling stream produced, one
// per run pulse, skipping the armed-write echo.
func CallValues(frames [][]byte, numRepeat int, signed bool) ([]int, error) {
	if len(frames) < numRepeat+1 {
		return nil, fmt.Errorf("call returned %d frames for %d pulses: %w", len(frames), numRepeat, ErrPipelineMismatch)
	}
	out := make([]int, numRepeat)
	for i := 0; i < numRepeat; i++ {
		v, err := DecodeFrameData(frames[1+i], signed)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// BuildMemoryWrite prepares one write frame per value at consecutive
// addresses starting at adrStart.
func BuildMemoryWrite(values []int, adrStart, scale int, signed bool) ([]byte, error) {
	var out []byte
	for i, v := range values {
		wr, err := EncodeFrame(RegWrite, adrStart+i, v*scale, signed)
		if err != nil {
			return nil, err
		}
		out = append(out, wr...)
	}
	return out, nil
}

// BuildMemoryRead prepares count read frames at consecutive addresses, plus
// one trailing zero frame.
func BuildMemoryRead(count, adrStart int) ([]byte, error) {
	var out []byte
	for i := 0; i < count; i++ {
		rd, err := EncodeFrame(RegRead, adrStart+i, 0, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rd...)
	}
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	return out, nil
}

// MemoryReadValues extracts the numReads read responses that follow the
// numWrites write echoes of a combined write-then-read stream.
func MemoryReadValues(frames [][]byte, numWrites, numReads int, signed bool) ([]int, error) {
	if len(frames) < numWrites+numReads {
		return nil, fmt.Errorf("memory stream returned %d frames for %d+%d ops: %w", len(frames), numWrites, numReads, ErrPipelineMismatch)
	}
	out := make([]int, numReads)
	for i := 0; i < numReads; i++ {
		v, err := DecodeFrameData(frames[numWrites+i], signed)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// arithmeticRepeats is the run/fetch pulse count per combination.
func arithmeticRepeats(slow bool) int {
	if slow {
		return 2
	}
	return 1
}

// BuildArithmetic prepares the arithmetic convention: per input combination
// one write per operand, then run pulses, then the same number of fetches.
// Slow pipelines take two of each.
func BuildArithmetic(combos [][]int, scale int, signed, slow bool) ([]byte, error) {
	repeats := arithmeticRepeats(slow)
	run := mustFrame(RegCtrl, CtrlRun, 0, false)
	fetch := mustFrame(RegCtrl, CtrlFetch, 0, false)

	var out []byte
	for _, combo := range combos {
		for adr, v := range combo {
			wr, err := EncodeFrame(RegWrite, adr, v*scale, signed)
			if err != nil {
				return nil, err
			}
			out = append(out, wr...)
		}
		for i := 0; i < repeats; i++ {
			out = append(out, run...)
		}
		for i := 0; i < repeats; i++ {
			out = append(out, fetch...)
		}
	}
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	out = append(out, mustFrame(RegCtrl, 0, 0, false)...)
	return out, nil
}

// ArithmeticValues extracts one output per combination: the response to the
// last fetch of each (numInputs + 2*repeats)-frame group.
func ArithmeticValues(frames [][]byte, numCombos, numInputs int, signed, slow bool) ([]int, error) {
	period := numInputs + 2*arithmeticRepeats(slow)
	if len(frames) < numCombos*period {
		return nil, fmt.Errorf("arithmetic returned %d frames for %d combos of period %d: %w",
			len(frames), numCombos, period, ErrPipelineMismatch)
	}
	out := make([]int, numCombos)
	for i := 0; i < numCombos; i++ {
		v, err := DecodeFrameData(frames[(i+1)*period-1], signed)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Creator register map: data ports start at adr 18, the commit pulse lives
// at adr 16.
const (
	creatorDataAdr   = 18
	creatorCommitAdr = 16
)

// BuildCreator prepares the creator/DNN convention: per block of numInputs
// samples, one write per port, a commit pulse (1 then 0 at adr 16, not
// link-scaled), then numOutputs reads.  Samples are always signed on this path.
func BuildCreator(samples []int, numInputs, numOutputs, scale int) ([]byte, error) {
	if numInputs <= 0 || len(samples)%numInputs != 0 {
		return nil, fmt.Errorf("%d samples for %d inputs: %w", len(samples), numInputs, ErrPipelineMismatch)
	}
	var out []byte
	for idx, v := range samples {
		wr, err := EncodeFrame(RegWrite, creatorDataAdr+idx%numInputs, v*scale, true)
		if err != nil {
			return nil, err
		}
		out = append(out, wr...)
		if idx%numInputs == numInputs-1 {
			out = append(out, mustFrame(RegWrite, creatorCommitAdr, 1, false)...)
			out = append(out, mustFrame(RegWrite, creatorCommitAdr, 0, false)...)
			for j := 0; j < numOutputs; j++ {
				rd, err := EncodeFrame(RegRead, creatorDataAdr+j, 0, false)
				if err != nil {
					return nil, err
				}
				out = append(out, rd...)
			}
		}
	}
	return out, nil
}

// CreatorValues extracts the per-block outputs: the last numOutputs frames
// of each (numInputs + 2 + numOutputs)-frame block.
func CreatorValues(frames [][]byte, numInputs, numOutputs int) ([][]int, error) {
	period := numInputs + 2 + numOutputs
	if len(frames)%period != 0 {
		return nil, fmt.Errorf("creator returned %d frames, period %d: %w", len(frames), period, ErrPipelineMismatch)
	}
	blocks := len(frames) / period
	out := make([][]int, blocks)
	for i := 0; i < blocks; i++ {
		vals := make([]int, numOutputs)
		for j := 0; j < numOutputs; j++ {
			v, err := DecodeFrameData(frames[i*period+numInputs+2+j], true)
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		out[i] = vals
	}
	return out, nil
}

// BuildSkeletonIDRead prepares the reads of the 16-byte skeleton identifier.
func BuildSkeletonIDRead(length int) ([]byte, error) {
	var out []byte
	for i := 0; i < length; i++ {
		rd, err := EncodeFrame(RegRead, i, 0, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rd...)
	}
	return out, nil
}

// SkeletonIDValues extracts the identifier bytes from the read responses.
func SkeletonIDValues(frames [][]byte, length, scale int) ([]byte, error) {
	if len(frames) < length {
		return nil, fmt.Errorf("skeleton id returned %d frames for %d reads: %w", len(frames), length, ErrPipelineMismatch)
	}
	id := make([]byte, length)
	for i := 0; i < length; i++ {
		v, err := DecodeFrameData(frames[i], false)
		if err != nil {
			return nil, err
		}
		id[i] = byte(v / scale)
	}
	return id, nil
}
