package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	In-memory model of the device side of the link.
 *
 *		Implements the Transport contract so the whole harness
 *		can run against it without hardware, and backs the
 *		dutsim binary which serves the same model on a pty.
 *
 *		Replies pass through a three-deep response pipeline
 *		(the pre-DUT registers); HEAD register replies are
 *		injected one slot deep.  That reproduces the device
 *		behaviour the session relies on: header reads discard
 *		two frames, data streams discard three.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"fmt"
)

// SimSkeleton models one accelerator behind the frame protocol.
type SimSkeleton struct {
	Header Header

	// Filter, when set, is applied per run cycle by a filter skeleton.
	// Nil passes samples through unchanged.
	Filter func(x float64) float64

	// Model drives a DNN skeleton together with Params.
	Model  InferenceModel
	Params FixedPoint

	// ROM contents (effective-width integers) for a ROM skeleton, and the
	// backing store of a RAM skeleton.
	Mem []int

	// SkeletonID is the 16-byte protocol image tag read via RD 0..15.
	SkeletonID [16]byte

	input  []int // input registers, wire domain
	output int   // output register, wire domain
	romIdx int
	dnnIn  []int // creator input registers, wire domain
	dnnOut []int // creator output registers, wire domain
}

// SimulatedDUT is a device carrying one or more skeletons.
type SimulatedDUT struct {
	skeletons []*SimSkeleton

	open     bool
	selected int
	led      bool
	rx       []byte   // partial incoming frame
	pipe     [][]byte // in-flight replies, always pipeDepth deep between frames
	pending  []byte   // replies produced but not yet read by the host
}

const pipeDepth = 3

// NewSimulatedDUT builds a device from the given skeletons.  The NumDUTs
// field of every header is fixed up to the device total.
func NewSimulatedDUT(skeletons ...*SimSkeleton) *SimulatedDUT {
	d := &SimulatedDUT{skeletons: skeletons}
	for _, sk := range skeletons {
		sk.Header.NumDUTs = len(skeletons) - 1
		sk.input = make([]int, 64)
		if sk.Header.DUTType == DUTDNN {
			sk.dnnIn = make([]int, sk.Header.NumInputs)
			sk.dnnOut = make([]int, sk.Header.NumOutputs)
		}
	}
	d.reset()
	return d
}

func (d *SimulatedDUT) reset() {
	d.selected = 0
	d.rx = nil
	d.pending = nil
	d.pipe = nil
	for i := 0; i < pipeDepth; i++ {
		d.pipe = append(d.pipe, make([]byte, FrameBytes))
	}
}

// Transport implementation.

func (d *SimulatedDUT) Open() error  { d.open = true; d.reset(); return nil }
func (d *SimulatedDUT) Close() error { d.open = false; return nil }
func (d *SimulatedDUT) IsOpen() bool { return d.open }

func (d *SimulatedDUT) Write(b []byte) error {
	if !d.open {
		return fmt.Errorf("simulated device not open: %w", ErrTransport)
	}
	d.pending = append(d.pending, d.Exchange(b)...)
	return nil
}

func (d *SimulatedDUT) WriteAndRead(b []byte) ([]byte, error) {
	if err := d.Write(b); err != nil {
		return nil, err
	}
	n := len(b)
	if n > len(d.pending) {
		return nil, fmt.Errorf("simulated device returned %d of %d bytes: %w", len(d.pending), n, ErrTransport)
	}
	out := make([]byte, n)
	copy(out, d.pending[:n])
	d.pending = d.pending[n:]
	return out, nil
}

func (d *SimulatedDUT) FlushInput() error {
	if !d.open {
		return fmt.Errorf("simulated device not open: %w", ErrTransport)
	}
	d.pending = nil
	return nil
}

// Exchange feeds raw link bytes to the device and returns the reply bytes it
// produces, one frame per complete incoming frame.  dutsim uses this to pump
// a pty; the Transport methods use it internally.
func (d *SimulatedDUT) Exchange(b []byte) []byte {
	d.rx = append(d.rx, b...)
	var out []byte
	for len(d.rx) >= FrameBytes {
		frame := d.rx[:FrameBytes]
		d.rx = d.rx[FrameBytes:]
		out = append(out, d.respond(frame)...)
	}
	return out
}

// respond pushes the reply for one frame through the response pipeline and
// pops the frame that leaves it.
func (d *SimulatedDUT) respond(frame []byte) []byte {
	reply := d.execute(frame)
	if FrameReg(frame) == RegHead {
		// The header register file sits ahead of the DUT pipeline.
		slot := [][]byte{reply}
		d.pipe = append(append(d.pipe[:1:1], slot...), d.pipe[1:]...)
	} else {
		d.pipe = append(d.pipe, reply)
	}
	out := d.pipe[0]
	d.pipe = d.pipe[1:]
	return out
}

func (d *SimulatedDUT) current() *SimSkeleton {
	if d.selected < 0 || d.selected >= len(d.skeletons) {
		return nil
	}
	return d.skeletons[d.selected]
}

func reply(frame []byte, data uint16) []byte {
	out := make([]byte, FrameBytes)
	out[0] = frame[0]
	binary.BigEndian.PutUint16(out[1:], data)
	return out
}

func (d *SimulatedDUT) execute(frame []byte) []byte {
	adr := FrameAdr(frame)
	data := binary.BigEndian.Uint16(frame[1:])
	sk := d.current()

	switch FrameReg(frame) {
	case RegCtrl:
		switch adr {
		case CtrlSelect:
			d.selected = int(data >> 1)
		case CtrlLED:
			d.led = data&1 == 1
		case CtrlLEDToggle:
			d.led = !d.led
		case CtrlRun:
			if sk != nil {
				sk.run()
				return reply(frame, uint16(sk.output))
			}
		case CtrlFetch:
			if sk != nil {
				return reply(frame, uint16(sk.output))
			}
		}
		return reply(frame, data)

	case RegWrite:
		if sk != nil {
			sk.write(adr, int(int16(data)))
		}
		return reply(frame, data)

	case RegRead:
		if sk != nil {
			return reply(frame, uint16(sk.read(adr)))
		}
		return reply(frame, 0)

	case RegHead:
		if sk == nil {
			return reply(frame, 0)
		}
		word := sk.Header.Word()
		if adr == 1 {
			return reply(frame, uint16(word>>16))
		}
		return reply(frame, uint16(word))
	}
	return reply(frame, data)
}

// Skeleton behaviour.  Values on the wire are link-scaled; the skeletons
// shift down to their effective width, operate, and shift back up.

func (sk *SimSkeleton) inShift() uint  { return uint(BitwidthData - sk.Header.BitwidthInput) }
func (sk *SimSkeleton) outShift() uint { return uint(BitwidthData - sk.Header.BitwidthOutput) }

func (sk *SimSkeleton) write(adr, wire int) {
	switch sk.Header.DUTType {
	case DUTRAM:
		if adr < len(sk.Mem) {
			sk.Mem[adr] = wire >> sk.inShift()
		}
	case DUTROM:
		sk.romIdx = 0
	case DUTDNN:
		switch {
		case adr >= 18 && adr-18 < len(sk.dnnIn):
			sk.dnnIn[adr-18] = wire >> sk.inShift()
		case adr == 16 && wire != 0:
			sk.commit()
		}
	default:
		if adr < len(sk.input) {
			sk.input[adr] = wire
		}
	}
}

func (sk *SimSkeleton) read(adr int) int {
	switch sk.Header.DUTType {
	case DUTRAM:
		if adr < len(sk.Mem) {
			return sk.Mem[adr] << sk.outShift()
		}
	case DUTDNN:
		if adr >= 18 && adr-18 < len(sk.dnnOut) {
			return sk.dnnOut[adr-18] << sk.outShift()
		}
		if adr < len(sk.SkeletonID) {
			return int(sk.SkeletonID[adr]) << sk.inShift()
		}
	}
	return sk.output
}

func (sk *SimSkeleton) run() {
	switch sk.Header.DUTType {
	case DUTEcho:
		sk.output = sk.input[0]
	case DUTFilter:
		x := float64(int16(sk.input[0]) >> sk.inShift())
		if sk.Filter != nil {
			x = sk.Filter(x)
		}
		sk.output = int(x) << sk.outShift()
	case DUTROM:
		if len(sk.Mem) > 0 {
			sk.output = sk.Mem[sk.romIdx] << sk.outShift()
			sk.romIdx = (sk.romIdx + 1) % len(sk.Mem)
		}
	case DUTMath:
		x := int(int16(sk.input[0])) >> sk.inShift()
		if sk.Header.NumInputs >= 2 {
			y := int(int16(sk.input[1])) >> sk.inShift()
			sk.output = (x * y) << sk.outShift()
		} else {
			sk.output = x << sk.outShift()
		}
	}
}

// commit runs the DNN model on the buffered inputs.
func (sk *SimSkeleton) commit() {
	if sk.Model == nil {
		return
	}
	in := make([]float64, len(sk.dnnIn))
	for i, v := range sk.dnnIn {
		in[i] = sk.Params.AsRational(v)
	}
	out := sk.Model.Infer(in)
	for j := range sk.dnnOut {
		if j < len(out) {
			sk.dnnOut[j] = sk.Params.AsInteger(out[j])
		}
	}
}
