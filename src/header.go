package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Decode the 32-bit DUT header word obtained from two
 *		successive HEAD reads (most significant half first).
 *
 *		bits 31..26  num_duts  (total on device, minus one)
 *		bits 25..22  dut_type
 *		bits 21..16  num_inputs
 *		bits 15..10  num_outputs
 *		bits  9.. 5  bitwidth_input
 *		bits  4.. 0  bitwidth_output
 *
 *------------------------------------------------------------------*/

import "fmt"

// DUTType enumerates the accelerator kinds a skeleton can wrap.
type DUTType int

const (
	DUTDisabled   DUTType = 0
	DUTEcho       DUTType = 1
	DUTROM        DUTType = 2
	DUTRAM        DUTType = 3
	DUTMath       DUTType = 4
	DUTFilter     DUTType = 5
	DUTWindowing  DUTType = 6 // reserved
	DUTDNN        DUTType = 7
	DUTEndToEnd   DUTType = 8 // reserved
)

func (t DUTType) String() string {
	switch t {
	case DUTDisabled:
		return "disabled"
	case DUTEcho:
		return "echo"
	case DUTROM:
		return "rom"
	case DUTRAM:
		return "ram"
	case DUTMath:
		return "math"
	case DUTFilter:
		return "filter"
	case DUTWindowing:
		return "windowing"
	case DUTDNN:
		return "dnn"
	case DUTEndToEnd:
		return "end-to-end"
	}
	return fmt.Sprintf("type%d", int(t))
}

// Header describes one DUT as read from the device.
type Header struct {
	NumDUTs        int // total DUTs on the device, minus one
	DUTType        DUTType
	NumInputs      int
	NumOutputs     int
	BitwidthInput  int
	BitwidthOutput int
}

// BitwidthData is the width of the data field on the wire.
const BitwidthData = 16

// DecodeHeaderWord unpacks a header word.  Bitwidths above the 16-bit data
// field are representable on the wire but impossible; they reject the word.
func DecodeHeaderWord(w uint32) (Header, error) {
	h := Header{
		NumDUTs:        int(w >> 26 & 0x3F),
		DUTType:        DUTType(w >> 22 & 0x0F),
		NumInputs:      int(w >> 16 & 0x3F),
		NumOutputs:     int(w >> 10 & 0x3F),
		BitwidthInput:  int(w >> 5 & 0x1F),
		BitwidthOutput: int(w & 0x1F),
	}
	if h.BitwidthInput > BitwidthData || h.BitwidthOutput > BitwidthData {
		return Header{}, fmt.Errorf("bitwidths %d/%d: %w", h.BitwidthInput, h.BitwidthOutput, ErrHeaderInvalid)
	}
	return h, nil
}

// Word packs the header back into its wire form.  Inverse of
// DecodeHeaderWord for valid headers.
func (h Header) Word() uint32 {
	return uint32(h.NumDUTs&0x3F)<<26 |
		uint32(h.DUTType&0x0F)<<22 |
		uint32(h.NumInputs&0x3F)<<16 |
		uint32(h.NumOutputs&0x3F)<<10 |
		uint32(h.BitwidthInput&0x1F)<<5 |
		uint32(h.BitwidthOutput&0x1F)
}

// LinkScale is the left shift applied to every data payload on the wire:
// 2^(16 - effective bitwidth).
func LinkScale(effectiveBits int) int {
	if effectiveBits <= 0 || effectiveBits > BitwidthData {
		return 1
	}
	return 1 << (BitwidthData - effectiveBits)
}
