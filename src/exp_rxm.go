package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	ROM/LUT and RAM experiments.
 *
 *		ROM: arm the skeleton once and pulse it through its
 *		whole address space repeatedly; the captured sequence is
 *		the result.
 *
 *		RAM: write a random block, read it back, expect equality
 *		at every index.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RxMSettings is the persisted configuration shared by the ROM and RAM
// experiments.
type RxMSettings struct {
	NumRepetitions int  `yaml:"num_repetitions"`
	BitwidthMem    int  `yaml:"bitwidth_mem"`
	AdrwidthMem    int  `yaml:"adrwidth_mem"`
	SignedMem      bool `yaml:"signed_mem"`
}

// DefaultRxMSettings seeds a fresh settings file; bit and address widths are
// overwritten from the DUT header before the file is created.
var DefaultRxMSettings = RxMSettings{
	NumRepetitions: 10,
	BitwidthMem:    16,
	AdrwidthMem:    5,
	SignedMem:      false,
}

// NumCycles is the run-pulse count of a full ROM sweep.
func (s RxMSettings) NumCycles() int {
	return s.NumRepetitions * (1 << s.AdrwidthMem)
}

// ROMResult is the archived outcome of one ROM run.
type ROMResult struct {
	Output   []int
	Duration time.Duration
}

// RAMResult is the archived outcome of one RAM run.
type RAMResult struct {
	Input      []int
	Output     []int
	Mismatches int
	Duration   time.Duration
}

func loadRxMSettings(ctx *ExperimentContext, id int, kind string) (RxMSettings, Header, int, error) {
	header, err := ctx.Session.GetHeader(id)
	if err != nil {
		return RxMSettings{}, Header{}, 0, err
	}

	defaults := DefaultRxMSettings
	if header.BitwidthOutput > 0 {
		defaults.BitwidthMem = header.BitwidthOutput
	}
	if header.NumOutputs > 0 {
		defaults.AdrwidthMem = int(math.Ceil(math.Log2(float64(header.NumOutputs))))
	}

	var settings RxMSettings
	err = ctx.Config.Load(fmt.Sprintf("Config_%s%03d", kind, id), defaults, &settings)
	if err != nil {
		return RxMSettings{}, Header{}, 0, err
	}
	return settings, header, LinkScale(settings.BitwidthMem), nil
}

// RunROM drives the ROM skeleton with id on the device.
func RunROM(ctx *ExperimentContext, id int) (*ROMResult, error) {
	settings, _, scale, err := loadRxMSettings(ctx, id, "ROM")
	if err != nil {
		return nil, err
	}

	cycles := settings.NumCycles()
	payload, err := BuildCall(cycles)
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
	values, err := CallValues(frames, cycles, settings.SignedMem)
	if err != nil {
		return nil, err
	}

	output := make([]int, len(values))
	for i, v := range values {
		output[i] = v / scale
	}

	result := &ROMResult{Output: output, Duration: duration}
	dir, err := ctx.NewRunDir("rom", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_rom", result); err != nil {
		return nil, err
	}
	Logger.Info("rom experiment done", "dut", id, "cycles", cycles, "took", duration)
	return result, nil
}

// RunRAM drives the RAM skeleton with id on the device.
func RunRAM(ctx *ExperimentContext, id int) (*RAMResult, error) {
	settings, _, scale, err := loadRxMSettings(ctx, id, "RAM")
	if err != nil {
		return nil, err
	}

	size := 1<<settings.AdrwidthMem - 1
	low, high := memValueRange(settings)
	block := make([]int, size)
	for i := range block {
		block[i] = low + rand.Intn(high-low)
	}

	writes, err := BuildMemoryWrite(block, 0, scale, settings.SignedMem)
	if err != nil {
		return nil, err
	}
	reads, err := BuildMemoryRead(size, 0)
	if err != nil {
		return nil, err
	}
	payload := append(writes, reads...)

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
	values, err := MemoryReadValues(frames, size, size, settings.SignedMem)
	if err != nil {
		return nil, err
	}

	output := make([]int, len(values))
	mismatches := 0
	for i, v := range values {
		output[i] = v / scale
		if output[i] != block[i] {
			mismatches++
		}
	}

	result := &RAMResult{
		Input:      block,
		Output:     output,
		Mismatches: mismatches,
		Duration:   duration,
	}
	dir, err := ctx.NewRunDir("ram", id)
	if err != nil {
		return nil, err
	}
	if err := SaveResults(dir, "results_ram", result); err != nil {
		return nil, err
	}
	if mismatches > 0 {
		Logger.Error("ram readback diverged", "dut", id, "mismatches", mismatches, "size", size)
	} else {
		Logger.Info("ram experiment done", "dut", id, "size", size, "took", duration)
	}
	return result, nil
}

func memValueRange(s RxMSettings) (int, int) {
	if s.SignedMem {
		return -(1 << (s.BitwidthMem - 1)), 1 << (s.BitwidthMem - 1)
	}
	return 0, 1 << s.BitwidthMem
}
