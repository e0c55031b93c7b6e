package main

/*------------------------------------------------------------------
 *
 * Purpose:	Serve a simulated device on a pseudo terminal so the
 *		harness can be exercised without hardware.
 *
 *		Prints the pty slave path; point fpgatest --port at it.
 *		The simulated device carries one skeleton of every
 *		supported kind.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"

	"github.com/creack/pty"
	"github.com/spf13/pflag"

	fpgatest "github.com/es-ude/elastic-ai.hw-measurements/src"
)

func main() {
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging")
	pflag.Parse()

	fpgatest.SetVerbose(*verbose)

	master, slave, err := pty.Open()
	if err != nil {
		fpgatest.Logger.Error("open pty", "err", err)
		os.Exit(1)
	}
	defer master.Close()
	defer slave.Close()

	device := defaultDevice()
	if err := device.Open(); err != nil {
		fpgatest.Logger.Error("open simulated device", "err", err)
		os.Exit(1)
	}

	fmt.Println(slave.Name())
	fpgatest.Logger.Info("simulated device ready", "pty", slave.Name())

	buf := make([]byte, 4096)
	for {
		n, err := master.Read(buf)
		if err != nil {
			if err != io.EOF {
				fpgatest.Logger.Error("pty read", "err", err)
			}
			return
		}
		resp := device.Exchange(buf[:n])
		if len(resp) == 0 {
			continue
		}
		if _, err := master.Write(resp); err != nil {
			fpgatest.Logger.Error("pty write", "err", err)
			return
		}
	}
}

// defaultDevice carries one skeleton of every supported kind, sized like the
// stock device image.
func defaultDevice() *fpgatest.SimulatedDUT {
	rom := make([]int, 32)
	for i := range rom {
		rom[i] = i * 3 % 32
	}

	params := fpgatest.FixedPoint{TotalBits: 8, FracBits: 2}

	dnn := &fpgatest.SimSkeleton{
		Header: fpgatest.Header{
			DUTType: fpgatest.DUTDNN, NumInputs: 5, NumOutputs: 3,
			BitwidthInput: 8, BitwidthOutput: 8,
		},
		Model:  fpgatest.NewBasicTestModel(5, 3, params),
		Params: params,
	}
	for i := range dnn.SkeletonID {
		dnn.SkeletonID[i] = byte(i)
	}

	return fpgatest.NewSimulatedDUT(
		&fpgatest.SimSkeleton{
			Header: fpgatest.Header{DUTType: fpgatest.DUTEcho, BitwidthInput: 16, BitwidthOutput: 16},
		},
		&fpgatest.SimSkeleton{
			Header: fpgatest.Header{DUTType: fpgatest.DUTROM, NumOutputs: 32, BitwidthInput: 16, BitwidthOutput: 16},
			Mem:    rom,
		},
		&fpgatest.SimSkeleton{
			Header: fpgatest.Header{DUTType: fpgatest.DUTRAM, NumOutputs: 32, BitwidthInput: 16, BitwidthOutput: 16},
			Mem:    make([]int, 64),
		},
		&fpgatest.SimSkeleton{
			Header: fpgatest.Header{DUTType: fpgatest.DUTMath, NumInputs: 2, BitwidthInput: 8, BitwidthOutput: 16},
		},
		&fpgatest.SimSkeleton{
			Header: fpgatest.Header{DUTType: fpgatest.DUTFilter, NumInputs: 1, NumOutputs: 1, BitwidthInput: 16, BitwidthOutput: 16},
		},
		dnn,
	)
}
