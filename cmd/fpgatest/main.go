package main

/*------------------------------------------------------------------
 *
 * Purpose:	Run the embedded tests against the accelerators on an
 *		attached device.
 *
 *		Enumerates the skeletons behind the serial frame
 *		protocol, runs the experiment matching each one and
 *		archives the results.
 *
 * Usage:	fpgatest [--port /dev/ttyUSB0] [--duts 1,2] ...
 *
 *		Exit code 0 on success, 1 when any experiment failed,
 *		2 when the transport failed.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	fpgatest "github.com/es-ude/elastic-ai.hw-measurements/src"
)

func main() {
	var port = pflag.StringP("port", "p", fpgatest.AutoPort, "Serial port device, or AUTOCOM to probe")
	var baud = pflag.IntP("baud", "b", fpgatest.DefaultBaudRate, "Serial baud rate")
	var duts = pflag.IntSliceP("duts", "d", nil, "DUT ids to run (default: all on device)")
	var configDir = pflag.StringP("config-dir", "c", "config", "Directory holding the per-DUT settings files")
	var runsDir = pflag.StringP("runs-dir", "r", "runs", "Directory receiving the result archives (empty disables)")
	var bufferSize = pflag.Int("buffer-size", fpgatest.DefaultBufferSize, "Transport burst size in bytes")
	var mcu = pflag.Bool("mcu", false, "Target the MCU gateware flavour (pipeline prefix 2)")
	var printHeaders = pflag.Bool("print-headers", false, "Log the DUT table before dispatching")
	var ledBlink = pflag.Bool("led-blink", false, "Toggle the board LED once and exit")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging")
	var help = pflag.Bool("help", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - embedded test harness for the elastic-ai hardware skeletons.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	fpgatest.SetVerbose(*verbose)

	prefix := fpgatest.DefaultPipelinePrefix
	if *mcu {
		prefix = 2
	}

	transport := &fpgatest.SerialTransport{Name: *port, Baud: *baud}
	session := fpgatest.NewSession(transport, fpgatest.SessionOptions{
		BufferSize:     *bufferSize,
		PipelinePrefix: prefix,
	})

	if err := session.Open(); err != nil {
		fpgatest.Logger.Error("open link", "err", err)
		os.Exit(2)
	}
	defer session.Close()

	if *ledBlink {
		if err := session.ToggleLED(); err != nil {
			fpgatest.Logger.Error("toggle LED", "err", err)
			os.Exit(2)
		}
		return
	}

	ctx := &fpgatest.ExperimentContext{
		Session: session,
		Config:  fpgatest.ConfigStore{Dir: *configDir},
		RunsDir: *runsDir,
	}

	var selected []int
	if len(*duts) > 0 {
		selected = *duts
	}

	outcomes, err := fpgatest.RunEmbeddedTest(ctx, fpgatest.OrchestratorOptions{
		SelectedDUTs: selected,
		PrintHeaders: *printHeaders,
	})
	if err != nil {
		fpgatest.Logger.Error("enumerate device", "err", err)
		if errors.Is(err, fpgatest.ErrTransport) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		fpgatest.Logger.Error("run finished with failures", "failed", failed, "total", len(outcomes))
		os.Exit(1)
	}
	fpgatest.Logger.Info("run finished", "duts", len(outcomes))
}
