package fpgatest

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the package logger.  Binaries may swap it or raise the level;
// the default keeps quiet below Info.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "fpgatest",
	ReportTimestamp: true,
})

// SetVerbose raises the package logger to debug output.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(log.DebugLevel)
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}
