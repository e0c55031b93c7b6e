package fpgatest

import "errors"

// Error kinds surfaced by the protocol engine.  Components wrap these with
// fmt.Errorf("...: %w", Err...) so callers can match with errors.Is.
var (
	// ErrTransport covers open failures, short reads/writes and a link that
	// closed underneath us.  The core never retries on it.
	ErrTransport = errors.New("transport error")

	// ErrFrameAlignment is returned when a received byte stream is not a
	// whole number of 3-byte frames.
	ErrFrameAlignment = errors.New("frame alignment error")

	// ErrOutOfRange is returned when a (reg, adr, data) triple does not fit
	// the wire frame.
	ErrOutOfRange = errors.New("value out of range")

	// ErrHeaderInvalid is returned when a decoded header word carries
	// impossible field values.
	ErrHeaderInvalid = errors.New("invalid DUT header")

	// ErrUnsupportedDUT is returned when dispatch hits a DUT type that has
	// no experiment driver.
	ErrUnsupportedDUT = errors.New("unsupported DUT type")

	// ErrConfigSchema is returned when a persisted settings file does not
	// carry the same top-level keys as the built-in defaults.
	ErrConfigSchema = errors.New("config schema mismatch")

	// ErrPipelineMismatch is returned when the post-processing cadence does
	// not line up with the number of returned frames.
	ErrPipelineMismatch = errors.New("pipeline cadence mismatch")
)
