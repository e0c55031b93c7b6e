package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Thin contract over a byte-oriented full-duplex link,
 *		plus the serial implementation the harness normally
 *		runs on.
 *
 *		The core only ever sees the Transport interface; any
 *		byte-duplex stream honouring it will do.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jochenvg/go-udev"
	"github.com/pkg/term"
)

// Transport is the byte link the protocol engine drives.
type Transport interface {
	Open() error
	Close() error
	IsOpen() bool

	// Write sends bytes fire-and-forget.
	Write(b []byte) error

	// WriteAndRead sends len(b) bytes and reads the same number back.
	// The device echoes one response frame per transmitted frame, so the
	// byte counts match whenever b is frame-aligned.  A short read after
	// the inter-byte idle surfaces as ErrTransport.
	WriteAndRead(b []byte) ([]byte, error)

	// FlushInput drops pending received bytes, resyncing the link.
	FlushInput() error
}

// AutoPort makes SerialTransport probe for the first usable port instead of
// opening a fixed device name.
const AutoPort = "AUTOCOM"

// DefaultBaudRate matches the device UART: 115200, 8-N-1, no flow control.
const DefaultBaudRate = 115200

// DefaultReadTimeout is the inter-byte idle after which a pending read gives
// up.  Experiments with long pipelines must keep the device producing a byte
// within this window per frame.
const DefaultReadTimeout = 500 * time.Millisecond

// SerialTransport drives a serial device file.
type SerialTransport struct {
	Name        string        // device path, or AutoPort
	Baud        int           // 0 picks DefaultBaudRate
	ReadTimeout time.Duration // 0 picks DefaultReadTimeout

	t *term.Term
}

/*-------------------------------------------------------------------
 *
 * Name:	ScanPorts
 *
 * Purpose:	List candidate serial device paths.
 *
 *		Asks udev for tty class devices first, which yields only
 *		ports that actually exist, and falls back to a plain
 *		/dev glob when udev has nothing to say.
 *
 *---------------------------------------------------------------*/

func ScanPorts() []string {
	var ports []string

	u := udev.Udev{}
	e := u.NewEnumerate()
	if e != nil {
		e.AddMatchSubsystem("tty")
		if devices, err := e.Devices(); err == nil {
			for _, d := range devices {
				// Only ports with a bus behind them; bare ttyN
				// consoles never have the device on the end.
				if d.Devnode() != "" && d.PropertyValue("ID_BUS") != "" {
					ports = append(ports, d.Devnode())
				}
			}
		}
	}
	if len(ports) > 0 {
		return ports
	}

	for _, pattern := range []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*"} {
		matches, _ := filepath.Glob(pattern)
		ports = append(ports, matches...)
	}
	return ports
}

func (s *SerialTransport) baud() int {
	if s.Baud == 0 {
		return DefaultBaudRate
	}
	return s.Baud
}

func (s *SerialTransport) readTimeout() time.Duration {
	if s.ReadTimeout == 0 {
		return DefaultReadTimeout
	}
	return s.ReadTimeout
}

// Open opens the port, resolving AutoPort by probing the scan list.
func (s *SerialTransport) Open() error {
	if s.t != nil {
		s.Close()
	}

	candidates := []string{s.Name}
	if s.Name == AutoPort || s.Name == "" {
		candidates = ScanPorts()
		if len(candidates) == 0 {
			return fmt.Errorf("no serial ports found: %w", ErrTransport)
		}
	}

	var lastErr error
	for _, name := range candidates {
		t, err := term.Open(name, term.RawMode)
		if err != nil {
			lastErr = err
			continue
		}
		if err := t.SetSpeed(s.baud()); err != nil {
			t.Close()
			lastErr = err
			continue
		}
		t.SetReadTimeout(s.readTimeout())
		s.t = t
		s.Name = name
		Logger.Debug("serial port open", "port", name, "baud", s.baud())
		return nil
	}
	return fmt.Errorf("open serial port: %v: %w", lastErr, ErrTransport)
}

func (s *SerialTransport) Close() error {
	if s.t == nil {
		return nil
	}
	err := s.t.Close()
	s.t = nil
	if err != nil {
		return fmt.Errorf("close serial port: %v: %w", err, ErrTransport)
	}
	return nil
}

func (s *SerialTransport) IsOpen() bool {
	return s.t != nil
}

func (s *SerialTransport) Write(b []byte) error {
	if s.t == nil {
		return fmt.Errorf("port not open: %w", ErrTransport)
	}
	n, err := s.t.Write(b)
	if err != nil || n != len(b) {
		return fmt.Errorf("serial write %d/%d bytes: %v: %w", n, len(b), err, ErrTransport)
	}
	return nil
}

func (s *SerialTransport) WriteAndRead(b []byte) ([]byte, error) {
	if err := s.Write(b); err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	n, err := io.ReadFull(s.t, out)
	if err != nil {
		return nil, fmt.Errorf("serial read %d/%d bytes: %v: %w", n, len(b), err, ErrTransport)
	}
	return out, nil
}

func (s *SerialTransport) FlushInput() error {
	if s.t == nil {
		return fmt.Errorf("port not open: %w", ErrTransport)
	}
	if err := s.t.Flush(); err != nil {
		return fmt.Errorf("serial flush: %v: %w", err, ErrTransport)
	}
	return nil
}
