package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	The DUT session: owns the link, issues control frames,
 *		reads headers, streams frame payloads and keeps the
 *		selected-DUT state for the lifetime of the link.
 *
 *		The device answers every transmitted frame with exactly
 *		one response frame in order.  The first PipelinePrefix
 *		responses of a stream are stale pre-DUT register echoes,
 *		so Stream appends the same number of drain frames and
 *		CollectFrames drops the prefix.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
)

// SessionOptions tune a session away from the protocol defaults.
type SessionOptions struct {
	// BufferSize bounds each transport write burst in bytes.
	// Zero picks DefaultBufferSize.
	BufferSize int

	// PipelinePrefix is the stale-frame count of the target, 3 for the
	// FPGA gateware and 2 for the MCU flavour.  Zero picks the default.
	PipelinePrefix int
}

// Session drives one device over one transport.  Not safe for concurrent
// use; the harness is single-threaded by design.
type Session struct {
	tr             Transport
	bufferSize     int
	pipelinePrefix int

	selected int // last selected DUT id, -1 before any selection
	headers  map[int]Header
}

// NewSession wraps a transport.  The transport is not opened here.
func NewSession(tr Transport, opts SessionOptions) *Session {
	s := &Session{
		tr:             tr,
		bufferSize:     opts.BufferSize,
		pipelinePrefix: opts.PipelinePrefix,
		selected:       -1,
		headers:        make(map[int]Header),
	}
	if s.bufferSize <= 0 {
		s.bufferSize = DefaultBufferSize
	}
	if s.pipelinePrefix <= 0 {
		s.pipelinePrefix = DefaultPipelinePrefix
	}
	return s
}

func (s *Session) Open() error {
	if s.tr.IsOpen() {
		if err := s.tr.Close(); err != nil {
			return err
		}
	}
	s.selected = -1
	return s.tr.Open()
}

func (s *Session) Close() error {
	s.selected = -1
	return s.tr.Close()
}

func (s *Session) IsOpen() bool { return s.tr.IsOpen() }

// PipelinePrefix reports the stale-frame count this session compensates.
func (s *Session) PipelinePrefix() int { return s.pipelinePrefix }

// Selected reports the last selected DUT id, or -1.
func (s *Session) Selected() int { return s.selected }

func selectFrame(id int) []byte {
	return mustFrame(RegCtrl, CtrlSelect, id<<1, false)
}

// Select makes DUT id the target of subsequent WR/RD/run frames.  Selection
// is sticky for the session.
func (s *Session) Select(id int) error {
	if err := s.tr.Write(selectFrame(id)); err != nil {
		return err
	}
	s.selected = id
	return nil
}

// SetLED drives the board LED.  Fire-and-forget; the LED state lives on the
// device and is not cached here.
func (s *Session) SetLED(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return s.tr.Write(mustFrame(RegCtrl, CtrlLED, v, false))
}

// ToggleLED flips the board LED using the device-side toggle primitive.
func (s *Session) ToggleLED() error {
	return s.tr.Write(mustFrame(RegCtrl, CtrlLEDToggle, 0, false))
}

// Run triggers one cycle on the selected DUT and consumes the echoed frame.
func (s *Session) Run() error {
	_, err := s.tr.WriteAndRead(mustFrame(RegCtrl, CtrlRun, 0, false))
	return err
}

/*-------------------------------------------------------------------
 *
 * Name:	GetHeader
 *
 * Purpose:	Read the 32-bit header word of DUT id.
 *
 *		Protocol: flush input, then send select(id), HEAD adr=1,
 *		HEAD adr=0 and one dummy control frame in a single
 *		exchange.  Of the four responses the first two are
 *		discarded; the remaining two carry the word, most
 *		significant half first.
 *
 *		The word is stable while the link is open, so results
 *		are cached per session.
 *
 *---------------------------------------------------------------*/

func (s *Session) GetHeader(id int) (Header, error) {
	if h, ok := s.headers[id]; ok {
		return h, nil
	}

	if err := s.tr.FlushInput(); err != nil {
		return Header{}, err
	}

	var req []byte
	req = append(req, selectFrame(id)...)
	req = append(req, mustFrame(RegHead, 1, 0, false)...)
	req = append(req, mustFrame(RegHead, 0, 0, false)...)
	req = append(req, mustFrame(RegCtrl, 0, 0, false)...)

	resp, err := s.tr.WriteAndRead(req)
	if err != nil {
		return Header{}, err
	}
	s.selected = id

	frames, err := SplitFrames(resp)
	if err != nil {
		return Header{}, err
	}
	if len(frames) < 4 {
		return Header{}, fmt.Errorf("header read returned %d frames: %w", len(frames), ErrPipelineMismatch)
	}

	hi, _ := DecodeFrameData(frames[2], false)
	lo, _ := DecodeFrameData(frames[3], false)
	word := uint32(hi)<<16 | uint32(lo)

	h, err := DecodeHeaderWord(word)
	if err != nil {
		return Header{}, fmt.Errorf("DUT %d word %#08x: %w", id, word, err)
	}
	s.headers[id] = h
	Logger.Debug("read DUT header", "id", id, "type", h.DUTType, "word", fmt.Sprintf("%#08x", word))
	return h, nil
}

// Enumerate reads the headers of every DUT on the device.  Header 0 reports
// the device total.
func (s *Session) Enumerate() ([]Header, error) {
	h0, err := s.GetHeader(0)
	if err != nil {
		return nil, err
	}
	headers := []Header{h0}
	for id := 1; id <= h0.NumDUTs; id++ {
		h, err := s.GetHeader(id)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}

/*-------------------------------------------------------------------
 *
 * Name:	Stream
 *
 * Purpose:	Send a frame payload and collect the responses.
 *
 *		The payload is cut into bursts on frame boundaries so
 *		every write-and-read returns whole frames, each burst is
 *		exchanged in order, then PipelinePrefix dummy frames
 *		drain the tail of the device pipeline.  Returns the raw
 *		response concatenation; callers slice via CollectFrames.
 *
 *---------------------------------------------------------------*/

func (s *Session) Stream(payload []byte) ([]byte, error) {
	if len(payload)%FrameBytes != 0 {
		return nil, fmt.Errorf("payload %d bytes: %w", len(payload), ErrFrameAlignment)
	}
	if err := s.tr.FlushInput(); err != nil {
		return nil, err
	}

	burst := s.bufferSize - s.bufferSize%FrameBytes
	if burst < FrameBytes {
		burst = FrameBytes
	}
	chunks, err := ChunkOutgoing(payload, burst)
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, chunk := range chunks {
		resp, err := s.tr.WriteAndRead(chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, resp...)
	}

	drain := mustFrame(RegCtrl, 0, 0, false)
	for i := 0; i < s.pipelinePrefix; i++ {
		resp, err := s.tr.WriteAndRead(drain)
		if err != nil {
			return nil, err
		}
		out = append(out, resp...)
	}
	return out, nil
}

// CollectFrames splits a raw response stream into frames and drops the
// pipeline prefix.
func (s *Session) CollectFrames(raw []byte) ([][]byte, error) {
	frames, err := SplitFrames(raw)
	if err != nil {
		return nil, err
	}
	return DropPrefix(frames, s.pipelinePrefix), nil
}
