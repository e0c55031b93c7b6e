package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Split outgoing frame streams into bounded write bursts
 *		and reassemble returned bytes into frames.
 *
 *		The burst size limits per-call transport pressure only;
 *		it has no protocol meaning.
 *
 *------------------------------------------------------------------*/

import "fmt"

// DefaultBufferSize is the default outgoing burst size in bytes.
const DefaultBufferSize = 10

// DefaultPipelinePrefix is the number of stale response frames the device
// emits ahead of DUT-produced responses.  The MCU flavour of the gateware
// uses 2; see SessionOptions.
const DefaultPipelinePrefix = 3

// ChunkOutgoing splits b into contiguous slices of at most bufferSize bytes.
// The last slice may be shorter.  The slices alias b.
func ChunkOutgoing(b []byte, bufferSize int) ([][]byte, error) {
	if bufferSize <= 0 {
		return nil, fmt.Errorf("buffer size %d: %w", bufferSize, ErrOutOfRange)
	}
	chunks := make([][]byte, 0, (len(b)+bufferSize-1)/bufferSize)
	for len(b) > bufferSize {
		chunks = append(chunks, b[:bufferSize])
		b = b[bufferSize:]
	}
	if len(b) > 0 {
		chunks = append(chunks, b)
	}
	return chunks, nil
}

// SplitFrames cuts a received byte stream into 3-byte frames.  The input
// length must be a whole number of frames.
func SplitFrames(b []byte) ([][]byte, error) {
	if len(b)%FrameBytes != 0 {
		return nil, fmt.Errorf("%d bytes: %w", len(b), ErrFrameAlignment)
	}
	frames := make([][]byte, 0, len(b)/FrameBytes)
	for i := 0; i < len(b); i += FrameBytes {
		frames = append(frames, b[i:i+FrameBytes])
	}
	return frames, nil
}

// DropPrefix removes the first k frames, compensating the device pipeline
// latency.  Dropping more frames than exist yields an empty slice.
func DropPrefix(frames [][]byte, k int) [][]byte {
	if k >= len(frames) {
		return nil
	}
	return frames[k:]
}
