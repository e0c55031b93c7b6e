package fpgatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDevice mirrors the stock device image: one skeleton of every
// supported kind.
func testDevice() *SimulatedDUT {
	rom := make([]int, 32)
	for i := range rom {
		rom[i] = i * 3 % 32
	}

	params := FixedPoint{TotalBits: 8, FracBits: 2}
	dnn := &SimSkeleton{
		Header: Header{
			DUTType: DUTDNN, NumInputs: 5, NumOutputs: 3,
			BitwidthInput: 8, BitwidthOutput: 8,
		},
		Model:  NewBasicTestModel(5, 3, params),
		Params: params,
	}
	for i := range dnn.SkeletonID {
		dnn.SkeletonID[i] = byte(i)
	}

	return NewSimulatedDUT(
		&SimSkeleton{Header: Header{DUTType: DUTEcho, BitwidthInput: 16, BitwidthOutput: 16}},
		&SimSkeleton{Header: Header{DUTType: DUTROM, NumOutputs: 32, BitwidthInput: 16, BitwidthOutput: 16}, Mem: rom},
		&SimSkeleton{Header: Header{DUTType: DUTRAM, NumOutputs: 32, BitwidthInput: 16, BitwidthOutput: 16}, Mem: make([]int, 64)},
		&SimSkeleton{Header: Header{DUTType: DUTMath, NumInputs: 2, BitwidthInput: 8, BitwidthOutput: 16}},
		&SimSkeleton{Header: Header{DUTType: DUTFilter, NumInputs: 1, NumOutputs: 1, BitwidthInput: 16, BitwidthOutput: 16}},
		dnn,
	)
}

func openTestSession(t *testing.T) (*Session, *SimulatedDUT) {
	t.Helper()
	device := testDevice()
	session := NewSession(device, SessionOptions{})
	require.NoError(t, session.Open())
	t.Cleanup(func() { session.Close() })
	return session, device
}

func TestSession_GetHeader(t *testing.T) {
	session, _ := openTestSession(t)

	h, err := session.GetHeader(1)

	require.NoError(t, err)
	assert.Equal(t, DUTROM, h.DUTType)
	assert.Equal(t, 5, h.NumDUTs)
	assert.Equal(t, 32, h.NumOutputs)
	assert.Equal(t, 16, h.BitwidthOutput)
	assert.Equal(t, 1, session.Selected())
}

func TestSession_Enumerate(t *testing.T) {
	session, _ := openTestSession(t)

	headers, err := session.Enumerate()

	require.NoError(t, err)
	require.Len(t, headers, 6)
	assert.Equal(t, DUTEcho, headers[0].DUTType)
	assert.Equal(t, DUTROM, headers[1].DUTType)
	assert.Equal(t, DUTRAM, headers[2].DUTType)
	assert.Equal(t, DUTMath, headers[3].DUTType)
	assert.Equal(t, DUTFilter, headers[4].DUTType)
	assert.Equal(t, DUTDNN, headers[5].DUTType)
}

func TestSession_HeaderIsCached(t *testing.T) {
	session, device := openTestSession(t)

	first, err := session.GetHeader(2)
	require.NoError(t, err)

	// Poison the link state; a cached read must not touch it.
	require.NoError(t, device.Close())
	second, err := session.GetHeader(2)

	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSession_SideBandControls(t *testing.T) {
	session, _ := openTestSession(t)

	require.NoError(t, session.Select(0))
	assert.Equal(t, 0, session.Selected())
	require.NoError(t, session.SetLED(true))
	require.NoError(t, session.ToggleLED())
	require.NoError(t, session.Run())
}

func TestSession_StreamEchoesEveryFrame(t *testing.T) {
	session, _ := openTestSession(t)
	require.NoError(t, session.Select(0))

	payload, err := BuildStream([]int{100, 200, 300}, 1, false)
	require.NoError(t, err)

	raw, err := session.Stream(payload)
	require.NoError(t, err)

	// One response per payload frame plus the drained prefix.
	assert.Len(t, raw, len(payload)+session.PipelinePrefix()*FrameBytes)

	frames, err := session.CollectFrames(raw)
	require.NoError(t, err)
	assert.Len(t, frames, len(payload)/FrameBytes)

	values, err := StreamValues(frames, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300}, values)
}

func TestSession_StreamRejectsRaggedPayload(t *testing.T) {
	session, _ := openTestSession(t)

	_, err := session.Stream([]byte{1, 2, 3, 4})

	assert.ErrorIs(t, err, ErrFrameAlignment)
}

func TestSerialTransport_OpenFailure(t *testing.T) {
	tr := &SerialTransport{Name: "/dev/does-not-exist-fpgatest"}

	err := tr.Open()

	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, tr.IsOpen())
	assert.ErrorIs(t, tr.Write([]byte{1}), ErrTransport)
	assert.ErrorIs(t, tr.FlushInput(), ErrTransport)
}
