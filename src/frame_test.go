package fpgatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeFrame_Unsigned(t *testing.T) {
	frame, err := EncodeFrame(RegWrite, 0, 0x0100, false)

	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x01, 0x00}, frame)
}

func TestEncodeFrame_Negative(t *testing.T) {
	frame, err := EncodeFrame(RegCtrl, 1, -1, true)

	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xFF, 0xFF}, frame)
}

func TestEncodeFrame_HeaderByte(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var reg = rapid.IntRange(0, 3).Draw(t, "reg")
		var adr = rapid.IntRange(0, 63).Draw(t, "adr")

		frame, err := EncodeFrame(Register(reg), adr, 0, false)

		require.NoError(t, err)
		assert.Equal(t, byte(reg<<6|adr), frame[0])
		assert.Equal(t, Register(reg), FrameReg(frame))
		assert.Equal(t, adr, FrameAdr(frame))
	})
}

func TestFrameRoundTrip_Signed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var reg = rapid.IntRange(0, 3).Draw(t, "reg")
		var adr = rapid.IntRange(0, 63).Draw(t, "adr")
		var data = int(rapid.Int16().Draw(t, "data"))

		frame, err := EncodeFrame(Register(reg), adr, data, true)
		require.NoError(t, err)

		got, err := DecodeFrameData(frame, true)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})
}

func TestFrameRoundTrip_Unsigned(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var data = int(rapid.Uint16().Draw(t, "data"))

		frame, err := EncodeFrame(RegRead, 5, data, false)
		require.NoError(t, err)

		got, err := DecodeFrameData(frame, false)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})
}

func TestEncodeFrame_OutOfRange(t *testing.T) {
	var cases = []struct {
		name   string
		reg    Register
		adr    int
		data   int
		signed bool
	}{
		{"reg too large", 4, 0, 0, false},
		{"adr too large", RegCtrl, 64, 0, false},
		{"adr negative", RegCtrl, -1, 0, false},
		{"unsigned negative", RegWrite, 0, -1, false},
		{"unsigned too large", RegWrite, 0, 0x10000, false},
		{"signed too large", RegWrite, 0, 0x8000, true},
		{"signed too small", RegWrite, 0, -0x8001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeFrame(tc.reg, tc.adr, tc.data, tc.signed)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestDecodeFrameData_WrongLength(t *testing.T) {
	_, err := DecodeFrameData([]byte{0x00, 0x01}, false)
	assert.ErrorIs(t, err, ErrFrameAlignment)
}
