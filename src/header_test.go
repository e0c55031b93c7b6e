package fpgatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeHeaderWord_MaskSet(t *testing.T) {
	h, err := DecodeHeaderWord(0x0C400421)

	require.NoError(t, err)
	assert.Equal(t, 3, h.NumDUTs)
	assert.Equal(t, DUTEcho, h.DUTType)
	assert.Equal(t, 0, h.NumInputs)
	assert.Equal(t, 1, h.NumOutputs)
	assert.Equal(t, 1, h.BitwidthInput)
	assert.Equal(t, 1, h.BitwidthOutput)
}

func TestHeaderWord_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var h = Header{
			NumDUTs:        rapid.IntRange(0, 63).Draw(t, "numDuts"),
			DUTType:        DUTType(rapid.IntRange(0, 15).Draw(t, "dutType")),
			NumInputs:      rapid.IntRange(0, 63).Draw(t, "numInputs"),
			NumOutputs:     rapid.IntRange(0, 63).Draw(t, "numOutputs"),
			BitwidthInput:  rapid.IntRange(0, 16).Draw(t, "bwIn"),
			BitwidthOutput: rapid.IntRange(0, 16).Draw(t, "bwOut"),
		}

		got, err := DecodeHeaderWord(h.Word())

		require.NoError(t, err)
		assert.Equal(t, h, got)
	})
}

func TestDecodeHeaderWord_ImpossibleBitwidth(t *testing.T) {
	h := Header{BitwidthInput: 17, BitwidthOutput: 8}

	_, err := DecodeHeaderWord(h.Word())

	assert.ErrorIs(t, err, ErrHeaderInvalid)
}

func TestLinkScale(t *testing.T) {
	assert.Equal(t, 1, LinkScale(16))
	assert.Equal(t, 256, LinkScale(8))
	assert.Equal(t, 1<<15, LinkScale(1))
	assert.Equal(t, 1, LinkScale(0))
}
