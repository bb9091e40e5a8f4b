package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestEncodeIsDeterministic checks spec.md §8: the encoder is a total
// function of its inputs.
func TestEncodeIsDeterministic(t *testing.T) {
	c := Command{Op: OpGazeTarget, X: 12, Y: 200}
	assert.Equal(t, Encode(c), Encode(c))
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, err := Decode([]byte{0xEE})
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestDecodeRejectsShortPacket(t *testing.T) {
	_, err := Decode([]byte{byte(OpGazeTarget), 0x10})
	require.ErrorIs(t, err, ErrShortPacket)
}

func TestDecodeRejectsEmptyPacket(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrShortPacket)
}

func TestSoundPlayFileRoundTrip(t *testing.T) {
	c := Command{Op: OpSoundPlayFile, Name: "laugh.wav"}
	got, err := Decode(Encode(c))
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestSoundPlayFileRequiresTerminator(t *testing.T) {
	buf := append([]byte{byte(OpSoundPlayFile)}, []byte("no-nul")...)
	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrShortPacket)
}

// TestBareOpcodesRoundTrip covers every zero-payload opcode.
func TestBareOpcodesRoundTrip(t *testing.T) {
	ops := []Opcode{
		OpControllerDetached, OpControllerAttached,
		OpAutoMovementOff, OpAutoMovementOn,
		OpAutoBlinkOff, OpAutoBlinkOn,
		OpAutoPupilOff, OpAutoPupilOn,
		OpLeftBlinkStart, OpLeftBlinkEnd,
		OpRightBlinkStart, OpRightBlinkEnd,
		OpBothBlinkStart, OpBothBlinkEnd,
		OpSoundPlayRandom, OpSoundStop,
	}
	for _, op := range ops {
		got, err := Decode(Encode(Command{Op: op}))
		require.NoError(t, err)
		assert.Equal(t, op, got.Op)
	}
}

// TestGazeTargetRoundTrip is a property test over arbitrary byte
// payloads.
func TestGazeTargetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := byte(rapid.IntRange(0, 255).Draw(t, "x"))
		y := byte(rapid.IntRange(0, 255).Draw(t, "y"))
		c := Command{Op: OpGazeTarget, X: x, Y: y}
		got, err := Decode(Encode(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})
}
