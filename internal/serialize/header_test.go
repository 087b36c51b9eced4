package serialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/levels"
)

func TestEncodeHeaderWireLayout(t *testing.T) {
	dst := make([]byte, HeaderSize)

	n, err := EncodeHeader(dst, 300, 10505, levels.Level5)
	require.NoError(t, err)
	require.Equal(t, HeaderSize, n)

	// The prefix is big-endian regardless of host byte order:
	// payload 300 = 0x0000012C, version 10505 = 0x2909 shifted left a
	// byte, level 5 in the low byte.
	require.Equal(t, []byte{0x00, 0x00, 0x01, 0x2C, 0x00, 0x29, 0x09, 0x05}, dst)
}

func TestHeaderRoundTrip(t *testing.T) {
	payload := make([]byte, 300)
	frame := make([]byte, HeaderSize+len(payload))

	_, err := EncodeHeader(frame, uint32(len(payload)), FormatVersion, levels.LevelFast30)
	require.NoError(t, err)
	copy(frame[HeaderSize:], payload)

	hdr, err := DecodeHeader(frame)
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), hdr.PayloadLen)
	require.Equal(t, FormatVersion, hdr.Version)
	require.Equal(t, levels.LevelFast30, hdr.Level)
}

func TestEncodeHeaderRejectsBadInput(t *testing.T) {
	dst := make([]byte, HeaderSize)

	_, err := EncodeHeader(make([]byte, HeaderSize-1), 10, FormatVersion, levels.Level3)
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)

	_, err = EncodeHeader(dst, 10, 1<<24, levels.Level3)
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)

	for _, l := range []levels.Level{levels.LevelInherit, levels.LevelDefault} {
		_, err = EncodeHeader(dst, 10, FormatVersion, l)
		require.ErrorIs(t, err, zerrors.ErrHeaderInvalid, "level %v", l)
	}
}

func TestDecodeHeaderRejectsShortFrames(t *testing.T) {
	_, err := DecodeHeader(nil)
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)

	_, err = DecodeHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)
}

func TestDecodeHeaderRejectsOverrunningPayload(t *testing.T) {
	frame := make([]byte, HeaderSize+10)
	_, err := EncodeHeader(frame, 10, FormatVersion, levels.Level1)
	require.NoError(t, err)

	// Claim one byte more than the frame holds.
	frame[3] = 11
	_, err = DecodeHeader(frame)
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)

	// Claim an absurd length, as a tampered frame would.
	frame[0] = 0xFF
	_, err = DecodeHeader(frame)
	require.ErrorIs(t, err, zerrors.ErrHeaderInvalid)
}

func TestDecodeHeaderRejectsUnknownLevelBytes(t *testing.T) {
	frame := make([]byte, HeaderSize+10)
	_, err := EncodeHeader(frame, 10, FormatVersion, levels.Level1)
	require.NoError(t, err)

	for _, b := range []byte{0, 20, 250, 255} {
		frame[7] = b
		_, err := DecodeHeader(frame)
		require.ErrorIs(t, err, zerrors.ErrHeaderInvalid, "level byte %d", b)
		require.ErrorIs(t, err, levels.ErrUnknownLevel, "level byte %d", b)
	}
}
