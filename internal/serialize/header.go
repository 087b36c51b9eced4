// Package serialize encodes and decodes the fixed frame prefix carried by
// every compressed block. The prefix is big-endian on disk regardless of
// host byte order:
//
//	byte 0..3 : u32 compressed payload length (bytes after the header)
//	byte 4..6 : u24 format version
//	byte 7    : u8  logical level
package serialize

import (
	"encoding/binary"
	"fmt"

	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/levels"
)

// HeaderSize is the fixed length of the frame prefix.
const HeaderSize = 8

// FormatVersion is the version stamped into newly written frames: the
// codec release encoded as major*10000 + minor*100 + patch. Versions are
// assigned monotonically; decode accepts frames from any release.
const FormatVersion uint32 = 10505

// maxVersion bounds the 24-bit version field.
const maxVersion = 1<<24 - 1

// Header is the decoded form of the frame prefix.
type Header struct {
	// PayloadLen is the compressed payload length, excluding the prefix.
	PayloadLen uint32

	// Version records the codec release that produced the frame.
	Version uint32

	// Level is the logical compression level the frame was written with.
	Level levels.Level
}

// EncodeHeader writes the prefix for a payload of payloadLen bytes into
// dst[0:8] and returns HeaderSize. The destination must hold at least
// HeaderSize bytes and the level must be a concrete stored level.
func EncodeHeader(dst []byte, payloadLen uint32, version uint32, level levels.Level) (int, error) {
	if len(dst) < HeaderSize {
		return 0, fmt.Errorf("%w: destination holds %d bytes", zerrors.ErrHeaderInvalid, len(dst))
	}
	if version > maxVersion {
		return 0, fmt.Errorf("%w: version %d exceeds 24 bits", zerrors.ErrHeaderInvalid, version)
	}
	if !level.Concrete() {
		return 0, fmt.Errorf("%w: level %d is not storable", zerrors.ErrHeaderInvalid, uint8(level))
	}

	binary.BigEndian.PutUint32(dst[0:4], payloadLen)
	binary.BigEndian.PutUint32(dst[4:8], version<<8|uint32(level))
	return HeaderSize, nil
}

// DecodeHeader reads and validates the prefix of a complete frame. The
// whole frame must be presented: a payload length that overruns src is
// rejected here, before any codec work.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("%w: frame holds %d bytes", zerrors.ErrHeaderInvalid, len(src))
	}

	payloadLen := binary.BigEndian.Uint32(src[0:4])
	rawVersionLevel := binary.BigEndian.Uint32(src[4:8])

	hdr := Header{
		PayloadLen: payloadLen,
		Version:    rawVersionLevel >> 8,
		Level:      levels.Level(rawVersionLevel & 0xff),
	}

	if uint64(payloadLen)+HeaderSize > uint64(len(src)) {
		return Header{}, fmt.Errorf(
			"%w: payload length %d overruns %d byte frame", zerrors.ErrHeaderInvalid, payloadLen, len(src),
		)
	}
	if !hdr.Level.Concrete() {
		return Header{}, fmt.Errorf(
			"%w: %w: level byte %d", zerrors.ErrHeaderInvalid, levels.ErrUnknownLevel, uint8(hdr.Level),
		)
	}

	return hdr, nil
}
