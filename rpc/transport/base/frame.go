package base

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
)

// frameHeaderSize is the length prefix preceding every frame body.
const frameHeaderSize = 4

// ErrFrameTooLarge is returned when a declared frame length exceeds the
// configured limit. Since the stream offers no way to resynchronize after a
// bad length prefix, the connection must be closed.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ErrEmptyFrame is returned for a zero-length frame. A valid serialized
// message is never empty, so a zero prefix indicates a corrupted stream.
var ErrEmptyFrame = errors.New("zero-length frame")

// writeFrame writes a frame to the connection with the format:
// - 4 bytes: body length (uint32, big endian)
// - N bytes: body
func writeFrame(conn net.Conn, data []byte, maxSize int) error {
	if len(data) == 0 {
		return ErrEmptyFrame
	}
	if maxSize > 0 && len(data) > maxSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, len(data), maxSize)
	}

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads one frame from the connection using the provided buffer.
// If the buffer is too small, it will allocate a new temporary buffer for
// the body. Partial reads are accumulated until the full body declared by
// the length prefix has arrived.
func readFrame(r io.Reader, buf []byte, maxSize int) ([]byte, error) {
	// Check if buffer is large enough for the header
	if len(buf) < frameHeaderSize {
		buf = make([]byte, frameHeaderSize)
	}

	// Read header
	if _, err := io.ReadFull(r, buf[:frameHeaderSize]); err != nil {
		return nil, err
	}

	// Parse header
	contentLength := binary.BigEndian.Uint32(buf[:frameHeaderSize])

	if contentLength == 0 {
		return nil, ErrEmptyFrame
	}
	if maxSize > 0 && int(contentLength) > maxSize {
		return nil, fmt.Errorf("%w: declared %d > %d bytes", ErrFrameTooLarge, contentLength, maxSize)
	}

	// Check if buffer is large enough for the body
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	// Read body
	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		return nil, err
	}

	return buf[:contentLength], nil
}
