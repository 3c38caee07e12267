// Package cursor provides a positioned byte reader over a borrowed slice,
// with little-endian primitives, bounded slicing, and seek. It never copies
// the underlying buffer; callers must not mutate the slice while a Cursor
// over it is in use.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned whenever a read would run past the end of the
// underlying buffer.
var ErrOutOfBounds = errors.New("cursor: read out of bounds")

// Cursor is a positioned reader over a byte slice.
type Cursor struct {
	data []byte
	pos  int
}

// New wraps data for positioned reading starting at offset 0.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves the cursor to an absolute offset. It is an error to seek past
// the end of the buffer; seeking exactly to len(data) is allowed (EOF).
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("%w: seek to %d, len %d", ErrOutOfBounds, offset, len(c.data))
	}
	c.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// Peek returns a borrowed slice of the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("%w: want %d bytes at %d, have %d", ErrOutOfBounds, n, c.pos, c.Remaining())
	}
	return c.data[c.pos : c.pos+n], nil
}

// ReadBytes returns a borrowed slice of the next n bytes and advances.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

// Slice returns a borrowed slice [from, to) of the underlying buffer,
// independent of the cursor's current position.
func (c *Cursor) Slice(from, to int) ([]byte, error) {
	if from < 0 || to < from || to > len(c.data) {
		return nil, fmt.Errorf("%w: slice [%d:%d), len %d", ErrOutOfBounds, from, to, len(c.data))
	}
	return c.data[from:to], nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64LE reads a little-endian uint64.
func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI16LE reads a little-endian signed int16.
func (c *Cursor) ReadI16LE() (int16, error) {
	v, err := c.ReadU16LE()
	return int16(v), err
}

// ReadI32LE reads a little-endian signed int32.
func (c *Cursor) ReadI32LE() (int32, error) {
	v, err := c.ReadU32LE()
	return int32(v), err
}

// ReadF32LE reads a little-endian IEEE-754 single precision float.
func (c *Cursor) ReadF32LE() (float32, error) {
	v, err := c.ReadU32LE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64LE reads a little-endian IEEE-754 double precision float.
func (c *Cursor) ReadF64LE() (float64, error) {
	v, err := c.ReadU64LE()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadFixedString reads n bytes and trims trailing NUL bytes, returning them
// as a string (DJI string fields are fixed-width, NUL-padded, ASCII/UTF-8).
func (c *Cursor) ReadFixedString(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), nil
}
