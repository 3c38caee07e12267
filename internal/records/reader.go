package records

import (
	"encoding/binary"
	"math"
)

// reader is a forgiving byte reader used by variant decoders: once the
// body is exhausted, every further read returns the zero value and sets
// truncated, instead of erroring. This lets each decoder be written as a
// straight-line sequence of reads regardless of how short a real-world
// body turns out to be.
type reader struct {
	data      []byte
	pos       int
	truncated bool
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) take(n int) []byte {
	if r.pos+n > len(r.data) {
		r.truncated = true
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i16() int16 { return int16(r.u16()) }
func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *reader) bytes(n int) []byte {
	b := r.take(n)
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *reader) bool8() bool {
	return r.u8() != 0
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
