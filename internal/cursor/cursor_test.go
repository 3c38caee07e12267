package cursor

import "testing"

func TestReadPrimitivesLE(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := New(data)

	b, err := c.ReadU8()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadU8: got %v, %v", b, err)
	}

	u16, err := c.ReadU16LE()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("ReadU16LE: got %#x, %v", u16, err)
	}

	u32, err := c.ReadU32LE()
	if err != nil || u32 != 0x07060504 {
		t.Fatalf("ReadU32LE: got %#x, %v", u32, err)
	}
}

func TestReadOutOfBounds(t *testing.T) {
	c := New([]byte{0x01, 0x02})
	if _, err := c.ReadU32LE(); err == nil {
		t.Fatalf("expected ErrOutOfBounds, got nil")
	}
}

func TestSeekAndSlice(t *testing.T) {
	c := New([]byte{0, 1, 2, 3, 4, 5})
	if err := c.Seek(3); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	b, err := c.ReadBytes(2)
	if err != nil || b[0] != 3 || b[1] != 4 {
		t.Fatalf("ReadBytes after seek: %v %v", b, err)
	}
	s, err := c.Slice(0, 2)
	if err != nil || s[0] != 0 || s[1] != 1 {
		t.Fatalf("Slice: %v %v", s, err)
	}
}

func TestReadFixedStringTrimsNUL(t *testing.T) {
	c := New([]byte{'h', 'i', 0, 0, 0})
	s, err := c.ReadFixedString(5)
	if err != nil || s != "hi" {
		t.Fatalf("ReadFixedString: got %q, %v", s, err)
	}
}
