package store

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// TestZstdRoundTrip exercises the same encode/decode pair PutSession and
// GetSession use, without requiring a live PostgreSQL connection.
func TestZstdRoundTrip(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	raw := bytes.Repeat([]byte("DJIF raw log bytes "), 512)

	compressed := enc.EncodeAll(raw, nil)
	if len(compressed) >= len(raw) {
		t.Fatalf("expected compression to shrink repetitive input: %d >= %d", len(compressed), len(raw))
	}

	decoded, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Fatalf("round trip mismatch")
	}
}
