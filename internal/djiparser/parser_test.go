package djiparser

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"djilog/internal/records"
)

func le(order binary.ByteOrder, v interface{}) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, order, v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func buildOSDBody(ticks uint32, lat, lon float64, gpsValid bool, gpsNum uint8, gpsUTC uint32) []byte {
	var b []byte
	b = append(b, le(binary.LittleEndian, ticks)...)
	b = append(b, le(binary.LittleEndian, math.Float64bits(lat*math.Pi/180))...)
	b = append(b, le(binary.LittleEndian, math.Float64bits(lon*math.Pi/180))...)
	b = append(b, le(binary.LittleEndian, math.Float32bits(10))...) // height
	b = append(b, le(binary.LittleEndian, math.Float32bits(10))...) // vps
	b = append(b, le(binary.LittleEndian, math.Float32bits(10))...) // alt
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // xspeed
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // yspeed
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // zspeed
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // pitch
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // roll
	b = append(b, le(binary.LittleEndian, math.Float32bits(0))...) // yaw
	b = append(b, 3) // flyc state
	flags := byte(0)
	if gpsValid {
		flags |= 0x01
	}
	flags |= 8 << 1
	b = append(b, flags)
	b = append(b, gpsNum)
	b = append(b, le(binary.LittleEndian, gpsUTC)...)
	return b
}

func frameRecord(typ int, body []byte) []byte {
	out := []byte{byte(typ), byte(len(body))}
	out = append(out, body...)
	out = append(out, 0xFF)
	return out
}

func buildV6Log(t *testing.T) []byte {
	t.Helper()
	var recordsArea []byte
	recordsArea = append(recordsArea, frameRecord(1, buildOSDBody(0, 10, 20, true, 6, 1_700_000_000))...)
	recordsArea = append(recordsArea, frameRecord(2, []byte{})...) // Home, empty -> truncated but harmless
	recordsArea = append(recordsArea, frameRecord(1, buildOSDBody(100, 10, 20.001, true, 6, 1_700_000_000))...)
	recordsArea = append(recordsArea, frameRecord(50, nil)...) // End

	var details bytes.Buffer
	details.WriteString(padStr("SNTEST", 16))
	details.WriteString(padStr("CAMTEST", 16))
	details.WriteByte(6)
	details.Write(le(binary.LittleEndian, uint32(1_700_000_000)))
	details.Write(le(binary.LittleEndian, uint32(1000)))
	details.Write(le(binary.LittleEndian, math.Float32bits(100)))
	details.Write(le(binary.LittleEndian, math.Float32bits(10)))
	details.Write(le(binary.LittleEndian, math.Float32bits(5)))
	details.Write(le(binary.LittleEndian, math.Float32bits(500)))
	details.Write(le(binary.LittleEndian, math.Float32bits(2)))
	details.WriteByte(0)
	details.WriteByte(0)
	details.Write(le(binary.LittleEndian, uint16(0)))
	details.Write(le(binary.LittleEndian, uint16(0)))

	const prefixSize = 43
	detailsOffset := uint64(prefixSize)
	recordsOffset := detailsOffset + uint64(details.Len())
	recordsEnd := recordsOffset + uint64(len(recordsArea))

	var buf bytes.Buffer
	buf.WriteString("DJIF")
	buf.WriteByte(6)
	buf.Write(le(binary.LittleEndian, uint16(0)))
	buf.Write(le(binary.LittleEndian, detailsOffset))
	buf.Write(le(binary.LittleEndian, recordsOffset))
	buf.Write(le(binary.LittleEndian, recordsEnd))
	buf.Write(le(binary.LittleEndian, uint64(0)))
	buf.Write(le(binary.LittleEndian, uint32(0)))
	buf.Write(details.Bytes())
	buf.Write(recordsArea)

	return buf.Bytes()
}

func padStr(s string, n int) string {
	return s + string(make([]byte, n-len(s)))
}

func TestParserEndToEndV6(t *testing.T) {
	data := buildV6Log(t)
	p, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if p.Version() != 6 {
		t.Fatalf("Version = %d", p.Version())
	}
	if p.Details().AircraftSN != "SNTEST" {
		t.Fatalf("aircraft_sn = %q", p.Details().AircraftSN)
	}

	if _, err := p.KeychainRequest(); err == nil {
		t.Fatalf("expected ErrNotEncrypted for v6")
	}

	seq, err := p.Records(context.Background(), NoDecryption())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	var types []int
	sawEnd := false
	for {
		rec, err := seq.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		types = append(types, rec.Type())
		if _, ok := rec.(records.End); ok {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatalf("expected an End record, got types %v", types)
	}

	frSeq, err := p.Frames(context.Background(), NoDecryption())
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	var frameCount int
	for {
		f, err := frSeq.Next()
		if err != nil {
			t.Fatalf("frame Next: %v", err)
		}
		if f == nil {
			break
		}
		frameCount++
	}
	if frameCount != 2 {
		t.Fatalf("expected 2 frames (one per anchored OSD), got %d", frameCount)
	}
}

// TestRecordsIgnoresAPIKeyBelowV13 pins spec.md §8 testable property #2:
// for v<13 inputs, records(None) and records(ApiKey(_)) must produce
// identical sequences, with the API key ignored and no keychain fetch
// attempted. A nil *keychain.Client is passed deliberately: if
// WithAPIKey ever tried to fetch for this log, Next would return an
// error (a v6 log has no keychain request to build) instead of matching
// the NoDecryption sequence.
func TestRecordsIgnoresAPIKeyBelowV13(t *testing.T) {
	data := buildV6Log(t)
	p, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	none, err := p.Records(context.Background(), NoDecryption())
	if err != nil {
		t.Fatalf("Records(None): %v", err)
	}
	withKey, err := p.Records(context.Background(), WithAPIKey("unused-key", nil))
	if err != nil {
		t.Fatalf("Records(ApiKey): %v", err)
	}

	for {
		a, errA := none.Next()
		b, errB := withKey.Next()
		if errA != nil || errB != nil {
			t.Fatalf("Next: errA=%v errB=%v", errA, errB)
		}
		if (a == nil) != (b == nil) {
			t.Fatalf("sequences diverged in length")
		}
		if a == nil {
			break
		}
		if a.Type() != b.Type() {
			t.Fatalf("type mismatch: %d vs %d", a.Type(), b.Type())
		}
	}
}
