package logfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// buildFixture assembles a minimal v6 log: prefix + details + empty records
// area (just an End terminator byte 0xFF is not required by the prefix
// decoder; the records area is exercised in the framer package).
func buildFixture(t *testing.T, version uint8) []byte {
	t.Helper()

	var details bytes.Buffer
	details.WriteString("SN123456789012\x00\x00")   // aircraft_sn, 16 bytes
	details.WriteString("CAM123456789012\x00")       // camera_sn, 16 bytes
	details.WriteByte(6)                              // product_type = mavicpro
	binary.Write(&details, binary.LittleEndian, uint32(1_700_000_000)) // start_time
	binary.Write(&details, binary.LittleEndian, uint32(12_345))        // duration ticks
	binary.Write(&details, binary.LittleEndian, float32(120.5))        // max_height
	binary.Write(&details, binary.LittleEndian, float32(15.2))         // max_h_speed
	binary.Write(&details, binary.LittleEndian, float32(5.1))          // max_v_speed
	binary.Write(&details, binary.LittleEndian, float32(2500.0))       // total_distance
	binary.Write(&details, binary.LittleEndian, float32(30.0))         // takeoff_altitude
	details.WriteByte(1)                                                // is_favorite
	details.WriteByte(0)                                                // is_new
	if version >= 13 {
		details.WriteString(make32(t, "Cupertino"))
		details.WriteString(make64(t, "Infinite Loop"))
	}
	binary.Write(&details, binary.LittleEndian, uint16(3)) // moment_picture_count
	binary.Write(&details, binary.LittleEndian, uint16(1)) // image_count
	binary.Write(&details, binary.LittleEndian, uint32(204800))
	binary.Write(&details, binary.LittleEndian, 0.0) // lat radians
	binary.Write(&details, binary.LittleEndian, 0.5) // lon radians

	detailsOffset := uint64(prefixSize)
	recordsOffset := detailsOffset + uint64(details.Len())
	recordsEnd := recordsOffset

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(version)
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&buf, binary.LittleEndian, detailsOffset)
	binary.Write(&buf, binary.LittleEndian, recordsOffset)
	binary.Write(&buf, binary.LittleEndian, recordsEnd)
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // encryption_info_offset
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // encryption_info_length
	buf.Write(details.Bytes())

	return buf.Bytes()
}

func make32(t *testing.T, s string) string { return padTo(t, s, 32) }
func make64(t *testing.T, s string) string { return padTo(t, s, 64) }

func padTo(t *testing.T, s string, n int) string {
	t.Helper()
	if len(s) > n {
		t.Fatalf("fixture string %q longer than %d", s, n)
	}
	return s + string(make([]byte, n-len(s)))
}

func TestDecodePrefixV6(t *testing.T) {
	data := buildFixture(t, 6)
	p, err := DecodePrefix(data)
	if err != nil {
		t.Fatalf("DecodePrefix: %v", err)
	}
	if p.Epoch != EpochV6to12 {
		t.Fatalf("expected EpochV6to12, got %v", p.Epoch)
	}
	if p.HasEncryptionInfo() {
		t.Fatalf("v6 should not carry encryption info")
	}
}

func TestDecodeDetailsV6(t *testing.T) {
	data := buildFixture(t, 6)
	p, err := DecodePrefix(data)
	if err != nil {
		t.Fatalf("DecodePrefix: %v", err)
	}
	d, err := DecodeDetails(data, p)
	if err != nil {
		t.Fatalf("DecodeDetails: %v", err)
	}
	if d.AircraftSN != "SN123456789012" {
		t.Fatalf("aircraft_sn = %q", d.AircraftSN)
	}
	if d.ProductType != "mavicpro" {
		t.Fatalf("product_type = %q", d.ProductType)
	}
	if !d.IsFavorite || d.IsNew {
		t.Fatalf("favorite/new flags wrong: %+v", d)
	}
	if len(d.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(d.Images))
	}
	wantLon := 0.5 * 180 / math.Pi
	if math.Abs(d.Images[0].LongitudeDeg-wantLon) > 1e-9 {
		t.Fatalf("image longitude = %v, want %v", d.Images[0].LongitudeDeg, wantLon)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	data := buildFixture(t, 6)
	data[4] = 200
	if _, err := DecodePrefix(data); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}
