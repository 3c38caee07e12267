package records

import (
	"encoding/binary"
	"math"
	"testing"

	"djilog/internal/logfile"
)

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64bits(f float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return b
}

func le32bits(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func TestDecodeOSD(t *testing.T) {
	var body []byte
	body = append(body, le32(1000)...)          // ticks
	body = append(body, le64bits(0)...)          // lat rad
	body = append(body, le64bits(math.Pi/2)...)  // lon rad = 90 deg
	body = append(body, le32bits(50.0)...)       // height
	body = append(body, le32bits(49.5)...)       // vps_height
	body = append(body, le32bits(51.0)...)       // altitude
	body = append(body, le32bits(1.0)...)        // xSpeed
	body = append(body, le32bits(2.0)...)        // ySpeed
	body = append(body, le32bits(0.0)...)        // zSpeed
	body = append(body, le32bits(0.0)...)        // pitch
	body = append(body, le32bits(0.0)...)        // roll
	body = append(body, le32bits(0.0)...)        // yaw
	body = append(body, 3)                       // flyc_state = gps_atti
	body = append(body, 0x01|(8<<1))             // gps_flags: valid, level 8
	body = append(body, 10)                      // gps_num
	body = append(body, le32(1_700_000_000)...)  // gps_utc

	rec := Decode(TypeOSD, logfile.EpochV6to12, body)
	osd, ok := rec.(OSD)
	if !ok {
		t.Fatalf("expected OSD, got %T", rec)
	}
	if osd.Truncated() {
		t.Fatalf("unexpected truncation")
	}
	if math.Abs(osd.LongitudeDeg-90.0) > 1e-6 {
		t.Fatalf("longitude = %v, want 90", osd.LongitudeDeg)
	}
	if !osd.GPSValid || osd.GPSLevel != 8 || osd.GPSNum != 10 {
		t.Fatalf("gps fields wrong: %+v", osd)
	}
	if osd.FlycStateLabel != "gps_atti" {
		t.Fatalf("flyc state label = %q", osd.FlycStateLabel)
	}
}

func TestDecodeTruncatedBodyDoesNotPanic(t *testing.T) {
	rec := Decode(TypeOSD, logfile.EpochV6to12, []byte{1, 2, 3})
	osd, ok := rec.(OSD)
	if !ok {
		t.Fatalf("expected OSD, got %T", rec)
	}
	if !osd.Truncated() {
		t.Fatalf("expected Truncated for short body")
	}
}

func TestDecodeUnregisteredTypeIsUnknown(t *testing.T) {
	rec := Decode(999, logfile.EpochV6to12, []byte{1, 2, 3})
	u, ok := rec.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", rec)
	}
	if u.Reason != "unregistered" || u.Type() != 999 {
		t.Fatalf("unexpected Unknown: %+v", u)
	}
}

func TestDecodeEndPreservesTypeCode(t *testing.T) {
	if Decode(TypeEndLegacy, logfile.EpochV6to12, nil).Type() != TypeEndLegacy {
		t.Fatalf("legacy End type code mismatch")
	}
	if Decode(TypeEndV13, logfile.EpochV13Plus, nil).Type() != TypeEndV13 {
		t.Fatalf("v13 End type code mismatch")
	}
}
