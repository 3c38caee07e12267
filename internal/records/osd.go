package records

import "djilog/internal/logfile"

// FlycState names the flight-controller state code carried on every OSD
// record.
var flycStateNames = map[uint8]string{
	0: "manual",
	1: "atti",
	2: "atti_course_lock",
	3: "gps_atti",
	4: "gps_course_lock",
	5: "gps_homelock",
	6: "gps_hotpoint",
	9: "assisted_takeoff",
	10: "auto_takeoff",
	11: "auto_landing",
	12: "attiLanding",
	15: "go_home",
	16: "click_go",
	17: "joystick",
	33: "atti_limited",
	34: "gps_atti_limited",
	35: "nav_cv",
}

func flycStateName(code uint8) string {
	if n, ok := flycStateNames[code]; ok {
		return n
	}
	return "unknown"
}

// OSD is the primary telemetry record: one per control-loop tick. Ticks
// accumulate since boot; gps_utc is only meaningful when GPSValid.
type OSD struct {
	base

	Ticks    uint32
	LatitudeDeg  float64
	LongitudeDeg float64
	HeightM      float32
	VPSHeightM   float32
	AltitudeM    float32
	XSpeed       float32
	YSpeed       float32
	ZSpeed       float32
	PitchDeg     float32
	RollDeg      float32
	YawDeg       float32

	FlycStateCode  uint8
	FlycStateLabel string

	GPSValid bool
	GPSLevel uint8
	GPSNum   uint8
	GPSUTC   uint32 // unix seconds, valid only when GPSValid
}

// layout: ticks:u32, lat_rad:f64, lon_rad:f64, height:f32, vps_height:f32,
// altitude:f32, xSpeed:f32, ySpeed:f32, zSpeed:f32, pitch:f32, roll:f32,
// yaw:f32, flyc_state:u8, gps_flags:u8 (bit0 valid, bits1-4 level,
// bits5-7 unused), gps_num:u8, gps_utc:u32.
func decodeOSD(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	o := OSD{
		Ticks:        r.u32(),
		LatitudeDeg:  radToDeg(r.f64()),
		LongitudeDeg: radToDeg(r.f64()),
		HeightM:      r.f32(),
		VPSHeightM:   r.f32(),
		AltitudeM:    r.f32(),
		XSpeed:       r.f32(),
		YSpeed:       r.f32(),
		ZSpeed:       r.f32(),
		PitchDeg:     r.f32(),
		RollDeg:      r.f32(),
		YawDeg:       r.f32(),
	}
	o.FlycStateCode = r.u8()
	o.FlycStateLabel = flycStateName(o.FlycStateCode)

	gpsFlags := r.u8()
	o.GPSValid = gpsFlags&0x01 != 0
	o.GPSLevel = (gpsFlags >> 1) & 0x0F
	o.GPSNum = r.u8()
	o.GPSUTC = r.u32()

	o.truncated = r.truncated
	o.typeCode = TypeOSD
	return o
}
