package records

import "djilog/internal/logfile"

// Home carries the aircraft's recorded home position, set once at takeoff
// and occasionally updated (e.g. a mid-flight home reset).
type Home struct {
	base
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float32
	HeightLimitM float32
}

// layout: lat_rad:f64, lon_rad:f64, altitude:f32, height_limit:f32.
func decodeHome(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	h := Home{
		LatitudeDeg:  radToDeg(r.f64()),
		LongitudeDeg: radToDeg(r.f64()),
		AltitudeM:    r.f32(),
		HeightLimitM: r.f32(),
	}
	h.truncated = r.truncated
	h.typeCode = TypeHome
	return h
}
