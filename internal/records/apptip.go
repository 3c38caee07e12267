package records

import "djilog/internal/logfile"

// AppTip is a short informational string the app displayed at this tick.
type AppTip struct {
	base
	Text string
}

// layout: text_len:u16, text[...].
func decodeAppTip(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	n := r.u16()
	t := AppTip{Text: string(r.bytes(int(n)))}
	t.truncated = r.truncated
	t.typeCode = TypeAppTip
	return t
}

// AppWarn is a warning string the app displayed at this tick.
type AppWarn struct {
	base
	Text string
}

// layout: text_len:u16, text[...].
func decodeAppWarn(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	n := r.u16()
	w := AppWarn{Text: string(r.bytes(int(n)))}
	w.truncated = r.truncated
	w.typeCode = TypeAppWarn
	return w
}

// AppGPS is the app-reported GPS fix, distinct from the flight
// controller's own OSD-embedded fix — present on logs where the phone's
// GPS and the aircraft's GPS are both recorded.
type AppGPS struct {
	base
	LatitudeDeg  float64
	LongitudeDeg float64
}

// layout: lat_rad:f64, lon_rad:f64.
func decodeAppGPS(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	g := AppGPS{
		LatitudeDeg:  radToDeg(r.f64()),
		LongitudeDeg: radToDeg(r.f64()),
	}
	g.truncated = r.truncated
	g.typeCode = TypeAppGPS
	return g
}
