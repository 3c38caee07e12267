package records

import "djilog/internal/logfile"

// Custom carries the app-formatted "custom date time" string surfaced
// verbatim on Frame.CustomDateTime. Body bytes after the date-time string
// are not decoded.
type Custom struct {
	base
	DateTime string
}

// layout: date_time_len:u8, date_time[...].
func decodeCustom(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	n := r.u8()
	dt := string(r.bytes(int(n)))
	c := Custom{DateTime: dt}
	c.truncated = r.truncated
	c.typeCode = TypeCustom
	return c
}

// Deform carries airframe deformation/folding-state telemetry (present on
// foldable aircraft).
type Deform struct {
	base
	DeformModeCode uint8
	IsDeformed     bool
}

// layout: mode:u8, is_deformed:u8 (bool).
func decodeDeform(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	d := Deform{
		DeformModeCode: r.u8(),
		IsDeformed:     r.bool8(),
	}
	d.truncated = r.truncated
	d.typeCode = TypeDeform
	return d
}
