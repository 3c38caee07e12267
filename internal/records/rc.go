package records

import "djilog/internal/logfile"

// RC is one remote-control sample: stick positions (normalized -1..1) plus
// the uplink/downlink signal quality percentages.
type RC struct {
	base
	Aileron       float32
	Elevator      float32
	Throttle      float32
	Rudder        float32
	DownlinkSignal uint8
	UplinkSignal   uint8
}

// layout: aileron:f32, elevator:f32, throttle:f32, rudder:f32,
// downlink_signal:u8, uplink_signal:u8.
func decodeRC(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	rc := RC{
		Aileron:  r.f32(),
		Elevator: r.f32(),
		Throttle: r.f32(),
		Rudder:   r.f32(),
	}
	rc.DownlinkSignal = r.u8()
	rc.UplinkSignal = r.u8()
	rc.truncated = r.truncated
	rc.typeCode = TypeRC
	return rc
}
