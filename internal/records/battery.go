package records

import "djilog/internal/logfile"

// Battery is the legacy (type 7) battery telemetry record: pack-level
// readings with no per-cell breakdown.
type Battery struct {
	base
	PercentRemaining uint8
	VoltageMV        uint32
	CurrentMA        int32
	TemperatureC     float32
}

// layout: percent:u8, voltage_mv:u32, current_ma:i32, temperature:f32.
func decodeBattery(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	b := Battery{
		PercentRemaining: r.u8(),
		VoltageMV:        r.u32(),
		CurrentMA:        r.i32(),
		TemperatureC:     r.f32(),
	}
	b.truncated = r.truncated
	b.typeCode = TypeBattery
	return b
}

// SmartBattery is the richer (type 9) battery record carrying per-cell
// voltages, found on aircraft with "smart" battery packs.
type SmartBattery struct {
	base
	PercentRemaining uint8
	VoltageMV        uint32
	CurrentMA        int32
	TemperatureC     float32
	CellVoltagesMV   []uint16
}

// layout: percent:u8, voltage_mv:u32, current_ma:i32, temperature:f32,
// cell_count:u8, cell_voltage_mv:u16 * cell_count.
func decodeSmartBattery(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	sb := SmartBattery{
		PercentRemaining: r.u8(),
		VoltageMV:        r.u32(),
		CurrentMA:        r.i32(),
		TemperatureC:     r.f32(),
	}
	cellCount := r.u8()
	sb.CellVoltagesMV = make([]uint16, 0, cellCount)
	for i := 0; i < int(cellCount); i++ {
		sb.CellVoltagesMV = append(sb.CellVoltagesMV, r.u16())
	}
	sb.truncated = r.truncated
	sb.typeCode = TypeSmartBattery
	return sb
}
