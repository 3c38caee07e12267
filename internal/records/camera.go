package records

import "djilog/internal/logfile"

var sdCardStateNames = map[uint8]string{
	0: "invalid",
	1: "ok",
	2: "not_inserted",
	3: "full",
	4: "error",
}

func sdCardStateName(code uint8) string {
	if n, ok := sdCardStateNames[code]; ok {
		return n
	}
	return "unknown"
}

// Camera carries the still/video recording state and onboard storage
// status as observed by the app at the time of the tick.
type Camera struct {
	base
	IsPhoto            bool
	IsVideo            bool
	SDCardStateCode    uint8
	SDCardStateLabel   string
	SDCardFreeSpaceMB  uint32
}

// layout: flags:u8 (bit0 is_photo, bit1 is_video), sd_card_state:u8,
// sd_card_free_space_mb:u32.
func decodeCamera(_ int, _ logfile.Epoch, body []byte) RawRecord {
	r := newReader(body)
	flags := r.u8()
	c := Camera{
		IsPhoto: flags&0x01 != 0,
		IsVideo: flags&0x02 != 0,
	}
	c.SDCardStateCode = r.u8()
	c.SDCardStateLabel = sdCardStateName(c.SDCardStateCode)
	c.SDCardFreeSpaceMB = r.u32()
	c.truncated = r.truncated
	c.typeCode = TypeCamera
	return c
}
