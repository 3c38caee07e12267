package framer

// wideLengthTypes are record types whose body length can exceed what a u8
// can represent (255 bytes) — OSD frames pack many telemetry fields,
// JPEG/thumbnail payloads are images, and RecoverInfo carries a
// variable-length blob. RecoverInfo and JPEG use a two-byte length from
// version 6 onward; OSD only from version 13 onward (Framer.Next keeps it
// at one byte for v6..12). Every other type uses a one-byte length field.
// Pinned per SPEC_FULL.md §4, not derived from a sample corpus.
var wideLengthTypes = map[int]bool{
	1:  true, // OSD (v13+ only)
	14: true, // RecoverInfo
	23: true, // JPEG
}

// lengthWidth returns the byte width of the length field for recordType
// under the given epoch: 1 (u8) pre-v6, and a per-type table of 1 or 2
// (u16) from v6 onward.
func lengthWidth(epochIsV1to5 bool, recordType int) int {
	if epochIsV1to5 {
		return 1
	}
	if wideLengthTypes[recordType] {
		return 2
	}
	return 1
}
