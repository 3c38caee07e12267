package records

import "djilog/internal/logfile"

// RecoverInfo carries flight-controller crash/recovery diagnostic data.
// The payload's internal structure is vendor-internal and not further
// decoded here; it is kept as raw bytes for forwarding to support tooling.
type RecoverInfo struct {
	base
	Raw []byte
}

func decodeRecoverInfo(_ int, _ logfile.Epoch, body []byte) RawRecord {
	return RecoverInfo{
		base: base{typeCode: TypeRecoverInfo},
		Raw:  append([]byte(nil), body...),
	}
}

// JPEG carries an embedded still image payload (or thumbnail). Extraction
// to disk is out of core scope; this variant only exposes the raw bytes
// and their length.
type JPEG struct {
	base
	Data []byte
}

func decodeJPEG(_ int, _ logfile.Epoch, body []byte) RawRecord {
	return JPEG{
		base: base{typeCode: TypeJPEG},
		Data: append([]byte(nil), body...),
	}
}
