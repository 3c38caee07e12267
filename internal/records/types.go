// Package records decodes plaintext record bodies into typed RawRecord
// variants, dispatched by (type code, version range). Decoders are pure
// functions of plaintext bytes; a body shorter than the variant expects
// yields a partially filled value flagged Truncated rather than an error.
package records

import "djilog/internal/logfile"

// Type codes for every known record variant.
const (
	TypeOSD              = 1
	TypeHome             = 2
	TypeGimbal           = 3
	TypeRC               = 4
	TypeCustom           = 5
	TypeDeform           = 6
	TypeBattery          = 7
	TypeCamera           = 8
	TypeSmartBattery     = 9
	TypeAppTip           = 11
	TypeAppWarn          = 13
	TypeRecoverInfo      = 14
	TypeAppGPS           = 18
	TypeJPEG             = 23
	TypeEndLegacy        = 50
	TypeKeyStorage       = 55
	TypeKeyStorageRecover = 56
	TypeEndV13           = 254
)

// RawRecord is the tagged-union interface every decoded record variant
// implements.
type RawRecord interface {
	// Type returns the wire type code this record was decoded from.
	Type() int
	// Truncated reports whether the body was shorter than the variant's
	// full layout; trailing fields were filled with sentinel values.
	Truncated() bool
}

// base is embedded by every concrete variant to provide Type/Truncated.
type base struct {
	typeCode  int
	truncated bool
}

func (b base) Type() int        { return b.typeCode }
func (b base) Truncated() bool  { return b.truncated }

// Unknown wraps a record whose type has no registered decoder, or whose
// body could not be decrypted (MissingKey / DecryptionFailed). Ciphertext
// is carried verbatim so a caller can retry with better key material.
type Unknown struct {
	base
	Reason string
	Bytes  []byte
}

// NewUnknown builds an Unknown record for a type the Decrypter could not
// produce plaintext for (MissingKey, DecryptionFailed) or that has no
// registered decoder.
func NewUnknown(typeCode int, reason string, raw []byte) Unknown {
	return Unknown{base: base{typeCode: typeCode}, Reason: reason, Bytes: raw}
}

// Decode dispatches body to the decoder registered for (typeCode, epoch).
// Unrecognized type codes, and type codes with no entry covering epoch,
// produce an Unknown record with Reason "unregistered", never an error —
// per the decoder's "never fail the whole stream" contract.
func Decode(typeCode int, epoch logfile.Epoch, body []byte) RawRecord {
	for _, e := range registry[typeCode] {
		if epoch >= e.minEpoch && epoch <= e.maxEpoch {
			return e.decode(typeCode, epoch, body)
		}
	}
	return NewUnknown(typeCode, "unregistered", body)
}

type decodeFunc func(typeCode int, epoch logfile.Epoch, body []byte) RawRecord

// decoderEntry binds a decode function to the inclusive epoch range whose
// wire layout it implements. A type code with a layout that changes across
// framing epochs registers one entry per range; entries for a type code
// must cover disjoint, non-overlapping ranges.
type decoderEntry struct {
	minEpoch logfile.Epoch
	maxEpoch logfile.Epoch
	decode   decodeFunc
}

// allEpochs spans every framing epoch this package knows about, for the
// (current) majority of variants whose layout is unchanged since v1.
var allEpochs = [2]logfile.Epoch{logfile.EpochV1to5, logfile.EpochV13Plus}

func anyEpoch(fn decodeFunc) []decoderEntry {
	return []decoderEntry{{minEpoch: allEpochs[0], maxEpoch: allEpochs[1], decode: fn}}
}

// registry is keyed by type code; the value lists the epoch-range variants
// registered for that code, per spec's "(type_code, version_range)"
// dispatch. None of today's variants change layout across epochs — each
// registers a single entry spanning EpochV1to5..EpochV13Plus — but the
// table shape lets a future variant add a second, narrower entry (e.g. a
// v13+-only field) without touching Decode or any other type's entry.
var registry = map[int][]decoderEntry{
	TypeOSD:              anyEpoch(decodeOSD),
	TypeHome:              anyEpoch(decodeHome),
	TypeGimbal:            anyEpoch(decodeGimbal),
	TypeRC:                anyEpoch(decodeRC),
	TypeCustom:            anyEpoch(decodeCustom),
	TypeDeform:            anyEpoch(decodeDeform),
	TypeBattery:           anyEpoch(decodeBattery),
	TypeCamera:            anyEpoch(decodeCamera),
	TypeSmartBattery:      anyEpoch(decodeSmartBattery),
	TypeAppTip:            anyEpoch(decodeAppTip),
	TypeAppWarn:           anyEpoch(decodeAppWarn),
	TypeRecoverInfo:       anyEpoch(decodeRecoverInfo),
	TypeAppGPS:            anyEpoch(decodeAppGPS),
	TypeJPEG:              anyEpoch(decodeJPEG),
	TypeEndLegacy:         anyEpoch(decodeEnd),
	TypeKeyStorage:        anyEpoch(decodeKeyStorage),
	TypeKeyStorageRecover: anyEpoch(decodeKeyStorageRecover),
	TypeEndV13:            anyEpoch(decodeEnd),
}
