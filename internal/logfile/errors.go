// Package logfile decodes the fixed prefix at the start of a DJI flight log
// and classifies the log into a framing epoch.
package logfile

import "errors"

// ErrMalformedPrefix is returned when the magic bytes are wrong or the
// offsets encoded in the prefix are out of order or out of bounds. Fatal.
var ErrMalformedPrefix = errors.New("logfile: malformed prefix")

// ErrUnsupportedVersion is returned when the version byte does not fall
// into any known epoch. Fatal.
var ErrUnsupportedVersion = errors.New("logfile: unsupported version")

// Epoch is the coarse framing dialect a log belongs to. All downstream
// components branch on Epoch, never on the raw version integer.
type Epoch int

const (
	// EpochUnknown is the zero value; never produced by DetectEpoch for a
	// version in the supported range.
	EpochUnknown Epoch = iota
	// EpochV1to5 covers versions 1 through 5: u8 length fields, no
	// encryption.
	EpochV1to5
	// EpochV6to12 covers versions 6 through 12: per-type length width,
	// no encryption.
	EpochV6to12
	// EpochV13Plus covers version 13 and above: per-type length width,
	// AES-128-CBC encrypted bodies for all but a plaintext allow-list.
	EpochV13Plus
)

func (e Epoch) String() string {
	switch e {
	case EpochV1to5:
		return "v1-5"
	case EpochV6to12:
		return "v6-12"
	case EpochV13Plus:
		return "v13+"
	default:
		return "unknown"
	}
}

// DetectEpoch maps a raw version byte to its framing epoch.
func DetectEpoch(version int) (Epoch, error) {
	switch {
	case version >= 1 && version <= 5:
		return EpochV1to5, nil
	case version >= 6 && version <= 12:
		return EpochV6to12, nil
	case version >= 13 && version <= 99:
		return EpochV13Plus, nil
	default:
		return EpochUnknown, ErrUnsupportedVersion
	}
}
