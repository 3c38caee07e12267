package logfile

import (
	"fmt"

	"djilog/internal/cursor"
)

// magic is the fixed 4-byte identifier every supported log begins with.
var magic = [4]byte{'D', 'J', 'I', 'F'}

// prefixSize is the fixed, bit-exact size of the prefix header. Fields that
// do not apply below version 13 are present but read as zero.
const prefixSize = 43

// Prefix is the decoded fixed header at the start of every log.
type Prefix struct {
	Version              int
	Epoch                Epoch
	DetailsOffset        uint64
	RecordsOffset        uint64
	RecordsEndOffset     uint64
	EncryptionInfoOffset uint64
	EncryptionInfoLength uint32
}

// HasEncryptionInfo reports whether this prefix carries an encryption-info
// area (version 13 and above).
func (p Prefix) HasEncryptionInfo() bool {
	return p.Epoch == EpochV13Plus
}

// DecodePrefix reads and validates the fixed prefix at offset 0 of data.
// All offsets are required to be within bounds and monotonically ordered:
// details <= records <= records_end, and (when present) encryption_info
// starts no later than details.
func DecodePrefix(data []byte) (Prefix, error) {
	c := cursor.New(data)

	magicBytes, err := c.ReadBytes(4)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	for i := range magic {
		if magicBytes[i] != magic[i] {
			return Prefix{}, fmt.Errorf("%w: bad magic %x", ErrMalformedPrefix, magicBytes)
		}
	}

	versionByte, err := c.ReadU8()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	version := int(versionByte)

	epoch, err := DetectEpoch(version)
	if err != nil {
		return Prefix{}, err
	}

	if _, err := c.ReadU16LE(); err != nil { // reserved
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}

	detailsOffset, err := c.ReadU64LE()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	recordsOffset, err := c.ReadU64LE()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	recordsEndOffset, err := c.ReadU64LE()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	encInfoOffset, err := c.ReadU64LE()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}
	encInfoLength, err := c.ReadU32LE()
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %v", ErrMalformedPrefix, err)
	}

	p := Prefix{
		Version:          version,
		Epoch:            epoch,
		DetailsOffset:    detailsOffset,
		RecordsOffset:    recordsOffset,
		RecordsEndOffset: recordsEndOffset,
	}
	if epoch == EpochV13Plus {
		p.EncryptionInfoOffset = encInfoOffset
		p.EncryptionInfoLength = encInfoLength
	}

	if err := p.validate(len(data)); err != nil {
		return Prefix{}, err
	}
	return p, nil
}

func (p Prefix) validate(dataLen int) error {
	within := func(off uint64) bool { return off <= uint64(dataLen) }

	if !within(p.DetailsOffset) || !within(p.RecordsOffset) || !within(p.RecordsEndOffset) {
		return fmt.Errorf("%w: offset beyond input length %d", ErrMalformedPrefix, dataLen)
	}
	if p.DetailsOffset > p.RecordsOffset {
		return fmt.Errorf("%w: details_offset %d > records_offset %d", ErrMalformedPrefix, p.DetailsOffset, p.RecordsOffset)
	}
	if p.RecordsOffset > p.RecordsEndOffset {
		return fmt.Errorf("%w: records_offset %d > records_end_offset %d", ErrMalformedPrefix, p.RecordsOffset, p.RecordsEndOffset)
	}
	if p.HasEncryptionInfo() {
		if !within(p.EncryptionInfoOffset + uint64(p.EncryptionInfoLength)) {
			return fmt.Errorf("%w: encryption info beyond input length %d", ErrMalformedPrefix, dataLen)
		}
		if p.EncryptionInfoOffset > p.DetailsOffset {
			return fmt.Errorf("%w: encryption_info_offset %d > details_offset %d", ErrMalformedPrefix, p.EncryptionInfoOffset, p.DetailsOffset)
		}
	}
	return nil
}

// PrefixSize returns the fixed byte length of the prefix header.
func PrefixSize() int { return prefixSize }
