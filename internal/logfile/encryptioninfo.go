package logfile

import (
	"fmt"

	"djilog/internal/cursor"
)

// EncryptionInfoEntry is one opaque ciphertext entry used to request a key
// from the vendor keychain endpoint.
type EncryptionInfoEntry struct {
	FeaturePoint  string
	Version       int
	AESCiphertext []byte
}

// EncryptionInfo is the full list of entries found in the v13+ encryption
// info area, together with the file version they were read for.
type EncryptionInfo struct {
	Version int
	Entries []EncryptionInfoEntry
}

// entry wire layout: feature_point_len:u16, feature_point[...], version:u16,
// ciphertext_len:u16, ciphertext[...].
func DecodeEncryptionInfo(data []byte, p Prefix) (EncryptionInfo, error) {
	if !p.HasEncryptionInfo() {
		return EncryptionInfo{}, fmt.Errorf("logfile: version %d has no encryption info", p.Version)
	}

	c := cursor.New(data)
	if err := c.Seek(int(p.EncryptionInfoOffset)); err != nil {
		return EncryptionInfo{}, fmt.Errorf("logfile: seek to encryption info: %w", err)
	}
	end := int(p.EncryptionInfoOffset) + int(p.EncryptionInfoLength)

	info := EncryptionInfo{Version: p.Version}
	for c.Pos() < end {
		fpLen, err := c.ReadU16LE()
		if err != nil {
			return EncryptionInfo{}, fmt.Errorf("logfile: encryption info feature_point_len: %w", err)
		}
		fp, err := c.ReadFixedString(int(fpLen))
		if err != nil {
			return EncryptionInfo{}, fmt.Errorf("logfile: encryption info feature_point: %w", err)
		}
		version, err := c.ReadU16LE()
		if err != nil {
			return EncryptionInfo{}, fmt.Errorf("logfile: encryption info version: %w", err)
		}
		ctLen, err := c.ReadU16LE()
		if err != nil {
			return EncryptionInfo{}, fmt.Errorf("logfile: encryption info ciphertext_len: %w", err)
		}
		ctBorrowed, err := c.ReadBytes(int(ctLen))
		if err != nil {
			return EncryptionInfo{}, fmt.Errorf("logfile: encryption info ciphertext: %w", err)
		}
		ct := make([]byte, len(ctBorrowed))
		copy(ct, ctBorrowed)

		info.Entries = append(info.Entries, EncryptionInfoEntry{
			FeaturePoint:  fp,
			Version:       int(version),
			AESCiphertext: ct,
		})
	}
	return info, nil
}
