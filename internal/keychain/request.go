package keychain

import (
	"encoding/base64"

	"djilog/internal/logfile"
)

// requestEntry is one {version, feature_point, aes_ciphertext} triple in
// the wire request. Field order is fixed by struct tag order so repeated
// calls over identical input produce byte-identical JSON.
type requestEntry struct {
	Version       int    `json:"version"`
	FeaturePoint  string `json:"feature_point"`
	AESCiphertext string `json:"aes_ciphertext"`
}

// Request is the structured payload the vendor keychain endpoint expects.
// Keychains is a single-element outer list: this file format carries one
// flat list of encryption-info entries, treated as one segment's worth of
// key material to request (the vendor may still return a multi-segment
// response if the backing log had KeyStorageRecover boundaries).
type Request struct {
	Version     int              `json:"version"`
	Department  *int             `json:"department,omitempty"`
	FileVersion *int             `json:"file_version,omitempty"`
	Keychains   [][]requestEntry `json:"keychains"`
}

// BuildRequest turns a log's encryption-info area into the deterministic
// request payload. It performs no I/O.
func BuildRequest(info logfile.EncryptionInfo) Request {
	entries := make([]requestEntry, 0, len(info.Entries))
	for _, e := range info.Entries {
		entries = append(entries, requestEntry{
			Version:       e.Version,
			FeaturePoint:  e.FeaturePoint,
			AESCiphertext: base64.StdEncoding.EncodeToString(e.AESCiphertext),
		})
	}
	return Request{
		Version:   info.Version,
		Keychains: [][]requestEntry{entries},
	}
}
