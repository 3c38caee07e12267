// Package keychain builds the keychain request payload from a log's
// encryption-info area, fetches keychains from the vendor endpoint over an
// injectable transport, and tracks which segment is currently active.
package keychain

import "fmt"

// KeyPair is one AES-128-CBC key/IV pair, scoped to a single record type
// within a single segment.
type KeyPair struct {
	AESKey [16]byte
	AESIV  [16]byte
}

// Keychain maps a record-type code to the key/IV pair used to decrypt
// bodies of that type within one segment.
type Keychain map[int]KeyPair

// Set is the complete keying material for a log: one Keychain per segment,
// in the order segments appear in the record stream. A KeyStorageRecover
// record advances the active index.
type Set struct {
	keychains []Keychain
	current   int
}

// NewSet wraps an ordered list of per-segment keychains, starting at
// segment 0.
func NewSet(keychains []Keychain) *Set {
	return &Set{keychains: keychains}
}

// ErrIndexOutOfRange is returned when advancing past the last keychain or
// looking up a record type with no active segment.
var ErrIndexOutOfRange = fmt.Errorf("keychain: segment index out of range")

// Advance moves to the next segment. Accessing beyond the list length is an
// error, not a wraparound, per the recover-record contract.
func (s *Set) Advance() error {
	if s == nil {
		return ErrIndexOutOfRange
	}
	next := s.current + 1
	if next >= len(s.keychains) {
		s.current = next // record the overrun so Lookup keeps failing loudly
		return ErrIndexOutOfRange
	}
	s.current = next
	return nil
}

// CurrentIndex returns the active segment index.
func (s *Set) CurrentIndex() int {
	if s == nil {
		return 0
	}
	return s.current
}

// Lookup returns the key/IV pair for recordType in the active segment. The
// second return value is false if the segment is out of range or the
// record type has no entry in the active keychain (MissingKey).
func (s *Set) Lookup(recordType int) (KeyPair, bool) {
	if s == nil || s.current < 0 || s.current >= len(s.keychains) {
		return KeyPair{}, false
	}
	kp, ok := s.keychains[s.current][recordType]
	return kp, ok
}
