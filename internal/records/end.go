package records

import "djilog/internal/logfile"

// End terminates the record stream. Its type code is 50 in pre-v13 logs
// and 254 in v13+ logs; both decode to the same variant.
type End struct {
	base
}

func decodeEnd(typeCode int, _ logfile.Epoch, _ []byte) RawRecord {
	return End{base: base{typeCode: typeCode}}
}

// KeyStorage (type 55) carries the log-local copy of key material. It is
// always transmitted in plaintext, even in v13+ streams, but its payload
// is opaque to the decoder — the actual key material a consumer uses comes
// from the keychain endpoint, not this record.
type KeyStorage struct {
	base
	Raw []byte
}

func decodeKeyStorage(_ int, _ logfile.Epoch, body []byte) RawRecord {
	return KeyStorage{
		base: base{typeCode: TypeKeyStorage},
		Raw:  append([]byte(nil), body...),
	}
}

// KeyStorageRecover (type 56) marks a segment boundary: the decrypter
// advances its active keychain index upon observing one. The record
// itself carries no fields of interest to the decoder.
type KeyStorageRecover struct {
	base
}

func decodeKeyStorageRecover(_ int, _ logfile.Epoch, _ []byte) RawRecord {
	return KeyStorageRecover{base: base{typeCode: TypeKeyStorageRecover}}
}
