// Package decrypt turns framed record bodies into plaintext for v13+ logs,
// using AES-128-CBC with PKCS#7 padding and a segment-indexed keychain set.
package decrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"djilog/internal/framer"
	"djilog/internal/keychain"
	"djilog/internal/logfile"
)

// ErrMissingKey is recoverable: the active keychain has no entry for the
// record type. The caller should emit an Unknown record and continue.
var ErrMissingKey = errors.New("decrypt: missing key for record type")

// ErrDecryptionFailed is recoverable: the ciphertext did not decrypt to
// validly padded plaintext (wrong key, or corrupt body).
var ErrDecryptionFailed = errors.New("decrypt: decryption failed")

// Decrypter turns a RawFrame's body into plaintext, tracking the active
// keychain segment as KeyStorageRecover records are observed.
type Decrypter struct {
	epoch logfile.Epoch
	keys  *keychain.Set
}

// New builds a Decrypter for the given epoch. keys may be nil — in that
// case every non-plaintext v13+ record resolves to ErrMissingKey, which is
// the documented behavior for records(None) on an encrypted log.
func New(epoch logfile.Epoch, keys *keychain.Set) *Decrypter {
	return &Decrypter{epoch: epoch, keys: keys}
}

// Plaintext returns the decrypted body for rf, or an error. For epochs
// below v13, or for plaintext-allow-listed types, the body is returned
// unchanged. On KeyStorageRecover (type 56) the active segment is advanced
// after the (plaintext) body is returned.
func (d *Decrypter) Plaintext(rf *framer.RawFrame) ([]byte, error) {
	if d.epoch != logfile.EpochV13Plus || framer.IsPlaintextType(rf.Type) {
		if rf.Type == 56 {
			defer func() { _ = d.keys.Advance() }()
		}
		return rf.Body, nil
	}

	kp, ok := d.keys.Lookup(rf.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type %d, segment %d", ErrMissingKey, rf.Type, d.keys.CurrentIndex())
	}

	plain, err := aesCBCDecrypt(kp.AESKey[:], kp.AESIV[:], rf.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plain, nil
}

func aesCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d not a multiple of block size", len(ciphertext))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return stripPKCS7(out)
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(data) {
		return nil, errors.New("invalid PKCS#7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("invalid PKCS#7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}

// PadPKCS7 is exposed for tests that need to construct valid ciphertext
// fixtures.
func PadPKCS7(data []byte) []byte {
	padLen := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}
