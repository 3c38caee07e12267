package decrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"djilog/internal/framer"
	"djilog/internal/keychain"
	"djilog/internal/logfile"
)

func encryptFixture(t *testing.T, key, iv, plain []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	padded := PadPKCS7(plain)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out
}

func TestDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
		iv[i] = byte(16 - i)
	}
	plain := []byte("hello osd record")
	ct := encryptFixture(t, key, iv, plain)

	kc := keychain.Keychain{1: keychain.KeyPair{AESKey: [16]byte(key), AESIV: [16]byte(iv)}}
	set := keychain.NewSet([]keychain.Keychain{kc})
	d := New(logfile.EpochV13Plus, set)

	got, err := d.Plaintext(&framer.RawFrame{Type: 1, Body: ct})
	if err != nil {
		t.Fatalf("Plaintext: %v", err)
	}
	if string(got) != string(plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}
}

func TestDecryptMissingKey(t *testing.T) {
	set := keychain.NewSet([]keychain.Keychain{{}})
	d := New(logfile.EpochV13Plus, set)
	_, err := d.Plaintext(&framer.RawFrame{Type: 1, Body: make([]byte, 16)})
	if err == nil {
		t.Fatalf("expected ErrMissingKey")
	}
}

func TestDecryptPlaintextAllowList(t *testing.T) {
	set := keychain.NewSet(nil)
	d := New(logfile.EpochV13Plus, set)
	got, err := d.Plaintext(&framer.RawFrame{Type: 50, Body: []byte("plain")})
	if err != nil || string(got) != "plain" {
		t.Fatalf("expected passthrough, got %q, %v", got, err)
	}
}

func TestKeyStorageRecoverAdvancesSegment(t *testing.T) {
	set := keychain.NewSet([]keychain.Keychain{{}, {1: keychain.KeyPair{}}})
	d := New(logfile.EpochV13Plus, set)
	if _, err := d.Plaintext(&framer.RawFrame{Type: 56, Body: nil}); err != nil {
		t.Fatalf("Plaintext: %v", err)
	}
	if set.CurrentIndex() != 1 {
		t.Fatalf("expected segment advanced to 1, got %d", set.CurrentIndex())
	}
}
