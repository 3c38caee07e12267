package keychain

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeTransport struct {
	status int
	body   string
	gotReq *http.Request
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.gotReq = req
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func b64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func TestFetchParsesNestedResponse(t *testing.T) {
	key := bytesOf(16, 0xAA)
	iv := bytesOf(16, 0xBB)
	body := `{"result":{"data":[[{"feature_point":"osd","aes_key":"` + b64(key) + `","aes_iv":"` + b64(iv) + `"}]]}}`

	ft := &fakeTransport{status: 200, body: body}
	c := NewClient(ClientConfig{Transport: ft})

	set, err := c.Fetch(context.Background(), Request{Version: 13}, "my-api-key")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	kp, ok := set.Lookup(1) // osd == record type 1
	if !ok {
		t.Fatalf("expected osd keypair present")
	}
	if kp.AESKey != key2arr(key) {
		t.Fatalf("key mismatch")
	}
	if ft.gotReq.Header.Get("Api-Key") != "my-api-key" {
		t.Fatalf("Api-Key header not set")
	}
}

func TestFetchAuthError(t *testing.T) {
	ft := &fakeTransport{status: 401, body: `{}`}
	c := NewClient(ClientConfig{Transport: ft})
	_, err := c.Fetch(context.Background(), Request{Version: 13}, "bad-key")
	if err == nil {
		t.Fatalf("expected auth error")
	}
}

func TestFetchServiceError(t *testing.T) {
	ft := &fakeTransport{status: 500, body: `{"message":"boom"}`}
	c := NewClient(ClientConfig{Transport: ft})
	_, err := c.Fetch(context.Background(), Request{Version: 13}, "key")
	if err == nil {
		t.Fatalf("expected service error")
	}
}

func bytesOf(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func key2arr(b []byte) [16]byte {
	var a [16]byte
	copy(a[:], b)
	return a
}
