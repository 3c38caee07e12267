package keychain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultEndpoint is the vendor keychain endpoint used when ClientConfig
// does not override it.
const DefaultEndpoint = "https://dev.dji.com/openapi/v1/flight-records/keychains"

var (
	// ErrAuth is returned for HTTP 401/403 responses.
	ErrAuth = errors.New("keychain: authentication failed")
	// ErrBadResponse is returned when the response body does not match the
	// expected envelope shape.
	ErrBadResponse = errors.New("keychain: malformed response")
	// ErrService is returned for non-2xx responses carrying a vendor error
	// message.
	ErrService = errors.New("keychain: service error")
)

// Transport is the narrow HTTP boundary the client depends on, so tests can
// substitute a canned responder instead of a real network call.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures a Client. Department and FileVersion are
// undocumented optional fields on the vendor request; leave them nil to
// omit them entirely.
type ClientConfig struct {
	Endpoint    string
	ProxyURL    string
	Department  *int
	FileVersion *int
	Transport   Transport
}

// DefaultClientConfig returns a ClientConfig pointed at the production
// endpoint using http.DefaultClient as its transport.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoint:  DefaultEndpoint,
		Transport: http.DefaultClient,
	}
}

// Client fetches keychains from the vendor endpoint.
type Client struct {
	cfg ClientConfig
}

// NewClient constructs a Client from cfg, filling unset fields with
// defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultClient
	}
	return &Client{cfg: cfg}
}

type responseEnvelope struct {
	Result struct {
		Data [][]responseEntry `json:"data"`
	} `json:"result"`
	Message string `json:"message"`
}

type responseEntry struct {
	FeaturePoint string `json:"feature_point"`
	AESKey       string `json:"aes_key"`
	AESIV        string `json:"aes_iv"`
}

// Fetch posts req to the vendor endpoint with the given API key and parses
// the nested segment/key response into a Set.
func (c *Client) Fetch(ctx context.Context, req Request, apiKey string) (*Set, error) {
	req.Department = c.cfg.Department
	req.FileVersion = c.cfg.FileVersion

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("keychain: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("keychain: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", apiKey)

	resp, err := c.cfg.Transport.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("keychain: network error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("keychain: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	}

	var env responseEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = "unspecified"
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, msg)
	}

	keychains := make([]Keychain, 0, len(env.Result.Data))
	for _, segment := range env.Result.Data {
		kc := make(Keychain, len(segment))
		for _, e := range segment {
			recordType, ok := RecordTypeForFeaturePoint(e.FeaturePoint)
			if !ok {
				continue
			}
			kp, err := decodeKeyPair(e.AESKey, e.AESIV)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
			}
			kc[recordType] = kp
		}
		keychains = append(keychains, kc)
	}

	return NewSet(keychains), nil
}

func decodeKeyPair(keyB64, ivB64 string) (KeyPair, error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("aes_key: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("aes_iv: %w", err)
	}
	if len(key) != 16 || len(iv) != 16 {
		return KeyPair{}, fmt.Errorf("expected 16-byte key/iv, got %d/%d", len(key), len(iv))
	}
	var kp KeyPair
	copy(kp.AESKey[:], key)
	copy(kp.AESIV[:], iv)
	return kp, nil
}
