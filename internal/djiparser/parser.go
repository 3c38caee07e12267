// Package djiparser is the top-level facade tying the prefix decoder,
// keychain pipeline, record framer/decrypter/decoder, and frame
// normalizer into the four operations a caller needs: version, details,
// keychain_request, and the records/frames lazy sequences.
package djiparser

import (
	"context"
	"fmt"

	"djilog/internal/framer"
	"djilog/internal/keychain"
	"djilog/internal/logfile"
)

// ErrNotEncrypted is returned by KeychainRequest for logs below version 13,
// which carry no encryption-info area.
var ErrNotEncrypted = fmt.Errorf("djiparser: log version below 13 carries no keychain request")

// Parser eagerly decodes the prefix and details; everything else is pulled
// lazily through Records/Frames.
type Parser struct {
	data    []byte
	prefix  logfile.Prefix
	details logfile.Details
}

// FromBytes decodes the fixed prefix and the Details record. The input
// slice is borrowed for the Parser's lifetime and must not be mutated by
// the caller afterward.
func FromBytes(data []byte) (*Parser, error) {
	prefix, err := logfile.DecodePrefix(data)
	if err != nil {
		return nil, err
	}
	details, err := logfile.DecodeDetails(data, prefix)
	if err != nil {
		return nil, err
	}
	return &Parser{data: data, prefix: prefix, details: details}, nil
}

// Version returns the raw log format version.
func (p *Parser) Version() int { return p.prefix.Version }

// Epoch returns the framing dialect this log's version resolves to.
func (p *Parser) Epoch() logfile.Epoch { return p.prefix.Epoch }

// Details returns the decoded flight summary record.
func (p *Parser) Details() logfile.Details { return p.details }

// KeychainRequest builds the deterministic vendor request payload from the
// encryption-info area. It performs no I/O.
func (p *Parser) KeychainRequest() (keychain.Request, error) {
	if !p.prefix.HasEncryptionInfo() {
		return keychain.Request{}, ErrNotEncrypted
	}
	info, err := logfile.DecodeEncryptionInfo(p.data, p.prefix)
	if err != nil {
		return keychain.Request{}, err
	}
	return keychain.BuildRequest(info), nil
}

// Records returns a lazy sequence over the log's records area. method
// controls how v13+ bodies are decrypted; for WithAPIKey, the network
// fetch happens on the first call to Next, once, and is memoized.
func (p *Parser) Records(ctx context.Context, method DecryptMethod) (*RecordSeq, error) {
	fr, err := framer.New(p.data, p.prefix)
	if err != nil {
		return nil, err
	}
	return &RecordSeq{
		ctx:    ctx,
		fr:     fr,
		epoch:  p.prefix.Epoch,
		method: method,
		parser: p,
	}, nil
}

// Frames returns a lazy sequence of normalized Frames, internally driving
// Records and folding them through a Normalizer.
func (p *Parser) Frames(ctx context.Context, method DecryptMethod) (*FrameSeq, error) {
	recSeq, err := p.Records(ctx, method)
	if err != nil {
		return nil, err
	}
	return newFrameSeq(recSeq), nil
}
