package djiparser

import (
	"context"
	"sync"

	"djilog/internal/decrypt"
	"djilog/internal/framer"
	"djilog/internal/logfile"
	"djilog/internal/records"
)

// RecordSeq is the pull-based iterator over a log's record stream. It is
// not safe for concurrent use.
type RecordSeq struct {
	ctx    context.Context
	fr     *framer.Framer
	epoch  logfile.Epoch
	method DecryptMethod
	parser *Parser

	fetchOnce sync.Once
	fetchErr  error
	dec       *decrypt.Decrypter
}

// Next pulls the next record. It returns (nil, nil) at clean end of
// stream. A non-nil error is always fatal (a keychain fetch failure, or
// ErrStreamCorrupt from the framer); per-record recoverable issues surface
// only through Diagnostics.
func (s *RecordSeq) Next() (records.RawRecord, error) {
	if err := s.ensureDecrypter(); err != nil {
		return nil, err
	}

	rf, err := s.fr.Next()
	if err != nil {
		return nil, err
	}
	if rf == nil {
		return nil, nil
	}

	plain, err := s.dec.Plaintext(rf)
	if err != nil {
		return records.NewUnknown(rf.Type, err.Error(), rf.Body), nil
	}
	return records.Decode(rf.Type, s.epoch, plain), nil
}

func (s *RecordSeq) ensureDecrypter() error {
	s.fetchOnce.Do(func() {
		// Below v13 there is no encryption at all, so every DecryptMethod
		// — including WithAPIKey — behaves like NoDecryption: the API key
		// is ignored and no keychain fetch is attempted. This keeps
		// records(None) and records(ApiKey(_)) identical for all v<13
		// inputs, per spec.
		if s.epoch != logfile.EpochV13Plus {
			s.dec = decrypt.New(s.epoch, nil)
			return
		}

		switch s.method.kind {
		case decryptNone:
			s.dec = decrypt.New(s.epoch, nil)
		case decryptKeychains:
			s.dec = decrypt.New(s.epoch, s.method.set)
		case decryptAPIKey:
			req, err := s.parser.KeychainRequest()
			if err != nil {
				s.fetchErr = err
				return
			}
			set, err := s.method.client.Fetch(s.ctx, req, s.method.apiKey)
			if err != nil {
				s.fetchErr = err
				return
			}
			s.dec = decrypt.New(s.epoch, set)
		}
	})
	return s.fetchErr
}

// Diagnostics returns all recoverable framing issues observed so far
// (TerminatorMissing). Per-record MissingKey/DecryptionFailed events are
// visible as Unknown records themselves, not here.
func (s *RecordSeq) Diagnostics() []framer.Diagnostic {
	return s.fr.Diagnostics()
}

// EndSeen reports whether a well-formed End record (type 50 or 254) has
// been observed in the stream so far. A caller that has fully drained the
// sequence (Next returned nil, nil) and finds this false is looking at a
// malformed input missing its terminating sentinel — the spec requires
// this be detected and reported, not silently ignored.
func (s *RecordSeq) EndSeen() bool {
	return s.fr.EndSeen()
}
