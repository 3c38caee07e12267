// Package framer pulls one record at a time out of a log's records area: a
// per-epoch state machine over start byte, type, length, body, and
// terminator. It never decrypts or decodes bodies — that is the
// decrypter's and decoder's job — it only produces framed (type, body)
// pairs plus diagnostics for recoverable framing issues.
package framer

import (
	"errors"
	"fmt"

	"djilog/internal/cursor"
	"djilog/internal/logfile"
)

// terminator is the sentinel byte that ends every record body in every
// epoch.
const terminator = 0xFF

// endRecordTypes close the record stream. 50 is the legacy (pre-v13)
// sentinel, 254 the v13+ one.
var endRecordTypes = map[int]bool{50: true, 254: true}

// plaintextAllowList are record types transmitted in plaintext even inside
// a v13+ encrypted stream.
var plaintextAllowList = map[int]bool{50: true, 254: true, 55: true, 56: true}

// IsPlaintextType reports whether recordType is never encrypted, regardless
// of epoch.
func IsPlaintextType(recordType int) bool {
	return plaintextAllowList[recordType]
}

// ErrStreamCorrupt is fatal: two consecutive resync attempts failed to find
// a plausible record boundary.
var ErrStreamCorrupt = errors.New("framer: stream corrupt")

// DiagnosticKind classifies a recoverable per-record framing issue.
type DiagnosticKind int

const (
	// TerminatorMissing means the terminator byte was absent but the next
	// byte looked like a valid type, so the framer resynced.
	TerminatorMissing DiagnosticKind = iota
)

func (k DiagnosticKind) String() string {
	switch k {
	case TerminatorMissing:
		return "TerminatorMissing"
	default:
		return "unknown"
	}
}

// Diagnostic is one recoverable, out-of-band framing event.
type Diagnostic struct {
	Kind       DiagnosticKind
	RecordType int
	Offset     int
}

// RawFrame is one framed record: a type code and its body bytes, not yet
// decrypted or decoded. Body is a copy, safe to retain past the next Next()
// call.
type RawFrame struct {
	Type   int
	Body   []byte
	Offset int
}

// ErrMissingEnd flags a records area that was exhausted without ever
// seeing a type-50/254 End record. Callers that want this treated as
// fatal can check EndSeen once Next returns (nil, nil) and raise this
// themselves.
var ErrMissingEnd = errors.New("framer: records area exhausted without an End record")

// Framer is the pull-based iterator over a log's records area.
type Framer struct {
	c           *cursor.Cursor
	epoch       logfile.Epoch
	end         int
	done        bool
	endSeen     bool
	diagnostics []Diagnostic
	resyncFails int
}

// EndSeen reports whether a type-50 or type-254 End record has been
// observed. Per the spec, well-formed inputs carry exactly one; a caller
// that reaches clean end-of-stream (Next returning nil, nil) without
// EndSeen true should report that, not silently ignore it.
func (f *Framer) EndSeen() bool {
	return f.endSeen
}

// New creates a Framer starting at prefix.RecordsOffset and reading up to
// prefix.RecordsEndOffset (an End record sentinel also terminates the
// stream if encountered first).
func New(data []byte, prefix logfile.Prefix) (*Framer, error) {
	c := cursor.New(data)
	if err := c.Seek(int(prefix.RecordsOffset)); err != nil {
		return nil, fmt.Errorf("framer: seek to records: %w", err)
	}
	return &Framer{
		c:     c,
		epoch: prefix.Epoch,
		end:   int(prefix.RecordsEndOffset),
	}, nil
}

// Diagnostics returns all recoverable framing issues observed so far.
func (f *Framer) Diagnostics() []Diagnostic {
	return f.diagnostics
}

// Done reports whether the stream has been fully consumed (End record seen,
// records_end_offset reached, or a fatal error occurred).
func (f *Framer) Done() bool {
	return f.done
}

// Next pulls the next record. It returns (nil, nil) once the stream is
// exhausted cleanly. A non-nil error is always fatal (ErrStreamCorrupt);
// recoverable issues are recorded via Diagnostics and do not stop
// iteration.
func (f *Framer) Next() (*RawFrame, error) {
	if f.done {
		return nil, nil
	}

	for {
		if f.c.Pos() >= f.end {
			f.done = true
			return nil, nil
		}

		startOffset := f.c.Pos()
		recordType, err := f.readType()
		if err != nil {
			f.done = true
			return nil, nil
		}

		width := lengthWidth(f.epoch == logfile.EpochV1to5, recordType)
		if recordType == 1 && f.epoch != logfile.EpochV13Plus {
			// OSD keeps a one-byte length field until v13.
			width = 1
		}
		length, err := f.readLength(width)
		if err != nil {
			f.done = true
			return nil, nil
		}

		bodyBorrowed, err := f.c.ReadBytes(int(length))
		if err != nil {
			f.done = true
			return nil, nil
		}
		body := make([]byte, len(bodyBorrowed))
		copy(body, bodyBorrowed)

		term, err := f.c.ReadU8()
		if err != nil {
			f.done = true
			return nil, nil
		}

		if term != terminator {
			// Best-effort resync: treat `term` as the start of the next
			// record's type byte by rewinding one position.
			if err := f.c.Seek(f.c.Pos() - 1); err != nil {
				f.done = true
				return nil, ErrStreamCorrupt
			}
			f.diagnostics = append(f.diagnostics, Diagnostic{
				Kind:       TerminatorMissing,
				RecordType: recordType,
				Offset:     startOffset,
			})
			f.resyncFails++
			if f.resyncFails >= 2 {
				f.done = true
				return nil, ErrStreamCorrupt
			}
		} else {
			f.resyncFails = 0
		}

		frame := &RawFrame{Type: recordType, Body: body, Offset: startOffset}
		if endRecordTypes[recordType] {
			f.done = true
			f.endSeen = true
		}
		return frame, nil
	}
}

func (f *Framer) readType() (int, error) {
	b, err := f.c.ReadU8()
	if err != nil {
		return 0, err
	}
	return int(b), nil
}

func (f *Framer) readLength(width int) (int, error) {
	if width == 1 {
		b, err := f.c.ReadU8()
		if err != nil {
			return 0, err
		}
		return int(b), nil
	}
	v, err := f.c.ReadU16LE()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
