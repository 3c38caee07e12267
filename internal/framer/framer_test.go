package framer

import (
	"testing"

	"djilog/internal/logfile"
)

func buildRecord(typ int, body []byte, goodTerminator bool) []byte {
	out := []byte{byte(typ), byte(len(body))}
	out = append(out, body...)
	if goodTerminator {
		out = append(out, terminator)
	} else {
		out = append(out, 0x00)
	}
	return out
}

func TestFramerHappyPathV6(t *testing.T) {
	var data []byte
	data = append(data, buildRecord(1, []byte{1, 2, 3}, true)...)
	data = append(data, buildRecord(2, []byte{9, 9}, true)...)
	data = append(data, buildRecord(50, nil, true)...)

	prefix := logfile.Prefix{Epoch: logfile.EpochV6to12, RecordsOffset: 0, RecordsEndOffset: uint64(len(data))}
	fr, err := New(data, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var types []int
	for {
		rec, err := fr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		types = append(types, rec.Type)
	}
	if len(types) != 3 || types[2] != 50 {
		t.Fatalf("unexpected records: %v", types)
	}
	if len(fr.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", fr.Diagnostics())
	}
	if !fr.EndSeen() {
		t.Fatalf("expected EndSeen after a type-50 record")
	}
}

func TestFramerMissingEndNotSilentlyIgnored(t *testing.T) {
	var data []byte
	data = append(data, buildRecord(1, []byte{1, 2, 3}, true)...)
	data = append(data, buildRecord(2, []byte{9, 9}, true)...)

	prefix := logfile.Prefix{Epoch: logfile.EpochV6to12, RecordsOffset: 0, RecordsEndOffset: uint64(len(data))}
	fr, err := New(data, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for {
		rec, err := fr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
	}
	if fr.EndSeen() {
		t.Fatalf("expected EndSeen false: no End record was present in the stream")
	}
}

func TestFramerTerminatorMissingResyncs(t *testing.T) {
	var data []byte
	data = append(data, buildRecord(1, []byte{1, 2, 3}, false)...) // bad terminator
	data = append(data, buildRecord(2, []byte{9, 9}, true)...)
	data = append(data, buildRecord(50, nil, true)...)

	prefix := logfile.Prefix{Epoch: logfile.EpochV6to12, RecordsOffset: 0, RecordsEndOffset: uint64(len(data))}
	fr, err := New(data, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	count := 0
	for {
		rec, err := fr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		count++
	}
	if len(fr.Diagnostics()) < 1 {
		t.Fatalf("expected at least one TerminatorMissing diagnostic")
	}
	if count < 2 {
		t.Fatalf("expected resync to still yield records, got %d", count)
	}
}
