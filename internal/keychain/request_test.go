package keychain

import (
	"encoding/json"
	"strings"
	"testing"

	"djilog/internal/logfile"
)

func TestBuildRequestDeterministic(t *testing.T) {
	info := logfile.EncryptionInfo{
		Version: 13,
		Entries: []logfile.EncryptionInfoEntry{
			{FeaturePoint: "osd", Version: 1, AESCiphertext: []byte{1, 2, 3}},
			{FeaturePoint: "home", Version: 1, AESCiphertext: []byte{4, 5, 6}},
		},
	}

	a, errA := json.Marshal(BuildRequest(info))
	b, errB := json.Marshal(BuildRequest(info))
	if errA != nil || errB != nil {
		t.Fatalf("marshal errors: %v %v", errA, errB)
	}
	if string(a) != string(b) {
		t.Fatalf("expected byte-identical output, got %s vs %s", a, b)
	}
}

func TestBuildRequestOmitsOptionalFields(t *testing.T) {
	info := logfile.EncryptionInfo{Version: 13}
	out, err := json.Marshal(BuildRequest(info))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "department") || strings.Contains(s, "file_version") {
		t.Fatalf("expected omitted optional fields, got %s", s)
	}
}
