package catalog

import (
	"testing"

	"djilog/internal/logfile"
)

func testDetails(sn string) logfile.Details {
	return logfile.Details{
		AircraftSN:     sn,
		CameraSN:       "CAM-1",
		ProductType:    "mavicpro",
		StartTimeUnix:  1_700_000_000,
		DurationTicks:  1000,
		MaxHeightM:     100,
		TotalDistanceM: 500,
	}
}

func TestRecordSessionCreatesAircraftAndCamera(t *testing.T) {
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	var newAircraft *Aircraft
	c.OnAircraftNew(func(a *Aircraft) { newAircraft = a })

	id, err := c.RecordSession(testDetails("SN-1"), "/flights/sn1-001.txt")
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a non-empty session id")
	}
	if newAircraft == nil || newAircraft.Serial != "SN-1" {
		t.Fatalf("expected OnAircraftNew callback for SN-1, got %+v", newAircraft)
	}

	a, err := c.GetAircraft("SN-1")
	if err != nil {
		t.Fatalf("GetAircraft: %v", err)
	}
	if a == nil || a.SessionCount != 1 {
		t.Fatalf("expected aircraft with session_count=1, got %+v", a)
	}
}

func TestSessionsForAircraftAccumulates(t *testing.T) {
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, err := c.RecordSession(testDetails("SN-2"), "/flights/sn2-001.txt"); err != nil {
		t.Fatalf("RecordSession 1: %v", err)
	}
	if _, err := c.RecordSession(testDetails("SN-2"), "/flights/sn2-002.txt"); err != nil {
		t.Fatalf("RecordSession 2: %v", err)
	}

	sessions, err := c.SessionsForAircraft("SN-2")
	if err != nil {
		t.Fatalf("SessionsForAircraft: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SourcePath == "" {
		t.Fatalf("expected source_path to round-trip, got empty")
	}

	stats := c.GetStats()
	if stats.TotalSessions != 2 || stats.UnsyncedCount != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	unsynced, err := c.UnsyncedSessions()
	if err != nil {
		t.Fatalf("UnsyncedSessions: %v", err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("expected 2 unsynced sessions, got %d", len(unsynced))
	}

	if err := c.MarkSynced(sessions[0].ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if stats := c.GetStats(); stats.UnsyncedCount != 1 {
		t.Fatalf("expected 1 unsynced after marking one, got %d", stats.UnsyncedCount)
	}
}
