package frames

import (
	"math"
	"testing"

	"djilog/internal/records"
)

func TestHaversineSanityTwoWaypoints(t *testing.T) {
	n := New()

	first := records.OSD{Ticks: 0, LatitudeDeg: 0, LongitudeDeg: 0, GPSValid: true, GPSNum: 6, GPSUTC: 1_700_000_000}
	second := records.OSD{Ticks: 100, LatitudeDeg: 0, LongitudeDeg: 1, GPSValid: true, GPSNum: 6, GPSUTC: 1_700_000_000}

	if f, emitted := n.Feed(first); emitted || f != nil {
		t.Fatalf("first OSD should not emit yet: %v %v", f, emitted)
	}
	f2, emitted := n.Feed(second)
	if !emitted || f2 == nil {
		t.Fatalf("second OSD should finalize the first frame")
	}
	if f2.DistanceM == nil || *f2.DistanceM != 0 {
		t.Fatalf("the emitted frame is the first tick, distance should be 0, got %v", f2.DistanceM)
	}

	final, emitted := n.Flush()
	if !emitted || final == nil || final.DistanceM == nil {
		t.Fatalf("expected a final frame with accumulated distance")
	}
	want := 111195.0
	if math.Abs(*final.DistanceM-want) > 1.0 {
		t.Fatalf("distance = %v, want ~%v", *final.DistanceM, want)
	}
}

func TestPreAnchorFramesDropped(t *testing.T) {
	n := New()
	rec := records.OSD{Ticks: 50, LatitudeDeg: 1, LongitudeDeg: 1, GPSValid: false}
	f, emitted := n.Feed(rec)
	if emitted || f != nil {
		t.Fatalf("pre-anchor frame should be dropped, got %v %v", f, emitted)
	}
}

func TestHomeFoldsIntoCurrentFrame(t *testing.T) {
	n := New()
	n.Feed(records.OSD{Ticks: 0, LatitudeDeg: 0, LongitudeDeg: 0, GPSValid: true, GPSNum: 6, GPSUTC: 1_700_000_000})
	n.Feed(records.Home{LatitudeDeg: 10, LongitudeDeg: 20, AltitudeM: 30, HeightLimitM: 120})
	final, emitted := n.Flush()
	if !emitted || final.HomeLatitude == nil || *final.HomeLatitude != 10 {
		t.Fatalf("expected home fields folded into frame, got %+v", final)
	}
}
