package catalog

import "time"

// Aircraft is a reference record for one airframe, identified by the
// serial number burned into every log it produces.
type Aircraft struct {
	Serial       string
	ProductType  string
	FirstSeen    time.Time
	LastSeen     time.Time
	SessionCount int
}

// Camera is a reference record for one camera/gimbal unit.
type Camera struct {
	Serial    string
	FirstSeen time.Time
	LastSeen  time.Time
}

// Session is the catalog's summary of one imported log.
type Session struct {
	ID              string
	AircraftSerial  string
	CameraSerial    string
	SourcePath      string
	StartTimeUnix   int64
	DurationTicks   int64
	TotalDistanceM  float64
	MaxHeightM      float64
	ImportedAt      time.Time
}
