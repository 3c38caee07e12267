package frames

import (
	"math"
	"time"

	"github.com/paulmach/orb"

	"djilog/internal/records"
)

// Normalizer folds the ordered record stream into a sequence of Frames.
// It is not safe for concurrent use; callers drive it with a single
// goroutine in lockstep with the record source.
type Normalizer struct {
	anchorT0   time.Time
	anchored   bool
	heightMax  float64
	haveHeight bool

	lastPoint  orb.Point
	havePoint  bool
	distanceM  float64

	current *Frame

	// sticky fields, carried forward onto every new frame until replaced.
	homeLat, homeLon, homeAlt, homeHeightLimit *float64
	gimbalPitch, gimbalRoll, gimbalYaw         *float64
	gimbalMode                                 *string
	cameraIsPhoto, cameraIsVideo               *bool
	cameraSDCard                               *string
	customDateTime                             string
}

// New creates an empty Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Feed processes one record in stream order, returning a finalized Frame
// whenever a tick boundary (a new anchored OSD, or an End record) closes
// out the previous one. It returns (nil, false) when rec did not close a
// frame (its fields were folded into the current, still-open frame).
func (n *Normalizer) Feed(rec records.RawRecord) (*Frame, bool) {
	switch r := rec.(type) {
	case records.OSD:
		return n.feedOSD(r)
	case records.Home:
		lat, lon, alt := r.LatitudeDeg, r.LongitudeDeg, float64(r.AltitudeM)
		limit := float64(r.HeightLimitM)
		n.homeLat, n.homeLon, n.homeAlt, n.homeHeightLimit = &lat, &lon, &alt, &limit
		n.foldHome()
	case records.Gimbal:
		pitch, roll, yaw := float64(r.PitchDeg), float64(r.RollDeg), float64(r.YawDeg)
		n.gimbalPitch, n.gimbalRoll, n.gimbalYaw = &pitch, &roll, &yaw
		n.gimbalMode = strp(r.ModeLabel)
		n.foldGimbal()
	case records.Camera:
		n.cameraIsPhoto = boolp(r.IsPhoto)
		n.cameraIsVideo = boolp(r.IsVideo)
		n.cameraSDCard = strp(r.SDCardStateLabel)
		n.foldCamera()
	case records.RC:
		if n.current != nil {
			n.current.RCAileron = f64p(float64(r.Aileron))
			n.current.RCElevator = f64p(float64(r.Elevator))
			n.current.RCThrottle = f64p(float64(r.Throttle))
			n.current.RCRudder = f64p(float64(r.Rudder))
			n.current.RCDownlinkSignal = intp(int(r.DownlinkSignal))
			n.current.RCUplinkSignal = intp(int(r.UplinkSignal))
		}
	case records.Battery:
		if n.current != nil {
			n.current.BatteryPercent = f64p(float64(r.PercentRemaining))
			n.current.BatteryVoltageMV = f64p(float64(r.VoltageMV))
			n.current.BatteryCurrentMA = f64p(float64(r.CurrentMA))
			n.current.BatteryTemperature = f64p(float64(r.TemperatureC))
		}
	case records.SmartBattery:
		if n.current != nil {
			n.current.BatteryPercent = f64p(float64(r.PercentRemaining))
			n.current.BatteryVoltageMV = f64p(float64(r.VoltageMV))
			n.current.BatteryCurrentMA = f64p(float64(r.CurrentMA))
			n.current.BatteryTemperature = f64p(float64(r.TemperatureC))
			n.current.CellVoltagesMV = r.CellVoltagesMV
		}
	case records.Custom:
		n.customDateTime = r.DateTime
		if n.current != nil {
			n.current.CustomDateTime = r.DateTime
		}
	case records.AppGPS:
		if n.current != nil {
			lat, lon := r.LatitudeDeg, r.LongitudeDeg
			n.current.Latitude = &lat
			n.current.Longitude = &lon
		}
	case records.AppTip:
		if n.current != nil {
			n.current.AppTip = strp(r.Text)
		}
	case records.AppWarn:
		if n.current != nil {
			n.current.AppWarn = strp(r.Text)
		}
	case records.End:
		return n.finalize()
	}
	return nil, false
}

func (n *Normalizer) foldHome() {
	if n.current == nil {
		return
	}
	n.current.HomeLatitude = n.homeLat
	n.current.HomeLongitude = n.homeLon
	n.current.HomeAltitude = n.homeAlt
	n.current.HomeHeightLimit = n.homeHeightLimit
}

func (n *Normalizer) foldGimbal() {
	if n.current == nil {
		return
	}
	n.current.GimbalPitch = n.gimbalPitch
	n.current.GimbalRoll = n.gimbalRoll
	n.current.GimbalYaw = n.gimbalYaw
	n.current.GimbalMode = n.gimbalMode
}

func (n *Normalizer) foldCamera() {
	if n.current == nil {
		return
	}
	n.current.CameraIsPhoto = n.cameraIsPhoto
	n.current.CameraIsVideo = n.cameraIsVideo
	n.current.CameraSDCard = n.cameraSDCard
}

func (n *Normalizer) feedOSD(r records.OSD) (*Frame, bool) {
	if !n.anchored {
		if !r.GPSValid || r.GPSNum < 3 {
			// pre-anchor tick: dropped per the pinned pre-anchor policy.
			return nil, false
		}
		n.anchorT0 = time.Unix(int64(r.GPSUTC), 0).UTC().Add(-time.Duration(r.Ticks) * 10 * time.Millisecond)
		n.anchored = true
	}

	finalized, emitted := n.finalize()

	frame := &Frame{
		Time:           n.anchorT0.Add(time.Duration(r.Ticks) * 10 * time.Millisecond),
		CustomDateTime: n.customDateTime,
	}
	n.foldStickyOnto(frame)

	lat, lon, height := r.LatitudeDeg, r.LongitudeDeg, float64(r.HeightM)
	vps, alt := float64(r.VPSHeightM), float64(r.AltitudeM)
	xs, ys, zs := float64(r.XSpeed), float64(r.YSpeed), float64(r.ZSpeed)
	pitch, roll, yaw := float64(r.PitchDeg), float64(r.RollDeg), float64(r.YawDeg)
	flycCode := int(r.FlycStateCode)
	gpsLevel, gpsNum := int(r.GPSLevel), int(r.GPSNum)

	frame.Latitude = &lat
	frame.Longitude = &lon
	frame.Height = &height
	frame.VPSHeight = &vps
	frame.Altitude = &alt
	frame.XSpeed = &xs
	frame.YSpeed = &ys
	frame.ZSpeed = &zs
	frame.Pitch = &pitch
	frame.Roll = &roll
	frame.Yaw = &yaw
	frame.FlycStateCode = &flycCode
	frame.FlycStateLabel = strp(r.FlycStateLabel)
	frame.GPSLevel = &gpsLevel
	frame.GPSNum = &gpsNum

	hspeed := math.Sqrt(xs*xs + ys*ys)
	frame.HorizontalSpeed = &hspeed
	tspeed := math.Sqrt(xs*xs + ys*ys + zs*zs)
	frame.TotalSpeed = &tspeed

	if !n.haveHeight || height > n.heightMax {
		n.heightMax = height
		n.haveHeight = true
	}
	hm := n.heightMax
	frame.HeightMax = &hm

	point := orb.Point{lon, lat}
	if n.havePoint {
		// Haversine great-circle distance on a sphere of radius 6 371 000 m.
		const earthRadiusM = 6371000.0
		lat1, lat2 := n.lastPoint[1]*math.Pi/180, lat*math.Pi/180
		dLat := lat2 - lat1
		dLon := (lon - n.lastPoint[0]) * math.Pi / 180
		a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
		n.distanceM += 2 * earthRadiusM * math.Asin(math.Sqrt(a))
	}
	n.lastPoint = point
	n.havePoint = true
	d := n.distanceM
	frame.DistanceM = &d

	n.current = frame

	return finalized, emitted
}

// foldStickyOnto pre-populates a freshly opened frame with whichever
// persistent/sticky fields have been observed so far, matching the "new
// frame starts with last-known values" rule.
func (n *Normalizer) foldStickyOnto(f *Frame) {
	f.HomeLatitude = n.homeLat
	f.HomeLongitude = n.homeLon
	f.HomeAltitude = n.homeAlt
	f.HomeHeightLimit = n.homeHeightLimit
	f.GimbalPitch = n.gimbalPitch
	f.GimbalRoll = n.gimbalRoll
	f.GimbalYaw = n.gimbalYaw
	f.GimbalMode = n.gimbalMode
	f.CameraIsPhoto = n.cameraIsPhoto
	f.CameraIsVideo = n.cameraIsVideo
	f.CameraSDCard = n.cameraSDCard
}

// finalize closes out the current frame, if any, returning it for
// emission.
func (n *Normalizer) finalize() (*Frame, bool) {
	if n.current == nil {
		return nil, false
	}
	f := n.current
	n.current = nil
	return f, true
}

// Flush finalizes any still-open frame at end of stream (covers inputs
// missing a well-formed End record).
func (n *Normalizer) Flush() (*Frame, bool) {
	return n.finalize()
}
