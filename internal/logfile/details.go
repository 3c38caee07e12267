package logfile

import (
	"fmt"
	"math"

	"djilog/internal/cursor"
)

// ImageRef describes one captured still image referenced from Details: its
// byte length in the (external, not embedded here) media store plus the
// position it was taken at.
type ImageRef struct {
	ByteLength   uint32
	LatitudeDeg  float64
	LongitudeDeg float64
}

// Details summarizes one flight. It is read once, from DetailsOffset, not
// from the record stream, and is immutable once decoded.
type Details struct {
	AircraftSN          string
	CameraSN            string
	ProductType         string
	StartTimeUnix       uint32
	DurationTicks       uint32
	MaxHeightM          float32
	MaxHorizontalSpeed  float32
	MaxVerticalSpeed    float32
	TotalDistanceM      float32
	TakeoffAltitudeM    float32
	IsFavorite          bool
	IsNew               bool
	City                string
	Street              string
	MomentPictureCount  uint16
	Images              []ImageRef
}

var productTypeNames = map[uint8]string{
	0: "unknown",
	1: "inspire1",
	2: "phantom3adv",
	3: "phantom3pro",
	4: "inspire1pro",
	5: "phantom3std",
	6: "mavicpro",
	7: "phantom4",
	8: "phantom4pro",
	9: "mavic2",
	10: "mavicair",
	11: "mavicmini",
	12: "mavic3",
}

func productTypeName(code uint8) string {
	if name, ok := productTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", code)
}

// DecodeDetails reads the Details record body at p.DetailsOffset. The layout
// varies by epoch: EpochV13Plus adds city/street fields that do not exist in
// earlier logs; the legacy layout leaves them empty.
func DecodeDetails(data []byte, p Prefix) (Details, error) {
	c := cursor.New(data)
	if err := c.Seek(int(p.DetailsOffset)); err != nil {
		return Details{}, fmt.Errorf("logfile: seek to details: %w", err)
	}

	var d Details
	var err error

	if d.AircraftSN, err = c.ReadFixedString(16); err != nil {
		return Details{}, fmt.Errorf("logfile: details aircraft_sn: %w", err)
	}
	if d.CameraSN, err = c.ReadFixedString(16); err != nil {
		return Details{}, fmt.Errorf("logfile: details camera_sn: %w", err)
	}
	productCode, err := c.ReadU8()
	if err != nil {
		return Details{}, fmt.Errorf("logfile: details product_type: %w", err)
	}
	d.ProductType = productTypeName(productCode)

	if d.StartTimeUnix, err = c.ReadU32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details start_time: %w", err)
	}
	if d.DurationTicks, err = c.ReadU32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details duration: %w", err)
	}
	if d.MaxHeightM, err = c.ReadF32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details max_height: %w", err)
	}
	if d.MaxHorizontalSpeed, err = c.ReadF32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details max_h_speed: %w", err)
	}
	if d.MaxVerticalSpeed, err = c.ReadF32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details max_v_speed: %w", err)
	}
	if d.TotalDistanceM, err = c.ReadF32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details total_distance: %w", err)
	}
	if d.TakeoffAltitudeM, err = c.ReadF32LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details takeoff_altitude: %w", err)
	}

	favByte, err := c.ReadU8()
	if err != nil {
		return Details{}, fmt.Errorf("logfile: details is_favorite: %w", err)
	}
	d.IsFavorite = favByte != 0

	newByte, err := c.ReadU8()
	if err != nil {
		return Details{}, fmt.Errorf("logfile: details is_new: %w", err)
	}
	d.IsNew = newByte != 0

	if p.Epoch == EpochV13Plus {
		if d.City, err = c.ReadFixedString(32); err != nil {
			return Details{}, fmt.Errorf("logfile: details city: %w", err)
		}
		if d.Street, err = c.ReadFixedString(64); err != nil {
			return Details{}, fmt.Errorf("logfile: details street: %w", err)
		}
	}

	if d.MomentPictureCount, err = c.ReadU16LE(); err != nil {
		return Details{}, fmt.Errorf("logfile: details moment_picture_count: %w", err)
	}

	imageCount, err := c.ReadU16LE()
	if err != nil {
		return Details{}, fmt.Errorf("logfile: details image_count: %w", err)
	}
	d.Images = make([]ImageRef, 0, imageCount)
	for i := 0; i < int(imageCount); i++ {
		byteLen, err := c.ReadU32LE()
		if err != nil {
			return Details{}, fmt.Errorf("logfile: details image[%d] byte_length: %w", i, err)
		}
		latRad, err := c.ReadF64LE()
		if err != nil {
			return Details{}, fmt.Errorf("logfile: details image[%d] latitude: %w", i, err)
		}
		lonRad, err := c.ReadF64LE()
		if err != nil {
			return Details{}, fmt.Errorf("logfile: details image[%d] longitude: %w", i, err)
		}
		d.Images = append(d.Images, ImageRef{
			ByteLength:   byteLen,
			LatitudeDeg:  radiansToDegrees(latRad),
			LongitudeDeg: radiansToDegrees(lonRad),
		})
	}

	return d, nil
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
