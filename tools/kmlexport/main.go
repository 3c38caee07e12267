// Command kmlexport converts a DJI flight log's normalized frame track
// into a KML file for viewing in Google Earth, Google Maps, and other
// mapping applications.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"time"

	"djilog/internal/djiparser"
	"djilog/internal/frames"
	"djilog/internal/logfile"
)

// KML structures for XML marshalling.
// These follow the KML 2.2 specification: https://developers.google.com/kml/documentation/kmlreference

// KML is the root element of a KML document.
type KML struct {
	XMLName   xml.Name `xml:"kml"`
	Namespace string   `xml:"xmlns,attr"`
	Document  Document `xml:"Document"`
}

// Document contains the document metadata and features.
type Document struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description,omitempty"`
	Styles      []Style     `xml:"Style,omitempty"`
	Placemarks  []Placemark `xml:"Placemark"`
}

// Style defines the visual appearance of features.
type Style struct {
	ID        string    `xml:"id,attr"`
	LineStyle LineStyle `xml:"LineStyle"`
}

// LineStyle defines how line geometry is rendered.
type LineStyle struct {
	Color string  `xml:"color,omitempty"`
	Width float64 `xml:"width,omitempty"`
}

// Placemark represents a geographic feature with geometry and metadata.
type Placemark struct {
	Name         string        `xml:"name"`
	Description  string        `xml:"description,omitempty"`
	StyleURL     string        `xml:"styleUrl,omitempty"`
	LineString   *LineString   `xml:"LineString,omitempty"`
	Point        *Point        `xml:"Point,omitempty"`
	ExtendedData *ExtendedData `xml:"ExtendedData,omitempty"`
}

// LineString represents a connected sequence of coordinates.
type LineString struct {
	Tessellate  int    `xml:"tessellate"`
	Coordinates string `xml:"coordinates"`
}

// Point represents a single geographic location.
type Point struct {
	Coordinates string `xml:"coordinates"` // Format: lon,lat,altitude
}

// ExtendedData holds custom data associated with a placemark.
type ExtendedData struct {
	Data []Data `xml:"Data"`
}

// Data represents a single piece of extended data.
type Data struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

func main() {
	input := flag.String("input", "", "Input DJI log file (required)")
	output := flag.String("output", "", "Output KML file (default: stdout)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "kmlexport: -input is required")
		os.Exit(2)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	p, err := djiparser.FromBytes(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing log: %v\n", err)
		os.Exit(1)
	}

	frameSeq, err := p.Frames(context.Background(), djiparser.NoDecryption())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening frame sequence: %v\n", err)
		os.Exit(1)
	}

	var track []*frames.Frame
	for {
		f, err := frameSeq.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading frames: %v\n", err)
			os.Exit(1)
		}
		if f == nil {
			break
		}
		track = append(track, f)
	}

	if len(track) == 0 {
		fmt.Fprintln(os.Stderr, "No GPS-anchored frames found in log")
		os.Exit(0)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Exporting %d frames to KML\n", len(track))
	}

	kml := generateKML(p.Details(), track)

	xmlData, err := xml.MarshalIndent(kml, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating KML: %v\n", err)
		os.Exit(1)
	}
	xmlOutput := xml.Header + string(xmlData)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(xmlOutput), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
		}
		return
	}
	fmt.Println(xmlOutput)
}

// generateKML builds a KML document with one LineString placemark for the
// flight path and, when present, a Point placemark for the home position.
func generateKML(details logfile.Details, track []*frames.Frame) KML {
	var coords string
	var home *frames.Frame
	for _, f := range track {
		if f.Latitude == nil || f.Longitude == nil {
			continue
		}
		alt := 0.0
		if f.Altitude != nil {
			alt = *f.Altitude
		}
		coords += fmt.Sprintf("%.7f,%.7f,%.1f\n", *f.Longitude, *f.Latitude, alt)
		if home == nil && f.HomeLatitude != nil && f.HomeLongitude != nil {
			home = f
		}
	}

	placemarks := []Placemark{
		{
			Name:     "Flight Path",
			StyleURL: "#pathStyle",
			LineString: &LineString{
				Tessellate:  1,
				Coordinates: coords,
			},
			ExtendedData: &ExtendedData{
				Data: []Data{
					{Name: "aircraft_sn", Value: details.AircraftSN},
					{Name: "product_type", Value: details.ProductType},
					{Name: "total_distance_m", Value: fmt.Sprintf("%.1f", details.TotalDistanceM)},
					{Name: "max_height_m", Value: fmt.Sprintf("%.1f", details.MaxHeightM)},
				},
			},
		},
	}

	if home != nil {
		placemarks = append(placemarks, Placemark{
			Name: "Home",
			Point: &Point{
				Coordinates: fmt.Sprintf("%.7f,%.7f,0", *home.HomeLongitude, *home.HomeLatitude),
			},
		})
	}

	return KML{
		Namespace: "http://www.opengis.net/kml/2.2",
		Document: Document{
			Name:        "DJI Flight Log",
			Description: fmt.Sprintf("Flight path extracted from a DJI flight log. Generated %s.", time.Now().Format("2006-01-02 15:04:05")),
			Styles: []Style{
				{
					ID:        "pathStyle",
					LineStyle: LineStyle{Color: "ff0055ff", Width: 3},
				},
			},
			Placemarks: placemarks,
		},
	}
}
