// Command geojsonexport converts a DJI flight log's normalized frame
// track into a GeoJSON FeatureCollection: one LineString feature for the
// flight path, plus a Point feature for the recorded home position.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"djilog/internal/djiparser"
	"djilog/internal/frames"
)

func main() {
	input := flag.String("input", "", "Input DJI log file (required)")
	output := flag.String("output", "", "Output GeoJSON file (default: stdout)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "geojsonexport: -input is required")
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

	fc := buildFeatureCollection(track)

	data, err = fc.MarshalJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshalling GeoJSON: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(string(data))
}

// buildFeatureCollection turns a frame track into a LineString feature
// (the flight path) plus a Point feature per recorded home position
// change, skipping frames with no GPS fix.
func buildFeatureCollection(track []*frames.Frame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var line orb.LineString
	var lastHome orb.Point
	haveHome := false

	for _, f := range track {
		if f.Latitude != nil && f.Longitude != nil {
			line = append(line, orb.Point{*f.Longitude, *f.Latitude})
		}
		if f.HomeLatitude != nil && f.HomeLongitude != nil {
			home := orb.Point{*f.HomeLongitude, *f.HomeLatitude}
			if !haveHome || home != lastHome {
				point := geojson.NewFeature(home)
				point.Properties["name"] = "home"
				fc.Append(point)
				lastHome = home
				haveHome = true
			}
		}
	}

	if len(line) > 0 {
		path := geojson.NewFeature(line)
		path.Properties["name"] = "flight_path"
		fc.Append(path)
	}

	return fc
}
