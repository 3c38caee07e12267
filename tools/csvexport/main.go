// Command csvexport flattens a DJI flight log's normalized frame track
// into a CSV suitable for spreadsheets and ad-hoc analysis.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"djilog/internal/djiparser"
	"djilog/internal/frames"
)

var columns = []string{
	"time", "latitude", "longitude", "height", "altitude",
	"horizontal_speed", "total_speed", "height_max", "distance_m",
	"flyc_state", "battery_percent",
}

func main() {
	input := flag.String("input", "", "Input DJI log file (required)")
	output := flag.String("output", "", "Output CSV file (default: stdout)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "csvexport: -input is required")
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

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		os.Exit(1)
	}

	for {
		f, err := frameSeq.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading frames: %v\n", err)
			os.Exit(1)
		}
		if f == nil {
			break
		}
		if err := cw.Write(row(f)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing row: %v\n", err)
			os.Exit(1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing CSV: %v\n", err)
		os.Exit(1)
	}
}

func row(f *frames.Frame) []string {
	return []string{
		f.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		fstr(f.Latitude),
		fstr(f.Longitude),
		fstr(f.Height),
		fstr(f.Altitude),
		fstr(f.HorizontalSpeed),
		fstr(f.TotalSpeed),
		fstr(f.HeightMax),
		fstr(f.DistanceM),
		sstr(f.FlycStateLabel),
		fstr(f.BatteryPercent),
	}
}

func fstr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func sstr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
