// Package export writes built storm series in the formats downstream
// hydrologic tools consume: plain CSV and the PCSWMM rain-gauge .dat
// format.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/design-storm/internal/storm"
)

// Column identifies which series column an exporter emits.
type Column string

const (
	ColumnIntensity  Column = "intensity"
	ColumnVolume     Column = "volume"
	ColumnCumulative Column = "cumulative"
)

// value extracts the selected column from a bin.
func (c Column) value(bin storm.Bin) (float64, error) {
	switch c {
	case ColumnIntensity:
		return bin.IntensityInHr, nil
	case ColumnVolume:
		return bin.VolumeIn, nil
	case ColumnCumulative:
		return bin.CumulativeIn, nil
	default:
		return 0, fmt.Errorf("unknown export column %q", c)
	}
}

// WriteCSV writes the series as CSV with CRLF line endings (explicit line
// endings prevent blank rows in Windows spreadsheet viewers). A timestamp
// column is included only when the series carries timestamps.
func WriteCSV(w io.Writer, s storm.Series) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	withTimestamps := len(s.Bins) > 0 && !s.Bins[0].Timestamp.IsZero()

	header := []string{"time_min", "intensity_in_hr", "volume_in", "cumulative_in"}
	if withTimestamps {
		header = append(header, "timestamp")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, bin := range s.Bins {
		row := []string{
			formatFloat(bin.TimeMin),
			formatFloat(bin.IntensityInHr),
			formatFloat(bin.VolumeIn),
			formatFloat(bin.CumulativeIn),
		}
		if withTimestamps {
			row = append(row, bin.Timestamp.Format(time.RFC3339))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGaugeFile writes the fixed-format PCSWMM rain-gauge .dat file. Rows
// carry tab-separated gauge name, timestamp fields, and the selected
// column's value; timestamps start one step after t0. A zero start falls
// back to the format's conventional 2003-01-01 epoch.
func WriteGaugeFile(w io.Writer, s storm.Series, gauge string, column Column, start time.Time) error {
	if gauge == "" {
		gauge = "System"
	}
	if start.IsZero() {
		start = time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	if _, err := fmt.Fprint(w, ";Rainfall (in/hr)\n;PCSWMM generated rain gauges file (please do not edit)\n"); err != nil {
		return fmt.Errorf("write gauge header: %w", err)
	}

	for i, bin := range s.Bins {
		v, err := column.value(bin)
		if err != nil {
			return err
		}
		ts := start.Add(time.Duration(float64(i+1) * s.TimestepMin * float64(time.Minute)))
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.7G\n",
			gauge, ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(), v)
		if err != nil {
			return fmt.Errorf("write gauge row: %w", err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
