// Command designstorm builds a synthetic design storm from the command line
// and writes it as CSV or a PCSWMM rain-gauge file. Rainfall depth comes
// either from -depth or from the NOAA Atlas 14 DDF table for -location.
//
// Usage:
//
//	go run ./cmd/designstorm \
//	  -duration 24 -return-period 25 -location "40.44,-79.99" -use-noaa \
//	  -distribution scs_type_ii -time-step 5 -out-csv storm.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/design-storm/internal/config"
	"github.com/couchcryptid/design-storm/internal/ddf"
	"github.com/couchcryptid/design-storm/internal/ddf/noaa"
	"github.com/couchcryptid/design-storm/internal/export"
	"github.com/couchcryptid/design-storm/internal/observability"
	"github.com/couchcryptid/design-storm/internal/preset"
	"github.com/couchcryptid/design-storm/internal/storm"
)

type options struct {
	depth         float64
	depthSet      bool
	duration      float64
	returnPeriod  float64
	timestep      float64
	distribution  string
	customCurve   string
	location      string
	useNOAA       bool
	startDatetime string
	outCSV        string
	outDat        string
	gaugeName     string
	exportType    string
	savePreset    string
	loadPreset    string
	verbose       bool
	quiet         bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := newLogger(stderr, opts.verbose, opts.quiet)

	if opts.loadPreset != "" {
		p, err := preset.Load(opts.loadPreset)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		applyPreset(opts, p)
	}

	if opts.savePreset != "" {
		if err := preset.Save(opts.savePreset, presetFromOptions(opts)); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		logger.Info("preset saved", "path", opts.savePreset)
	}

	var start time.Time
	if opts.startDatetime != "" {
		start, err = time.Parse(time.RFC3339, opts.startDatetime)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid -start-datetime: %v\n", err)
			return 2
		}
	}

	depth, ok := resolveDepth(opts, logger, stderr)
	if !ok {
		return 1
	}

	builder := storm.NewBuilder(storm.NewLibrary())
	series, err := builder.Build(storm.Request{
		DepthIn:         depth,
		DurationHr:      opts.duration,
		TimestepMin:     opts.timestep,
		Distribution:    opts.distribution,
		CustomCurvePath: opts.customCurve,
		Start:           start,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	logger.Info("storm built",
		"series_id", series.ID,
		"distribution", series.Distribution,
		"bins", len(series.Bins),
		"total_in", series.TotalIn())

	return writeOutputs(series, opts, start, stdout, stderr)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("designstorm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Float64Var(&opts.depth, "depth", 0, "total rainfall depth in inches (omit to resolve via NOAA)")
	fs.Float64Var(&opts.duration, "duration", 0, "storm duration in hours (required)")
	fs.Float64Var(&opts.returnPeriod, "return-period", 10, "return period in years for NOAA depth lookup")
	fs.Float64Var(&opts.timestep, "time-step", 5, "output timestep in minutes")
	fs.StringVar(&opts.distribution, "distribution", storm.DistSCSTypeII, "temporal distribution name")
	fs.StringVar(&opts.customCurve, "custom-curve", "", "CSV file with a user-supplied cumulative curve")
	fs.StringVar(&opts.location, "location", "", `location as "lat,lon" for NOAA depth lookup`)
	fs.BoolVar(&opts.useNOAA, "use-noaa", false, "resolve depth from the NOAA Atlas 14 DDF service")
	fs.StringVar(&opts.startDatetime, "start-datetime", "", "RFC 3339 start time for bin timestamps")
	fs.StringVar(&opts.outCSV, "out-csv", "", "write the series as CSV to this path (default stdout)")
	fs.StringVar(&opts.outDat, "out-dat", "", "write a PCSWMM rain-gauge .dat file to this path")
	fs.StringVar(&opts.gaugeName, "gauge-name", "System", "gauge name for the .dat file")
	fs.StringVar(&opts.exportType, "export-type", "intensity", "column for the .dat file: intensity, volume, or cumulative")
	fs.StringVar(&opts.savePreset, "save-preset", "", "save the request as a JSON preset to this path")
	fs.StringVar(&opts.loadPreset, "load-preset", "", "load request defaults from a JSON preset")
	fs.BoolVar(&opts.verbose, "v", false, "verbose (debug) logging")
	fs.BoolVar(&opts.quiet, "q", false, "log errors only")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "depth" {
			opts.depthSet = true
		}
	})
	return opts, nil
}

func newLogger(stderr io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// applyPreset fills in options the command line left at their defaults.
func applyPreset(opts *options, p preset.Preset) {
	if !opts.depthSet && p.DepthIn != nil {
		opts.depth = *p.DepthIn
		opts.depthSet = true
	}
	if opts.duration == 0 {
		opts.duration = p.DurationHr
	}
	if p.ReturnPeriodYr != 0 {
		opts.returnPeriod = p.ReturnPeriodYr
	}
	if p.TimestepMin != 0 {
		opts.timestep = p.TimestepMin
	}
	if p.Distribution != "" {
		opts.distribution = p.Distribution
	}
	if opts.customCurve == "" {
		opts.customCurve = p.CustomCurve
	}
	if opts.location == "" {
		opts.location = p.Location
	}
	if opts.startDatetime == "" {
		opts.startDatetime = p.StartDatetime
	}
	if p.GaugeName != "" {
		opts.gaugeName = p.GaugeName
	}
	if p.ExportType != "" {
		opts.exportType = p.ExportType
	}
}

func presetFromOptions(opts *options) preset.Preset {
	p := preset.Preset{
		Location:       opts.location,
		DurationHr:     opts.duration,
		ReturnPeriodYr: opts.returnPeriod,
		TimestepMin:    opts.timestep,
		Distribution:   opts.distribution,
		CustomCurve:    opts.customCurve,
		StartDatetime:  opts.startDatetime,
		GaugeName:      opts.gaugeName,
		ExportType:     opts.exportType,
	}
	if opts.depthSet {
		depth := opts.depth
		p.DepthIn = &depth
	}
	return p
}

// resolveDepth returns the depth to build with, fetching from NOAA when the
// command line did not supply one.
func resolveDepth(opts *options, logger *slog.Logger, stderr io.Writer) (float64, bool) {
	if opts.depthSet {
		return opts.depth, true
	}
	if !opts.useNOAA || opts.location == "" {
		fmt.Fprintln(stderr, "error: -depth is required unless -use-noaa and -location are given")
		return 0, false
	}

	lat, lon, err := parseLocation(opts.location)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 0, false
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 0, false
	}
	metrics := observability.NewMetrics()
	client := noaa.NewClient(cfg.NOAABaseURL, cfg.NOAATimeout, metrics, logger)
	resolver := ddf.NewResolver(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.NOAATimeout+5*time.Second)
	defer cancel()

	depth, ok := resolver.ResolveDepth(ctx, lat, lon, opts.duration, opts.returnPeriod)
	if !ok {
		fmt.Fprintln(stderr, "error: no NOAA depth available for the requested location and duration")
		return 0, false
	}
	logger.Info("depth resolved from NOAA",
		"depth_in", depth,
		"duration_hr", opts.duration,
		"return_period_yr", opts.returnPeriod)
	return depth, true
}

func parseLocation(raw string) (lat, lon float64, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf(`invalid -location %q, expected "lat,lon"`, raw)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return lat, lon, nil
}

func writeOutputs(series storm.Series, opts *options, start time.Time, stdout, stderr io.Writer) int {
	if opts.outCSV != "" {
		if code := writeFile(opts.outCSV, stderr, func(w io.Writer) error {
			return export.WriteCSV(w, series)
		}); code != 0 {
			return code
		}
	}

	if opts.outDat != "" {
		column := export.Column(opts.exportType)
		if code := writeFile(opts.outDat, stderr, func(w io.Writer) error {
			return export.WriteGaugeFile(w, series, opts.gaugeName, column, start)
		}); code != 0 {
			return code
		}
	}

	if opts.outCSV == "" && opts.outDat == "" {
		if err := export.WriteCSV(stdout, series); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}

func writeFile(path string, stderr io.Writer, write func(io.Writer) error) int {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := write(f); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
