package ddf

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// headerMarker identifies the line listing the return-period columns.
const headerMarker = "ARI (years)"

var (
	// durationLabelRe matches duration row labels like "6-hr", "30 minutes",
	// or "1-day:", filtering out metadata rows (Latitude:, station info).
	durationLabelRe = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*[- ]\s*(min|minute|minutes|hr|hour|hours|day|days)\s*:?\s*$`)

	// yearTokenRe extracts the integer year labels from the header.
	yearTokenRe = regexp.MustCompile(`\b\d+\b`)

	// numberRe matches signed decimal and exponential numeric tokens.
	numberRe = regexp.MustCompile(`[-+]?(?:\d*\.\d+|\d+)(?:[eE][-+]?\d+)?`)

	// rowRe splits a "label: rest" line.
	rowRe = regexp.MustCompile(`^([^:]+):\s*(.*)$`)
)

// ParseText parses the NOAA free-text DDF table. It returns nil when the
// header marker is missing or no duration rows match; callers treat a nil
// table as missing data, not as an error.
func ParseText(text string) *Table {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}

	var years []string
	for _, ln := range lines {
		if idx := strings.Index(ln, headerMarker); idx >= 0 {
			for _, tok := range yearTokenRe.FindAllString(ln[idx+len(headerMarker):], -1) {
				n, err := strconv.Atoi(tok)
				if err != nil {
					continue
				}
				years = append(years, strconv.Itoa(n))
			}
			break
		}
	}
	if len(years) == 0 {
		return nil
	}

	table := &Table{Years: years}
	for _, ln := range lines {
		m := rowRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		label, rest := strings.TrimSpace(m[1]), m[2]
		if !durationLabelRe.MatchString(label) {
			continue
		}

		row := make([]float64, len(years))
		tokens := numberRe.FindAllString(rest, -1)
		for j := range row {
			if j >= len(tokens) {
				row[j] = math.NaN() // fewer values than columns
				continue
			}
			v, err := strconv.ParseFloat(tokens[j], 64)
			if err != nil {
				row[j] = math.NaN()
				continue
			}
			row[j] = v
		}

		table.Durations = append(table.Durations, strings.TrimSuffix(label, ":"))
		table.Depths = append(table.Depths, row)
	}

	if len(table.Durations) == 0 {
		return nil
	}
	return table
}
