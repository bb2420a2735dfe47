// Package feeds loads and stores bar series for the backtester.
package feeds

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/luismcruz/barsim"
)

var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ReadCSV reads a series from CSV with a header row naming the columns time,
// open, high, low, close and optionally volume, in any order. Times are
// RFC3339, "2006-01-02[ 15:04:05]" (UTC) or unix seconds.
func ReadCSV(r io.Reader) (barsim.Series, error) {

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(barsim.ErrData, "reading csv header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range csvHeader[:5] {
		if _, ok := columns[required]; !ok {
			return nil, errors.Wrapf(barsim.ErrData, "csv column %q missing", required)
		}
	}

	var series barsim.Series

	for line := 2; ; line++ {

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(barsim.ErrData, "csv line %d: %v", line, err)
		}

		bar, err := parseRecord(record, columns)
		if err != nil {
			return nil, errors.Wrapf(err, "csv line %d", line)
		}

		series = append(series, bar)
	}

	return series, nil
}

func parseRecord(record []string, columns map[string]int) (barsim.Bar, error) {

	var bar barsim.Bar

	t, err := parseTime(record[columns["time"]])
	if err != nil {
		return bar, err
	}
	bar.Time = t

	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
		{"volume", &bar.Volume},
	}

	for _, f := range fields {
		i, ok := columns[f.name]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return bar, errors.Wrapf(barsim.ErrData, "%s: %v", f.name, err)
		}
		*f.dst = v
	}

	return bar, nil
}

func parseTime(value string) (time.Time, error) {

	value = strings.TrimSpace(value)

	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Wrapf(barsim.ErrData, "unrecognized time %q", value)
}

// WriteCSV writes the series with an RFC3339 time column.
func WriteCSV(w io.Writer, series barsim.Series) error {

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, b := range series {
		record := []string{
			b.Time.Format(time.RFC3339Nano),
			strconv.FormatFloat(b.Open, 'g', -1, 64),
			strconv.FormatFloat(b.High, 'g', -1, 64),
			strconv.FormatFloat(b.Low, 'g', -1, 64),
			strconv.FormatFloat(b.Close, 'g', -1, 64),
			strconv.FormatFloat(b.Volume, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
