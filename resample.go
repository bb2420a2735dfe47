package barsim

import (
	"strings"
	"time"
)

// Frequency is a bar sampling interval the simulation replays at.
type Frequency string

// Supported frequencies.
const (
	Minute         Frequency = "1min"
	FiveMinutes    Frequency = "5min"
	FifteenMinutes Frequency = "15min"
	ThirtyMinutes  Frequency = "30min"
	Hour           Frequency = "1h"
	FourHours      Frequency = "4h"
	Daily          Frequency = "D"
	Weekly         Frequency = "W"
)

var intradayDurations = map[Frequency]time.Duration{
	Minute:         time.Minute,
	FiveMinutes:    5 * time.Minute,
	FifteenMinutes: 15 * time.Minute,
	ThirtyMinutes:  30 * time.Minute,
	Hour:           time.Hour,
	FourHours:      4 * time.Hour,
}

// ParseFrequency converts a frequency name to a Frequency.
func ParseFrequency(name string) (Frequency, error) {

	switch strings.TrimSpace(name) {
	case "D", "d", "1d", "1D":
		return Daily, nil
	case "W", "w", "1w", "1W":
		return Weekly, nil
	case "1h", "1H", "h", "H":
		return Hour, nil
	case "4h", "4H":
		return FourHours, nil
	}

	f := Frequency(strings.TrimSpace(name))
	if _, ok := intradayDurations[f]; ok {
		return f, nil
	}

	return "", configErrorf("unknown data frequency %q", name)
}

// Valid reports whether f is a supported frequency.
func (f Frequency) Valid() bool {
	if f == Daily || f == Weekly {
		return true
	}

	_, ok := intradayDurations[f]

	return ok
}

func (f Frequency) String() string {
	return string(f)
}

// bucket returns the start of the interval t falls in.
func (f Frequency) bucket(t time.Time) time.Time {

	switch f {
	case Daily:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case Weekly:
		y, m, d := t.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		return day.AddDate(0, 0, -offset)
	}

	// count from local midnight so buckets align to the wall clock of t
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())

	return day.Add(t.Sub(day).Truncate(intradayDurations[f]))
}

// Resample validates the series and aggregates it into bars of the given
// frequency. Each output bar is labelled with its interval start and carries
// the first open, highest high, lowest low, last close and summed volume of
// the input bars in that interval. Intervals without input produce no bar.
func Resample(series Series, freq Frequency) (Series, error) {

	if !freq.Valid() {
		return nil, configErrorf("unknown data frequency %q", string(freq))
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	out := make(Series, 0, len(series))

	for _, b := range series {

		start := freq.bucket(b.Time)

		if n := len(out); n > 0 && out[n-1].Time.Equal(start) {
			cur := &out[n-1]
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}

		out = append(out, Bar{
			Time:   start,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	return out, nil
}
