package barsim

import (
	"time"
)

var testStart = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

// dailySeries builds daily bars with open, high, low and close all at the
// given closes.
func dailySeries(closes ...float64) Series {

	series := make(Series, len(closes))
	for i, c := range closes {
		series[i] = Bar{
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}

	return series
}

type recordingReporter struct {
	reports []*Report
}

func (r *recordingReporter) Report(report *Report) error {
	r.reports = append(r.reports, report)
	return nil
}
