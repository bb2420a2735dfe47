package barsim

import (
	"math"
	"time"
)

// Bar is one OHLC record for a sampling interval.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is a time ordered sequence of bars, one bar per timestamp.
type Series []Bar

// Validate checks that the series is non-empty, strictly increasing in time
// and that every bar holds finite, consistent prices.
func (s Series) Validate() error {

	if len(s) == 0 {
		return configErrorf("empty series")
	}

	for i, b := range s {

		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) || !finite(b.Volume) {
			return dataErrorf("bar %d (%s): non-finite value", i, b.Time)
		}

		if b.High < b.Low {
			return dataErrorf("bar %d (%s): high %v below low %v", i, b.Time, b.High, b.Low)
		}

		if b.Open < b.Low || b.Open > b.High || b.Close < b.Low || b.Close > b.High {
			return dataErrorf("bar %d (%s): open/close outside the high-low range", i, b.Time)
		}

		if i > 0 && !b.Time.After(s[i-1].Time) {
			return dataErrorf("bar %d (%s): not after previous bar (%s)", i, b.Time, s[i-1].Time)
		}
	}

	return nil
}

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {

	closes := make([]float64, len(s))
	for i := range s {
		closes[i] = s[i].Close
	}

	return closes
}

// Last returns the last bar of the series, or a zero Bar when it is empty.
func (s Series) Last() Bar {
	if len(s) == 0 {
		return Bar{}
	}

	return s[len(s)-1]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// History is the part of the series visible to the strategy at a given bar:
// every bar up to and including the current one. Accessors hand out copies,
// so the strategy can neither see later bars nor alter the replayed data.
type History struct {
	bars Series
}

func newHistory(series Series, index int) *History {
	return &History{bars: series[:index+1 : index+1]}
}

// Len returns the number of visible bars.
func (h *History) Len() int {
	return len(h.bars)
}

// At returns the k-th visible bar. Negative k counts from the end, so At(-1)
// is the current bar.
func (h *History) At(k int) Bar {
	if k < 0 {
		k += len(h.bars)
	}

	return h.bars[k]
}

// Last returns the current bar.
func (h *History) Last() Bar {
	return h.bars[len(h.bars)-1]
}

// Time returns the timestamp of the current bar.
func (h *History) Time() time.Time {
	return h.Last().Time
}

// Bars returns a copy of the visible bars.
func (h *History) Bars() Series {
	return append(Series(nil), h.bars...)
}

// Closes returns the visible close prices.
func (h *History) Closes() []float64 {
	return h.bars.Closes()
}

// Tail returns a copy of the last n visible bars (fewer if not available).
func (h *History) Tail(n int) Series {
	if n > len(h.bars) {
		n = len(h.bars)
	}
	if n <= 0 {
		return Series{}
	}

	return append(Series(nil), h.bars[len(h.bars)-n:]...)
}
