package barsim

// drawdownTracker keeps the running peak of a value series and the largest
// fractional decline from a peak seen so far.
type drawdownTracker struct {
	peak    float64
	max     float64
	started bool
}

// next feeds the next value and returns the maximum drawdown of every value
// fed so far.
func (d *drawdownTracker) next(v float64) float64 {

	if !d.started || v > d.peak {
		d.peak = v
		d.started = true
	}

	if d.peak > 0 {
		if dd := (d.peak - v) / d.peak; dd > d.max {
			d.max = dd
		}
	}

	return d.max
}

// MaxDrawdown returns the largest peak-to-trough fractional decline of values,
// as a non-negative fraction. It is zero for fewer than two values.
func MaxDrawdown(values []float64) float64 {

	var d drawdownTracker
	for _, v := range values {
		d.next(v)
	}

	return d.max
}

// DrawdownSeries returns, for every index i, the maximum drawdown of
// values[0..i].
func DrawdownSeries(values []float64) []float64 {

	out := make([]float64, len(values))

	var d drawdownTracker
	for i, v := range values {
		out[i] = d.next(v)
	}

	return out
}
