package barsim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {

	for name, want := range map[string]Frequency{
		"D":     Daily,
		"d":     Daily,
		"W":     Weekly,
		"1h":    Hour,
		"H":     Hour,
		"4h":    FourHours,
		"5min":  FiveMinutes,
		"15min": FifteenMinutes,
	} {
		got, err := ParseFrequency(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFrequency("fortnight")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestResampleHourlyToDaily(t *testing.T) {

	var series Series
	prices := []float64{10, 12, 9, 11, 20, 21, 19, 22}
	for i, p := range prices {
		day := i / 4
		series = append(series, Bar{
			Time:   testStart.AddDate(0, 0, day).Add(time.Duration(i%4) * time.Hour),
			Open:   p,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 2,
		})
	}

	out, err := Resample(series, Daily)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].Time.Equal(testStart))
	assert.Equal(t, 10.0, out[0].Open)
	assert.Equal(t, 13.0, out[0].High)
	assert.Equal(t, 8.0, out[0].Low)
	assert.Equal(t, 11.0, out[0].Close)
	assert.Equal(t, 8.0, out[0].Volume)

	assert.True(t, out[1].Time.Equal(testStart.AddDate(0, 0, 1)))
	assert.Equal(t, 20.0, out[1].Open)
	assert.Equal(t, 23.0, out[1].High)
	assert.Equal(t, 18.0, out[1].Low)
	assert.Equal(t, 22.0, out[1].Close)

	assert.Equal(t, 10.0, series[0].High-1, "input must not be mutated")
}

func TestResampleWeekly(t *testing.T) {

	// testStart is a Monday; ten days span two weeks.
	series := dailySeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	out, err := Resample(series, Weekly)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].Time.Equal(testStart))
	assert.Equal(t, 7.0, out[0].Close)
	assert.True(t, out[1].Time.Equal(testStart.AddDate(0, 0, 7)))
	assert.Equal(t, 8.0, out[1].Open)
	assert.Equal(t, 10.0, out[1].Close)
}

func TestResampleSameFrequencyIsIdentity(t *testing.T) {

	series := dailySeries(100, 105, 95)

	out, err := Resample(series, Daily)
	require.NoError(t, err)
	assert.Equal(t, series, out)
}

func TestResampleSkipsEmptyBuckets(t *testing.T) {

	series := Series{
		{Time: testStart, Open: 1, High: 1, Low: 1, Close: 1},
		{Time: testStart.Add(3 * time.Hour), Open: 2, High: 2, Low: 2, Close: 2},
	}

	out, err := Resample(series, Hour)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestResampleIntradayUsesLocalClock(t *testing.T) {

	ist := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2021, 1, 4, 9, 15, 0, 0, ist)

	var series Series
	for i := 0; i < 6; i++ {
		p := float64(10 + i)
		series = append(series, Bar{Time: start.Add(time.Duration(i) * time.Hour), Open: p, High: p, Low: p, Close: p})
	}

	hourly, err := Resample(series, Hour)
	require.NoError(t, err)
	require.Len(t, hourly, 6)
	assert.Equal(t, 9, hourly[0].Time.Hour())
	assert.Equal(t, 0, hourly[0].Time.Minute())
	assert.True(t, hourly[0].Time.Equal(time.Date(2021, 1, 4, 9, 0, 0, 0, ist)))

	fourHours, err := Resample(series, FourHours)
	require.NoError(t, err)
	require.Len(t, fourHours, 2)
	assert.True(t, fourHours[0].Time.Equal(time.Date(2021, 1, 4, 8, 0, 0, 0, ist)))
	assert.True(t, fourHours[1].Time.Equal(time.Date(2021, 1, 4, 12, 0, 0, 0, ist)))
	assert.Equal(t, 13.0, fourHours[1].Open)
	assert.Equal(t, 15.0, fourHours[1].Close)
}

func TestResampleRejectsBadInput(t *testing.T) {

	_, err := Resample(Series{}, Daily)
	assert.True(t, errors.Is(err, ErrConfiguration))

	unordered := dailySeries(1, 2, 3)
	unordered[0], unordered[2] = unordered[2], unordered[0]
	_, err = Resample(unordered, Daily)
	assert.True(t, errors.Is(err, ErrData))

	_, err = Resample(dailySeries(1), Frequency("2D"))
	assert.True(t, errors.Is(err, ErrConfiguration))
}
