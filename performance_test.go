package barsim

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatEquity(series Series, value float64) []EquitySample {

	equity := make([]EquitySample, len(series))
	for i, b := range series {
		equity[i] = EquitySample{Time: b.Time, Value: value}
	}

	return equity
}

func TestPercentChange(t *testing.T) {

	v, err := PercentChange(100, 121)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, v, 1e-15)

	v, err = PercentChange(50, 25)
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	v, err = PercentChange(0, 1)
	assert.True(t, errors.Is(err, ErrZeroBase))
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, math.IsNaN(v))
}

func TestBuildPerformance(t *testing.T) {

	series := dailySeries(100, 105, 95)
	equity := []EquitySample{
		{Time: series[0].Time, Value: 1000},
		{Time: series[1].Time, Value: 1100},
		{Time: series[2].Time, Value: 990},
	}

	perf, err := BuildPerformance(series, equity, 1000)
	require.NoError(t, err)
	require.Equal(t, 3, perf.Len())

	assert.Equal(t, []float64{1000, 1050, 950}, perf.Column(func(r PerformanceRow) float64 { return r.BaseEquity }))
	assert.Equal(t, []float64{100, 105, 95}, perf.Column(func(r PerformanceRow) float64 { return r.Price }))

	bpr := perf.Column(func(r PerformanceRow) float64 { return r.BenchmarkPeriodReturn })
	assert.Equal(t, 0.0, bpr[0])
	assert.InDelta(t, 0.05, bpr[1], 1e-15)
	assert.InDelta(t, -0.05, bpr[2], 1e-15)

	apr := perf.Column(func(r PerformanceRow) float64 { return r.AlgorithmPeriodReturn })
	assert.Equal(t, 0.0, apr[0])
	assert.InDelta(t, 0.1, apr[1], 1e-15)
	assert.InDelta(t, -0.01, apr[2], 1e-15)

	assert.True(t, math.IsNaN(perf.Row(0).Returns))
	assert.InDelta(t, 0.1, perf.Row(1).Returns, 1e-15)
	assert.InDelta(t, -0.1, perf.Row(2).Returns, 1e-15)

	assert.Equal(t, []float64{0, 0, 100.0 / 1050}, perf.Column(func(r PerformanceRow) float64 { return r.BenchmarkMaxDrawdown }))
	assert.Equal(t, []float64{0, 0, 110.0 / 1100}, perf.Column(func(r PerformanceRow) float64 { return r.MaxDrawdown }))

	assert.Equal(t, 990.0, perf.FinalEquity())
	assert.Equal(t, 1000.0, perf.InitialCapital())
	assert.Equal(t, series[2], perf.Last().Bar)
}

func TestBuildPerformanceErrors(t *testing.T) {

	series := dailySeries(100, 101)

	_, err := BuildPerformance(nil, nil, 1000)
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = BuildPerformance(series, flatEquity(series[:1], 1000), 1000)
	assert.True(t, errors.Is(err, ErrData))

	shifted := flatEquity(series, 1000)
	shifted[1].Time = shifted[1].Time.Add(1)
	_, err = BuildPerformance(series, shifted, 1000)
	assert.True(t, errors.Is(err, ErrData))

	zero := dailySeries(0, 1)
	_, err = BuildPerformance(zero, flatEquity(zero, 1000), 1000)
	assert.True(t, errors.Is(err, ErrZeroBase))

	wiped := flatEquity(series, 1000)
	wiped[0].Value = 0
	_, err = BuildPerformance(series, wiped, 1000)
	assert.True(t, errors.Is(err, ErrZeroBase))
}

func TestPerformanceReturnStatistics(t *testing.T) {

	series := dailySeries(1, 1, 1, 1)
	values := []float64{100, 110, 99, 108.9}
	equity := flatEquity(series, 0)
	for i := range equity {
		equity[i].Value = values[i]
	}

	perf, err := BuildPerformance(series, equity, 100)
	require.NoError(t, err)

	assert.InDelta(t, (0.1-0.1+0.1)/3, perf.MeanReturn(), 1e-12)
	assert.False(t, math.IsNaN(perf.ReturnStdDev()))
	assert.Greater(t, perf.ReturnStdDev(), 0.0)
	assert.InDelta(t, perf.MeanReturn()/perf.ReturnStdDev(), perf.SharpeRatio(0), 1e-12)

	flat, err := BuildPerformance(series, flatEquity(series, 100), 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat.MeanReturn())
	assert.Equal(t, 0.0, flat.SharpeRatio(0))

	single, err := BuildPerformance(series[:1], equity[:1], 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, single.MeanReturn())
	assert.Equal(t, 0.0, single.ReturnStdDev())
}

func TestPerformanceWriteCSV(t *testing.T) {

	series := dailySeries(100, 105)
	perf, err := BuildPerformance(series, flatEquity(series, 1000), 1000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, perf.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, performanceHeader, records[0])
	assert.Equal(t, "2021-01-04T00:00:00Z", records[1][0])
	assert.Equal(t, "NaN", records[1][12])
	assert.Equal(t, "1050", records[2][7])
	assert.Equal(t, "0", records[2][12])
}
