package strategies

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luismcruz/barsim"
	"github.com/luismcruz/barsim/feeds/btrand"
)

var start = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

func backtest(s barsim.Strategy, opts ...barsim.Option) *barsim.Backtest {
	logger, _ := test.NewNullLogger()
	opts = append([]barsim.Option{barsim.WithStrategy(s), barsim.WithReporter(nil), barsim.WithLogger(logger)}, opts...)
	return barsim.NewBacktest(opts...)
}

func dailyCloses(closes ...float64) barsim.Series {

	series := make(barsim.Series, len(closes))
	for i, c := range closes {
		series[i] = barsim.Bar{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}

	return series
}

func TestBuyAndHoldTracksBenchmark(t *testing.T) {

	series := btrand.Series(11, start, start.AddDate(0, 0, 30), 100)

	bt := backtest(NewBuyAndHold(), barsim.CapitalBase(1000))

	for run := 0; run < 2; run++ {
		perf, err := bt.Run(series, nil)
		require.NoError(t, err)

		for _, row := range perf.Rows() {
			assert.InDelta(t, row.BaseEquity, row.Equity, 1e-9)
		}
		assert.Len(t, bt.Account().OpenedTrades(), 1)
	}
}

func TestSMACrossTrades(t *testing.T) {

	closes := []float64{10, 10, 10, 10, 11, 12, 13, 14, 13, 11, 9, 8, 8, 9, 11, 13}
	s := NewSMACross(2, 4)

	bt := backtest(s, barsim.CapitalBase(1000))
	perf, err := bt.Run(dailyCloses(closes...), nil)
	require.NoError(t, err)

	closed := bt.Account().ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, barsim.Long, closed[0].Side)
	assert.Equal(t, 11.0, closed[0].EntryPrice)
	assert.Equal(t, 11.0, closed[0].ExitPrice)

	positions := bt.Account().Positions()
	require.Len(t, positions, 1)
	assert.Equal(t, 11.0, positions[0].EntryPrice())
	assert.Equal(t, len(closes), perf.Len())
}

func TestSMACrossStopLoss(t *testing.T) {

	series := dailyCloses(10, 10, 10, 10, 11, 12, 13, 13)
	// dips through the stop intraday without turning the averages
	series[6].Open, series[6].Low = 12, 9

	s := NewSMACross(2, 4)
	s.StopLoss = 0.1

	bt := backtest(s, barsim.CapitalBase(1000))
	_, err := bt.Run(series, nil)
	require.NoError(t, err)

	closed := bt.Account().ClosedTrades()
	require.Len(t, closed, 1)
	assert.InDelta(t, 9.9, closed[0].ExitPrice, 1e-12)
	assert.Empty(t, bt.Account().Positions())
}

func TestSMACrossRejectsWindows(t *testing.T) {

	for _, s := range []*SMACross{NewSMACross(0, 3), NewSMACross(3, 3), {Fast: 2, Slow: 3, Fraction: 2, MaxOpen: 1}} {
		_, err := backtest(s).Run(dailyCloses(1, 2, 3, 4, 5), nil)
		assert.Error(t, err)
	}
}

func TestSMACrossOnSyntheticData(t *testing.T) {

	series := btrand.Series(5, start, start.AddDate(0, 0, 120), 100)

	s := NewSMACross(3, 10)
	s.MaxOpen = 3
	s.Fraction = 0.5
	s.StopLoss = 0.05

	bt := backtest(s, barsim.CapitalBase(10000), barsim.Fee(barsim.FeeSchedule{Long: 0.001}))
	perf, err := bt.Run(series, nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(bt.Account().Positions()), 3)
	assert.Greater(t, perf.FinalEquity(), 0.0)
	for _, row := range perf.Rows() {
		assert.GreaterOrEqual(t, row.MaxDrawdown, 0.0)
	}
}
