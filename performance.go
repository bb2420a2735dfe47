package barsim

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// PerformanceRow is one row of the performance table, one per replayed bar.
type PerformanceRow struct {
	Bar

	Price                 float64
	BaseEquity            float64 // buy and hold equity sized to the initial capital
	Equity                float64 // strategy equity
	BenchmarkPeriodReturn float64
	BenchmarkMaxDrawdown  float64
	AlgorithmPeriodReturn float64
	Returns               float64 // NaN on the first row
	MaxDrawdown           float64
}

// Performance is the performance table of a run. It is read-only once built.
type Performance struct {
	initialCapital float64
	rows           []PerformanceRow
}

// PercentChange returns the fractional change from old to new. A zero old
// value has no defined change and returns ErrZeroBase.
func PercentChange(old, new float64) (float64, error) {
	if old == 0 {
		return math.NaN(), ErrZeroBase
	}

	return (new - old) / old, nil
}

// BuildPerformance derives the performance table from the replayed series and
// the equity samples recorded for it, one per bar.
func BuildPerformance(series Series, equity []EquitySample, initialCapital float64) (*Performance, error) {

	if len(series) == 0 {
		return nil, configErrorf("empty series")
	}

	if len(equity) != len(series) {
		return nil, dataErrorf("%d equity samples for %d bars", len(equity), len(series))
	}

	if series[0].Close == 0 {
		return nil, errors.Wrap(ErrZeroBase, "first close price")
	}

	size := initialCapital / series[0].Close
	rows := make([]PerformanceRow, len(series))

	var benchmarkDrawdown, drawdown drawdownTracker

	for i, bar := range series {

		if !equity[i].Time.Equal(bar.Time) {
			return nil, dataErrorf("equity sample %d at %s, bar at %s", i, equity[i].Time, bar.Time)
		}

		row := PerformanceRow{
			Bar:        bar,
			Price:      bar.Close,
			BaseEquity: bar.Close * size,
			Equity:     equity[i].Value,
			Returns:    math.NaN(),
		}

		first := row
		if i > 0 {
			first = rows[0]
		}

		var err error

		row.BenchmarkPeriodReturn, err = PercentChange(first.BaseEquity, row.BaseEquity)
		if err != nil {
			return nil, errors.Wrap(err, "benchmark period return")
		}

		row.AlgorithmPeriodReturn, err = PercentChange(first.Equity, row.Equity)
		if err != nil {
			return nil, errors.Wrap(err, "algorithm period return")
		}

		if i > 0 {
			row.Returns, err = PercentChange(rows[i-1].Equity, row.Equity)
			if err != nil {
				return nil, errors.Wrapf(err, "returns at bar %d", i)
			}
		}

		row.BenchmarkMaxDrawdown = benchmarkDrawdown.next(row.BaseEquity)
		row.MaxDrawdown = drawdown.next(row.Equity)

		rows[i] = row
	}

	return &Performance{initialCapital: initialCapital, rows: rows}, nil
}

// Len returns the number of rows.
func (p *Performance) Len() int {
	return len(p.rows)
}

// Row returns the i-th row.
func (p *Performance) Row(i int) PerformanceRow {
	return p.rows[i]
}

// Rows returns a copy of the table.
func (p *Performance) Rows() []PerformanceRow {
	return append([]PerformanceRow(nil), p.rows...)
}

// Last returns the final row.
func (p *Performance) Last() PerformanceRow {
	return p.rows[len(p.rows)-1]
}

// InitialCapital returns the capital the table is sized to.
func (p *Performance) InitialCapital() float64 {
	return p.initialCapital
}

// FinalEquity returns the strategy equity at the last bar.
func (p *Performance) FinalEquity() float64 {
	return p.Last().Equity
}

// Column returns one value per row selected by fn.
func (p *Performance) Column(fn func(r PerformanceRow) float64) []float64 {

	out := make([]float64, len(p.rows))
	for i := range p.rows {
		out[i] = fn(p.rows[i])
	}

	return out
}

// definedReturns returns the period returns without the undefined first one.
func (p *Performance) definedReturns() []float64 {

	returns := make([]float64, 0, len(p.rows))
	for _, r := range p.rows {
		if !math.IsNaN(r.Returns) {
			returns = append(returns, r.Returns)
		}
	}

	return returns
}

// MeanReturn returns the mean period return, zero without any defined return.
func (p *Performance) MeanReturn() float64 {

	returns := p.definedReturns()
	if len(returns) == 0 {
		return 0
	}

	return stat.Mean(returns, nil)
}

// ReturnStdDev returns the sample standard deviation of the period returns,
// zero with fewer than two defined returns.
func (p *Performance) ReturnStdDev() float64 {

	returns := p.definedReturns()
	if len(returns) < 2 {
		return 0
	}

	return stat.StdDev(returns, nil)
}

// SharpeRatio returns the per-period Sharpe ratio of the strategy returns
// against a per-period risk-free rate. Zero when the returns do not vary.
func (p *Performance) SharpeRatio(riskFree float64) float64 {

	returns := p.definedReturns()
	if len(returns) < 2 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFree
	}

	mean, std := stat.MeanStdDev(excess, nil)
	if std == 0 {
		return 0
	}

	return mean / std
}

var performanceHeader = []string{
	"time", "open", "high", "low", "close", "volume",
	"price", "base_equity", "equity",
	"benchmark_period_return", "benchmark_max_drawdown",
	"algorithm_period_return", "returns", "max_drawdown",
}

// WriteCSV writes the table with a header row. Values are written with the
// shortest representation that round trips, so equal tables produce equal
// bytes.
func (p *Performance) WriteCSV(w io.Writer) error {

	cw := csv.NewWriter(w)

	if err := cw.Write(performanceHeader); err != nil {
		return err
	}

	record := make([]string, len(performanceHeader))

	for _, r := range p.rows {

		record[0] = r.Time.Format(time.RFC3339Nano)
		for i, v := range []float64{
			r.Open, r.High, r.Low, r.Close, r.Volume,
			r.Price, r.BaseEquity, r.Equity,
			r.BenchmarkPeriodReturn, r.BenchmarkMaxDrawdown,
			r.AlgorithmPeriodReturn, r.Returns, r.MaxDrawdown,
		} {
			record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
