package barsim

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Reporter receives the results of a completed run.
type Reporter interface {
	Report(r *Report) error
}

// Summary describes the capital evolution of the benchmark or of the strategy.
type Summary struct {
	Capital          float64
	FinalEquity      float64
	NetProfit        float64
	NetProfitPercent float64 // fractional change of equity over the run
	MaxDrawdown      float64
	FeesPaid         float64
}

// TradeCounts counts entries (Open) and closes (Closed) per direction.
type TradeCounts struct {
	Open   int
	Closed int
}

// Total returns every recorded trade event of the direction.
func (c TradeCounts) Total() int {
	return c.Open + c.Closed
}

// Report holds everything a run hands to the reporter.
type Report struct {
	Params      SimParams
	Performance *Performance
	Benchmark   Summary
	Strategy    Summary
	Long        TradeStats
	Short       TradeStats
	All         TradeStats
	LongCounts  TradeCounts
	ShortCounts TradeCounts
}

// NewReport builds the report of a run from its performance table and account.
func NewReport(params SimParams, perf *Performance, account *Account) (*Report, error) {

	first, last := perf.Row(0), perf.Last()

	benchmarkChange, err := PercentChange(first.BaseEquity, last.BaseEquity)
	if err != nil {
		return nil, errors.Wrap(err, "benchmark net profit")
	}

	strategyChange, err := PercentChange(first.Equity, last.Equity)
	if err != nil {
		return nil, errors.Wrap(err, "strategy net profit")
	}

	closed := account.ClosedTrades()

	fees := 0.0
	for _, t := range closed {
		fees += t.Fee
	}

	capital := account.InitialCapital()

	r := &Report{
		Params:      params,
		Performance: perf,
		Benchmark: Summary{
			Capital:          capital,
			FinalEquity:      last.BaseEquity,
			NetProfit:        capital * benchmarkChange,
			NetProfitPercent: benchmarkChange,
			MaxDrawdown:      last.BenchmarkMaxDrawdown,
		},
		Strategy: Summary{
			Capital:          capital,
			FinalEquity:      last.Equity,
			NetProfit:        capital * strategyChange,
			NetProfitPercent: strategyChange,
			MaxDrawdown:      last.MaxDrawdown,
			FeesPaid:         fees,
		},
		Long:  AnalyzeTrades(closed, Long),
		Short: AnalyzeTrades(closed, Short),
		All:   AnalyzeTrades(closed),
	}

	for _, t := range account.OpenedTrades() {
		if t.Side == Long {
			r.LongCounts.Open++
		} else {
			r.ShortCounts.Open++
		}
	}

	for _, t := range closed {
		if t.Side == Long {
			r.LongCounts.Closed++
		} else {
			r.ShortCounts.Closed++
		}
	}

	return r, nil
}

// ConsoleReporter prints the results block of a run.
type ConsoleReporter struct {
	Out io.Writer
}

// Report writes the benchmark, strategy and trade statistics sections.
func (c *ConsoleReporter) Report(r *Report) error {

	var b strings.Builder

	title := center(fmt.Sprintf(" Results (freq %s) ", r.Params.DataFrequency), 52, '=')
	b.WriteString(title + "\n\n")

	writeSummary(&b, " Benchmark ", r.Benchmark, false)
	writeSummary(&b, " Strategy ", r.Strategy, true)

	b.WriteString(center(" Statistics ", 52, '-') + "\n")
	fmt.Fprintf(&b, "%-20s %7s %10s %10s\n", "", "Long", "Short", "All")

	statRows := []struct {
		name  string
		value func(s TradeStats) float64
	}{
		{"Success rate %", func(s TradeStats) float64 { return s.SuccessRate }},
		{"Avg Win / trade", func(s TradeStats) float64 { return s.AvgWin }},
		{"Avg Loss / trade", func(s TradeStats) float64 { return s.AvgLoss }},
		{"Expected value", func(s TradeStats) float64 { return s.ExpectedValue }},
	}

	for _, row := range statRows {
		fmt.Fprintf(&b, "%-20s: %10.4f %10.4f %10.4f\n", row.name,
			row.value(r.Long), row.value(r.Short), row.value(r.All))
	}

	long, short := r.LongCounts, r.ShortCounts
	fmt.Fprintf(&b, "%-20s: %10d %10d %10d\n", "Open", long.Open, short.Open, long.Open+short.Open)
	fmt.Fprintf(&b, "%-20s: %10d %10d %10d\n", "Closed", long.Closed, short.Closed, long.Closed+short.Closed)
	fmt.Fprintf(&b, "%-20s: %10d %10d %10d\n", "Total Trades", long.Total(), short.Total(), long.Total()+short.Total())

	b.WriteString(strings.Repeat("-", len(title)) + "\n")

	_, err := io.WriteString(c.Out, b.String())

	return err
}

func writeSummary(b *strings.Builder, name string, s Summary, fees bool) {

	b.WriteString(center(name, 40, '-') + "\n")
	fmt.Fprintf(b, "%-13s: %.2f\n", "Capital", s.Capital)
	fmt.Fprintf(b, "%-13s: %.2f\n", "Final Equity", s.FinalEquity)
	fmt.Fprintf(b, "%-13s: %.2f (%+.2f%%)\n", "Net profit", s.NetProfit, s.NetProfitPercent*100)
	fmt.Fprintf(b, "%-13s: %.2f%%\n", "Max Drawdown", s.MaxDrawdown*100)
	if fees {
		fmt.Fprintf(b, "%-13s: %.2f\n", "Fees paid", s.FeesPaid)
	}
}

// center pads s on both sides with fill up to width, extra padding going right.
func center(s string, width int, fill rune) string {

	pad := width - len(s)
	if pad <= 0 {
		return s
	}

	left := pad / 2
	f := string(fill)

	return strings.Repeat(f, left) + s + strings.Repeat(f, pad-left)
}
