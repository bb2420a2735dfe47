package barsim

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Run replays series through the strategy and returns the performance table.
//
// The series is resampled to the configured data frequency first. For every
// bar the account date moves to the bar, an equity sample is recorded at the
// bar's close, the strategy logic sees every bar up to and including the
// current one, and then pending orders and exit levels are checked against the
// bar. After the last bar the performance table is built, handed to the
// reporter, and the analyze callback is called with kwargs.
//
// An error from the strategy logic aborts the run and is returned as a
// *StrategyError; nothing is reported. Every call starts from a fresh account.
func (b *Backtest) Run(series Series, kwargs map[string]interface{}) (*Performance, error) {

	if err := b.start(); err != nil {
		return nil, err
	}

	completed := false
	defer func() {
		if completed {
			b.state.Store(int32(Completed))
		} else {
			b.state.Store(int32(Failed))
		}
	}()

	perf, err := b.run(series, kwargs)
	if err != nil {
		return nil, err
	}

	completed = true

	return perf, nil
}

func (b *Backtest) start() error {

	for {
		current := b.state.Load()
		if State(current) == Running {
			return ErrAlreadyRunning
		}
		if b.state.CAS(current, int32(Running)) {
			return nil
		}
	}
}

func (b *Backtest) run(series Series, kwargs map[string]interface{}) (*Performance, error) {

	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	b.account = NewAccount(b.params.CapitalBase, b.params.Fee)
	b.account.log = b.log
	b.data = nil

	if b.initialize != nil {
		if err := b.initialize(b); err != nil {
			return nil, errors.Wrap(err, "initialize")
		}
	}

	data, err := Resample(series, b.params.DataFrequency)
	if err != nil {
		return nil, err
	}
	b.data = data

	b.log.WithFields(logrus.Fields{
		"bars":      len(data),
		"frequency": b.params.DataFrequency.String(),
		"capital":   b.params.CapitalBase,
	}).Debug("backtest started")

	for i, bar := range data {

		b.account.SetDate(bar.Time)
		b.account.RecordEquity(bar.Time, b.account.TotalValue(bar.Close))

		if err := b.runLogic(i, bar, newHistory(data, i)); err != nil {
			return nil, err
		}

		b.account.CheckOrders(bar)
		b.account.PurgePositions()
	}

	start := time.Now()

	perf, err := BuildPerformance(data, b.account.Equity(), b.account.InitialCapital())
	if err != nil {
		return nil, err
	}

	b.log.WithField("elapsed", time.Since(start)).Debug("performance prepared")

	if b.reporter != nil {
		report, err := NewReport(b.params, perf, b.account)
		if err != nil {
			return nil, err
		}
		if err := b.reporter.Report(report); err != nil {
			return nil, errors.Wrap(err, "report")
		}
	}

	if b.analyze != nil {
		if err := b.analyze(b, perf, kwargs); err != nil {
			return nil, errors.Wrap(err, "analyze")
		}
	}

	return perf, nil
}

func (b *Backtest) runLogic(index int, bar Bar, history *History) error {

	if b.logic == nil {
		return nil
	}

	fields := logrus.Fields{
		"index": index,
		"time":  bar.Time,
		"close": bar.Close,
	}

	defer func() {
		if r := recover(); r != nil {
			fields["panic"] = r
			b.log.WithFields(fields).Error("strategy logic panicked")
			panic(r)
		}
	}()

	if err := b.logic(b, history); err != nil {
		b.log.WithFields(fields).WithError(err).Error("strategy logic failed")
		return &StrategyError{Index: index, Time: bar.Time, Err: err}
	}

	return nil
}
