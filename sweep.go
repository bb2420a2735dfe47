package barsim

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the outcome of one parameter set of a sweep.
type SweepResult struct {
	Params      SimParams
	Performance *Performance
	Trades      []Trade
}

// Sweep runs one independent backtest per parameter set, at most limit at a
// time (no limit when limit <= 0). Every run builds its own strategy with
// factory and its own account; nothing is reported. Results follow the order
// of grid and factory is called in that order from the calling goroutine. The
// first failing run cancels the runs that have not started yet.
func Sweep(ctx context.Context, series Series, grid []SimParams, factory func(SimParams) Strategy, limit int, opts ...Option) ([]SweepResult, error) {

	results := make([]SweepResult, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, params := range grid {
		i, params := i, params
		strategy := factory(params)

		g.Go(func() error {

			if err := gctx.Err(); err != nil {
				return err
			}

			runOpts := append([]Option{
				WithParams(params),
				WithStrategy(strategy),
				WithReporter(nil),
			}, opts...)

			bt := NewBacktest(runOpts...)

			perf, err := bt.Run(series, nil)
			if err != nil {
				return errors.Wrapf(err, "sweep run %d", i)
			}

			results[i] = SweepResult{
				Params:      params,
				Performance: perf,
				Trades:      bt.Account().ClosedTrades(),
			}

			bt.log.WithFields(logrus.Fields{
				"run":          i,
				"final_equity": perf.FinalEquity(),
			}).Debug("sweep run completed")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
