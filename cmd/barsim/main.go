package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/luismcruz/barsim"
	"github.com/luismcruz/barsim/feeds"
	"github.com/luismcruz/barsim/feeds/btrand"
	"github.com/luismcruz/barsim/strategies"
)

var dataFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "data",
		Usage: "bar series to replay (.csv or .parquet)",
	},
	&cli.BoolFlag{
		Name:  "synthetic",
		Usage: "replay a generated random series instead of --data",
	},
	&cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "seed of the synthetic series",
	},
	&cli.IntFlag{
		Name:  "days",
		Value: 365,
		Usage: "length of the synthetic series in days",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "YAML file with capital_base, data_frequency and fee",
	},
	&cli.Float64Flag{
		Name:  "capital",
		Usage: "initial capital, overrides the config file",
	},
	&cli.StringFlag{
		Name:  "frequency",
		Usage: "bar frequency to resample to (1min, 5min, 15min, 30min, 1h, 4h, D, W)",
	},
	&cli.Float64Flag{
		Name:  "fee",
		Usage: "fee fraction per fill for both sides, overrides the config file",
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "barsim"
	app.Usage = "single asset bar-replay backtester"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
			Usage: "log level (debug, info, warn, error)",
		},
	}
	app.Before = func(c *cli.Context) error {
		l, err := barsim.NewLogger(c.String("log-level"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	}
	app.Commands = []*cli.Command{
		runCommand,
		sweepCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var logger = logrus.StandardLogger()

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "replay a series through a strategy and print the results",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "strategy",
			Value: "smacross",
			Usage: "strategy to run (smacross, buyhold, none)",
		},
		&cli.IntFlag{
			Name:  "fast",
			Value: 10,
			Usage: "fast moving average window",
		},
		&cli.IntFlag{
			Name:  "slow",
			Value: 30,
			Usage: "slow moving average window",
		},
		&cli.Float64Flag{
			Name:  "stop-loss",
			Usage: "stop distance below the entry as a fraction, 0 disables",
		},
		&cli.StringFlag{
			Name:  "csv-out",
			Usage: "write the performance table to this CSV file",
		},
	}, dataFlags...),
	Action: runBacktest,
}

var sweepCommand = &cli.Command{
	Name:  "sweep",
	Usage: "run the moving average crossover over a grid of windows",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "fast-range",
			Value: "5:20:5",
			Usage: "fast windows as start:end:step",
		},
		&cli.StringFlag{
			Name:  "slow-range",
			Value: "20:60:10",
			Usage: "slow windows as start:end:step",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Value: 4,
			Usage: "backtests run at once",
		},
	}, dataFlags...),
	Action: runSweep,
}

func runBacktest(c *cli.Context) error {

	series, params, err := loadInputs(c)
	if err != nil {
		return err
	}

	opts := []barsim.Option{
		barsim.WithParams(params),
		barsim.WithLogger(logger),
	}

	switch c.String("strategy") {
	case "smacross":
		s := strategies.NewSMACross(c.Int("fast"), c.Int("slow"))
		s.StopLoss = c.Float64("stop-loss")
		opts = append(opts, barsim.WithStrategy(s))
	case "buyhold":
		opts = append(opts, barsim.WithStrategy(strategies.NewBuyAndHold()))
	case "none":
	default:
		return errors.Errorf("unknown strategy %q", c.String("strategy"))
	}

	perf, err := barsim.NewBacktest(opts...).Run(series, nil)
	if err != nil {
		return err
	}

	if path := c.String("csv-out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		return perf.WriteCSV(f)
	}

	return nil
}

func runSweep(c *cli.Context) error {

	series, params, err := loadInputs(c)
	if err != nil {
		return err
	}

	fastWindows, err := parseRange(c.String("fast-range"))
	if err != nil {
		return errors.Wrap(err, "fast-range")
	}
	slowWindows, err := parseRange(c.String("slow-range"))
	if err != nil {
		return errors.Wrap(err, "slow-range")
	}

	type windows struct{ fast, slow int }
	var (
		grid []barsim.SimParams
		wins []windows
	)
	for _, f := range fastWindows {
		for _, s := range slowWindows {
			if s > f {
				grid = append(grid, params)
				wins = append(wins, windows{f, s})
			}
		}
	}

	next := 0
	factory := func(barsim.SimParams) barsim.Strategy {
		w := wins[next]
		next++
		return strategies.NewSMACross(w.fast, w.slow)
	}

	results, err := barsim.Sweep(context.Background(), series, grid, factory, c.Int("parallel"), barsim.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("%6s %6s %14s %10s %10s %8s\n", "fast", "slow", "final equity", "return %", "max dd %", "trades")
	for i, r := range results {
		last := r.Performance.Last()
		fmt.Printf("%6d %6d %14.2f %10.2f %10.2f %8d\n", wins[i].fast, wins[i].slow,
			last.Equity, last.AlgorithmPeriodReturn*100, last.MaxDrawdown*100, len(r.Trades))
	}

	return nil
}

func loadInputs(c *cli.Context) (barsim.Series, barsim.SimParams, error) {

	params := barsim.DefaultSimParams()

	if path := c.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, params, err
		}
		defer f.Close()

		if params, err = barsim.LoadSimParams(f); err != nil {
			return nil, params, errors.Wrapf(err, "loading %s", path)
		}
	}

	overrides := make(map[string]interface{})
	if c.IsSet("capital") {
		overrides["capital_base"] = c.Float64("capital")
	}
	if c.IsSet("frequency") {
		overrides["data_frequency"] = c.String("frequency")
	}
	if c.IsSet("fee") {
		overrides["fee"] = c.Float64("fee")
	}

	params, err := params.Merge(overrides)
	if err != nil {
		return nil, params, err
	}

	var series barsim.Series

	switch {
	case c.Bool("synthetic"):
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		series = btrand.Series(c.Int64("seed"), start, start.AddDate(0, 0, c.Int("days")), 100)
	case c.String("data") != "":
		if series, err = feeds.Load(c.String("data")); err != nil {
			return nil, params, err
		}
	default:
		return nil, params, errors.New("either --data or --synthetic is required")
	}

	return series, params, nil
}

// parseRange parses start:end:step into the inclusive list of values.
func parseRange(value string) ([]int, error) {

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return nil, errors.Errorf("expected start:end:step, got %q", value)
	}

	var bounds [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "range %q", value)
		}
		bounds[i] = v
	}

	start, end, step := bounds[0], bounds[1], bounds[2]
	if step <= 0 || end < start {
		return nil, errors.Errorf("invalid range %q", value)
	}

	var values []int
	for v := start; v <= end; v += step {
		values = append(values, v)
	}

	return values, nil
}
