package barsim

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Option represents a backtest functional option
type Option func(b *Backtest)

// Initialize is the functional option to define the setup callback.
func Initialize(fn InitializeFunc) Option {
	return func(b *Backtest) {
		b.initialize = fn
	}
}

// Logic is the functional option to define the per-bar decision callback.
func Logic(fn LogicFunc) Option {
	return func(b *Backtest) {
		b.logic = fn
	}
}

// Analyze is the functional option to define the post-run callback.
func Analyze(fn AnalyzeFunc) Option {
	return func(b *Backtest) {
		b.analyze = fn
	}
}

// WithStrategy sets the three callbacks from a Strategy.
func WithStrategy(s Strategy) Option {
	return func(b *Backtest) {
		b.initialize = s.Initialize
		b.logic = s.Logic
		b.analyze = s.Analyze
	}
}

// WithParams replaces the simulation parameters.
func WithParams(p SimParams) Option {
	return func(b *Backtest) {
		b.params = p
	}
}

// CapitalBase is the functional option to define the initial capital.
func CapitalBase(value float64) Option {
	return func(b *Backtest) {
		b.params.CapitalBase = value
	}
}

// DataFrequency is the functional option to define the bar frequency the
// series is resampled to.
func DataFrequency(freq Frequency) Option {
	return func(b *Backtest) {
		b.params.DataFrequency = freq
	}
}

// Fee is the functional option to define the fee schedule.
func Fee(fee FeeSchedule) Option {
	return func(b *Backtest) {
		b.params.Fee = fee
	}
}

// WithReporter sets the reporter results are handed to. A nil reporter
// disables reporting.
func WithReporter(r Reporter) Option {
	return func(b *Backtest) {
		b.reporter = r
	}
}

// WithLogger sets the logger of the backtest and its account.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backtest) {
		b.log = l
	}
}

// State is the lifecycle state of a backtest.
type State int32

const (
	NotStarted State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {

	names := [...]string{"NotStarted", "Running", "Completed", "Failed"}

	if s < NotStarted || s > Failed {
		return "Unknown"
	}

	return names[s]
}

// Backtest replays a price series through a strategy against a simulated
// account. It is the entrypoint of the barsim package.
type Backtest struct {
	params     SimParams
	initialize InitializeFunc
	logic      LogicFunc
	analyze    AnalyzeFunc
	reporter   Reporter
	log        logrus.FieldLogger
	state      *atomic.Int32

	// per run state
	account *Account
	data    Series
}

// NewBacktest is the Backtest constructor. Unset callbacks do nothing, the
// parameters start from DefaultSimParams and results are printed to stdout.
func NewBacktest(opts ...Option) *Backtest {

	b := &Backtest{
		params:   DefaultSimParams(),
		reporter: &ConsoleReporter{Out: os.Stdout},
		log:      logrus.StandardLogger(),
		state:    atomic.NewInt32(int32(NotStarted)),
	}

	for _, o := range opts {
		o(b)
	}

	return b
}

// State returns the lifecycle state of the backtest.
func (b *Backtest) State() State {
	return State(b.state.Load())
}

// Account returns the account of the current or last run.
func (b *Backtest) Account() *Account {
	return b.account
}

// Params returns the simulation parameters.
func (b *Backtest) Params() SimParams {
	return b.params
}

// Date returns the date of the bar being replayed.
func (b *Backtest) Date() time.Time {
	if b.account == nil {
		return time.Time{}
	}

	return b.account.Date()
}

// Data returns the resampled series of the current or last run.
func (b *Backtest) Data() Series {
	return b.data
}
