package barsim

import "time"

// Engine is the view of a running backtest handed to the strategy callbacks.
// It is used to check the state of the account and to open or close positions.
type Engine interface {
	Account() *Account
	Params() SimParams
	Date() time.Time
}

// InitializeFunc is called once before the replay starts.
type InitializeFunc func(e Engine) error

// LogicFunc is called once per bar with the bars visible at that point.
type LogicFunc func(e Engine, history *History) error

// AnalyzeFunc is called once after the run with the performance table and the
// keyword arguments passed to Run.
type AnalyzeFunc func(e Engine, perf *Performance, kwargs map[string]interface{}) error

// Strategy is the interface a strategy can implement instead of passing the
// three callbacks separately (see WithStrategy).
type Strategy interface {
	Initialize(e Engine) error
	Logic(e Engine, history *History) error
	Analyze(e Engine, perf *Performance, kwargs map[string]interface{}) error
}
