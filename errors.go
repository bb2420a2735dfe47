package barsim

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration marks invalid simulation parameters or inputs that
	// would otherwise produce undefined results (non-positive capital, empty
	// series, zero base values).
	ErrConfiguration = errors.New("configuration error")

	// ErrData marks a malformed or non-monotonic input series.
	ErrData = errors.New("data error")

	// ErrZeroBase is returned by PercentChange when the base value is zero.
	ErrZeroBase = fmt.Errorf("%w: percent change against a zero base", ErrConfiguration)

	// ErrInsufficientFunds is returned when an entry needs more capital than
	// the account's buying power.
	ErrInsufficientFunds = errors.New("insufficient buying power")

	// ErrAlreadyRunning is returned by Run when the backtest is in progress.
	ErrAlreadyRunning = errors.New("backtest is already running")

	// ErrUnknownOrder is returned when cancelling an order that is not pending.
	ErrUnknownOrder = errors.New("unknown order")

	// ErrPositionClosed is returned when closing a position that holds no
	// shares or does not belong to the account.
	ErrPositionClosed = errors.New("position is not open")
)

// StrategyError wraps an error returned by the per-bar logic callback together
// with the bar it happened on. Unwrap returns the callback's error unchanged.
type StrategyError struct {
	Index int
	Time  time.Time
	Err   error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy logic failed at bar %d (%s): %v", e.Index, e.Time.Format(time.RFC3339), e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

func dataErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrData, format, args...)
}
