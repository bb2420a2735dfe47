package barsim

import (
	"time"
)

// Side represents the direction of a position, which can be short or long
type Side int

const (
	//Short represents a selling position
	Short Side = iota

	// Long represents a buying position
	Long
)

func (s Side) String() string {

	names := [...]string{"Short", "Long"}

	if s < Short || s > Long {
		return "Unknown"
	}

	return names[s]
}

// Position is an open exposure in the account, created by a single entry and
// reduced by one or more (partial) closes.
type Position struct {
	id         string
	side       Side
	entryTime  time.Time
	entryPrice float64
	shares     float64
	entryFee   float64 // entry fee still attributed to the remaining shares
	takeProfit float64
	stopLoss   float64
}

// PositionOption configures exit levels of a new position.
type PositionOption func(p *Position)

// TakeProfit closes the position once the price reaches the given level.
func TakeProfit(price float64) PositionOption {
	return func(p *Position) {
		p.takeProfit = price
	}
}

// StopLoss closes the position once the price moves against it to the given level.
func StopLoss(price float64) PositionOption {
	return func(p *Position) {
		p.stopLoss = price
	}
}

/**************************
*
*	Internal Methods
*
***************************/

// value returns the mark-to-market value of the position at price.
// A short position is worth its collateral plus the unrealized profit.
func (p *Position) value(price float64) float64 {
	if p.side == Short {
		return p.shares * (2*p.entryPrice - price)
	}

	return p.shares * price
}

// exitLevel returns the price the position must be closed at for the given
// bar, if its stop-loss or take-profit is touched. Stop-loss is checked first.
func (p *Position) exitLevel(bar Bar) (float64, bool) {

	if p.side == Long {
		if p.stopLoss > 0 && bar.Low <= p.stopLoss {
			return minf(p.stopLoss, bar.Open), true
		}
		if p.takeProfit > 0 && bar.High >= p.takeProfit {
			return maxf(p.takeProfit, bar.Open), true
		}
		return 0, false
	}

	if p.stopLoss > 0 && bar.High >= p.stopLoss {
		return maxf(p.stopLoss, bar.Open), true
	}
	if p.takeProfit > 0 && bar.Low <= p.takeProfit {
		return minf(p.takeProfit, bar.Open), true
	}

	return 0, false
}

/**************************
*
*	Accessible Methods
*
***************************/

// ID returns the position id, shared with its opened trade record.
func (p *Position) ID() string {
	return p.id
}

// Side returns the direction of the position.
func (p *Position) Side() Side {
	return p.side
}

// EntryTime returns the bar time the position was opened at.
func (p *Position) EntryTime() time.Time {
	return p.entryTime
}

// EntryPrice returns the fill price of the entry.
func (p *Position) EntryPrice() float64 {
	return p.entryPrice
}

// Shares returns the remaining size. Zero once fully closed.
func (p *Position) Shares() float64 {
	return p.shares
}

// Closed reports whether no shares remain.
func (p *Position) Closed() bool {
	return p.shares <= 0
}

// TakeProfit returns the take-profit level, zero when unset.
func (p *Position) TakeProfit() float64 {
	return p.takeProfit
}

// StopLoss returns the stop-loss level, zero when unset.
func (p *Position) StopLoss() float64 {
	return p.stopLoss
}

// SetExitLevels replaces the take-profit and stop-loss levels. Zero disables a level.
func (p *Position) SetExitLevels(takeProfit, stopLoss float64) {
	p.takeProfit = takeProfit
	p.stopLoss = stopLoss
}

// Value returns the mark-to-market value at price.
func (p *Position) Value(price float64) float64 {
	return p.value(price)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
