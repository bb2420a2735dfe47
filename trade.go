package barsim

import (
	"time"
)

// Trade is the record of an entry or of a (partial) close of a position.
// Opened trade records carry the entry data only; closed trade records are
// complete, with Fee holding the entry fee attributed to the closed shares
// plus the exit fee.
type Trade struct {
	ID         string
	Side       Side
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	Fee        float64
}

// PnL returns the net realized profit of a closed trade, fees included.
// The price legs are mirrored for short trades.
func (t Trade) PnL() float64 {
	if t.Side == Short {
		return t.EntryPrice*t.Size - t.Fee - t.ExitPrice*t.Size
	}

	return t.ExitPrice*t.Size - t.Fee - t.EntryPrice*t.Size
}
