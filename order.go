package barsim

import (
	"time"
)

// OrderType is the execution type of a pending entry order.
type OrderType int

const (
	// Market orders fill at the open of the next bar.
	Market OrderType = iota

	// Limit orders fill once the price trades at the limit or better.
	Limit

	// Stop orders fill once the price breaks through the stop level.
	Stop
)

func (t OrderType) String() string {

	names := [...]string{"Market", "Limit", "Stop"}

	if t < Market || t > Stop {
		return "Unknown"
	}

	return names[t]
}

// Order is a pending entry order. Capital is the amount of buying power
// committed when it fills; TakeProfit and StopLoss are attached to the
// resulting position.
type Order struct {
	ID         string
	Type       OrderType
	Side       Side
	Price      float64
	Capital    float64
	TakeProfit float64
	StopLoss   float64
	Placed     time.Time
}

// fillPrice returns the price the order fills at against the bar, if it fills.
func (o *Order) fillPrice(bar Bar) (float64, bool) {

	switch o.Type {
	case Market:
		return bar.Open, true
	case Limit:
		if o.Side == Long && bar.Low <= o.Price {
			return minf(o.Price, bar.Open), true
		}
		if o.Side == Short && bar.High >= o.Price {
			return maxf(o.Price, bar.Open), true
		}
	case Stop:
		if o.Side == Long && bar.High >= o.Price {
			return maxf(o.Price, bar.Open), true
		}
		if o.Side == Short && bar.Low <= o.Price {
			return minf(o.Price, bar.Open), true
		}
	}

	return 0, false
}

func (o *Order) positionOptions() []PositionOption {

	var opts []PositionOption

	if o.TakeProfit > 0 {
		opts = append(opts, TakeProfit(o.TakeProfit))
	}
	if o.StopLoss > 0 {
		opts = append(opts, StopLoss(o.StopLoss))
	}

	return opts
}
