package strategies

import (
	"github.com/pkg/errors"

	"github.com/luismcruz/barsim"
	"github.com/luismcruz/barsim/tools"
)

// SMACross goes long when the fast simple moving average of the close crosses
// above the slow one and exits when it crosses back below.
type SMACross struct {
	Fast     int     // fast window, in bars
	Slow     int     // slow window, in bars
	Fraction float64 // fraction of the buying power committed per entry
	StopLoss float64 // stop distance below the entry as a fraction, 0 disables
	MaxOpen  int     // entries open at once

	gate *tools.EntryGate
}

// NewSMACross returns a crossover strategy committing all buying power to a
// single entry.
func NewSMACross(fast, slow int) *SMACross {
	return &SMACross{Fast: fast, Slow: slow, Fraction: 1, MaxOpen: 1}
}

func (s *SMACross) Initialize(e barsim.Engine) error {

	if s.Fast < 1 || s.Slow <= s.Fast {
		return errors.Errorf("invalid windows fast=%d slow=%d", s.Fast, s.Slow)
	}

	if !(s.Fraction > 0 && s.Fraction <= 1) {
		return errors.Errorf("invalid fraction %v", s.Fraction)
	}

	s.gate = tools.NewEntryGate(s.MaxOpen)

	return nil
}

func (s *SMACross) Logic(e barsim.Engine, history *barsim.History) error {

	if history.Len() < s.Slow+1 {
		return nil
	}

	account := e.Account()
	s.gate.Sync(len(account.Positions()))

	closes := history.Tail(s.Slow + 1).Closes()
	prev, cur := closes[:len(closes)-1], closes[1:]

	prevFast, prevSlow := mean(prev[len(prev)-s.Fast:]), mean(prev)
	fast, slow := mean(cur[len(cur)-s.Fast:]), mean(cur)

	price := history.Last().Close

	switch {
	case prevFast <= prevSlow && fast > slow:
		if !s.gate.Try() {
			return nil
		}

		var opts []barsim.PositionOption
		if s.StopLoss > 0 {
			opts = append(opts, barsim.StopLoss(price*(1-s.StopLoss)))
		}

		capital := account.BuyingPower() * s.Fraction
		if capital <= 0 {
			return nil
		}

		if _, err := account.EnterPosition(barsim.Long, capital, price, opts...); err != nil {
			if errors.Is(err, barsim.ErrInsufficientFunds) {
				return nil
			}
			return err
		}
		s.gate.Entered()

	case prevFast >= prevSlow && fast < slow:
		if err := account.CloseAll(price); err != nil {
			return err
		}
		s.gate.Sync(0)
	}

	return nil
}

func (s *SMACross) Analyze(e barsim.Engine, perf *barsim.Performance, kwargs map[string]interface{}) error {
	return nil
}

func mean(values []float64) float64 {

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
