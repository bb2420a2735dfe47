// Package strategies contains ready-made strategies for the backtester.
package strategies

import (
	"github.com/luismcruz/barsim"
)

// BuyAndHold enters long with all the buying power on the first bar and
// holds until the end of the run.
type BuyAndHold struct {
	entered bool
}

// NewBuyAndHold is the BuyAndHold constructor.
func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{}
}

func (s *BuyAndHold) Initialize(e barsim.Engine) error {
	s.entered = false
	return nil
}

func (s *BuyAndHold) Logic(e barsim.Engine, history *barsim.History) error {

	if s.entered {
		return nil
	}

	account := e.Account()
	if _, err := account.EnterPosition(barsim.Long, account.BuyingPower(), history.Last().Close); err != nil {
		return err
	}

	s.entered = true

	return nil
}

func (s *BuyAndHold) Analyze(e barsim.Engine, perf *barsim.Performance, kwargs map[string]interface{}) error {
	return nil
}
