package barsim

import (
	"strconv"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// EquitySample is the total account value at a bar.
type EquitySample struct {
	Time  time.Time
	Value float64
}

// Account simulates the exchange account of a single asset backtest: buying
// power, open positions, pending entry orders and the trade history.
type Account struct {
	initialCapital float64
	fee            FeeSchedule
	date           time.Time
	buyingPower    *atomic.Float64
	positions      *hashmap.HashMap
	positionsOrder *orderedIDs
	orders         *hashmap.HashMap
	ordersOrder    *orderedIDs
	tradesCounter  *atomic.Int32
	ordersCounter  *atomic.Int32
	openedTrades   []Trade
	closedTrades   []Trade
	equity         []EquitySample
	log            logrus.FieldLogger
}

// NewAccount creates an account holding initialCapital as buying power.
func NewAccount(initialCapital float64, fee FeeSchedule) *Account {

	return &Account{
		initialCapital: initialCapital,
		fee:            fee,
		buyingPower:    atomic.NewFloat64(initialCapital),
		positions:      &hashmap.HashMap{},
		positionsOrder: newOrderedIDs(),
		orders:         &hashmap.HashMap{},
		ordersOrder:    newOrderedIDs(),
		tradesCounter:  atomic.NewInt32(0),
		ordersCounter:  atomic.NewInt32(0),
		log:            logrus.StandardLogger(),
	}
}

/**************************
*
*	Internal Methods
*
***************************/

func (a *Account) position(id string) *Position {

	p, exist := a.positions.GetStringKey(id)
	if !exist {
		return nil
	}

	return p.(*Position)
}

func (a *Account) order(id string) *Order {

	o, exist := a.orders.GetStringKey(id)
	if !exist {
		return nil
	}

	return o.(*Order)
}

func (a *Account) removeOrder(id string) {
	a.orders.Del(id)
	a.ordersOrder.Delete(id)
}

func (a *Account) fillOrders(bar Bar) {

	for _, id := range a.ordersOrder.Snapshot() {

		o := a.order(id)
		if o == nil || !o.Placed.Before(bar.Time) {
			continue
		}

		price, fills := o.fillPrice(bar)
		if !fills {
			continue
		}

		a.removeOrder(id)

		if _, err := a.EnterPosition(o.Side, o.Capital, price, o.positionOptions()...); err != nil {
			a.log.WithFields(logrus.Fields{
				"order": o.ID,
				"side":  o.Side.String(),
				"price": price,
				"time":  bar.Time,
				"error": err,
			}).Warn("pending order cancelled")
		}
	}
}

func (a *Account) checkExits(bar Bar) {

	for _, id := range a.positionsOrder.Snapshot() {

		p := a.position(id)
		if p == nil || p.Closed() || !p.entryTime.Before(bar.Time) {
			continue
		}

		if price, touched := p.exitLevel(bar); touched {
			if err := a.ClosePosition(p, 1, price); err != nil {
				a.log.WithFields(logrus.Fields{
					"position": p.id,
					"time":     bar.Time,
					"error":    err,
				}).Error("closing position on exit level")
			}
		}
	}
}

/**************************
*
*	Accessible Methods
*
***************************/

// InitialCapital returns the capital the account was created with.
func (a *Account) InitialCapital() float64 {
	return a.initialCapital
}

// Fee returns the account's fee schedule.
func (a *Account) Fee() FeeSchedule {
	return a.fee
}

// BuyingPower returns the cash available for new entries.
func (a *Account) BuyingPower() float64 {
	return a.buyingPower.Load()
}

// Date returns the current valuation date.
func (a *Account) Date() time.Time {
	return a.date
}

// SetDate moves the current valuation date.
func (a *Account) SetDate(date time.Time) {
	a.date = date
}

// TotalValue returns buying power plus the mark-to-market value of the open
// positions at the given last price.
func (a *Account) TotalValue(price float64) float64 {

	total := a.buyingPower.Load()

	for _, id := range a.positionsOrder.ids {
		if p := a.position(id); p != nil {
			total += p.value(price)
		}
	}

	return total
}

// EnterPosition opens a position at price committing capital of buying power.
// The entry fee is taken out of the committed capital.
func (a *Account) EnterPosition(side Side, capital, price float64, opts ...PositionOption) (*Position, error) {

	if !(capital > 0) || !finite(capital) {
		return nil, configErrorf("entry capital must be positive, got %v", capital)
	}

	if !(price > 0) || !finite(price) {
		return nil, configErrorf("entry price must be positive, got %v", price)
	}

	if capital > a.buyingPower.Load() {
		return nil, errors.Wrapf(ErrInsufficientFunds, "entry of %v with %v available", capital, a.buyingPower.Load())
	}

	fee := capital * a.fee.Rate(side)

	p := &Position{
		id:         strconv.FormatInt(int64(a.tradesCounter.Inc()), 10),
		side:       side,
		entryTime:  a.date,
		entryPrice: price,
		shares:     (capital - fee) / price,
		entryFee:   fee,
	}

	for _, o := range opts {
		o(p)
	}

	a.buyingPower.Add(-capital)
	a.positions.Set(p.id, p)
	a.positionsOrder.Append(p.id)

	a.openedTrades = append(a.openedTrades, Trade{
		ID:         p.id,
		Side:       side,
		EntryTime:  a.date,
		EntryPrice: price,
		Size:       p.shares,
		Fee:        fee,
	})

	return p, nil
}

// ClosePosition closes fraction (0, 1] of the position's shares at price and
// records the closed trade.
func (a *Account) ClosePosition(p *Position, fraction, price float64) error {

	if p == nil || p.Closed() || a.position(p.id) != p {
		return ErrPositionClosed
	}

	if !(fraction > 0 && fraction <= 1) {
		return configErrorf("close fraction must be in (0, 1], got %v", fraction)
	}

	if !(price > 0) || !finite(price) {
		return configErrorf("exit price must be positive, got %v", price)
	}

	shares, entryFee := p.shares, p.entryFee
	if fraction < 1 {
		shares = p.shares * fraction
		entryFee = p.entryFee * fraction
	}

	exitFee := shares * price * a.fee.Rate(p.side)

	proceeds := shares*price - exitFee
	if p.side == Short {
		proceeds = shares*(2*p.entryPrice-price) - exitFee
	}

	a.buyingPower.Add(proceeds)

	if fraction < 1 {
		p.shares -= shares
		p.entryFee -= entryFee
	} else {
		p.shares = 0
		p.entryFee = 0
	}

	a.closedTrades = append(a.closedTrades, Trade{
		ID:         p.id,
		Side:       p.side,
		EntryTime:  p.entryTime,
		ExitTime:   a.date,
		EntryPrice: p.entryPrice,
		ExitPrice:  price,
		Size:       shares,
		Fee:        entryFee + exitFee,
	})

	return nil
}

// CloseAll closes every open position at price.
func (a *Account) CloseAll(price float64) error {

	for _, p := range a.Positions() {
		if err := a.ClosePosition(p, 1, price); err != nil {
			return err
		}
	}

	return nil
}

// PlaceOrder queues a pending entry order and returns its id. The order can
// fill from the bar after the current date onwards.
func (a *Account) PlaceOrder(o Order) (string, error) {

	if !(o.Capital > 0) || !finite(o.Capital) {
		return "", configErrorf("order capital must be positive, got %v", o.Capital)
	}

	if o.Type != Market && (!(o.Price > 0) || !finite(o.Price)) {
		return "", configErrorf("%s order price must be positive, got %v", o.Type, o.Price)
	}

	o.ID = "o" + strconv.FormatInt(int64(a.ordersCounter.Inc()), 10)
	o.Placed = a.date

	a.orders.Set(o.ID, &o)
	a.ordersOrder.Append(o.ID)

	return o.ID, nil
}

// CancelOrder removes a pending order.
func (a *Account) CancelOrder(id string) error {

	if a.order(id) == nil {
		return errors.Wrapf(ErrUnknownOrder, "cancel %q", id)
	}

	a.removeOrder(id)

	return nil
}

// PendingOrders returns the pending orders in placement order.
func (a *Account) PendingOrders() []Order {

	orders := make([]Order, 0, a.ordersOrder.Len())
	for _, id := range a.ordersOrder.ids {
		if o := a.order(id); o != nil {
			orders = append(orders, *o)
		}
	}

	return orders
}

// CheckOrders fills eligible pending orders against the bar's prices and
// closes positions whose stop-loss or take-profit level the bar touched.
// Orders and positions created at the bar's own date are left untouched.
func (a *Account) CheckOrders(bar Bar) {
	a.fillOrders(bar)
	a.checkExits(bar)
}

// PurgePositions drops the bookkeeping of fully closed positions.
func (a *Account) PurgePositions() {

	for _, id := range a.positionsOrder.Snapshot() {
		if p := a.position(id); p == nil || p.Closed() {
			a.positions.Del(id)
			a.positionsOrder.Delete(id)
		}
	}
}

// Positions returns the open positions in entry order.
func (a *Account) Positions() []*Position {

	positions := make([]*Position, 0, a.positionsOrder.Len())
	for _, id := range a.positionsOrder.ids {
		if p := a.position(id); p != nil && !p.Closed() {
			positions = append(positions, p)
		}
	}

	return positions
}

// OpenedTrades returns the entry records, oldest first.
func (a *Account) OpenedTrades() []Trade {
	return append([]Trade(nil), a.openedTrades...)
}

// ClosedTrades returns the closed trade records, oldest first.
func (a *Account) ClosedTrades() []Trade {
	return append([]Trade(nil), a.closedTrades...)
}

// RecordEquity appends an equity sample.
func (a *Account) RecordEquity(date time.Time, value float64) {
	a.equity = append(a.equity, EquitySample{Time: date, Value: value})
}

// Equity returns the recorded equity samples in bar order.
func (a *Account) Equity() []EquitySample {
	return append([]EquitySample(nil), a.equity...)
}
