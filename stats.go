package barsim

// TradeStats summarizes the closed trades of one or more directions.
type TradeStats struct {
	SuccessRate   float64 // percent of trades with a positive PnL
	AvgLoss       float64 // mean PnL of losing trades, negative or zero
	AvgWin        float64 // mean PnL of winning trades
	ExpectedValue float64 // probability weighted PnL per trade
	Total         int
	Wins          int
	Losses        int
}

// AnalyzeTrades computes the statistics of the closed trades on the given
// sides, both sides when none are given. Break-even trades count toward the
// total only. An empty selection returns zero statistics. The combined
// success rate and expected value are weighted by trade counts, not averaged
// over the directions.
//
// PnL follows Trade.PnL, which mirrors the price legs of short trades
// (entry*size - fee - exit*size) rather than applying exit*size - fee -
// entry*size to every trade, so a short closed below its entry counts as a win.
func AnalyzeTrades(trades []Trade, sides ...Side) TradeStats {

	if len(sides) == 0 {
		sides = []Side{Long, Short}
	}

	var (
		stats             TradeStats
		pnlWin, pnlLosses float64
	)

	for _, t := range trades {

		if !hasSide(sides, t.Side) {
			continue
		}

		stats.Total++

		switch pnl := t.PnL(); {
		case pnl > 0:
			stats.Wins++
			pnlWin += pnl
		case pnl < 0:
			stats.Losses++
			pnlLosses += pnl
		}
	}

	if stats.Total == 0 {
		return TradeStats{}
	}

	if stats.Wins > 0 {
		stats.AvgWin = pnlWin / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = pnlLosses / float64(stats.Losses)
	}

	total := float64(stats.Total)
	stats.ExpectedValue = float64(stats.Wins)/total*stats.AvgWin + float64(stats.Losses)/total*stats.AvgLoss
	stats.SuccessRate = float64(stats.Wins) / total * 100

	return stats
}

func hasSide(sides []Side, side Side) bool {
	for _, s := range sides {
		if s == side {
			return true
		}
	}

	return false
}
