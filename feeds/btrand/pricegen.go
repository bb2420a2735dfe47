// Package btrand generates synthetic, seed-reproducible price series for
// examples and tests.
package btrand

import (
	"math"
	"time"

	"github.com/luismcruz/barsim"
)

// Generator emits ticks of a random price path, each as a single-price bar.
type Generator struct {
	randGen *randomGenerator
	price   float64
	time    time.Time
}

// NewGenerator creates a generator starting at startTime and startPrice. The
// same seed and options always produce the same path.
func NewGenerator(seed int64, startTime time.Time, startPrice float64, opts ...Option) *Generator {

	return &Generator{
		randGen: newRandomGenerator(seed, opts...),
		price:   startPrice,
		time:    startTime,
	}
}

// Next returns the next tick.
func (g *Generator) Next() barsim.Bar {

	timeInc, ret, volume := g.randGen.next()
	g.price *= math.Exp(ret)

	g.time = g.time.Add(time.Duration(timeInc * float64(time.Second)))

	return barsim.Bar{
		Time:   g.time,
		Open:   g.price,
		High:   g.price,
		Low:    g.price,
		Close:  g.price,
		Volume: volume,
	}
}

// Until returns every tick up to end, as a raw series ready to be resampled.
func (g *Generator) Until(end time.Time) barsim.Series {

	var series barsim.Series

	for {
		tick := g.Next()
		if tick.Time.After(end) {
			return series
		}
		series = append(series, tick)
	}
}

// Series is a shortcut for NewGenerator(seed, start, startPrice, opts...).Until(end).
func Series(seed int64, start, end time.Time, startPrice float64, opts ...Option) barsim.Series {
	return NewGenerator(seed, start, startPrice, opts...).Until(end)
}
