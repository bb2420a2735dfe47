package btrand

import (
	"math/rand"
)

/************************************************************
Core probabilities/rates/stds/averages of the generator
Mu -> average
Sigma -> standard deviation
Prob -> probabilities
*************************************************************/
const (
	timePaceRateCore          float64 = 600 // seconds
	noiseSigmaCore            float64 = 0.0008
	trendChangeProbCore       float64 = 0.002
	trendMuCore               float64 = 0.00002
	burstActivationProbCore   float64 = 0.001
	burstDeactivationProbCore float64 = 0.02
	burstSigmaCore            float64 = 0.003
	volumeMaxCore             float64 = 100
)

/*

Random generator with time pace and 3 components noise, trend and volatility
bursts. Price increments are log returns.

*/
type randomGenerator struct {
	timePaceRate      float64
	noiseSigma        float64
	trendChange       float64
	trendMu           float64
	burstActivation   float64
	burstDeactivation float64
	burstSigma        float64
	burstActivated    bool
	volumeMax         float64
	rand              *rand.Rand
}

// Option tunes the random generator.
type Option func(g *randomGenerator)

// TimePaceRate sets the maximum number of seconds between two ticks, on top
// of a one second minimum.
func TimePaceRate(p float64) Option {
	return func(g *randomGenerator) {
		g.timePaceRate = p
	}
}

// NoiseSigma sets the standard deviation of the per tick noise.
func NoiseSigma(p float64) Option {
	return func(g *randomGenerator) {
		g.noiseSigma = p
	}
}

// TrendMu sets the absolute per tick drift of the trend component.
func TrendMu(p float64) Option {
	return func(g *randomGenerator) {
		if g.trendMu < 0 {
			p = -p
		}
		g.trendMu = p
	}
}

// BurstSigma sets the standard deviation added while a volatility burst is active.
func BurstSigma(p float64) Option {
	return func(g *randomGenerator) {
		g.burstSigma = p
	}
}

func newCoreRandomGenerator(seed int64) *randomGenerator {

	gen := &randomGenerator{
		timePaceRate:      timePaceRateCore,
		noiseSigma:        noiseSigmaCore,
		trendChange:       trendChangeProbCore,
		trendMu:           trendMuCore,
		burstActivation:   burstActivationProbCore,
		burstDeactivation: burstDeactivationProbCore,
		burstSigma:        burstSigmaCore,
		volumeMax:         volumeMaxCore,
		rand:              rand.New(rand.NewSource(seed)),
	}

	gen.trendMu = gen.trendMu * float64(gen.rand.Int63n(2)*2-1)

	return gen
}

func newRandomGenerator(seed int64, opts ...Option) *randomGenerator {

	gen := newCoreRandomGenerator(seed)

	for _, o := range opts {
		o(gen)
	}

	return gen
}

// next returns the seconds to the next tick, the log return of the tick and its volume.
func (g *randomGenerator) next() (float64, float64, float64) {

	timeInc := 1 + g.rand.Float64()*g.timePaceRate

	ret := g.rand.NormFloat64()*g.noiseSigma + g.trendMu

	if g.rand.Float64() < g.trendChange {
		g.trendMu = -g.trendMu
	}

	if !g.burstActivated && g.rand.Float64() < g.burstActivation {
		g.burstActivated = true
	}

	if g.burstActivated {
		ret += g.rand.NormFloat64() * g.burstSigma
	}

	if g.burstActivated && g.rand.Float64() < g.burstDeactivation {
		g.burstActivated = false
	}

	volume := 1 + float64(g.rand.Int63n(int64(g.volumeMax)))

	return timeInc, ret, volume
}
