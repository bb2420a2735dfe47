package barsim

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default simulation parameters.
const (
	DefaultCapitalBase   float64   = 100000
	DefaultDataFrequency Frequency = Daily
)

// FeeSchedule holds the fee charged on every fill as a fraction of the traded
// notional, per trade direction (0.001 is 0.1%).
type FeeSchedule struct {
	Long  float64 `yaml:"long"`
	Short float64 `yaml:"short"`
}

// Rate returns the fee fraction for the given side.
func (f FeeSchedule) Rate(side Side) float64 {
	if side == Short {
		return f.Short
	}

	return f.Long
}

// SimParams are the simulation parameters of a backtest.
type SimParams struct {
	CapitalBase   float64     `yaml:"capital_base"`
	DataFrequency Frequency   `yaml:"data_frequency"`
	Fee           FeeSchedule `yaml:"fee"`
}

// DefaultSimParams returns the parameters a backtest starts from.
func DefaultSimParams() SimParams {
	return SimParams{
		CapitalBase:   DefaultCapitalBase,
		DataFrequency: DefaultDataFrequency,
	}
}

// Validate reports a configuration error for parameters that cannot be
// simulated.
func (p SimParams) Validate() error {

	if !(p.CapitalBase > 0) {
		return configErrorf("capital_base must be positive, got %v", p.CapitalBase)
	}

	if !p.DataFrequency.Valid() {
		return configErrorf("unknown data frequency %q", string(p.DataFrequency))
	}

	for _, fee := range []float64{p.Fee.Long, p.Fee.Short} {
		if !(fee >= 0 && fee < 1) {
			return configErrorf("fee must be in [0, 1), got %v", fee)
		}
	}

	return nil
}

// Merge returns a copy of p with the recognized keys of overrides applied:
// capital_base, data_frequency and fee. Unknown keys are ignored. fee is either
// a number used for both sides or a map with long and short keys.
func (p SimParams) Merge(overrides map[string]interface{}) (SimParams, error) {

	if v, ok := overrides["capital_base"]; ok {
		capital, err := toFloat(v)
		if err != nil {
			return p, errors.Wrap(err, "capital_base")
		}
		p.CapitalBase = capital
	}

	if v, ok := overrides["data_frequency"]; ok {
		name, isString := v.(string)
		if !isString {
			if f, isFreq := v.(Frequency); isFreq {
				name, isString = string(f), true
			}
		}
		if !isString {
			return p, configErrorf("data_frequency: expected a string, got %T", v)
		}
		freq, err := ParseFrequency(name)
		if err != nil {
			return p, err
		}
		p.DataFrequency = freq
	}

	if v, ok := overrides["fee"]; ok {
		fee, err := toFeeSchedule(p.Fee, v)
		if err != nil {
			return p, errors.Wrap(err, "fee")
		}
		p.Fee = fee
	}

	return p, nil
}

// LoadSimParams reads a YAML document and merges it over the defaults, with
// the same whitelist semantics as Merge.
func LoadSimParams(r io.Reader) (SimParams, error) {

	overrides := make(map[string]interface{})

	if err := yaml.NewDecoder(r).Decode(&overrides); err != nil && err != io.EOF {
		return SimParams{}, configErrorf("decoding parameters: %v", err)
	}

	p, err := DefaultSimParams().Merge(overrides)
	if err != nil {
		return SimParams{}, err
	}

	return p, p.Validate()
}

func toFeeSchedule(current FeeSchedule, v interface{}) (FeeSchedule, error) {

	switch fee := v.(type) {
	case FeeSchedule:
		return fee, nil
	case map[string]interface{}:
		for k, item := range fee {
			rate, err := toFloat(item)
			if err != nil {
				return current, errors.Wrap(err, k)
			}
			switch k {
			case "long", "Long":
				current.Long = rate
			case "short", "Short":
				current.Short = rate
			}
		}
		return current, nil
	}

	rate, err := toFloat(v)
	if err != nil {
		return current, err
	}

	return FeeSchedule{Long: rate, Short: rate}, nil
}

func toFloat(v interface{}) (float64, error) {

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}

	return 0, configErrorf("expected a number, got %T", v)
}
