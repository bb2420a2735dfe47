package barsim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesValidate(t *testing.T) {

	tests := []struct {
		name   string
		series Series
		want   error
	}{
		{"valid", dailySeries(1, 2, 3), nil},
		{"empty", Series{}, ErrConfiguration},
		{"duplicate time", append(dailySeries(1, 2), dailySeries(3)...), ErrData},
		{"high below low", Series{{Time: testStart, Open: 1, High: 1, Low: 2, Close: 1}}, ErrData},
		{"close outside range", Series{{Time: testStart, Open: 1, High: 2, Low: 1, Close: 3}}, ErrData},
		{"nan", Series{{Time: testStart, Open: math.NaN(), High: 1, Low: 1, Close: 1}}, ErrData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSeriesCloses(t *testing.T) {
	s := dailySeries(1, 2, 3)
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())
	assert.Equal(t, 3.0, s.Last().Close)
	assert.Equal(t, Bar{}, Series{}.Last())
}

func TestHistoryIsPrefix(t *testing.T) {

	series := dailySeries(10, 11, 12, 13, 14)
	h := newHistory(series, 2)

	require.Equal(t, 3, h.Len())
	assert.Equal(t, series[2], h.Last())
	assert.Equal(t, series[2], h.At(-1))
	assert.Equal(t, series[0], h.At(0))
	assert.True(t, h.Time().Equal(series[2].Time))
	assert.Equal(t, []float64{10, 11, 12}, h.Closes())
	assert.Equal(t, Series{series[1], series[2]}, h.Tail(2))
	assert.Len(t, h.Tail(10), 3)
	assert.Empty(t, h.Tail(0))

	t.Run("copies do not leak into the series", func(t *testing.T) {
		bars := h.Bars()
		bars[0].Close = -1
		bars = append(bars, Bar{Close: 99})

		assert.Equal(t, 10.0, series[0].Close)
		assert.Equal(t, 13.0, series[3].Close)
		assert.Equal(t, 3, h.Len())
	})
}
