package feeds

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"github.com/luismcruz/barsim"
)

// BarRecord is the Parquet schema of a bar.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ReadParquet reads a series from a Parquet file of BarRecord rows.
func ReadParquet(path string) (barsim.Series, error) {

	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	series := make(barsim.Series, len(records))
	for i, r := range records {
		series[i] = barsim.Bar{
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}

	return series, nil
}

// WriteParquet writes the series to a Parquet file, creating parent
// directories as needed. Times are stored with millisecond precision.
func WriteParquet(path string, series barsim.Series) error {

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	records := make([]BarRecord, len(series))
	for i, b := range series {
		records[i] = BarRecord{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}

	return parquet.WriteFile(path, records)
}

// Load reads a series from a .csv or .parquet file.
func Load(path string) (barsim.Series, error) {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ReadParquet(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return ReadCSV(f)
	}

	return nil, errors.Wrapf(barsim.ErrData, "unsupported file type %q", filepath.Ext(path))
}
