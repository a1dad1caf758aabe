package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// Observation is a single row of an uploaded price file.
//
// Fields:
//   - Date: trading day (time component is kept as parsed, usually midnight UTC).
//   - Close: closing price for the day.
//   - Volume: traded volume; invalid when the file has no Volume column or the cell is empty.
type Observation struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume null.Int  `json:"volume"`
}

// Series is an ascending-by-date sequence of observations.
// It is built once per request and never mutated afterwards.
type Series []Observation

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Close
	}
	return out
}

// HasVolume reports whether at least one observation carries a volume.
func (s Series) HasVolume() bool {
	for _, o := range s {
		if o.Volume.Valid {
			return true
		}
	}
	return false
}

// AverageVolume is the mean of the valid volumes rounded to the nearest integer.
func (s Series) AverageVolume() null.Int {
	var sum float64
	var n int
	for _, o := range s {
		if o.Volume.Valid {
			sum += float64(o.Volume.Int64)
			n++
		}
	}
	if n == 0 {
		return null.Int{}
	}
	return null.IntFrom(int64(sum/float64(n) + 0.5))
}
