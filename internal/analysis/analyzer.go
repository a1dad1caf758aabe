// Package analysis computes descriptive statistics over an ordered price series.
//
// All functions are pure: they read the series and never modify it. Values
// that cannot be computed for a given index are returned as invalid null.Float
// entries instead of NaN so that callers never propagate a silent NaN.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

var (
	// ErrEmptySeries is returned for a series without observations.
	ErrEmptySeries = errors.New("series is empty")
	// ErrInvalidWindow is returned for a moving-average window below 1.
	ErrInvalidWindow = errors.New("window must be >= 1")
	// ErrNonFiniteClose is returned when a close is NaN or infinite.
	ErrNonFiniteClose = errors.New("close is not a finite number")
	// ErrZeroClose is returned when a computation would divide by a zero close.
	ErrZeroClose = errors.New("division by zero close")
)

// Analyze runs every computation over the same series.
//
// Parameters:
//   - series: non-empty observations sorted ascending by date.
//   - window: moving-average window (>= 1).
//
// Returns:
//   - *models.Analysis: the computed values.
//   - error: ErrEmptySeries, ErrInvalidWindow, ErrNonFiniteClose or ErrZeroClose (wrapped).
func Analyze(series models.Series, window int) (*models.Analysis, error) {
	if err := validate(series); err != nil {
		return nil, err
	}

	mean, maxClose, minClose, err := SummaryStats(series)
	if err != nil {
		return nil, err
	}
	trend, err := TrendOf(series)
	if err != nil {
		return nil, err
	}
	ma, err := MovingAverage(series, window)
	if err != nil {
		return nil, err
	}
	returns, err := DailyReturn(series)
	if err != nil {
		return nil, err
	}
	pct, err := PercentageChange(series)
	if err != nil {
		return nil, err
	}
	avgChange, err := AverageDailyChange(series)
	if err != nil {
		return nil, err
	}

	return &models.Analysis{
		Window:             window,
		Mean:               mean,
		Max:                maxClose,
		Min:                minClose,
		Trend:              trend,
		MovingAverage:      ma,
		DailyReturn:        returns,
		Volatility:         Volatility(returns),
		PercentageChange:   pct,
		AverageDailyChange: avgChange,
	}, nil
}

// SummaryStats returns the arithmetic mean, maximum and minimum close.
func SummaryStats(series models.Series) (mean, maxClose, minClose float64, err error) {
	if err := validate(series); err != nil {
		return 0, 0, 0, err
	}
	maxClose = math.Inf(-1)
	minClose = math.Inf(1)
	var sum float64
	for _, o := range series {
		sum += o.Close
		if o.Close > maxClose {
			maxClose = o.Close
		}
		if o.Close < minClose {
			minClose = o.Close
		}
	}
	return sum / float64(len(series)), maxClose, minClose, nil
}

// TrendOf is Upward only when the last close is strictly greater than the first.
// Equal closes classify as Downward.
func TrendOf(series models.Series) (models.Trend, error) {
	if len(series) == 0 {
		return "", ErrEmptySeries
	}
	if series[len(series)-1].Close > series[0].Close {
		return models.TrendUpward, nil
	}
	return models.TrendDownward, nil
}

// MovingAverage is the trailing simple mean of the last window closes.
// Index i is valid iff i >= window-1.
func MovingAverage(series models.Series, window int) ([]null.Float, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	// Windows are summed independently; no sum carries between indices.
	out := make([]null.Float, len(series))
	for i := window - 1; i < len(series); i++ {
		var sum float64
		for _, o := range series[i-window+1 : i+1] {
			sum += o.Close
		}
		out[i] = null.FloatFrom(sum / float64(window))
	}
	return out, nil
}

// DailyReturn is the day-over-day fractional change. Index 0 is always invalid.
// A zero previous close yields ErrZeroClose.
func DailyReturn(series models.Series) ([]null.Float, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]null.Float, len(series))
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev == 0 {
			return nil, fmt.Errorf("%w: previous close at index %d", ErrZeroClose, i-1)
		}
		out[i] = null.FloatFrom((series[i].Close - prev) / prev)
	}
	return out, nil
}

// Volatility is the sample standard deviation (N-1) of the valid returns.
// Fewer than two valid returns leave the value invalid.
func Volatility(returns []null.Float) null.Float {
	var values []float64
	for _, r := range returns {
		if r.Valid {
			values = append(values, r.Float64)
		}
	}
	if len(values) < 2 {
		return null.Float{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return null.FloatFrom(math.Sqrt(sq / float64(len(values)-1)))
}

// PercentageChange is (last - first) / first * 100.
func PercentageChange(series models.Series) (float64, error) {
	if len(series) == 0 {
		return 0, ErrEmptySeries
	}
	first := series[0].Close
	if first == 0 {
		return 0, fmt.Errorf("%w: first close", ErrZeroClose)
	}
	return (series[len(series)-1].Close - first) / first * 100, nil
}

// AverageDailyChange is the mean absolute day-over-day close difference.
// It is invalid for a single-observation series.
func AverageDailyChange(series models.Series) (null.Float, error) {
	if len(series) == 0 {
		return null.Float{}, ErrEmptySeries
	}
	if len(series) == 1 {
		return null.Float{}, nil
	}
	var sum float64
	for i := 1; i < len(series); i++ {
		sum += math.Abs(series[i].Close - series[i-1].Close)
	}
	return null.FloatFrom(sum / float64(len(series)-1)), nil
}

func validate(series models.Series) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	for i, o := range series {
		if math.IsNaN(o.Close) || math.IsInf(o.Close, 0) {
			return fmt.Errorf("%w: index %d", ErrNonFiniteClose, i)
		}
	}
	return nil
}
