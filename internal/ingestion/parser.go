package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// ErrInvalidInput marks every structural or format problem in an uploaded file.
var ErrInvalidInput = errors.New("invalid csv input")

const (
	colDate   = "Date"
	colClose  = "Close"
	colVolume = "Volume"
)

// dateLayouts are tried in order for the Date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// columns maps the recognised header names to their positions. volume is -1 when absent.
type columns struct {
	date, close, volume int
}

// ParseSeries reads a comma-separated price file into a Series sorted ascending by date.
//
// Header handling:
//   - Columns are located by name; Date and Close are required, Volume is optional.
//   - Any other column (Open, High, Low, Adj Close, ...) is ignored.
//
// It fails on:
//   - missing required columns
//   - unparseable dates, closes or volumes (with the 1-based line number)
//   - a file without data rows
//
// Parameters:
//   - ctx: context for cancellation.
//   - r:   CSV content.
func ParseSeries(ctx context.Context, r io.Reader) (models.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // checked per row against the header positions

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidInput, err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var series models.Series
	lineNumber := 1 // header already read

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read line after %d: %v", ErrInvalidInput, lineNumber, err)
		}
		lineNumber++

		if isBlank(rec) {
			continue
		}

		obs, err := recordToObservation(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNumber, err)
		}
		series = append(series, obs)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidInput)
	}

	// Stable keeps duplicate dates in file order.
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, nil
}

func locateColumns(header []string) (columns, error) {
	cols := columns{date: -1, close: -1, volume: -1}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch name {
		case colDate:
			cols.date = i
		case colClose:
			cols.close = i
		case colVolume:
			cols.volume = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, colDate)
	}
	if cols.close < 0 {
		missing = append(missing, colClose)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing required column(s): %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return cols, nil
}

// recordToObservation converts one CSV record. Date and Close are mandatory,
// an empty Volume cell becomes an invalid null.Int.
func recordToObservation(rec []string, cols columns) (models.Observation, error) {
	var o models.Observation

	need := max(cols.date, cols.close, cols.volume) + 1
	if len(rec) < need {
		return o, fmt.Errorf("expected at least %d columns, got %d", need, len(rec))
	}

	// Date
	d, err := parseDate(strings.TrimSpace(rec[cols.date]))
	if err != nil {
		return o, err
	}
	o.Date = d

	// Close
	s := strings.TrimSpace(rec[cols.close])
	if s == "" {
		return o, fmt.Errorf("missing %s", colClose)
	}
	c, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
		return o, fmt.Errorf("invalid %s %q", colClose, s)
	}
	o.Close = c

	// Volume (optional column, optional cell)
	if cols.volume >= 0 {
		if s := strings.TrimSpace(rec[cols.volume]); s != "" {
			v, err := parseVolume(s)
			if err != nil {
				return o, err
			}
			o.Volume = null.IntFrom(v)
		}
	}

	return o, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing %s", colDate)
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", colDate, s)
}

// parseVolume accepts plain integers and integral floats such as "1500000.0".
func parseVolume(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative %s %q", colVolume, s)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", colVolume, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative %s %q", colVolume, s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s %q out of range", colVolume, s)
	}
	return int64(f), nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
