package models

import "github.com/guregu/null/v6"

// Trend is the coarse direction of a series, comparing its first and last close.
type Trend string

const (
	TrendUpward   Trend = "upward"
	TrendDownward Trend = "downward"
)

// Analysis holds every value computed over one Series.
//
// MovingAverage and DailyReturn are aligned index-for-index with the series;
// entries that cannot be computed (incomplete window, first day) are invalid
// and marshal to JSON null.
//
// swagger:model Analysis
type Analysis struct {
	Window             int          `json:"window" example:"30"`
	Mean               float64      `json:"mean" example:"103.0"`
	Max                float64      `json:"max" example:"105"`
	Min                float64      `json:"min" example:"101"`
	Trend              Trend        `json:"trend" example:"upward"`
	MovingAverage      []null.Float `json:"moving_average" swaggertype:"array,number"`
	DailyReturn        []null.Float `json:"daily_return" swaggertype:"array,number"`
	Volatility         null.Float   `json:"volatility" swaggertype:"number"`
	PercentageChange   float64      `json:"percentage_change" example:"3.96"`
	AverageDailyChange null.Float   `json:"average_daily_change" swaggertype:"number"`
}
