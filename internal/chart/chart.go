// Package chart turns an analyzed series into plot-ready chart descriptions.
// Rendering is left to the client.
package chart

import (
	"fmt"

	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

const labelLayout = "2006-01-02"

// PriceChart plots the close price and the moving average over the same date axis.
func PriceChart(series models.Series, a *models.Analysis) models.Chart {
	closes := make([]null.Float, len(series))
	for i, o := range series {
		closes[i] = null.FloatFrom(o.Close)
	}

	return models.Chart{
		Title:  "Price Trend",
		XLabel: "Date",
		YLabel: "Price (Close)",
		Labels: labels(series),
		Series: []models.ChartSeries{
			{Name: "Close Price", Kind: "line", Color: "blue", Points: closes},
			{Name: fmt.Sprintf("%d-Day MA", a.Window), Kind: "line", Style: "dashed", Color: "orange", Points: a.MovingAverage},
		},
	}
}

// VolumeChart plots daily volume as bars. ok is false when the series has no volume data.
func VolumeChart(series models.Series) (c *models.Chart, ok bool) {
	if !series.HasVolume() {
		return nil, false
	}

	volumes := make([]null.Float, len(series))
	for i, o := range series {
		if o.Volume.Valid {
			volumes[i] = null.FloatFrom(float64(o.Volume.Int64))
		}
	}

	return &models.Chart{
		Title:  "Daily Trading Volume",
		XLabel: "Date",
		YLabel: "Volume",
		Labels: labels(series),
		Series: []models.ChartSeries{
			{Name: "Volume", Kind: "bar", Color: "skyblue", Points: volumes},
		},
	}, true
}

func labels(series models.Series) []string {
	out := make([]string, len(series))
	for i, o := range series {
		out[i] = o.Date.Format(labelLayout)
	}
	return out
}
