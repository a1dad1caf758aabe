package models

import "github.com/guregu/null/v6"

// ChartSeries is one plotted line or bar group. Points align with Chart.Labels.
type ChartSeries struct {
	Name   string       `json:"name"`
	Kind   string       `json:"kind"` // "line" or "bar"
	Style  string       `json:"style,omitempty"`
	Color  string       `json:"color"`
	Points []null.Float `json:"points" swaggertype:"array,number"`
}

// Chart is a plot-ready description: axis titles, x labels and series.
type Chart struct {
	Title  string        `json:"title"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

// Report is the outcome of analyzing one uploaded file.
type Report struct {
	Filename    string   `json:"filename"`
	Rows        int      `json:"rows"`
	Analysis    Analysis `json:"analysis"`
	PriceChart  Chart    `json:"price_chart"`
	VolumeChart *Chart   `json:"volume_chart,omitempty"`
	// AverageVolume is invalid when the file has no volume data.
	AverageVolume null.Int `json:"average_volume" swaggertype:"integer"`
	Explanation   string   `json:"explanation,omitempty"`
}
