package dto

import (
	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// UploadResponse acknowledges a stored upload and points at its report.
//
// swagger:model UploadResponse
type UploadResponse struct {
	Filename  string `json:"filename" example:"AAPL.csv"`
	ReportURL string `json:"report_url" example:"/api/v1/report?filename=AAPL.csv&window=30"`
}

// ReportResponse is the JSON rendering of an analyzed upload.
//
// swagger:model ReportResponse
type ReportResponse struct {
	Filename      string          `json:"filename" example:"AAPL.csv"`
	Rows          int             `json:"rows" example:"250"`
	Ticker        string          `json:"ticker,omitempty" example:"AAPL"`
	Analysis      models.Analysis `json:"analysis"`
	AverageVolume null.Int        `json:"average_volume" swaggertype:"integer"`
	PriceChart    models.Chart    `json:"price_chart"`
	VolumeChart   *models.Chart   `json:"volume_chart,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
}

// NewReportResponse maps a report to its response body.
func NewReportResponse(r *models.Report, ticker string) ReportResponse {
	return ReportResponse{
		Filename:      r.Filename,
		Rows:          r.Rows,
		Ticker:        ticker,
		Analysis:      r.Analysis,
		AverageVolume: r.AverageVolume,
		PriceChart:    r.PriceChart,
		VolumeChart:   r.VolumeChart,
		Explanation:   r.Explanation,
	}
}
