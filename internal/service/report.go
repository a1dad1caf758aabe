// Package service holds the use cases behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guttosm/stockpulse/internal/analysis"
	"github.com/guttosm/stockpulse/internal/chart"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/ingestion"
	"github.com/guttosm/stockpulse/internal/llm"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/metrics"
	"github.com/guttosm/stockpulse/internal/storage"
)

const csvSuffix = ".csv"

var (
	// ErrInvalidInput wraps every client-side problem: bad names, empty files, unparsable CSV.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExplainerUnavailable wraps failures of the explanation backend.
	ErrExplainerUnavailable = errors.New("explainer unavailable")
)

// ReportRequest selects an upload and the moving-average window.
type ReportRequest struct {
	Filename string
	Window   int // <= 0 means the configured default
}

// ExplainRequest is a ReportRequest plus the explanation options.
type ExplainRequest struct {
	ReportRequest
	Ticker string
	Deep   bool
}

// ReportService defines the operations exposed over HTTP.
type ReportService interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	Report(ctx context.Context, req ReportRequest) (*models.Report, error)
	Explain(ctx context.Context, req ExplainRequest) (*models.Report, error)
}

type reportService struct {
	store         storage.UploadStore
	explainer     llm.Explainer
	defaultWindow int
	metrics       *metrics.Metrics
}

// NewReportService wires the service.
//
// Parameters:
//   - store: where uploads live between requests.
//   - explainer: may be nil; Explain then fails with ErrExplainerUnavailable.
//   - defaultWindow: used when a request carries no window (falls back to 30 when <= 0).
//   - m: optional metrics sink.
func NewReportService(store storage.UploadStore, explainer llm.Explainer, defaultWindow int, m *metrics.Metrics) ReportService {
	if defaultWindow <= 0 {
		defaultWindow = 30
	}
	return &reportService{store: store, explainer: explainer, defaultWindow: defaultWindow, metrics: m}
}

func (s *reportService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	name, err := storage.CleanName(filename)
	if err != nil {
		s.count(s.uploads(), "invalid")
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !strings.HasSuffix(name, csvSuffix) {
		s.count(s.uploads(), "invalid")
		return "", fmt.Errorf("%w: only %s files are accepted", ErrInvalidInput, csvSuffix)
	}
	if len(data) == 0 {
		s.count(s.uploads(), "invalid")
		return "", fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	if err := s.store.Save(ctx, name, data); err != nil {
		s.count(s.uploads(), "error")
		return "", fmt.Errorf("save upload: %w", err)
	}
	s.count(s.uploads(), "ok")
	logger.L().Info().Str("file", name).Int("bytes", len(data)).Msg("upload stored")
	return name, nil
}

func (s *reportService) Report(ctx context.Context, req ReportRequest) (*models.Report, error) {
	rep, err := s.buildReport(ctx, req)
	switch {
	case err == nil:
		s.count(s.reports(), "ok")
	case errors.Is(err, ErrInvalidInput):
		s.count(s.reports(), "invalid")
	case errors.Is(err, storage.ErrUploadNotFound):
		s.count(s.reports(), "not_found")
	default:
		s.count(s.reports(), "error")
	}
	return rep, err
}

func (s *reportService) Explain(ctx context.Context, req ExplainRequest) (*models.Report, error) {
	rep, err := s.Report(ctx, req.ReportRequest)
	if err != nil {
		return nil, err
	}

	depth := "short"
	if req.Deep {
		depth = "deep"
	}
	if s.explainer == nil {
		s.countExplanation(depth, "error")
		return nil, fmt.Errorf("%w: no explainer configured", ErrExplainerUnavailable)
	}

	text, err := s.explainer.Explain(ctx, llm.FactsFrom(&rep.Analysis, rep.AverageVolume, req.Ticker, req.Deep))
	if err != nil {
		s.countExplanation(depth, "error")
		logger.L().Error().Err(err).Str("file", rep.Filename).Msg("explanation failed")
		return nil, fmt.Errorf("%w: %v", ErrExplainerUnavailable, err)
	}
	s.countExplanation(depth, "ok")
	rep.Explanation = text
	return rep, nil
}

func (s *reportService) buildReport(ctx context.Context, req ReportRequest) (*models.Report, error) {
	name, err := storage.CleanName(req.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	window := req.Window
	if window <= 0 {
		window = s.defaultWindow
	}

	rc, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	series, err := ingestion.ParseSeries(ctx, rc)
	if err != nil {
		if errors.Is(err, ingestion.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	a, err := analysis.Analyze(series, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rep := &models.Report{
		Filename:      name,
		Rows:          len(series),
		Analysis:      *a,
		PriceChart:    chart.PriceChart(series, a),
		AverageVolume: series.AverageVolume(),
	}
	if vc, ok := chart.VolumeChart(series); ok {
		rep.VolumeChart = vc
	}
	return rep, nil
}

func (s *reportService) uploads() *prometheus.CounterVec {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.Uploads
}

func (s *reportService) reports() *prometheus.CounterVec {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.Reports
}

func (s *reportService) count(c *prometheus.CounterVec, result string) {
	if c != nil {
		c.WithLabelValues(result).Inc()
	}
}

func (s *reportService) countExplanation(depth, result string) {
	if s.metrics != nil {
		s.metrics.Explanations.WithLabelValues(depth, result).Inc()
	}
}
