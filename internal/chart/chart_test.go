package chart

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/analysis"
	"github.com/guttosm/stockpulse/internal/domain/models"
)

func fixture(withVolume bool) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.Series{}
	for i, c := range []float64{101, 103, 105} {
		o := models.Observation{Date: start.AddDate(0, 0, i), Close: c}
		if withVolume && i != 1 {
			o.Volume = null.IntFrom(int64(1000 * (i + 1)))
		}
		s = append(s, o)
	}
	return s
}

func TestPriceChart(t *testing.T) {
	s := fixture(false)
	a, err := analysis.Analyze(s, 2)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	c := PriceChart(s, a)
	if c.Title != "Price Trend" || len(c.Series) != 2 {
		t.Fatalf("unexpected chart: %+v", c)
	}
	if c.Labels[0] != "2024-01-01" || c.Labels[2] != "2024-01-03" {
		t.Fatalf("labels=%v", c.Labels)
	}
	if c.Series[1].Name != "2-Day MA" || c.Series[1].Style != "dashed" {
		t.Fatalf("ma series=%+v", c.Series[1])
	}

	b, err := json.Marshal(c.Series[1].Points)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[null,102,104]" {
		t.Fatalf("ma points json=%s", b)
	}
}

func TestVolumeChart(t *testing.T) {
	if c, ok := VolumeChart(fixture(false)); ok || c != nil {
		t.Fatalf("expected no volume chart")
	}

	c, ok := VolumeChart(fixture(true))
	if !ok || c == nil {
		t.Fatalf("expected volume chart")
	}
	if c.Series[0].Kind != "bar" {
		t.Fatalf("kind=%q", c.Series[0].Kind)
	}
	b, _ := json.Marshal(c.Series[0].Points)
	if !strings.Contains(string(b), "null") || !strings.HasPrefix(string(b), "[1000,") {
		t.Fatalf("volume points json=%s", b)
	}
}
