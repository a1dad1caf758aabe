package llm

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "You are a helpful assistant that explains stock analysis to beginners."

// Facts are the scalar analysis values forwarded to the model.
// Invalid optional fields are left out of the prompt.
type Facts struct {
	Mean               float64
	Max                float64
	Min                float64
	Trend              models.Trend
	Volatility         null.Float
	PercentageChange   null.Float
	AverageDailyChange null.Float
	AverageVolume      null.Int
	Ticker             string
	Deep               bool
}

// FactsFrom copies the explanation inputs out of an analysis.
func FactsFrom(a *models.Analysis, avgVolume null.Int, ticker string, deep bool) Facts {
	return Facts{
		Mean:               a.Mean,
		Max:                a.Max,
		Min:                a.Min,
		Trend:              a.Trend,
		Volatility:         a.Volatility,
		PercentageChange:   null.FloatFrom(a.PercentageChange),
		AverageDailyChange: a.AverageDailyChange,
		AverageVolume:      avgVolume,
		Ticker:             strings.TrimSpace(ticker),
		Deep:               deep,
	}
}

// BuildPrompt renders the user message for a completion request.
func BuildPrompt(f Facts) string {
	depth := "short and clear"
	if f.Deep {
		depth = "detailed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this stock data and provide a %s explanation for a beginner:\n", depth)
	fmt.Fprintf(&b, "Average closing price: %.2f, max: %.2f, min: %.2f. ", f.Mean, f.Max, f.Min)
	fmt.Fprintf(&b, "Trend: %s. ", f.Trend)

	if f.Volatility.Valid {
		fmt.Fprintf(&b, "Volatility: %.4f. ", f.Volatility.Float64)
	}
	if f.PercentageChange.Valid {
		fmt.Fprintf(&b, "Percentage change: %.2f%%. ", f.PercentageChange.Float64)
	}
	if f.AverageDailyChange.Valid {
		fmt.Fprintf(&b, "Average daily change: %.2f. ", f.AverageDailyChange.Float64)
	}
	if f.AverageVolume.Valid {
		fmt.Fprintf(&b, "Average daily volume: approx. %s. ", humanize.Comma(f.AverageVolume.Int64))
	}
	if f.Ticker != "" {
		fmt.Fprintf(&b, "Ticker: %s. ", f.Ticker)
	}

	b.WriteString("Estimate a rough risk level (low, medium, high) and potential opportunity (low, medium, high) based on the data. ")
	if f.Deep {
		b.WriteString("Provide a more detailed explanation including potential factors influencing the stock and things an investor should research.")
	} else {
		b.WriteString("Keep it short (max 4–6 sentences) and easy to understand.")
	}

	return b.String()
}
