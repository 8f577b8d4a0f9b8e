package tokens

import "strings"

// Per-1000-token input rates in USD. The higher tier is exactly 10x the baseline.
const (
	BaselineRatePer1K = 0.001
	HighTierRatePer1K = 0.01
)

// Estimate is the token count and approximate cost of sending a text.
type Estimate struct {
	Tokens int
	Cost   float64
}

// IsHighTier reports whether model names the gpt-4 family.
func IsHighTier(model string) bool {
	return strings.Contains(strings.ToLower(model), "gpt-4")
}

// RatePer1K returns the two-bucket rate for model.
func RatePer1K(model string) float64 {
	if IsHighTier(model) {
		return HighTierRatePer1K
	}
	return BaselineRatePer1K
}

// EstimateCost counts text with c and prices it for model.
func EstimateCost(c Counter, text, model string) Estimate {
	n := c.Count(text)
	return Estimate{
		Tokens: n,
		Cost:   float64(n) / 1000 * RatePer1K(model),
	}
}
