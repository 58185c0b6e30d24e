// Package regime classifies the historical monthly series into a trend regime,
// derives adaptive guardrail bounds for the plausible monthly total, and blends
// multiple signals into a single prediction with an uncertainty band.
package regime

// Regime is a qualitative classification of the series' trend shape.
type Regime string

const (
	RegimeNormal      Regime = "normal"
	RegimeExponential Regime = "exponential"
	RegimeDeclining   Regime = "declining"
	RegimeVolatile    Regime = "volatile"
)

// Confidence tiers the overall forecast confidence.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Analysis is the outcome of regime classification: the regime tag, a
// confidence score in [0,1] and adaptive guardrail bounds for the plausible
// monthly total.
type Analysis struct {
	Regime     Regime  `json:"regime"`
	Confidence float64 `json:"confidence"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// EnsembleResult is the blended monthly prediction with its uncertainty band.
type EnsembleResult struct {
	Prediction       float64    `json:"prediction"`
	UncertaintyLower float64    `json:"uncertainty_lower"`
	UncertaintyUpper float64    `json:"uncertainty_upper"`
	Regime           Regime     `json:"regime"`
	RegimeConfidence float64    `json:"regime_confidence"`
	Agreement        float64    `json:"agreement"`
	Confidence       Confidence `json:"confidence"`
	RegimeAdjusted   bool       `json:"regime_adjusted"`
	Reasoning        string     `json:"reasoning"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// EarlyMonthProjection is the prior-years projection used while intra-month
// data is too thin (day of month <= 2).
type EarlyMonthProjection struct {
	Active            bool       `json:"active"`
	DaysUntilRealtime int        `json:"days_until_realtime"`
	Projection        float64    `json:"projection"`
	PriorYearsUsed    int        `json:"prior_years_used"`
	GrowthFactor      float64    `json:"growth_factor"`
	MomentumFactor    float64    `json:"momentum_factor"`
	Confidence        Confidence `json:"confidence"`
	Reasoning         string     `json:"reasoning"`
}
