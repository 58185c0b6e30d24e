package settings

import (
	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/modules/forecast"
)

// Setting keys.
const (
	KeyCurrentAOV          = "current_aov"
	KeyBaseUncertaintyRate = "base_uncertainty_rate"
	KeyMaxUncertainty      = "max_uncertainty"
	KeyTrendMarginPct      = "trend_margin_pct"
)

// Service exposes typed access to the operational settings. It implements
// domain.AOVSource for the forecast pipeline.
type Service struct {
	repo       *Repository
	defaultAOV float64
	log        zerolog.Logger
}

// NewService creates a new settings service. defaultAOV is used when no AOV
// has been stored yet.
func NewService(repo *Repository, defaultAOV float64, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		defaultAOV: defaultAOV,
		log:        log.With().Str("component", "settings_service").Logger(),
	}
}

// CurrentAOV returns the stored average order value, falling back to the
// configured default when unset.
func (s *Service) CurrentAOV() (float64, error) {
	return s.repo.GetFloat(KeyCurrentAOV, s.defaultAOV)
}

// SetCurrentAOV stores the average order value.
func (s *Service) SetCurrentAOV(aov float64) error {
	return s.repo.SetFloat(KeyCurrentAOV, aov)
}

// ForecastThresholds returns the forecast thresholds with any stored
// overrides applied on top of the calibrated defaults.
func (s *Service) ForecastThresholds() forecast.Thresholds {
	defaults := forecast.DefaultThresholds()
	defaults.DefaultAOV = s.defaultAOV

	if v, err := s.repo.GetFloat(KeyBaseUncertaintyRate, defaults.BaseUncertaintyRate); err == nil {
		defaults.BaseUncertaintyRate = v
	}
	if v, err := s.repo.GetFloat(KeyMaxUncertainty, defaults.MaxUncertainty); err == nil {
		defaults.MaxUncertainty = v
	}
	if v, err := s.repo.GetFloat(KeyTrendMarginPct, defaults.TrendMarginPct); err == nil {
		defaults.TrendMarginPct = v
	}

	return defaults
}
