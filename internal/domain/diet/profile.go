// Package diet defines dietary profiles: named, data-driven rule sets that
// turn a diet identifier into macro-ratio targets and ingredient-tag
// exclusions. Profiles are loaded once and treated as read-only; diet
// behavior is expressed as data rather than branching on diet names.
package diet

import (
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// Profile is one dietary pattern.
type Profile struct {
	ID           string               `yaml:"id"`
	Name         string               `yaml:"name"`
	Description  string               `yaml:"description"`
	Macros       nutrition.MacroSplit `yaml:"macros"`
	ExcludedTags []string             `yaml:"excluded_tags"`

	// Optional per-profile portion bounds. Zero values defer to the
	// planner's configured scale-factor bounds.
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
}

// Validate validates the profile definition.
func (p Profile) Validate() error {
	if p.ID == "" {
		return ErrProfileIDRequired
	}
	if p.Name == "" {
		return ErrProfileNameRequired
	}
	if p.Macros.Protein < 0 || p.Macros.Carbs < 0 || p.Macros.Fat < 0 {
		return ErrNegativeMacroRatio
	}
	if !p.Macros.SumsToOne(nutrition.DefaultMacroEpsilon) {
		return ErrMacroRatioSum
	}
	if p.MinScale < 0 || p.MaxScale < 0 {
		return ErrInvalidScaleBounds
	}
	if p.MinScale > 0 && p.MaxScale > 0 && p.MinScale > p.MaxScale {
		return ErrInvalidScaleBounds
	}
	return nil
}

// ScaleBounds resolves the profile's portion bounds against defaults,
// narrowing but never widening the configured range.
func (p Profile) ScaleBounds(defaultMin, defaultMax float64) (float64, float64) {
	min, max := defaultMin, defaultMax
	if p.MinScale > min {
		min = p.MinScale
	}
	if p.MaxScale > 0 && p.MaxScale < max {
		max = p.MaxScale
	}
	if min > max {
		min = max
	}
	return min, max
}
