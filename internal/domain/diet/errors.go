package diet

import "errors"

// Domain errors for diet profiles

var (
	ErrProfileIDRequired   = errors.New("diet profile id is required")
	ErrProfileNameRequired = errors.New("diet profile name is required")
	ErrNegativeMacroRatio  = errors.New("macro ratios cannot be negative")
	ErrMacroRatioSum       = errors.New("macro ratios must sum to 1.0")
	ErrInvalidScaleBounds  = errors.New("scale bounds must be positive with min <= max")
	ErrProfileNotFound     = errors.New("diet profile not found")
	ErrDuplicateProfile    = errors.New("duplicate diet profile id")
)
