package mealplan

import "errors"

// Domain errors for meal plan aggregates

var (
	ErrEmptyPlan               = errors.New("meal plan must contain at least one day")
	ErrMissingProfile          = errors.New("meal plan must reference a diet profile")
	ErrPlanNotFound            = errors.New("meal plan not found")
	ErrInvalidStatusTransition = errors.New("invalid meal plan status transition")
)
