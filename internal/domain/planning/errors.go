package planning

import (
	"fmt"
	"strings"

	"github.com/mealsmith/v2/internal/domain/catalog"
)

// The engine's error taxonomy. All four kinds carry enough structured
// detail that callers can build user messaging without re-deriving
// context. None of them is retried inside the engine.

// InvalidTargetError reports a malformed or out-of-range generation input.
type InvalidTargetError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidTargetError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid target %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid target %s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// UnknownDietProfileError reports an unresolvable diet identifier.
type UnknownDietProfileError struct {
	ID    string
	Known []string
}

func (e *UnknownDietProfileError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown diet profile %q", e.ID)
	}
	return fmt.Sprintf("unknown diet profile %q (known: %s)", e.ID, strings.Join(e.Known, ", "))
}

// NoCandidatesError reports a meal category left without any eligible
// recipe after filtering. The condition is seed-independent, so callers
// must not retry with a different seed.
type NoCandidatesError struct {
	Category   catalog.MealCategory
	ProfileID  string
	Exclusions []string
}

func (e *NoCandidatesError) Error() string {
	msg := fmt.Sprintf("no candidate recipes for %s under profile %q", e.Category, e.ProfileID)
	if len(e.Exclusions) > 0 {
		msg += fmt.Sprintf(" with exclusions [%s]", strings.Join(e.Exclusions, ", "))
	}
	return msg
}

// ValidationRule names the invariant a plan violated.
type ValidationRule string

const (
	RuleSlotsFilled     ValidationRule = "slots_filled"
	RuleExclusions      ValidationRule = "exclusions"
	RuleToleranceBudget ValidationRule = "tolerance_budget"
	RuleRepeatLimit     ValidationRule = "repeat_limit"
)

// PlanValidationError reports a fully generated plan failing final
// validation. Day and Meal are -1 when the violation is not tied to a
// single slot. The caller decides whether to retry with a new seed,
// relax constraints, or surface the failure.
type PlanValidationError struct {
	Rule   ValidationRule
	Day    int
	Meal   int
	Detail string
}

func (e *PlanValidationError) Error() string {
	where := ""
	if e.Day >= 0 && e.Meal >= 0 {
		where = fmt.Sprintf(" at day %d meal %d", e.Day, e.Meal)
	} else if e.Day >= 0 {
		where = fmt.Sprintf(" at day %d", e.Day)
	}
	return fmt.Sprintf("plan validation failed (%s)%s: %s", e.Rule, where, e.Detail)
}
