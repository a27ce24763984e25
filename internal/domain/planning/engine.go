package planning

import (
	"fmt"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/mealplan"
)

// Request holds the generation inputs for one plan. Seed must be set by
// the caller; the engine never invents randomness of its own, so the same
// request against the same snapshot always yields the same plan.
type Request struct {
	Calories    int
	MealsPerDay int
	Days        int
	Exclusions  []string
	Seed        int64
}

// Engine runs the generation pipeline. It holds only parameters and is
// safe for concurrent use; per-request state lives in the allocator.
type Engine struct {
	params Params
}

// NewEngine builds an engine after validating the parameter set.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("planner params: %w", err)
	}
	return &Engine{params: params}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() Params {
	return e.params
}

// Generate runs the full pipeline for one request: targets, filter,
// allocation, day assembly, and final validation. Generation is
// synchronous and single-threaded; it either completes or fails fast
// with one of the engine's typed errors.
func (e *Engine) Generate(snap *catalog.Snapshot, profile diet.Profile, req Request) (mealplan.Plan, error) {
	if req.Days < e.params.MinDays || req.Days > e.params.MaxDays {
		return mealplan.Plan{}, &InvalidTargetError{
			Field:  "days",
			Value:  req.Days,
			Reason: fmt.Sprintf("must be between %d and %d", e.params.MinDays, e.params.MaxDays),
		}
	}

	dayTarget, mealTargets, err := ComputeTargets(req.Calories, profile, req.MealsPerDay, e.params)
	if err != nil {
		return mealplan.Plan{}, err
	}

	pattern, err := e.params.Pattern(req.MealsPerDay)
	if err != nil {
		return mealplan.Plan{}, &InvalidTargetError{Field: "meals_per_day", Value: req.MealsPerDay, Reason: err.Error()}
	}

	cands := FilterCatalog(snap.Recipes(), profile, req.Exclusions)
	if err := cands.Require(pattern, profile.ID, req.Exclusions); err != nil {
		return mealplan.Plan{}, err
	}

	minScale, maxScale := profile.ScaleBounds(e.params.MinScale, e.params.MaxScale)
	alloc := newAllocator(e.params, minScale, maxScale, req.Seed)
	assignments := alloc.allocate(cands, pattern, mealTargets, req.Days)

	plan := mealplan.Plan{
		DietProfileID: profile.ID,
		Target:        dayTarget,
		MealTargets:   mealTargets,
		Seed:          req.Seed,
		Days:          AssembleDays(assignments, dayTarget, req.Days),
	}

	if err := ValidatePlan(plan, snap, cands.ExcludedTags(), e.params); err != nil {
		return mealplan.Plan{}, err
	}
	return plan, nil
}

// ShoppingList derives the consolidated shopping list for a plan.
func (e *Engine) ShoppingList(snap *catalog.Snapshot, plan mealplan.Plan) ([]mealplan.ShoppingListEntry, error) {
	return BuildShoppingList(plan, snap)
}
