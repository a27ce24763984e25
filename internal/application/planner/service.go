// Package planner provides the application layer for meal plan generation
// This implements the use cases defined in the inbound ports
package planner

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
	"github.com/mealsmith/v2/internal/domain/planning"
	"github.com/mealsmith/v2/internal/domain/shared"
	"github.com/mealsmith/v2/internal/ports/inbound"
	"github.com/mealsmith/v2/internal/ports/outbound"
	"github.com/mealsmith/v2/pkg/errors"
)

const (
	planCacheTTL     = 15 * time.Minute
	shoppingCacheTTL = 15 * time.Minute

	defaultPageSize = 20
	maxPageSize     = 100
)

// PlannerService implements the meal-planning use cases
type PlannerService struct {
	catalogRepo outbound.CatalogRepository
	registry    outbound.DietProfileRegistry
	planRepo    outbound.MealPlanRepository
	cache       outbound.CacheRepository
	events      outbound.MessageBus
	metrics     outbound.PlannerMetrics
	params      func() planning.Params
	logger      *zap.Logger
}

// NewPlannerService creates a new planner service. The params provider is
// called on every generation so configuration reloads take effect without
// a restart.
func NewPlannerService(
	catalogRepo outbound.CatalogRepository,
	registry outbound.DietProfileRegistry,
	planRepo outbound.MealPlanRepository,
	cache outbound.CacheRepository,
	events outbound.MessageBus,
	metrics outbound.PlannerMetrics,
	params func() planning.Params,
	logger *zap.Logger,
) inbound.PlannerService {
	return &PlannerService{
		catalogRepo: catalogRepo,
		registry:    registry,
		planRepo:    planRepo,
		cache:       cache,
		events:      events,
		metrics:     metrics,
		params:      params,
		logger:      logger.Named("planner-service"),
	}
}

// GenerateMealPlan generates, validates, and stores a new meal plan
func (s *PlannerService) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	cmd.ApplyDefaults()

	s.logger.Info("Generating meal plan",
		zap.String("diet_profile_id", cmd.DietProfileID),
		zap.Int("calories", cmd.Calories),
		zap.Int("meals_per_day", cmd.MealsPerDay),
		zap.Int("days", cmd.Days),
	)

	// Resolve diet profile
	profile, err := s.registry.Resolve(ctx, cmd.DietProfileID)
	if err != nil {
		if stderrors.Is(err, diet.ErrProfileNotFound) {
			s.metrics.PlanRejected("unknown_diet_profile")
			return nil, errors.NewUnknownDietProfileError(cmd.DietProfileID, s.knownProfileIDs(ctx))
		}
		return nil, errors.NewDatabaseError("resolve diet profile", err)
	}

	// Load catalog snapshot
	snapshot, err := s.catalogRepo.LoadSnapshot(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipe catalog", err)
	}

	// Draw a seed when the caller did not pin one, so every run stays
	// reproducible from its stored inputs
	seed := time.Now().UnixNano()
	if cmd.Seed != nil {
		seed = *cmd.Seed
	}

	engine, err := planning.NewEngine(s.params())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build planning engine")
	}

	request := planning.Request{
		Calories:    cmd.Calories,
		MealsPerDay: cmd.MealsPerDay,
		Days:        cmd.Days,
		Exclusions:  cmd.Exclusions,
		Seed:        seed,
	}

	start := time.Now()
	plan, err := engine.Generate(snapshot, profile, request)
	if err != nil {
		s.metrics.PlanRejected(rejectionReason(err))
		return nil, mapEngineError(err)
	}

	// Wrap the artifact in an aggregate
	planEntity, err := mealplan.NewMealPlan(plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create meal plan entity")
	}
	if err := planEntity.MarkValidated(); err != nil {
		return nil, errors.Wrap(err, "failed to mark meal plan validated")
	}

	// Save to repository
	if err := s.planRepo.Save(ctx, planEntity); err != nil {
		return nil, errors.NewDatabaseError("save meal plan", err)
	}

	// Publish events
	for _, event := range planEntity.Events() {
		if err := s.publishEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}

	s.metrics.PlanGenerated(profile.ID, len(plan.Days), len(plan.RelaxedSlots()), len(plan.FlaggedDays()), time.Since(start))

	dto := s.entityToDTO(planEntity)

	// Cache the result
	s.cachePlan(ctx, dto)

	s.logger.Info("Meal plan generated successfully",
		zap.String("plan_id", dto.ID.String()),
		zap.String("diet_profile_id", dto.DietProfileID),
		zap.Int64("seed", seed),
		zap.Int("days", len(dto.Days)),
		zap.Int("flagged_days", len(dto.FlaggedDays)),
	)

	return dto, nil
}

// ArchiveMealPlan retires a stored plan from active use
func (s *PlannerService) ArchiveMealPlan(ctx context.Context, planID uuid.UUID) error {
	s.logger.Info("Archiving meal plan",
		zap.String("plan_id", planID.String()),
	)

	// Load plan
	planEntity, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if stderrors.Is(err, mealplan.ErrPlanNotFound) {
			return errors.NewPlanNotFoundError(planID.String())
		}
		return errors.NewDatabaseError("find meal plan", err)
	}

	// Archive
	if err := planEntity.Archive(); err != nil {
		return errors.NewBadRequestError("meal plan is already archived")
	}

	// Save changes
	if err := s.planRepo.Save(ctx, planEntity); err != nil {
		return errors.NewDatabaseError("update meal plan status", err)
	}

	// Invalidate cache
	s.invalidatePlanCache(planID)

	s.logger.Info("Meal plan archived successfully",
		zap.String("plan_id", planID.String()),
	)

	return nil
}

// DeleteMealPlan deletes a stored plan
func (s *PlannerService) DeleteMealPlan(ctx context.Context, planID uuid.UUID) error {
	s.logger.Info("Deleting meal plan",
		zap.String("plan_id", planID.String()),
	)

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		if stderrors.Is(err, mealplan.ErrPlanNotFound) {
			return errors.NewPlanNotFoundError(planID.String())
		}
		return errors.NewDatabaseError("delete meal plan", err)
	}

	// Invalidate cache
	s.invalidatePlanCache(planID)

	s.logger.Info("Meal plan deleted successfully",
		zap.String("plan_id", planID.String()),
	)

	return nil
}

// GetMealPlan retrieves a stored plan by ID
func (s *PlannerService) GetMealPlan(ctx context.Context, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	// Try cache first
	if cached := s.getCachedPlan(ctx, planID); cached != nil {
		return cached, nil
	}

	// Load from repository
	planEntity, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if stderrors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, errors.NewPlanNotFoundError(planID.String())
		}
		return nil, errors.NewDatabaseError("find meal plan", err)
	}

	dto := s.entityToDTO(planEntity)

	// Cache the result
	s.cachePlan(ctx, dto)

	return dto, nil
}

// ListMealPlans retrieves stored plans with pagination
func (s *PlannerService) ListMealPlans(ctx context.Context, params inbound.PaginationParams) (*inbound.MealPlanList, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	plans, total, err := s.planRepo.FindAll(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal plans", err)
	}

	// Convert to DTOs
	summaries := make([]inbound.MealPlanSummaryDTO, len(plans))
	for i, p := range plans {
		summaries[i] = entityToSummaryDTO(p)
	}

	return &inbound.MealPlanList{
		Plans:      summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// GetShoppingList derives the consolidated shopping list for a stored plan
func (s *PlannerService) GetShoppingList(ctx context.Context, planID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	// Try cache first
	if cached := s.getCachedShoppingList(ctx, planID); cached != nil {
		return cached, nil
	}

	// Load plan
	planEntity, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if stderrors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, errors.NewPlanNotFoundError(planID.String())
		}
		return nil, errors.NewDatabaseError("find meal plan", err)
	}

	// Load catalog snapshot
	snapshot, err := s.catalogRepo.LoadSnapshot(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load recipe catalog", err)
	}

	entries, err := planning.BuildShoppingList(planEntity.Plan(), snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build shopping list")
	}

	dto := &inbound.ShoppingListDTO{
		PlanID: planID,
		Items:  make([]inbound.ShoppingListItemDTO, len(entries)),
	}
	for i, entry := range entries {
		refs := make([]inbound.SlotRefDTO, len(entry.References))
		for j, ref := range entry.References {
			refs[j] = inbound.SlotRefDTO{Day: ref.Day, Meal: ref.Meal}
		}
		dto.Items[i] = inbound.ShoppingListItemDTO{
			IngredientID: entry.IngredientID,
			Name:         entry.Name,
			Category:     string(entry.Category),
			Quantity:     entry.Quantity,
			Unit:         string(entry.Unit),
			References:   refs,
		}
	}

	s.metrics.ShoppingListBuilt(len(entries))

	if err := s.publishEvent(ctx, mealplan.ShoppingListComputedEvent{
		PlanID:     planID,
		Items:      len(entries),
		ComputedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event", "mealplan.shoppinglist.computed"),
			zap.Error(err),
		)
	}

	// Cache the result
	s.cacheShoppingList(ctx, dto)

	return dto, nil
}

// ListDietProfiles returns the selectable dietary patterns
func (s *PlannerService) ListDietProfiles(ctx context.Context) ([]inbound.DietProfileDTO, error) {
	profiles, err := s.registry.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list diet profiles", err)
	}

	dtos := make([]inbound.DietProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = inbound.DietProfileDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Macros: inbound.MacroSplitDTO{
				Protein: p.Macros.Protein,
				Carbs:   p.Macros.Carbs,
				Fat:     p.Macros.Fat,
			},
			ExcludedTags: p.ExcludedTags,
		}
	}
	return dtos, nil
}

// Helper methods

// knownProfileIDs lists registered profile ids for error metadata
func (s *PlannerService) knownProfileIDs(ctx context.Context) []string {
	profiles, err := s.registry.List(ctx)
	if err != nil {
		return nil
	}
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

// mapEngineError translates engine errors into application errors
func mapEngineError(err error) error {
	var invalidTarget *planning.InvalidTargetError
	if stderrors.As(err, &invalidTarget) {
		return errors.NewInvalidTargetError(invalidTarget.Field, invalidTarget.Reason, invalidTarget.Value)
	}

	var unknownProfile *planning.UnknownDietProfileError
	if stderrors.As(err, &unknownProfile) {
		return errors.NewUnknownDietProfileError(unknownProfile.ID, unknownProfile.Known)
	}

	var noCandidates *planning.NoCandidatesError
	if stderrors.As(err, &noCandidates) {
		return errors.NewNoCandidatesError(string(noCandidates.Category), noCandidates.ProfileID, noCandidates.Exclusions)
	}

	var planValidation *planning.PlanValidationError
	if stderrors.As(err, &planValidation) {
		return errors.NewPlanValidationError(string(planValidation.Rule), planValidation.Day, planValidation.Meal, planValidation.Detail)
	}

	return errors.Wrap(err, "meal plan generation failed")
}

// rejectionReason labels engine failures for metrics
func rejectionReason(err error) string {
	var invalidTarget *planning.InvalidTargetError
	var unknownProfile *planning.UnknownDietProfileError
	var noCandidates *planning.NoCandidatesError
	var planValidation *planning.PlanValidationError

	switch {
	case stderrors.As(err, &invalidTarget):
		return "invalid_target"
	case stderrors.As(err, &unknownProfile):
		return "unknown_diet_profile"
	case stderrors.As(err, &noCandidates):
		return "no_candidates"
	case stderrors.As(err, &planValidation):
		return "plan_validation"
	default:
		return "internal"
	}
}

// entityToDTO converts a meal plan aggregate to its DTO
func (s *PlannerService) entityToDTO(entity *mealplan.MealPlan) *inbound.MealPlanDTO {
	plan := entity.Plan()

	days := make([]inbound.DayPlanDTO, len(plan.Days))
	for i, day := range plan.Days {
		meals := make([]inbound.MealAssignmentDTO, len(day.Meals))
		for j, meal := range day.Meals {
			meals[j] = inbound.MealAssignmentDTO{
				Day:         meal.Slot.Day,
				Meal:        meal.Slot.Meal,
				Category:    string(meal.Slot.Category),
				RecipeID:    meal.RecipeID,
				RecipeName:  meal.RecipeName,
				ScaleFactor: meal.ScaleFactor,
				Nutrition:   toNutritionDTO(meal.Nutrition),
				Relaxed:     meal.Relaxed,
			}
		}
		days[i] = inbound.DayPlanDTO{
			Day:            day.Day,
			Meals:          meals,
			Totals:         toNutritionDTO(day.Totals),
			OutOfTolerance: day.OutOfTolerance,
		}
	}

	mealTargets := make([]inbound.NutrientTargetDTO, len(plan.MealTargets))
	for i, target := range plan.MealTargets {
		mealTargets[i] = toTargetDTO(target)
	}

	return &inbound.MealPlanDTO{
		ID:            entity.ID(),
		DietProfileID: plan.DietProfileID,
		Status:        string(entity.Status()),
		Seed:          plan.Seed,
		Target:        toTargetDTO(plan.Target),
		MealTargets:   mealTargets,
		Days:          days,
		FlaggedDays:   plan.FlaggedDays(),
		CreatedAt:     entity.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     entity.UpdatedAt().Format(time.RFC3339),
	}
}

// entityToSummaryDTO converts an aggregate to its list-view projection
func entityToSummaryDTO(entity *mealplan.MealPlan) inbound.MealPlanSummaryDTO {
	plan := entity.Plan()
	return inbound.MealPlanSummaryDTO{
		ID:            entity.ID(),
		DietProfileID: plan.DietProfileID,
		Status:        string(entity.Status()),
		Days:          len(plan.Days),
		MealsPerDay:   plan.MealsPerDay(),
		Calories:      plan.Target.Calories,
		CreatedAt:     entity.CreatedAt().Format(time.RFC3339),
	}
}

func toNutritionDTO(p nutrition.Profile) inbound.NutritionDTO {
	return inbound.NutritionDTO{
		Calories: p.Calories,
		Protein:  p.Protein,
		Carbs:    p.Carbs,
		Fat:      p.Fat,
	}
}

func toTargetDTO(t nutrition.Target) inbound.NutrientTargetDTO {
	return inbound.NutrientTargetDTO{
		NutritionDTO:     toNutritionDTO(t.Profile),
		CalorieTolerance: t.CalorieTolerance,
		MacroTolerance:   t.MacroTolerance,
	}
}

// publishEvent publishes a domain event to the message bus
func (s *PlannerService) publishEvent(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventName(), err)
	}

	return s.events.Publish(ctx, event.EventName(), outbound.Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Payload:   payload,
		Timestamp: event.OccurredAt(),
	})
}

// Cache operations

// getCachedPlan retrieves a plan DTO from cache
func (s *PlannerService) getCachedPlan(ctx context.Context, planID uuid.UUID) *inbound.MealPlanDTO {
	key := fmt.Sprintf("mealplan:%s", planID.String())
	data, err := s.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		s.metrics.CacheMiss("plan")
		return nil
	}

	var dto inbound.MealPlanDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Discarding unreadable cached plan",
			zap.String("plan_id", planID.String()),
			zap.Error(err),
		)
		s.metrics.CacheMiss("plan")
		return nil
	}
	s.metrics.CacheHit("plan")
	return &dto
}

// cachePlan caches a plan DTO
func (s *PlannerService) cachePlan(ctx context.Context, dto *inbound.MealPlanDTO) {
	data, err := json.Marshal(dto)
	if err != nil {
		return
	}
	key := fmt.Sprintf("mealplan:%s", dto.ID.String())
	if err := s.cache.Set(ctx, key, data, planCacheTTL); err != nil {
		s.logger.Warn("Failed to cache meal plan",
			zap.String("plan_id", dto.ID.String()),
			zap.Error(err),
		)
	}
}

// getCachedShoppingList retrieves a shopping list DTO from cache
func (s *PlannerService) getCachedShoppingList(ctx context.Context, planID uuid.UUID) *inbound.ShoppingListDTO {
	key := fmt.Sprintf("mealplan:%s:shopping", planID.String())
	data, err := s.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		s.metrics.CacheMiss("shopping_list")
		return nil
	}

	var dto inbound.ShoppingListDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.metrics.CacheMiss("shopping_list")
		return nil
	}
	s.metrics.CacheHit("shopping_list")
	return &dto
}

// cacheShoppingList caches a shopping list DTO
func (s *PlannerService) cacheShoppingList(ctx context.Context, dto *inbound.ShoppingListDTO) {
	data, err := json.Marshal(dto)
	if err != nil {
		return
	}
	key := fmt.Sprintf("mealplan:%s:shopping", dto.PlanID.String())
	if err := s.cache.Set(ctx, key, data, shoppingCacheTTL); err != nil {
		s.logger.Warn("Failed to cache shopping list",
			zap.String("plan_id", dto.PlanID.String()),
			zap.Error(err),
		)
	}
}

// invalidatePlanCache invalidates cached projections of a plan
func (s *PlannerService) invalidatePlanCache(planID uuid.UUID) {
	ctx := context.Background()
	s.cache.Delete(ctx, fmt.Sprintf("mealplan:%s", planID.String()))
	s.cache.Delete(ctx, fmt.Sprintf("mealplan:%s:shopping", planID.String()))
}
