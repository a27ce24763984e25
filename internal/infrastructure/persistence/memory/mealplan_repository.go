package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// MealPlanRepository stores plans in process memory. It backs the CLI,
// which generates and inspects plans without a database, and doubles as
// a repository test double.
type MealPlanRepository struct {
	plans map[uuid.UUID]*mealplan.MealPlan
	mutex sync.RWMutex
}

// NewMealPlanRepository creates a new in-memory meal plan repository
func NewMealPlanRepository() *MealPlanRepository {
	return &MealPlanRepository{
		plans: make(map[uuid.UUID]*mealplan.MealPlan),
	}
}

// Save stores or replaces a meal plan
func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.plans[plan.ID()] = plan
	return nil
}

// FindByID retrieves a meal plan by its identifier
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plan, exists := r.plans[id]
	if !exists {
		return nil, mealplan.ErrPlanNotFound
	}
	return plan, nil
}

// FindAll retrieves plans newest first with offset pagination
func (r *MealPlanRepository) FindAll(ctx context.Context, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	all := make([]*mealplan.MealPlan, 0, len(r.plans))
	for _, plan := range r.plans {
		all = append(all, plan)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt().Equal(all[j].CreatedAt()) {
			return all[i].CreatedAt().After(all[j].CreatedAt())
		}
		return all[i].ID().String() < all[j].ID().String()
	})

	total := len(all)
	if offset >= total {
		return []*mealplan.MealPlan{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Delete removes a meal plan
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.plans[id]; !exists {
		return mealplan.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)
