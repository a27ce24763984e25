package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// MockCatalogRepository is a testify mock for outbound.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Snapshot), args.Error(1)
}

// MockDietProfileRegistry is a testify mock for outbound.DietProfileRegistry
type MockDietProfileRegistry struct {
	mock.Mock
}

func (m *MockDietProfileRegistry) Resolve(ctx context.Context, id string) (diet.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(diet.Profile), args.Error(1)
}

func (m *MockDietProfileRegistry) List(ctx context.Context) ([]diet.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]diet.Profile), args.Error(1)
}

// MockMealPlanRepository is a testify mock for outbound.MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

func (m *MockMealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.MealPlan), args.Error(1)
}

func (m *MockMealPlanRepository) FindAll(ctx context.Context, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*mealplan.MealPlan), args.Int(1), args.Error(2)
}

func (m *MockMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheRepository is a testify mock for outbound.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockMessageBus is a testify mock for outbound.MessageBus
type MockMessageBus struct {
	mock.Mock
}

func (m *MockMessageBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockMessageBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	args := m.Called(ctx, topic, handler)
	return args.Error(0)
}

// NoopMetrics is a no-op outbound.PlannerMetrics for tests that do not
// assert on instrumentation
type NoopMetrics struct{}

func (NoopMetrics) PlanGenerated(profileID string, days, relaxedSlots, flaggedDays int, duration time.Duration) {
}
func (NoopMetrics) PlanRejected(reason string)             {}
func (NoopMetrics) ShoppingListBuilt(lines int)            {}
func (NoopMetrics) CatalogLoaded(recipes, ingredients int) {}
func (NoopMetrics) CacheHit(object string)                 {}
func (NoopMetrics) CacheMiss(object string)                {}

var (
	_ outbound.CatalogRepository   = (*MockCatalogRepository)(nil)
	_ outbound.DietProfileRegistry = (*MockDietProfileRegistry)(nil)
	_ outbound.MealPlanRepository  = (*MockMealPlanRepository)(nil)
	_ outbound.CacheRepository     = (*MockCacheRepository)(nil)
	_ outbound.MessageBus          = (*MockMessageBus)(nil)
	_ outbound.PlannerMetrics      = NoopMetrics{}
)
