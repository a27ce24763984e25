// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/mealplan"
)

// CatalogRepository loads the recipe catalog. The snapshot is immutable;
// implementations load once and hand out the same instance to every
// request.
type CatalogRepository interface {
	LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// DietProfileRegistry resolves diet identifiers to their profiles.
// Resolve returns diet.ErrProfileNotFound for unknown identifiers.
type DietProfileRegistry interface {
	Resolve(ctx context.Context, id string) (diet.Profile, error)
	List(ctx context.Context) ([]diet.Profile, error)
}

// MealPlanRepository defines the interface for meal plan persistence
// This follows the Repository pattern for data access abstraction.
// FindByID and Delete return mealplan.ErrPlanNotFound for unknown ids.
type MealPlanRepository interface {
	Save(ctx context.Context, plan *mealplan.MealPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	FindAll(ctx context.Context, offset, limit int) ([]*mealplan.MealPlan, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Counter operations
	Increment(ctx context.Context, key string) (int64, error)
}

// MessageBus defines the interface for publishing domain events
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error

// PlannerMetrics records planner outcomes. Implementations must be safe
// for concurrent use; the application layer calls these on every request.
type PlannerMetrics interface {
	PlanGenerated(profileID string, days, relaxedSlots, flaggedDays int, duration time.Duration)
	PlanRejected(reason string)
	ShoppingListBuilt(lines int)
	CatalogLoaded(recipes, ingredients int)
	CacheHit(object string)
	CacheMiss(object string)
}
