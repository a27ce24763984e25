package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mealsmith/v2/internal/ports/outbound"
)

func newTestMessage(msgType string) outbound.Message {
	return outbound.Message{
		ID:        "msg-1",
		Type:      msgType,
		Payload:   []byte(`{"plan_id":"abc"}`),
		Metadata:  map[string]string{"source": "planner"},
		Timestamp: time.Now().UTC(),
	}
}

func TestInProcessBus_PublishSubscribe(t *testing.T) {
	t.Run("Publish_WithSubscriber_ShouldDeliverMessage", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))
		ctx := context.Background()

		var received outbound.Message
		err := bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
			received = msg
			return nil
		})
		require.NoError(t, err)

		err = bus.Publish(ctx, "meal-plans", newTestMessage("meal_plan.generated"))
		require.NoError(t, err)

		assert.Equal(t, "msg-1", received.ID)
		assert.Equal(t, "meal_plan.generated", received.Type)
		assert.Equal(t, "planner", received.Metadata["source"])
	})

	t.Run("Publish_WithNoSubscribers_ShouldSucceed", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))

		err := bus.Publish(context.Background(), "empty-topic", newTestMessage("meal_plan.generated"))

		assert.NoError(t, err)
	})

	t.Run("Publish_WithMultipleSubscribers_ShouldDeliverInOrder", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))
		ctx := context.Background()

		var order []string
		for _, name := range []string{"first", "second", "third"} {
			name := name
			require.NoError(t, bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
				order = append(order, name)
				return nil
			}))
		}

		require.NoError(t, bus.Publish(ctx, "meal-plans", newTestMessage("meal_plan.validated")))

		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("Publish_WithFailingHandler_ShouldDeliverToRemaining", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))
		ctx := context.Background()

		delivered := false
		require.NoError(t, bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
			return errors.New("handler exploded")
		}))
		require.NoError(t, bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
			delivered = true
			return nil
		}))

		err := bus.Publish(ctx, "meal-plans", newTestMessage("meal_plan.generated"))

		assert.NoError(t, err)
		assert.True(t, delivered)
	})

	t.Run("Publish_WithOtherTopic_ShouldNotDeliver", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))
		ctx := context.Background()

		delivered := false
		require.NoError(t, bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
			delivered = true
			return nil
		}))

		require.NoError(t, bus.Publish(ctx, "shopping-lists", newTestMessage("shopping_list.computed")))

		assert.False(t, delivered)
	})

	t.Run("Publish_WithCancelledContext_ShouldReturnError", func(t *testing.T) {
		bus := NewInProcessBus(zaptest.NewLogger(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(ctx, "meal-plans", newTestMessage("meal_plan.generated"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInProcessBus_ConcurrentAccess(t *testing.T) {
	bus := NewInProcessBus(zaptest.NewLogger(t))
	ctx := context.Background()

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.Subscribe(ctx, "meal-plans", func(ctx context.Context, msg outbound.Message) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(ctx, "meal-plans", newTestMessage("meal_plan.generated"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
}
