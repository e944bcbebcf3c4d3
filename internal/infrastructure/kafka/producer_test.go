package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) events(t *testing.T) []CartEvent {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]CartEvent, 0, len(w.messages))
	for _, m := range w.messages {
		var ev CartEvent
		require.NoError(t, json.Unmarshal(m.Value, &ev))
		out = append(out, ev)
	}
	return out
}

func TestProducer_PublishesCartChanges(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	producer := newProducer(writer, logger.NewNopLogger())
	producer.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	store := state.NewStore(logger.NewNopLogger())
	unsubscribe := store.Subscribe(producer.OnDispatch)
	defer unsubscribe()

	cookies := domain.Product{ID: "p1", Name: "Tin of Cookies", Price: decimal.RequireFromString("2.99")}
	require.NoError(t, store.Dispatch(state.UpdateProducts{Products: []domain.Product{cookies}}))
	require.NoError(t, store.Dispatch(state.AddToCart{Product: cookies}))
	require.NoError(t, store.Dispatch(state.UpdateCartQuantity{ID: "p1", PurchaseQuantity: 3}))
	require.NoError(t, store.Dispatch(state.UpdateCartQuantity{ID: "missing", PurchaseQuantity: 3}))
	require.NoError(t, store.Dispatch(state.RemoveFromCart{ID: "p1"}))

	events := writer.events(t)
	require.Len(t, events, 3)

	assert.Equal(t, "ADD_TO_CART", events[0].EventType)
	assert.Equal(t, 1, events[0].PurchaseQuantity)
	assert.True(t, events[0].CartOpen)

	assert.Equal(t, "UPDATE_CART_QUANTITY", events[1].EventType)
	assert.Equal(t, "8.97", events[1].CartTotal.StringFixed(2))
	assert.Equal(t, 3, events[1].CartItemsCount)

	assert.Equal(t, "REMOVE_FROM_CART", events[2].EventType)
	assert.Equal(t, 0, events[2].PurchaseQuantity)
	assert.False(t, events[2].CartOpen)

	writer.mu.Lock()
	assert.Equal(t, []byte("p1"), writer.messages[0].Key)
	writer.mu.Unlock()
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
}

func TestNewCartEvent_IgnoresCatalogActions(t *testing.T) {
	t.Parallel()

	prev := state.NewState()
	next, err := state.Reduce(prev, state.UpdateCurrentCategory{CategoryID: "c1"})
	require.NoError(t, err)

	_, ok := newCartEvent(prev, next, state.UpdateCurrentCategory{CategoryID: "c1"}, time.Now())
	assert.False(t, ok)
}
