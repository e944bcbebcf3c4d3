package kafka

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartEvent — изменение корзины, публикуемое в Kafka.
type CartEvent struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	ProductID        string          `json:"product_id,omitempty"`
	PurchaseQuantity int             `json:"purchase_quantity"`
	CartItemsCount   int             `json:"cart_items_count"`
	CartTotal        decimal.Decimal `json:"cart_total"`
	CartOpen         bool            `json:"cart_open"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// newCartEvent строит событие для действия над корзиной. Прочие действия и no-op событий не порождают.
func newCartEvent(prev, next *state.State, action state.Action, now time.Time) (*CartEvent, bool) {
	if prev == next {
		return nil, false
	}

	event := &CartEvent{
		EventID:        uuid.NewString(),
		EventType:      string(action.Type()),
		CartItemsCount: next.CartItemsCount(),
		CartTotal:      next.CartTotal(),
		CartOpen:       next.CartOpen,
		OccurredAt:     now.UTC(),
	}

	switch a := action.(type) {
	case state.AddToCart:
		event.ProductID = a.Product.ID
	case state.UpdateCartQuantity:
		event.ProductID = a.ID
	case state.RemoveFromCart:
		event.ProductID = a.ID
	case state.ToggleCart:
	default:
		return nil, false
	}

	if line, ok := next.Cart.Get(event.ProductID); ok {
		event.PurchaseQuantity = line.PurchaseQuantity
	}

	return event, true
}

func (c *CartEvent) payload() ([]byte, error) {
	return json.Marshal(c)
}

// key — ключ сообщения: события одного товара попадают в одну партицию.
func (c *CartEvent) key() []byte {
	if c.ProductID == "" {
		return []byte(c.EventType)
	}
	return []byte(c.ProductID)
}
