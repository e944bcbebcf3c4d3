package converter

import (
	"testing"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnmarshal_ClientRecordShape reads a record in the shape the storefront client stores.
func TestUnmarshal_ClientRecordShape(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"_id":"p1","name":"Camera","description":"Vintage","price":9.99,"image":"camera.jpg","category":{"_id":"c2"},"quantity":3}`)

	model, err := Unmarshal[ProductModel](raw)
	require.NoError(t, err)

	p := ProductToEntity(model)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "c2", p.Category.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
}

func TestMarshal_CartLineKeepsQuantityField(t *testing.T) {
	t.Parallel()

	line := domain.CartLine{ID: "p1", PurchaseQuantity: 2, Name: "Camera", Price: decimal.RequireFromString("9.99")}

	data, err := Marshal(CartLineToModel(line))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_id":"p1"`)
	assert.Contains(t, string(data), `"purchaseQuantity":2`)

	back, err := Unmarshal[CartLineModel](data)
	require.NoError(t, err)
	got := CartLineToEntity(back)
	assert.Equal(t, line.ID, got.ID)
	assert.Equal(t, line.PurchaseQuantity, got.PurchaseQuantity)
	assert.True(t, line.Price.Equal(got.Price))
}
