package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct_NewLineOpensCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	res, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 1, res.Lines[0].PurchaseQuantity)
	assert.True(t, res.Open)
	assert.Equal(t, "2.99", res.Total.StringFixed(2))

	waitWrites(t, f.policy)
	line, ok := f.cache.cartLine("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.PurchaseQuantity)
	assert.Equal(t, "product p1", line.Name)
}

func TestAddProduct_ExistingLineIncrements(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	_, err := f.cart.AddProduct(ctx, "p2")
	require.NoError(t, err)
	waitWrites(t, f.policy)
	res, err := f.cart.AddProduct(ctx, "p2")
	require.NoError(t, err)

	require.Len(t, res.Lines, 1)
	assert.Equal(t, 2, res.Lines[0].PurchaseQuantity)
	assert.Equal(t, "19.98", res.Total.StringFixed(2))
	assert.Equal(t, 2, res.ItemsCount)

	waitWrites(t, f.policy)
	line, ok := f.cache.cartLine("p2")
	require.True(t, ok)
	assert.Equal(t, 2, line.PurchaseQuantity)
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	_, err := f.cart.AddProduct(context.Background(), "missing")
	require.ErrorIs(t, err, e.ErrProductNotFound)

	_, err = f.cart.AddProduct(context.Background(), "")
	require.ErrorIs(t, err, e.ErrEmptyID)
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())
	_, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	_, err = f.cart.AddProduct(ctx, "p3")
	require.NoError(t, err)

	res, err := f.cart.SetQuantity(ctx, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, "13.46", res.Total.StringFixed(2))

	_, err = f.cart.SetQuantity(ctx, "p1", -1)
	require.ErrorIs(t, err, e.ErrInvalidQuantity)

	res, err = f.cart.SetQuantity(ctx, "missing", 3)
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)

	waitWrites(t, f.policy)
	res, err = f.cart.SetQuantity(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "p3", res.Lines[0].ID)

	waitWrites(t, f.policy)
	_, ok := f.cache.cartLine("p1")
	assert.False(t, ok)
}

func TestRemove_LastLineClosesCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())
	_, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)

	res, err := f.cart.Remove(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.False(t, res.Open)
	assert.True(t, res.Total.IsZero())
}

func TestToggle(t *testing.T) {
	t.Parallel()

	f := newFixture(&fakeRemote{}, newFakeCache())

	res, err := f.cart.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Open)

	res, err = f.cart.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Open)
}

// TestCart_SurvivesRestart replays the cache into a fresh store.
func TestCart_SurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newFakeCache()
	first := newFixture(&fakeRemote{products: catalog()}, cache)
	_, err := first.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	waitWrites(t, first.policy)
	_, err = first.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	waitWrites(t, first.policy)

	second := newFixture(&fakeRemote{err: errBoom}, cache)
	res, err := second.cart.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 2, res.Lines[0].PurchaseQuantity)
	assert.False(t, res.Open)
}

// TestCart_CacheDriftOnWriteFailure: the in-memory cart and the cache are written
// independently, a failed cache write leaves the cache one mutation behind.
func TestCart_CacheDriftOnWriteFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newFakeCache()
	f := newFixture(&fakeRemote{products: catalog()}, cache)
	_, err := f.cart.Cart(ctx)
	require.NoError(t, err)

	cache.mu.Lock()
	cache.writeErr = errBoom
	cache.mu.Unlock()

	res, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, res.Lines, 1)

	waitWrites(t, f.policy)
	_, ok := cache.cartLine("p1")
	assert.False(t, ok)
}

// TestRemove_PendingDeleteDoesNotRestoreLine: requests that arrive before the
// background delete commits must not bring the removed line back from the cache.
func TestRemove_PendingDeleteDoesNotRestoreLine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newFakeCache()
	f := newFixture(&fakeRemote{products: catalog()}, cache)
	_, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	waitWrites(t, f.policy)

	cache.setWriteDelay(50 * time.Millisecond)

	res, err := f.cart.Remove(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, res.Lines)

	res, err = f.cart.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Lines)

	res, err = f.cart.Toggle(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Lines)

	waitWrites(t, f.policy)
	assert.Equal(t, 0, f.store.State().Cart.Len())
	_, ok := cache.cartLine("p1")
	assert.False(t, ok)
}

// TestCart_WritesApplyInDispatchOrder: a put followed quickly by a delete leaves
// the cache matching the in-memory cart, so a restart sees the same lines.
func TestCart_WritesApplyInDispatchOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newFakeCache()
	cache.setWriteDelay(20 * time.Millisecond)
	f := newFixture(&fakeRemote{products: catalog()}, cache)

	_, err := f.cart.AddProduct(ctx, "p1")
	require.NoError(t, err)
	_, err = f.cart.Remove(ctx, "p1")
	require.NoError(t, err)
	_, err = f.cart.AddProduct(ctx, "p2")
	require.NoError(t, err)
	_, err = f.cart.SetQuantity(ctx, "p2", 3)
	require.NoError(t, err)
	_, err = f.cart.SetQuantity(ctx, "p2", 2)
	require.NoError(t, err)

	waitWrites(t, f.policy)

	_, ok := cache.cartLine("p1")
	assert.False(t, ok)
	line, ok := cache.cartLine("p2")
	require.True(t, ok)
	assert.Equal(t, 2, line.PurchaseQuantity)

	cache.setWriteDelay(0)
	restarted := newFixture(&fakeRemote{err: errBoom}, cache)
	res, err := restarted.cart.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "p2", res.Lines[0].ID)
	assert.Equal(t, 2, res.Lines[0].PurchaseQuantity)
}
