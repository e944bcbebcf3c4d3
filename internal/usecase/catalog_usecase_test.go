package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productIDs(views []ProductView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestProducts_FilteredByCurrentCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	res, err := f.catalog.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, productIDs(res.Products))

	require.NoError(t, f.catalog.SelectCategory(ctx, "c1"))
	res, err = f.catalog.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, productIDs(res.Products))
	assert.Equal(t, "c1", res.CurrentCategory)

	require.NoError(t, f.catalog.SelectCategory(ctx, ""))
	res, err = f.catalog.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Products, 3)
	assert.Equal(t, int32(1), f.remote.calls.Load())
}

func TestProduct_Lookup(t *testing.T) {
	t.Parallel()

	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	view, err := f.catalog.Product(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "product p2", view.Name)
	assert.Equal(t, "p2.jpg", view.ImageURL)

	_, err = f.catalog.Product(context.Background(), "missing")
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestProducts_ImageLinks(t *testing.T) {
	t.Parallel()

	f := newFixture(&fakeRemote{products: catalog()}, newFakeCache())

	uc := NewCatalogUseCase(f.policy, f.store, fakeLinker{}, logger.NewNopLogger())
	res, err := uc.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.local/p1.jpg", res.Products[0].ImageURL)

	broken := NewCatalogUseCase(f.policy, f.store, fakeLinker{err: errBoom}, logger.NewNopLogger())
	res, err = broken.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1.jpg", res.Products[0].ImageURL)
}

func TestCategories(t *testing.T) {
	t.Parallel()

	f := newFixture(&fakeRemote{err: errBoom}, newFakeCache())

	res, err := f.catalog.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Categories)
}
