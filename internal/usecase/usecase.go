package usecase

import "context"

type CatalogUC interface {
	Products(ctx context.Context) (*ProductsRes, error)
	Product(ctx context.Context, id string) (*ProductView, error)
	Categories(ctx context.Context) (*CategoriesRes, error)
	SelectCategory(ctx context.Context, id string) error
	Status() SyncStatus
}

type CartUC interface {
	Cart(ctx context.Context) (*CartRes, error)
	AddProduct(ctx context.Context, productID string) (*CartRes, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*CartRes, error)
	Remove(ctx context.Context, id string) (*CartRes, error)
	Toggle(ctx context.Context) (*CartRes, error)
}
