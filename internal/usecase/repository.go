package usecase

import (
	"context"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
)

// CacheRepository — локальный кэш коллекций, переживающий перезапуск.
type CacheRepository interface {
	Products(ctx context.Context) ([]domain.Product, error)
	PutProduct(ctx context.Context, product domain.Product) error
	Categories(ctx context.Context) ([]domain.Category, error)
	PutCategory(ctx context.Context, category domain.Category) error
	CartLines(ctx context.Context) ([]domain.CartLine, error)
	PutCartLine(ctx context.Context, line domain.CartLine) error
	Delete(ctx context.Context, collection domain.CollectionName, id string) error
}

// StateStore — глобальное хранилище состояния.
type StateStore interface {
	State() *state.State
	Dispatch(action state.Action) error
}
