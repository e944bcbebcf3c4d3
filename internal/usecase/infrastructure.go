package usecase

import (
	"context"

	"github.com/DRSN-tech/go-storefront/internal/domain"
)

// RemoteSource — удалённый источник каталога. Любая ошибка означает недоступность.
type RemoteSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// ImageLinker превращает ссылку на изображение товара в URL для клиента.
type ImageLinker interface {
	Link(ctx context.Context, image string) (string, error)
}
