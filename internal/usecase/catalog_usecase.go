package usecase

import (
	"context"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
)

// CatalogUseCase отдаёт товары и категории, загружая их через SyncPolicy.
type CatalogUseCase struct {
	policy *SyncPolicy
	store  StateStore
	images ImageLinker // nil — ссылки на изображения отдаются как есть
	logger logger.Logger
}

func NewCatalogUseCase(policy *SyncPolicy, store StateStore, images ImageLinker, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		policy: policy,
		store:  store,
		images: images,
		logger: logger,
	}
}

// Products возвращает товары текущей категории.
func (c *CatalogUseCase) Products(ctx context.Context) (*ProductsRes, error) {
	const op = "CatalogUseCase.Products"

	if err := c.policy.EnsureProducts(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	s := c.store.State()
	visible := s.VisibleProducts()
	views := make([]ProductView, 0, len(visible))
	for _, product := range visible {
		views = append(views, c.view(ctx, product))
	}

	return &ProductsRes{Products: views, CurrentCategory: s.CurrentCategory}, nil
}

// Product ищет товар по идентификатору среди загруженных.
func (c *CatalogUseCase) Product(ctx context.Context, id string) (*ProductView, error) {
	const op = "CatalogUseCase.Product"

	if err := c.policy.EnsureProducts(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, ok := c.store.State().Products.Get(id)
	if !ok {
		return nil, e.Wrap(id, e.ErrProductNotFound)
	}

	view := c.view(ctx, product)
	return &view, nil
}

func (c *CatalogUseCase) Categories(ctx context.Context) (*CategoriesRes, error) {
	const op = "CatalogUseCase.Categories"

	if err := c.policy.EnsureCategories(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	s := c.store.State()
	return &CategoriesRes{Categories: s.Categories.Items(), CurrentCategory: s.CurrentCategory}, nil
}

// SelectCategory задаёт фильтр товаров. Пустой id снимает фильтр.
func (c *CatalogUseCase) SelectCategory(_ context.Context, id string) error {
	if err := c.store.Dispatch(state.UpdateCurrentCategory{CategoryID: id}); err != nil {
		return e.Wrap("CatalogUseCase.SelectCategory", err)
	}

	return nil
}

func (c *CatalogUseCase) Status() SyncStatus {
	return c.policy.Status()
}

// view подставляет ссылку на изображение. Ошибка ссылки не ломает ответ.
func (c *CatalogUseCase) view(ctx context.Context, product domain.Product) ProductView {
	view := ProductView{Product: product, ImageURL: product.Image}
	if c.images == nil || product.Image == "" {
		return view
	}

	url, err := c.images.Link(ctx, product.Image)
	if err != nil {
		c.logger.Warnf("image link for product %s: %v", product.ID, err)
		return view
	}
	view.ImageURL = url

	return view
}
