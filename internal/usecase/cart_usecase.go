package usecase

import (
	"context"
	"sync"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/e"
)

// CartUseCase изменяет корзину: сначала синхронно через Store, затем в фоне в кэше.
// Фоновые записи корзины применяются в том же порядке, что и dispatch.
type CartUseCase struct {
	policy *SyncPolicy
	store  StateStore
	cache  CacheRepository
	mu     sync.Mutex // восстановление из кэша, чтение строки, dispatch и постановка записи
}

func NewCartUseCase(policy *SyncPolicy, store StateStore, cache CacheRepository) *CartUseCase {
	return &CartUseCase{
		policy: policy,
		store:  store,
		cache:  cache,
	}
}

// Cart возвращает корзину, при необходимости восстановив её из кэша.
func (c *CartUseCase) Cart(ctx context.Context) (*CartRes, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.policy.EnsureCart(ctx); err != nil {
		return nil, e.Wrap("CartUseCase.Cart", err)
	}

	return NewCartRes(c.store.State()), nil
}

// AddProduct добавляет товар в корзину или увеличивает количество на единицу.
func (c *CartUseCase) AddProduct(ctx context.Context, productID string) (*CartRes, error) {
	const op = "CartUseCase.AddProduct"

	if productID == "" {
		return nil, e.Wrap(op, e.ErrEmptyID)
	}

	if err := c.policy.EnsureProducts(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.policy.EnsureCart(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	s := c.store.State()
	if line, ok := s.Cart.Get(productID); ok {
		return c.setQuantity(op, line.ID, line.PurchaseQuantity+1)
	}

	product, ok := s.Products.Get(productID)
	if !ok {
		return nil, e.Wrap(productID, e.ErrProductNotFound)
	}

	if err := c.store.Dispatch(state.AddToCart{Product: product, Quantity: 1}); err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.persistLine(op, productID)
}

// SetQuantity задаёт количество строки. Ноль удаляет строку, отрицательное значение отклоняется.
// Отсутствующая строка оставляет корзину без изменений.
func (c *CartUseCase) SetQuantity(ctx context.Context, id string, quantity int) (*CartRes, error) {
	const op = "CartUseCase.SetQuantity"

	if quantity < 0 {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}
	if quantity == 0 {
		return c.Remove(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.policy.EnsureCart(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if !c.store.State().Cart.Has(id) {
		return NewCartRes(c.store.State()), nil
	}

	return c.setQuantity(op, id, quantity)
}

// Remove удаляет строку из корзины и из кэша.
func (c *CartUseCase) Remove(ctx context.Context, id string) (*CartRes, error) {
	const op = "CartUseCase.Remove"

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.policy.EnsureCart(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.store.Dispatch(state.RemoveFromCart{ID: id}); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.policy.persist(domain.CollectionCart, op, func(ctx context.Context) error {
		return c.cache.Delete(ctx, domain.CollectionCart, id)
	})

	return NewCartRes(c.store.State()), nil
}

// Toggle открывает или закрывает корзину.
func (c *CartUseCase) Toggle(ctx context.Context) (*CartRes, error) {
	const op = "CartUseCase.Toggle"

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.policy.EnsureCart(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.store.Dispatch(state.ToggleCart{}); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCartRes(c.store.State()), nil
}

func (c *CartUseCase) setQuantity(op, id string, quantity int) (*CartRes, error) {
	if err := c.store.Dispatch(state.UpdateCartQuantity{ID: id, PurchaseQuantity: quantity}); err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.persistLine(op, id)
}

// persistLine записывает в кэш строку в том виде, в каком она оказалась в состоянии.
func (c *CartUseCase) persistLine(op, id string) (*CartRes, error) {
	s := c.store.State()
	if line, ok := s.Cart.Get(id); ok {
		c.policy.persist(domain.CollectionCart, op, func(ctx context.Context) error {
			return c.cache.PutCartLine(ctx, line)
		})
	}

	return NewCartRes(s), nil
}
