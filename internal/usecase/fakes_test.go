package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

type fakeRemote struct {
	products   []domain.Product
	categories []domain.Category
	err        error
	gate       chan struct{} // если задан, запрос ждёт закрытия
	calls      atomic.Int32
}

func (f *fakeRemote) Products(ctx context.Context) ([]domain.Product, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, e.Wrap("remote", e.ErrRemoteUnreachable)
	}
	return f.products, nil
}

func (f *fakeRemote) Categories(ctx context.Context) ([]domain.Category, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, e.Wrap("remote", e.ErrRemoteUnreachable)
	}
	return f.categories, nil
}

type fakeCache struct {
	mu         sync.Mutex
	products   map[string]domain.Product
	categories map[string]domain.Category
	cart       map[string]domain.CartLine
	readErr    error
	writeErr   error
	writeDelay time.Duration // задержка перед каждой записью в корзину
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		products:   map[string]domain.Product{},
		categories: map[string]domain.Category{},
		cart:       map[string]domain.CartLine{},
	}
}

func (f *fakeCache) Products(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return values(f.products), nil
}

func (f *fakeCache) PutProduct(_ context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeCache) Categories(context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return values(f.categories), nil
}

func (f *fakeCache) PutCategory(_ context.Context, c domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCache) CartLines(context.Context) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return values(f.cart), nil
}

func (f *fakeCache) PutCartLine(_ context.Context, l domain.CartLine) error {
	f.stall()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.cart[l.ID] = l
	return nil
}

func (f *fakeCache) Delete(_ context.Context, collection domain.CollectionName, id string) error {
	f.stall()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	switch collection {
	case domain.CollectionProducts:
		delete(f.products, id)
	case domain.CollectionCategories:
		delete(f.categories, id)
	case domain.CollectionCart:
		delete(f.cart, id)
	}
	return nil
}

func (f *fakeCache) stall() {
	f.mu.Lock()
	d := f.writeDelay
	f.mu.Unlock()
	time.Sleep(d)
}

func (f *fakeCache) setWriteDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeDelay = d
}

func (f *fakeCache) cartLine(id string) (domain.CartLine, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.cart[id]
	return l, ok
}

func (f *fakeCache) productCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

func values[T domain.Keyed](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

type fakeLinker struct{ err error }

func (f fakeLinker) Link(_ context.Context, image string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.local/" + image, nil
}

type fixture struct {
	store   *state.Store
	remote  *fakeRemote
	cache   *fakeCache
	policy  *SyncPolicy
	catalog *CatalogUseCase
	cart    *CartUseCase
}

func newFixture(remote *fakeRemote, cache *fakeCache) *fixture {
	log := logger.NewNopLogger()
	store := state.NewStore(log, state.WithStrict(true))
	policy := NewSyncPolicy(store, remote, cache, &cfg.SyncCfg{WriteTimeout: time.Second}, log)

	return &fixture{
		store:   store,
		remote:  remote,
		cache:   cache,
		policy:  policy,
		catalog: NewCatalogUseCase(policy, store, nil, log),
		cart:    NewCartUseCase(policy, store, cache),
	}
}

func product(id, categoryID, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "product " + id,
		Price:    decimal.RequireFromString(price),
		Image:    id + ".jpg",
		Category: domain.CategoryRef{ID: categoryID},
	}
}

func catalog() []domain.Product {
	return []domain.Product{
		product("p1", "c1", "2.99"),
		product("p2", "c2", "9.99"),
		product("p3", "c1", "1.50"),
	}
}
