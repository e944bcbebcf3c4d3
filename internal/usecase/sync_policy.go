package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// errNotHydrated — коллекцию не удалось получить ни из удалённого источника, ни из кэша.
var errNotHydrated = errors.New("collection not hydrated")

// SyncPolicy решает, откуда брать каждую коллекцию: из состояния, удалённого источника или кэша.
// Для каждой коллекции ведётся свой автомат EMPTY -> LOADING -> HYDRATED; HYDRATED конечно,
// в том числе для пустой коллекции. Одновременные загрузки одной коллекции объединяются
// в один запрос, фоновые записи одной коллекции применяются в порядке постановки.
type SyncPolicy struct {
	store  StateStore
	remote RemoteSource
	cache  CacheRepository
	cfg    *cfg.SyncCfg
	logger logger.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	states map[domain.CollectionName]LoadState
	queues map[domain.CollectionName]*writeQueue
	wg     sync.WaitGroup
}

func NewSyncPolicy(store StateStore, remote RemoteSource, cache CacheRepository, cfg *cfg.SyncCfg, logger logger.Logger) *SyncPolicy {
	states := make(map[domain.CollectionName]LoadState, len(domain.Collections))
	queues := make(map[domain.CollectionName]*writeQueue, len(domain.Collections))
	for _, c := range domain.Collections {
		states[c] = LoadStateEmpty
		queues[c] = &writeQueue{}
	}

	return &SyncPolicy{
		store:  store,
		remote: remote,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		states: states,
		queues: queues,
	}
}

// EnsureProducts гарантирует, что товары загружены в состояние.
func (p *SyncPolicy) EnsureProducts(ctx context.Context) error {
	return p.ensure(ctx, domain.CollectionProducts,
		func(s *state.State) bool { return s.Products.Len() > 0 },
		p.loadProducts,
	)
}

// EnsureCategories гарантирует, что категории загружены в состояние.
func (p *SyncPolicy) EnsureCategories(ctx context.Context) error {
	return p.ensure(ctx, domain.CollectionCategories,
		func(s *state.State) bool { return s.Categories.Len() > 0 },
		p.loadCategories,
	)
}

// EnsureCart восстанавливает корзину из кэша. Удалённого источника у корзины нет.
func (p *SyncPolicy) EnsureCart(ctx context.Context) error {
	return p.ensure(ctx, domain.CollectionCart,
		func(s *state.State) bool { return s.Cart.Len() > 0 },
		p.loadCart,
	)
}

// Status возвращает текущее состояние автоматов.
func (p *SyncPolicy) Status() SyncStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return SyncStatus{
		Products:   p.states[domain.CollectionProducts],
		Categories: p.states[domain.CollectionCategories],
		Cart:       p.states[domain.CollectionCart],
	}
}

// Wait ожидает завершения фоновых записей в кэш с учётом таймаута завершения приложения.
func (p *SyncPolicy) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cache write-through timeout during shutdown: %w", ctx.Err())
	}
}

func (p *SyncPolicy) ensure(ctx context.Context, collection domain.CollectionName,
	present func(*state.State) bool, load func(ctx context.Context) error) error {
	if p.hydrated(collection, present) {
		return nil
	}

	// Загрузка не отменяется вместе с запросом, который её начал.
	loadCtx := context.WithoutCancel(ctx)
	_, err, _ := p.group.Do(collection.String(), func() (any, error) {
		if p.hydrated(collection, present) {
			return nil, nil
		}

		p.setState(collection, LoadStateLoading)
		if err := load(loadCtx); err != nil {
			p.setState(collection, LoadStateEmpty)
			return nil, err
		}
		p.setState(collection, LoadStateHydrated)

		return nil, nil
	})

	if errors.Is(err, errNotHydrated) {
		return nil
	}
	if err != nil {
		return e.Wrap(collection.String(), err)
	}

	return nil
}

func (p *SyncPolicy) loadProducts(ctx context.Context) error {
	const op = "SyncPolicy.loadProducts"

	products, err := p.remote.Products(ctx)
	if err == nil {
		if err := p.store.Dispatch(state.UpdateProducts{Products: products}); err != nil {
			return e.Wrap(op, err)
		}
		p.persist(domain.CollectionProducts, op, func(ctx context.Context) error {
			return putEach(ctx, products, p.cache.PutProduct)
		})
		return nil
	}

	p.logger.Warnf("remote products unavailable, reading cache: %v", e.Wrap(op, err))
	cached, err := p.cache.Products(ctx)
	if err != nil {
		p.logger.Errorf(e.Wrap(op, err), "products cache unavailable")
		return errNotHydrated
	}

	if err := p.store.Dispatch(state.UpdateProducts{Products: cached}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (p *SyncPolicy) loadCategories(ctx context.Context) error {
	const op = "SyncPolicy.loadCategories"

	categories, err := p.remote.Categories(ctx)
	if err == nil {
		if err := p.store.Dispatch(state.UpdateCategories{Categories: categories}); err != nil {
			return e.Wrap(op, err)
		}
		p.persist(domain.CollectionCategories, op, func(ctx context.Context) error {
			return putEach(ctx, categories, p.cache.PutCategory)
		})
		return nil
	}

	p.logger.Warnf("remote categories unavailable, reading cache: %v", e.Wrap(op, err))
	cached, err := p.cache.Categories(ctx)
	if err != nil {
		p.logger.Errorf(e.Wrap(op, err), "categories cache unavailable")
		return errNotHydrated
	}

	if err := p.store.Dispatch(state.UpdateCategories{Categories: cached}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (p *SyncPolicy) loadCart(ctx context.Context) error {
	const op = "SyncPolicy.loadCart"

	// Чтение видит все записи корзины, поставленные до него.
	if err := p.queues[domain.CollectionCart].drain(ctx); err != nil {
		p.logger.Errorf(e.Wrap(op, err), "pending cart writes did not finish")
		return errNotHydrated
	}

	lines, err := p.cache.CartLines(ctx)
	if err != nil {
		p.logger.Errorf(e.Wrap(op, err), "cart cache unavailable")
		return errNotHydrated
	}

	if err := p.store.Dispatch(state.AddMultipleToCart{Lines: lines}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// persist выполняет запись в кэш в фоне после всех ранее поставленных записей коллекции.
// Ошибки только логируются.
func (p *SyncPolicy) persist(collection domain.CollectionName, op string, write func(ctx context.Context) error) {
	prev, done := p.queues[collection].next()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)

		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
		defer cancel()

		if err := write(ctx); err != nil {
			p.logger.Warnf("cache write failed: %v", e.Wrap(op, err))
		}
	}()
}

// hydrated сообщает, что коллекция уже в состоянии: автомат дошёл до HYDRATED
// или копия в Store непуста.
func (p *SyncPolicy) hydrated(collection domain.CollectionName, present func(*state.State) bool) bool {
	p.mu.RLock()
	done := p.states[collection] == LoadStateHydrated
	p.mu.RUnlock()

	if done {
		return true
	}
	if present(p.store.State()) {
		p.setState(collection, LoadStateHydrated)
		return true
	}

	return false
}

func (p *SyncPolicy) setState(collection domain.CollectionName, s LoadState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[collection] = s
}

// putEach записывает каждую сущность отдельной операцией и возвращает все ошибки.
func putEach[T any](ctx context.Context, items []T, put func(context.Context, T) error) error {
	var errs []error
	for _, item := range items {
		if err := put(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
