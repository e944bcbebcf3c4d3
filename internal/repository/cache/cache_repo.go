package cache

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/repository/converter"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/jimlawless/whereami"
)

// Engine — транзакционное key-value хранилище с тремя именованными коллекциями.
// Каждая операция выполняется в одной атомарной транзакции над одной коллекцией
// и завершается до возврата. Повторов нет: ошибка возвращается вызывающему.
type Engine interface {
	// Migrate идемпотентно приводит схему к версии version, создавая коллекции при первом запуске.
	Migrate(ctx context.Context, version int) error
	// GetAll возвращает все записи коллекции в произвольном порядке. Пустая коллекция — пустой срез.
	GetAll(ctx context.Context, collection domain.CollectionName) ([][]byte, error)
	// Put вставляет запись или полностью перезаписывает запись с тем же ключом.
	Put(ctx context.Context, collection domain.CollectionName, key string, value []byte) error
	// Delete удаляет запись по ключу. Отсутствие записи не является ошибкой.
	Delete(ctx context.Context, collection domain.CollectionName, key string) error
	Close() error
}

// CacheRepo — типизированный доступ к локальному кэшу поверх Engine.
type CacheRepo struct {
	engine Engine
}

func NewCacheRepo(engine Engine) *CacheRepo {
	return &CacheRepo{engine: engine}
}

func (r *CacheRepo) Products(ctx context.Context) ([]domain.Product, error) {
	return getAll(ctx, r.engine, domain.CollectionProducts, converter.ProductToEntity)
}

func (r *CacheRepo) PutProduct(ctx context.Context, product domain.Product) error {
	return put(ctx, r.engine, domain.CollectionProducts, product.ID, converter.ProductToModel(product))
}

func (r *CacheRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	return getAll(ctx, r.engine, domain.CollectionCategories, converter.CategoryToEntity)
}

func (r *CacheRepo) PutCategory(ctx context.Context, category domain.Category) error {
	return put(ctx, r.engine, domain.CollectionCategories, category.ID, converter.CategoryToModel(category))
}

func (r *CacheRepo) CartLines(ctx context.Context) ([]domain.CartLine, error) {
	return getAll(ctx, r.engine, domain.CollectionCart, converter.CartLineToEntity)
}

func (r *CacheRepo) PutCartLine(ctx context.Context, line domain.CartLine) error {
	return put(ctx, r.engine, domain.CollectionCart, line.ID, converter.CartLineToModel(line))
}

// Delete удаляет запись из любой коллекции по идентификатору.
func (r *CacheRepo) Delete(ctx context.Context, collection domain.CollectionName, id string) error {
	if !collection.Valid() {
		return e.Wrap(collection.String(), e.ErrUnknownCollection)
	}

	if err := r.engine.Delete(ctx, collection, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func getAll[M any, T any](ctx context.Context, engine Engine, collection domain.CollectionName, toEntity func(M) T) ([]T, error) {
	records, err := engine.GetAll(ctx, collection)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]T, 0, len(records))
	for _, record := range records {
		model, err := converter.Unmarshal[M](record)
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("decode %s record", collection), err)
		}
		result = append(result, toEntity(model))
	}

	return result, nil
}

func put[M any](ctx context.Context, engine Engine, collection domain.CollectionName, key string, model M) error {
	if key == "" {
		return e.Wrap(collection.String(), e.ErrEmptyID)
	}

	data, err := converter.Marshal(model)
	if err != nil {
		return e.Wrap(fmt.Sprintf("encode %s record %s", collection, key), err)
	}

	if err := engine.Put(ctx, collection, key, data); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
