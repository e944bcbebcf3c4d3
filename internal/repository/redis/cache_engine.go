package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/pkg/clients"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	metaSuffix        = "__meta"
	collectionsSuffix = "__collections"
	versionField      = "schema_version"
)

// CacheEngine реализует локальный кэш поверх Redis: один hash на коллекцию,
// ключ hash-поля — идентификатор сущности. Изменения выполняются в MULTI/EXEC.
type CacheEngine struct {
	client *clients.RedisClient
	dbName string
}

func NewCacheEngine(client *clients.RedisClient, dbName string) *CacheEngine {
	return &CacheEngine{client: client, dbName: dbName}
}

// Migrate регистрирует коллекции и записывает версию схемы.
// Хранимая версия новее поддерживаемой — ошибка e.ErrSchemaTooNew.
func (c *CacheEngine) Migrate(ctx context.Context, version int) error {
	if version < 1 {
		return fmt.Errorf("%s: no upgrade path to schema version %d", whereami.WhereAmI(), version)
	}

	current, err := c.storedVersion(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if current > version {
		return e.Wrap(fmt.Sprintf("stored %d, supported %d", current, version), e.ErrSchemaTooNew)
	}
	if current == version {
		return nil
	}

	names := make([]any, 0, len(domain.Collections))
	for _, collection := range domain.Collections {
		names = append(names, collection.String())
	}

	_, err = c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.SAdd(ctx, c.key(collectionsSuffix), names...)
		pipe.HSet(ctx, c.key(metaSuffix), versionField, version)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) GetAll(ctx context.Context, collection domain.CollectionName) ([][]byte, error) {
	if err := c.ensureCollection(ctx, collection); err != nil {
		return nil, err
	}

	var values *r.StringSliceCmd
	_, err := c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		values = pipe.HVals(ctx, c.key(collection.String()))
		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	records := make([][]byte, 0, len(values.Val()))
	for _, value := range values.Val() {
		records = append(records, []byte(value))
	}

	return records, nil
}

func (c *CacheEngine) Put(ctx context.Context, collection domain.CollectionName, key string, value []byte) error {
	if err := c.ensureCollection(ctx, collection); err != nil {
		return err
	}

	_, err := c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.HSet(ctx, c.key(collection.String()), key, value)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) Delete(ctx context.Context, collection domain.CollectionName, key string) error {
	if err := c.ensureCollection(ctx, collection); err != nil {
		return err
	}

	_, err := c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.HDel(ctx, c.key(collection.String()), key)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) Close() error {
	return c.client.Close()
}

// ensureCollection проверяет, что коллекция известна и создана миграцией.
func (c *CacheEngine) ensureCollection(ctx context.Context, collection domain.CollectionName) error {
	if !collection.Valid() {
		return e.Wrap(collection.String(), e.ErrUnknownCollection)
	}

	ok, err := c.client.Client.SIsMember(ctx, c.key(collectionsSuffix), collection.String()).Result()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if !ok {
		return e.Wrap(collection.String(), e.ErrCacheUnavailable)
	}

	return nil
}

func (c *CacheEngine) storedVersion(ctx context.Context) (int, error) {
	raw, err := c.client.Client.HGet(ctx, c.key(metaSuffix), versionField).Result()
	if errors.Is(err, r.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupted schema version %q: %w", raw, err)
	}

	return version, nil
}

// key возвращает ключ Redis вида "{dbName}:{suffix}".
func (c *CacheEngine) key(suffix string) string {
	return c.dbName + ":" + suffix
}
