package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/jimlawless/whereami"
	bolt "go.etcd.io/bbolt"
)

var (
	metaBucket = []byte("__meta")
	versionKey = []byte("schema_version")
)

// upgradeStep переводит схему с версии n-1 на n внутри одной транзакции.
type upgradeStep func(tx *bolt.Tx) error

// upgrades[i] — шаг до версии i+1.
var upgrades = []upgradeStep{
	func(tx *bolt.Tx) error {
		for _, collection := range domain.Collections {
			if _, err := tx.CreateBucketIfNotExists([]byte(collection)); err != nil {
				return fmt.Errorf("create bucket %s: %w", collection, err)
			}
		}
		return nil
	},
}

// CacheEngine реализует локальный кэш поверх встроенного bbolt: одна корзина (bucket) на коллекцию.
type CacheEngine struct {
	db *bolt.DB
}

func NewCacheEngine(db *bolt.DB) *CacheEngine {
	return &CacheEngine{db: db}
}

// Migrate выполняет недостающие шаги обновления схемы в одной транзакции.
// Повторный вызов с той же версией ничего не создаёт.
func (c *CacheEngine) Migrate(ctx context.Context, version int) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if version < 1 || version > len(upgrades) {
		return fmt.Errorf("%s: no upgrade path to schema version %d", whereami.WhereAmI(), version)
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}

		current := decodeVersion(meta.Get(versionKey))
		if current > version {
			return fmt.Errorf("stored %d, supported %d: %w", current, version, e.ErrSchemaTooNew)
		}

		for v := current + 1; v <= version; v++ {
			if err := upgrades[v-1](tx); err != nil {
				return err
			}
		}

		return meta.Put(versionKey, encodeVersion(version))
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) GetAll(ctx context.Context, collection domain.CollectionName) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	records := make([][]byte, 0)
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket, err := c.bucket(tx, collection)
		if err != nil {
			return err
		}

		// значения из bbolt валидны только внутри транзакции
		return bucket.ForEach(func(_, v []byte) error {
			records = append(records, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return records, nil
}

func (c *CacheEngine) Put(ctx context.Context, collection domain.CollectionName, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := c.bucket(tx, collection)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) Delete(ctx context.Context, collection domain.CollectionName, key string) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := c.bucket(tx, collection)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) Close() error {
	return c.db.Close()
}

func (c *CacheEngine) bucket(tx *bolt.Tx, collection domain.CollectionName) (*bolt.Bucket, error) {
	if !collection.Valid() {
		return nil, e.Wrap(collection.String(), e.ErrUnknownCollection)
	}

	bucket := tx.Bucket([]byte(collection))
	if bucket == nil {
		return nil, e.Wrap(fmt.Sprintf("bucket %s missing, schema not migrated", collection), e.ErrCacheUnavailable)
	}

	return bucket, nil
}

func encodeVersion(v int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func decodeVersion(data []byte) int {
	if len(data) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(data))
}
