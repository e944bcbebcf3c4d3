package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/DRSN-tech/go-storefront/pkg/postgres"
	"github.com/DRSN-tech/go-storefront/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jimlawless/whereami"
)

const undefinedTableCode = "42P01"

// tables сопоставляет коллекции таблицам; имена таблиц попадают в SQL только отсюда.
var tables = map[domain.CollectionName]string{
	domain.CollectionProducts:   "cache_products",
	domain.CollectionCategories: "cache_categories",
	domain.CollectionCart:       "cache_cart",
}

// CacheEngine реализует локальный кэш поверх PostgreSQL: таблица с JSONB-записями на коллекцию.
// Каждая операция выполняется в собственной транзакции.
type CacheEngine struct {
	db     *postgres.PgDatabase
	logger logger.Logger
}

func NewCacheEngine(db *postgres.PgDatabase, logger logger.Logger) *CacheEngine {
	return &CacheEngine{db: db, logger: logger}
}

func (c *CacheEngine) Migrate(ctx context.Context, version int) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.db.RunMigrations(version, c.logger); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheEngine) GetAll(ctx context.Context, collection domain.CollectionName) ([][]byte, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	records := make([][]byte, 0)
	err = c.inTx(ctx, func(ctx context.Context) error {
		tx, err := tr.TxFromCtx(ctx)
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT record FROM %s;`, table))
		if err != nil {
			return err
		}

		records, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]byte, error) {
			var record []byte
			err := row.Scan(&record)
			return record, err
		})
		return err
	})
	if err != nil {
		return nil, c.wrap(collection, err)
	}

	return records, nil
}

func (c *CacheEngine) Put(ctx context.Context, collection domain.CollectionName, key string, value []byte) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, record) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, updated_at = now();
	`, table)

	err = c.inTx(ctx, func(ctx context.Context) error {
		tx, err := tr.TxFromCtx(ctx)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, query, key, value)
		return err
	})
	if err != nil {
		return c.wrap(collection, err)
	}

	return nil
}

func (c *CacheEngine) Delete(ctx context.Context, collection domain.CollectionName, key string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	err = c.inTx(ctx, func(ctx context.Context) error {
		tx, err := tr.TxFromCtx(ctx)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, table), key)
		return err
	})
	if err != nil {
		return c.wrap(collection, err)
	}

	return nil
}

func (c *CacheEngine) Close() error {
	c.db.Close()
	return nil
}

// inTx открывает транзакцию, кладёт её в контекст и фиксирует после fn.
func (c *CacheEngine) inTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.db.Pool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				c.logger.Warnf("cache tx rollback failed: %v", e.Wrap(whereami.WhereAmI(), rbErr))
			}
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction())); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// wrap отображает отсутствие таблицы (миграция не выполнена) в e.ErrCacheUnavailable.
func (c *CacheEngine) wrap(collection domain.CollectionName, err error) error {
	if isUndefinedTable(err) {
		return e.Wrap(collection.String(), e.ErrCacheUnavailable)
	}

	return e.Wrap(fmt.Sprintf("%s %s", whereami.WhereAmI(), collection), err)
}

func tableFor(collection domain.CollectionName) (string, error) {
	table, ok := tables[collection]
	if !ok {
		return "", e.Wrap(collection.String(), e.ErrUnknownCollection)
	}

	return table, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
