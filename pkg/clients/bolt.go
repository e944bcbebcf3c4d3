package clients

import (
	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/jimlawless/whereami"
	bolt "go.etcd.io/bbolt"
)

// NewBoltClient открывает файл локального кэша. Пока файл открыт другим процессом,
// открытие ждёт не дольше cfg.OpenTimeout.
func NewBoltClient(cfg *cfg.CacheCfg) (*bolt.DB, error) {
	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
