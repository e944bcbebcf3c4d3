package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	CacheDriverBolt     = "bolt"
	CacheDriverRedis    = "redis"
	CacheDriverPostgres = "postgres"
)

type Config struct {
	App    *AppCfg
	Http   *HTTPConfig
	Cache  *CacheCfg
	Redis  *RedisCfg
	Db     *PGDBCfg
	Remote *RemoteCfg
	Sync   *SyncCfg
	Kafka  *KafkaCfg
	Minio  *MinIOCfg
}

type AppCfg struct {
	Env             string // development | production
	ShutdownTimeout time.Duration
}

// IsStrict — в development неизвестное действие роняет процесс, в production только логируется.
func (a *AppCfg) IsStrict() bool {
	return a.Env != EnvProduction
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type CacheCfg struct {
	Driver        string        // bolt | redis | postgres
	Path          string        // путь к файлу bbolt
	DBName        string        // имя базы локального кэша
	SchemaVersion int           // версия схемы коллекций
	OpenTimeout   time.Duration // ожидание блокировки файла bbolt
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RemoteCfg struct {
	URL     string // GraphQL endpoint каталога
	Timeout time.Duration
}

type SyncCfg struct {
	WriteTimeout time.Duration // таймаут фоновой записи в локальный кэш
}

// KafkaCfg — публикация событий корзины. Пустой Brokers выключает публикацию.
type KafkaCfg struct {
	Topic   string
	Brokers []string
}

func (k *KafkaCfg) Enabled() bool {
	return len(k.Brokers) > 0
}

// MinIOCfg — подписанные ссылки на изображения товаров. Пустой MinioEndpoint выключает их.
type MinIOCfg struct {
	MinioEndpoint     string
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	Region            string
	LinkTTL           time.Duration
}

func (m *MinIOCfg) Enabled() bool {
	return m.MinioEndpoint != ""
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Значения берутся из окружения, а при заданном CONFIG_PATH недостающие ключи читаются из TOML-файла.
func Load(log logger.Logger) (*Config, error) {
	src, err := newSource(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return load(src, log)
}

func load(src *source, log logger.Logger) (*Config, error) {
	app, err := loadAppCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cache, err := loadCacheCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if cache.Driver == CacheDriverPostgres {
		db, err = loadPGDBCfg(src, log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	remote, err := loadRemoteCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sync, err := loadSyncCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg(src)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(src, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:    app,
		Http:   http,
		Cache:  cache,
		Redis:  redis,
		Db:     db,
		Remote: remote,
		Sync:   sync,
		Kafka:  kafka,
		Minio:  minio,
	}, nil
}

func loadAppCfg(src *source, log logger.Logger) (*AppCfg, error) {
	const (
		defaultEnv             = EnvDevelopment
		defaultShutdownTimeout = 10 * time.Second
	)

	env := strings.ToLower(src.getOrDefault("APP_ENV", defaultEnv))
	if env != EnvDevelopment && env != EnvProduction {
		err := e.Wrap("APP_ENV="+env, e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid APP_ENV")
		return nil, err
	}

	shutdownTimeout, err := src.duration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &AppCfg{Env: env, ShutdownTimeout: shutdownTimeout}, nil
}

func loadHTTPConfig(src *source, log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := src.duration("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := src.duration("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := src.duration("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         src.getOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadCacheCfg(src *source, log logger.Logger) (*CacheCfg, error) {
	const (
		defaultDriver        = CacheDriverBolt
		defaultPath          = "shop-shop.db"
		defaultDBName        = "shop-shop"
		defaultSchemaVersion = 1
		defaultOpenTimeout   = time.Second
	)

	driver := strings.ToLower(src.getOrDefault("CACHE_DRIVER", defaultDriver))
	switch driver {
	case CacheDriverBolt, CacheDriverRedis, CacheDriverPostgres:
	default:
		err := e.Wrap("CACHE_DRIVER="+driver, e.ErrUnsupportedCacheDriver)
		log.Errorf(err, "invalid CACHE_DRIVER")
		return nil, err
	}

	schemaVersion, err := src.integer("CACHE_SCHEMA_VERSION", defaultSchemaVersion)
	if err != nil {
		log.Errorf(err, "invalid CACHE_SCHEMA_VERSION")
		return nil, err
	}

	openTimeout, err := src.duration("CACHE_OPEN_TIMEOUT", defaultOpenTimeout)
	if err != nil {
		log.Errorf(err, "invalid CACHE_OPEN_TIMEOUT")
		return nil, err
	}

	return &CacheCfg{
		Driver:        driver,
		Path:          src.getOrDefault("CACHE_PATH", defaultPath),
		DBName:        src.getOrDefault("CACHE_DB_NAME", defaultDBName),
		SchemaVersion: schemaVersion,
		OpenTimeout:   openTimeout,
	}, nil
}

func loadRedisCfg(src *source, log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := src.integer("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := src.integer("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := src.duration("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := src.duration("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := src.duration("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        src.getOrDefault("REDIS_ADDR", defaultAddr),
		Password:    src.get("REDIS_PASSWORD"),
		User:        src.get("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

func loadPGDBCfg(src *source, log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	required := map[string]string{}
	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"} {
		value := src.get(key)
		if value == "" {
			err := fmt.Errorf("%s is required", key)
			log.Errorf(err, "missing %s", key)
			return nil, err
		}
		required[key] = value
	}

	return &PGDBCfg{
		Host:     src.getOrDefault("POSTGRES_HOST", defaultHost),
		Port:     src.getOrDefault("POSTGRES_PORT", defaultPort),
		User:     required["POSTGRES_USER"],
		Password: required["POSTGRES_PASSWORD"],
		DBName:   required["POSTGRES_DB"],
		SSLMode:  src.getOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadRemoteCfg(src *source, log logger.Logger) (*RemoteCfg, error) {
	const (
		defaultURL     = "http://localhost:3001/graphql"
		defaultTimeout = 5 * time.Second
	)

	timeout, err := src.duration("REMOTE_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid REMOTE_TIMEOUT")
		return nil, err
	}

	return &RemoteCfg{
		URL:     src.getOrDefault("REMOTE_GRAPHQL_URL", defaultURL),
		Timeout: timeout,
	}, nil
}

func loadSyncCfg(src *source, log logger.Logger) (*SyncCfg, error) {
	const defaultWriteTimeout = 2 * time.Second

	writeTimeout, err := src.duration("SYNC_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid SYNC_WRITE_TIMEOUT")
		return nil, err
	}

	return &SyncCfg{WriteTimeout: writeTimeout}, nil
}

func loadKafkaCfg(src *source) (*KafkaCfg, error) {
	const defaultTopic = "storefront.cart-events"

	brokerStr := src.get("KAFKA_BROKERS")
	if brokerStr == "" {
		return &KafkaCfg{Topic: src.getOrDefault("KAFKA_TOPIC", defaultTopic)}, nil
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	return &KafkaCfg{
		Brokers: brokers,
		Topic:   src.getOrDefault("KAFKA_TOPIC", defaultTopic),
	}, nil
}

func loadMinIOCfg(src *source, log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL  = false
		defaultBucket  = "product-images"
		defaultLinkTTL = 15 * time.Minute
		defaultRegion  = "us-east-1"
	)

	useSSL, err := strconv.ParseBool(src.getOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	linkTTL, err := src.duration("MINIO_LINK_TTL", defaultLinkTTL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_LINK_TTL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     src.get("MINIO_ENDPOINT"),
		BucketName:        src.getOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     src.get("MINIO_ROOT_USER"),
		MinioRootPassword: src.get("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		Region:            src.getOrDefault("MINIO_REGION", defaultRegion),
		LinkTTL:           linkTTL,
	}, nil
}

// source отдаёт значения сначала из окружения, затем из файла конфигурации.
type source struct {
	file map[string]string
}

// newSource читает плоский TOML-файл вида KEY = "value". Пустой путь означает только окружение.
func newSource(path string) (*source, error) {
	src := &source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for key, value := range raw {
		src.file[strings.ToUpper(key)] = fmt.Sprint(value)
	}

	return src, nil
}

// get возвращает значение ключа или пустую строку, если он нигде не задан.
func (s *source) get(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return s.file[key]
}

// getOrDefault возвращает значение ключа или значение по умолчанию.
func (s *source) getOrDefault(key, defaultValue string) string {
	if value := s.get(key); value != "" {
		return value
	}

	return defaultValue
}

// duration считывает длительность или возвращает значение по умолчанию.
func (s *source) duration(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := s.get(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func (s *source) integer(key string, defaultValue int) (int, error) {
	v := s.get(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return intValue, nil
}
