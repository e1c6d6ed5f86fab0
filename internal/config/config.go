// config — загрузка конфигурации блога.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// ENV всегда накладывается поверх файла. Перед чтением подгружается
// необязательный .env из рабочей директории.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Бэкенды кэша отрендеренных страниц.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	CMS      CMSConfig     `yaml:"cms"`
	Cache    CacheConfig   `yaml:"cache"`
	Listing  ListingConfig `yaml:"listing"`
	Site     SiteConfig    `yaml:"site"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Build    BuildConfig   `yaml:"build"`
}

// HTTPConfig — публичный HTTP-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// CMSConfig — доступ к headless CMS.
type CMSConfig struct {
	Endpoint     string `yaml:"endpoint"      env:"PRISMIC_ENDPOINT"     env-required:"true"`
	AccessToken  string `yaml:"access_token"  env:"PRISMIC_ACCESS_TOKEN"`
	DocumentType string `yaml:"document_type" env:"CMS_DOCUMENT_TYPE"    env-default:"posts"`
	// PageSize — размер первой страницы списка (и всех последующих через курсор).
	PageSize int `yaml:"page_size" env:"CMS_PAGE_SIZE" env-default:"1"`
}

// CacheConfig — кэш отрендеренных данных и интервалы ревалидации.
type CacheConfig struct {
	Backend  string `yaml:"backend"   env:"CACHE_BACKEND" env-default:"memory"`
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`
	Prefix   string `yaml:"prefix"    env:"CACHE_PREFIX"  env-default:"blog:"`
	// MemoryEntries — ёмкость кэша в памяти (backend memory).
	MemoryEntries int `yaml:"memory_entries" env:"CACHE_MEMORY_ENTRIES" env-default:"4096"`
	// ListingRevalidate — через сколько первая страница списка считается устаревшей.
	ListingRevalidate time.Duration `yaml:"listing_revalidate" env:"LISTING_REVALIDATE" env-default:"24h"`
	// PostRevalidate — через сколько страница поста считается устаревшей.
	PostRevalidate time.Duration `yaml:"post_revalidate" env:"POST_REVALIDATE" env-default:"5m"`
	// Retention — жёсткий срок хранения записи; после него чтение даёт промах.
	Retention time.Duration `yaml:"retention" env:"CACHE_RETENTION" env-default:"168h"`
}

// ListingConfig — сессии страницы списка.
type ListingConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"30m"`
}

// SiteConfig — параметры отображения.
type SiteConfig struct {
	Title  string `yaml:"title"  env:"SITE_TITLE" env-default:"spacetraveling"`
	Locale string `yaml:"locale" env:"LOCALE"     env-default:"pt-BR"`
	// BaseURL — абсолютный адрес сайта для ссылок RSS; пусто -> берётся из запроса.
	BaseURL string `yaml:"base_url" env:"SITE_URL"`
	// Prebuild — собирать страницы всех постов при старте сервера.
	Prebuild bool `yaml:"prebuild" env:"PREBUILD" env-default:"true"`
	// PrebuildConcurrency — параллелизм предварительной сборки и экспорта.
	PrebuildConcurrency int `yaml:"prebuild_concurrency" env:"PREBUILD_CONCURRENCY" env-default:"4"`
	// ResolveConcurrency — предел одновременных фоновых выборок постов по запросам.
	ResolveConcurrency int `yaml:"resolve_concurrency" env:"RESOLVE_CONCURRENCY" env-default:"16"`
}

// TimeoutConfig — таймауты.
type TimeoutConfig struct {
	// Request — общий дедлайн входящего HTTP-запроса.
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"15s"`
	// CMS — таймаут HTTP-клиента CMS.
	CMS time.Duration `yaml:"cms" env:"CMS_TIMEOUT" env-default:"10s"`
	// Background — дедлайн фоновой ревалидации и разрешения постов.
	Background time.Duration `yaml:"background" env:"BACKGROUND_TIMEOUT" env-default:"30s"`
}

// BuildConfig — статический экспорт.
type BuildConfig struct {
	OutputDir string `yaml:"output_dir" env:"BUILD_OUTPUT_DIR" env-default:"public"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv подгружает .env, не перетирая уже заданные переменные.
// Отсутствие файла — не ошибка.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load %s: %w", path, err)
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	u, err := url.Parse(c.CMS.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("cms.endpoint must be an absolute http(s) URL")
	}
	if c.CMS.DocumentType == "" {
		return fmt.Errorf("cms.document_type is required")
	}
	if c.CMS.PageSize <= 0 || c.CMS.PageSize > 100 {
		return fmt.Errorf("cms.page_size must be in 1..100")
	}

	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.MemoryEntries <= 0 {
			return fmt.Errorf("cache.memory_entries must be > 0")
		}
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q", CacheMemory, CacheRedis)
	}

	if c.Cache.ListingRevalidate <= 0 || c.Cache.PostRevalidate <= 0 {
		return fmt.Errorf("cache revalidate intervals must be > 0")
	}
	if c.Cache.Retention < c.Cache.ListingRevalidate || c.Cache.Retention < c.Cache.PostRevalidate {
		return fmt.Errorf("cache.retention must be >= revalidate intervals")
	}
	if c.Listing.SessionTTL <= 0 {
		return fmt.Errorf("listing.session_ttl must be > 0")
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("site.base_url must be an absolute http(s) URL")
		}
	}
	if c.Site.PrebuildConcurrency <= 0 {
		return fmt.Errorf("site.prebuild_concurrency must be > 0")
	}
	if c.Site.ResolveConcurrency <= 0 {
		return fmt.Errorf("site.resolve_concurrency must be > 0")
	}

	return nil
}
