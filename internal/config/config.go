// config — загрузка конфигурации фронтенд-сервиса блога.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	API      APIConfig     `yaml:"api"`
	Store    StoreConfig   `yaml:"store"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — локальный HTTP-сервер фронтенда.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// APIConfig — REST API блога, которое потребляет фронтенд.
type APIConfig struct {
	// BaseURL — корень для всех относительных путей запросов,
	// например "http://localhost:8080/api".
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
}

// StoreConfig — хранилище токенов (аналог localStorage исходного SPA).
type StoreConfig struct {
	// Backend: file | memory | redis.
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"file"`
	// Path — путь JSON-файла для backend=file; пустой — <user config dir>/pengunin/tokens.json.
	Path string `yaml:"path" env:"STORE_PATH"`
	// RedisURL — для backend=redis (redis://:pass@host:6379/0).
	RedisURL string `yaml:"redis_url" env:"STORE_REDIS_URL"`
	// Prefix — неймспейс ключей, защищает от коллизий с чужими данными.
	Prefix string `yaml:"prefix" env:"STORE_PREFIX" env-default:"pengunin_"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	// Service — общий дедлайн входящего запроса.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
	// Refresh — дедлайн запроса обновления токенов; гарантирует, что
	// очередь ожидающих refresh рано или поздно будет разобрана.
	Refresh time.Duration `yaml:"refresh" env:"REFRESH_TIMEOUT" env-default:"10s"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла ENV-переменные накладываются поверх значений из YAML.
func Load(path string) (*Config, error) {
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

	return &cfg, nil
}
