// Package config loads client settings from an optional YAML file and lets
// environment variables override every field.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	OrderAPIURL     string `yaml:"order_api_url"`
	KitchenAPIURL   string `yaml:"kitchen_api_url"`
	InventoryAPIURL string `yaml:"inventory_api_url"`

	ControlAddr string `yaml:"control_addr"`

	PollInterval time.Duration `yaml:"poll_interval"`
	// HTTPTimeout of zero leaves requests bounded only by the transport.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	HistoryLimit        int    `yaml:"history_limit"`
	DefaultCancelReason string `yaml:"default_cancel_reason"`
	DefaultStockMinimum int    `yaml:"default_stock_minimum"`

	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`

	// RoundLogDSN is "sqlite:<path>" or a postgres:// URL. Empty disables the log.
	RoundLogDSN string `yaml:"roundlog_dsn"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	MenuCacheTTL time.Duration `yaml:"menu_cache_ttl"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Defaults returns the settings used when neither file nor environment says otherwise.
func Defaults() Config {
	return Config{
		OrderAPIURL:         "http://localhost:5000",
		KitchenAPIURL:       "http://localhost:5001",
		InventoryAPIURL:     "http://localhost:5002",
		ControlAddr:         ":8081",
		PollInterval:        10 * time.Second,
		HistoryLimit:        50,
		DefaultCancelReason: "Ingredientes insuficientes",
		DefaultStockMinimum: 10,
		Redis: RedisConfig{
			MenuCacheTTL: 5 * time.Minute,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "pedidos_prontos_exchange",
		},
	}
}

// Load starts from base, applies the YAML file at path when path is not empty,
// then applies environment overrides.
func Load(path string, base Config) (*Config, error) {
	cfg := base

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.OrderAPIURL = getEnv("ORDER_API_URL", c.OrderAPIURL)
	c.KitchenAPIURL = getEnv("KITCHEN_API_URL", c.KitchenAPIURL)
	c.InventoryAPIURL = getEnv("INVENTORY_API_URL", c.InventoryAPIURL)
	c.ControlAddr = getEnv("CONTROL_ADDR", c.ControlAddr)
	c.DefaultCancelReason = getEnv("DEFAULT_CANCEL_REASON", c.DefaultCancelReason)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.RabbitMQ.URL = getEnv("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)
	c.RoundLogDSN = getEnv("ROUNDLOG_DSN", c.RoundLogDSN)

	var err error
	if c.PollInterval, err = getDuration("POLL_INTERVAL", c.PollInterval); err != nil {
		return err
	}
	if c.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.Redis.MenuCacheTTL, err = getDuration("MENU_CACHE_TTL", c.Redis.MenuCacheTTL); err != nil {
		return err
	}
	if c.HistoryLimit, err = getInt("HISTORY_LIMIT", c.HistoryLimit); err != nil {
		return err
	}
	if c.DefaultStockMinimum, err = getInt("DEFAULT_STOCK_MINIMUM", c.DefaultStockMinimum); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.OrderAPIURL == "" || c.KitchenAPIURL == "" || c.InventoryAPIURL == "" {
		return fmt.Errorf("invalid config: service URLs are required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid config: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("invalid config: history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("invalid config: http_timeout must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
