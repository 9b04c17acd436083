package config

import (
	"GlobalpingCLI/internal/shared/constants"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const EnvPrefix = "GLOBALPING"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Poll    PollConfig    `mapstructure:"poll"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	History HistoryConfig `mapstructure:"history"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
}

type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// NoColor is resolved from the output mode at run time, not read from files.
	NoColor bool `mapstructure:"-"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type HistoryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// New returns a viper instance with defaults and environment binding applied.
// Flags are bound by the caller before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads configFile, or config.yaml from the default search paths when
// configFile is empty, and decodes the result. A missing default file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range searchPaths() {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config, %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed, %w", err)
	}

	return &config, nil
}

func searchPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".globalping"))
	}
	return append(paths, "configs")
}

func setDefaults(v *viper.Viper) {
	// api defaults
	v.SetDefault("api.url", constants.DefaultAPIURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", constants.HTTPTimeout)
	v.SetDefault("api.user_agent", "")

	// poll defaults, zero means unbounded
	v.SetDefault("poll.interval", constants.PollInterval)
	v.SetDefault("poll.max_attempts", 0)
	v.SetDefault("poll.timeout", time.Duration(0))

	// logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	// cache defaults
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", constants.ResponseCacheTTL)

	// redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// history is disabled without a dsn
	v.SetDefault("history.dsn", "")

	// mqtt publishing is disabled without a broker
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", constants.DefaultMQTTTopic)
	v.SetDefault("mqtt.client_id", "globalping-cli")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
}

func validateConfig(cfg *Config) error {
	apiURL, err := url.Parse(cfg.API.URL)
	if err != nil || (apiURL.Scheme != "http" && apiURL.Scheme != "https") || apiURL.Host == "" {
		return fmt.Errorf("invalid api url %q", cfg.API.URL)
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout %s", cfg.API.Timeout)
	}

	if cfg.Poll.Interval < 0 {
		return fmt.Errorf("invalid poll interval %s", cfg.Poll.Interval)
	}

	if cfg.Poll.MaxAttempts < 0 {
		return fmt.Errorf("invalid poll max attempts %d", cfg.Poll.MaxAttempts)
	}

	if cfg.Poll.Timeout < 0 {
		return fmt.Errorf("invalid poll timeout %s", cfg.Poll.Timeout)
	}

	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("invalid logging format %s", cfg.Logging.Format)
	}

	switch cfg.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Redis.Addr == "" {
			return errors.New("redis address is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend %s", cfg.Cache.Backend)
	}

	if cfg.MQTT.Broker != "" {
		if _, err := url.Parse(cfg.MQTT.Broker); err != nil {
			return fmt.Errorf("invalid mqtt broker %q: %w", cfg.MQTT.Broker, err)
		}
		if cfg.MQTT.Topic == "" {
			return errors.New("mqtt topic is required when a broker is set")
		}
	}

	return nil
}

// GetRedisOptions returns the settings for the Redis client.
func (r *RedisConfig) GetRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:            r.Addr,
		Password:        r.Password,
		DB:              r.DB,
		DialTimeout:     constants.RedisDialTimeout,
		DisableIdentity: true,
	}
}

// HistoryEnabled reports whether measurements should be recorded.
func (h *HistoryConfig) HistoryEnabled() bool {
	return h.DSN != ""
}

// PublishEnabled reports whether finished results should be published.
func (m *MQTTConfig) PublishEnabled() bool {
	return m.Broker != ""
}
