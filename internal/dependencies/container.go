package dependencies

import (
	"GlobalpingCLI/internal/cli/clients"
	"GlobalpingCLI/internal/cli/handlers"
	"GlobalpingCLI/internal/cli/publish"
	"GlobalpingCLI/internal/config"
	"GlobalpingCLI/internal/storage"
	"GlobalpingCLI/pkg/logger"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Container wires the services of one CLI invocation.
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	// Storage
	Cache        storage.ResponseCache
	HistoryStore storage.HistoryStore
	DB           *pgxpool.Pool

	// Clients
	APIClient *clients.APIClient
	Publisher *publish.MQTTPublisher

	// Handlers
	MeasurementHandler *handlers.MeasurementHandler
}

// NewContainer builds every dependency described by cfg. userAgent is used
// unless the configuration overrides it.
func NewContainer(ctx context.Context, cfg *config.Config, userAgent string) (*Container, error) {
	container := &Container{Config: cfg}

	container.initLogger()

	if err := container.initCache(); err != nil {
		container.Close()
		return nil, err
	}

	container.initAPIClient(userAgent)

	if err := container.initHistory(ctx); err != nil {
		container.Close()
		return nil, err
	}

	container.initPublisher()
	container.initHandlers()

	container.Logger.Debug().
		Str("api", cfg.API.URL).
		Str("cache", cfg.Cache.Backend).
		Bool("history", cfg.History.HistoryEnabled()).
		Bool("publish", cfg.MQTT.PublishEnabled()).
		Msg("dependency container initialized")
	return container, nil
}

func (c *Container) initLogger() {
	c.Logger = logger.Setup(logger.Config{
		Level:   c.Config.Logging.Level,
		Format:  c.Config.Logging.Format,
		Output:  os.Stderr,
		NoColor: c.Config.Logging.NoColor,
	})
}

func (c *Container) initCache() error {
	if c.Config.Cache.Backend != config.CacheBackendRedis {
		c.Cache = storage.NewMemoryCache(c.Config.Cache.TTL)
		return nil
	}

	cache, err := storage.NewRedisCache(&c.Config.Redis, c.Config.Cache.TTL, c.Logger.With().Str("component", "cache").Logger())
	if err != nil {
		return fmt.Errorf("failed to init response cache: %w", err)
	}

	c.Cache = cache
	return nil
}

func (c *Container) initAPIClient(userAgent string) {
	if c.Config.API.UserAgent != "" {
		userAgent = c.Config.API.UserAgent
	}

	c.APIClient = clients.NewAPIClient(clients.Config{
		BaseURL:    c.Config.API.URL,
		Token:      c.Config.API.Token,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: c.Config.API.Timeout},
		Cache:      c.Cache,
		Logger:     c.Logger.With().Str("component", "api").Logger(),
	})
}

func (c *Container) initHistory(ctx context.Context) error {
	if !c.Config.History.HistoryEnabled() {
		c.HistoryStore = storage.NewDisabledHistoryStore()
		return nil
	}

	db, err := storage.NewPostgres(ctx, c.Config.History.DSN, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	store := storage.NewHistoryStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	c.HistoryStore = store
	return nil
}

func (c *Container) initPublisher() {
	if !c.Config.MQTT.PublishEnabled() {
		return
	}
	c.Publisher = publish.NewMQTTPublisher(&c.Config.MQTT, c.Logger.With().Str("component", "mqtt").Logger())
}

func (c *Container) initHandlers() {
	// A nil *MQTTPublisher must not become a non-nil interface.
	var publisher handlers.Publisher
	if c.Publisher != nil {
		publisher = c.Publisher
	}

	c.MeasurementHandler = handlers.NewMeasurementHandler(
		c.APIClient,
		handlers.PollConfig{
			Interval:    c.Config.Poll.Interval,
			MaxAttempts: c.Config.Poll.MaxAttempts,
			Timeout:     c.Config.Poll.Timeout,
		},
		c.HistoryStore,
		publisher,
		c.Logger.With().Str("component", "measurement").Logger(),
	)
}

func (c *Container) Measurements() *handlers.MeasurementHandler {
	return c.MeasurementHandler
}

func (c *Container) History() storage.HistoryStore {
	return c.HistoryStore
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.Publisher != nil {
		c.Publisher.Close()
	}

	if c.HistoryStore != nil {
		c.HistoryStore.Close()
	} else if c.DB != nil {
		c.DB.Close()
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("failed to close response cache")
		}
	}
}
