package container

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/city-management-api/app/db"
	"github.com/FACorreiaa/city-management-api/config"
	"github.com/FACorreiaa/city-management-api/internal/api/city"
	"github.com/FACorreiaa/city-management-api/internal/api/countries"
	"github.com/FACorreiaa/city-management-api/internal/api/weather"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	DatabaseURL string
	CityHandler *city.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// Providers share one transport; each applies its own per-call timeout.
	httpClient := newHTTPClient(cfg)

	cityRepo := city.NewCityRepository(pool, logger)
	countryClient := countries.NewClient(cfg.Services.Countries, httpClient, logger)
	weatherClient := weather.NewClient(cfg.Services.Weather, httpClient, logger)
	if cfg.Services.Weather.APIKey == "" {
		logger.Warn("OpenWeatherMap API key not set, weather lookups will report the service as not configured")
	}

	cityService := city.NewCityService(cityRepo, countryClient, weatherClient, cfg.Services.Search, logger)
	cityHandler := city.NewCityHandler(cityService, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		DatabaseURL: dbConfig.ConnectionURL,
		CityHandler: cityHandler,
	}, nil
}

func newHTTPClient(cfg *config.Config) *http.Client {
	timeout := max(cfg.Services.Weather.Timeout, cfg.Services.Countries.Timeout)
	return &http.Client{
		// backstop only; the request context normally expires first
		Timeout: timeout + time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   cfg.Services.Search.MaxConcurrentLookups,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}
