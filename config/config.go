package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Services struct {
		Weather   WeatherConfig   `mapstructure:"weather"`
		Countries CountriesConfig `mapstructure:"countries"`
		Search    SearchConfig    `mapstructure:"search"`
	} `mapstructure:"services"`
}

// WeatherConfig configures the OpenWeatherMap client. An empty APIKey
// leaves the client in its "not configured" mode.
type WeatherConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	APIKey  string        `mapstructure:"apiKey"`
	Units   string        `mapstructure:"units"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CountriesConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	MaxConcurrentLookups int `mapstructure:"maxConcurrentLookups"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// services.weather.apiKey -> SERVICES_WEATHER_APIKEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"services.weather.apiKey":        "OPENWEATHERMAP_API_KEY",
		"repositories.postgres.host":     "POSTGRES_HOST",
		"repositories.postgres.port":     "POSTGRES_PORT",
		"repositories.postgres.username": "POSTGRES_USER",
		"repositories.postgres.password": "POSTGRES_PASSWORD",
		"repositories.postgres.db":       "POSTGRES_DB",
		"server.HTTPPort":                "HTTP_PORT",
		"handlers.prometheus.port":       "PROMETHEUS_PORT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func applyDefaults(c *Config) {
	if c.Services.Weather.Timeout <= 0 {
		c.Services.Weather.Timeout = 5 * time.Second
	}
	if c.Services.Weather.Units == "" {
		c.Services.Weather.Units = "metric"
	}
	if c.Services.Countries.Timeout <= 0 {
		c.Services.Countries.Timeout = 5 * time.Second
	}
	if c.Services.Search.MaxConcurrentLookups <= 0 {
		c.Services.Search.MaxConcurrentLookups = 8
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 60 * time.Second
	}
}
