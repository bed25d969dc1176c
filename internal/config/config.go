package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string   `mapstructure:"host" yaml:"host"`
	Port            int      `mapstructure:"port" yaml:"port"`
	PublicDir       string   `mapstructure:"public_dir" yaml:"public_dir"`
	CORSOrigins     []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CatalogConfig holds catalog source and pricing configuration
type CatalogConfig struct {
	PriceDir     string  `mapstructure:"price_dir" yaml:"price_dir"`
	TaxRate      float64 `mapstructure:"tax_rate" yaml:"tax_rate"`
	ParseWorkers int     `mapstructure:"parse_workers" yaml:"parse_workers"`
	// CacheTTL in seconds; 0 rebuilds the catalog on every read.
	CacheTTL int `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envBindings maps config keys to the plain variable names operators
// already use.
var envBindings = map[string]string{
	"server.host":         "HOST",
	"server.port":         "PORT",
	"server.public_dir":   "PUBLIC_DIR",
	"server.cors_origins": "CORS_ORIGINS",
	"catalog.price_dir":   "PRICE_DIR",
	"catalog.tax_rate":    "TAX_RATE",
	"log.level":           "LOG_LEVEL",
	"log.format":          "LOG_FORMAT",
}

// Load reads configuration from an optional .env file, an optional YAML
// config file and environment variables, in increasing priority. An empty
// configFile searches for config.yaml in the working directory.
func Load(configFile string) (*Config, error) {
	return LoadWith(viper.GetViper(), configFile)
}

// LoadWith is Load against a caller-owned viper instance.
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	rate := c.Catalog.TaxRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("invalid catalog.tax_rate %v: must be a finite non-negative fraction", rate)
	}
	if c.Catalog.PriceDir == "" {
		return fmt.Errorf("catalog.price_dir must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("invalid catalog.cache_ttl %d", c.Catalog.CacheTTL)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.public_dir", "./public")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("catalog.price_dir", filepath.Join(cwd, "categorias_precios"))
	v.SetDefault("catalog.tax_rate", 0.115)
	v.SetDefault("catalog.parse_workers", 4)
	v.SetDefault("catalog.cache_ttl", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
