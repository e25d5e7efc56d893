package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	SimulationModeSynthetic = "synthetic"
	SimulationModeProvider  = "provider"

	PortfolioSourceRPC    = "rpc"
	PortfolioSourceZapper = "zapper"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string `yaml:"port" env:"SERVER_PORT"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development"`
}

// NetworkConfig holds the supported chain and how to reach it.
type NetworkConfig struct {
	Supported      string  `yaml:"supported"`
	RPCURLTemplate string  `yaml:"rpcURLTemplate"`
	RPCTimeoutMs   int64   `yaml:"rpcTimeoutMs"`
	DialTimeoutMs  int64   `yaml:"dialTimeoutMs"`
	RateLimit      float64 `yaml:"rateLimit"`
	BurstLimit     int     `yaml:"burstLimit"`
}

// AlchemyConfig holds the simulation provider configuration.
type AlchemyConfig struct {
	APIKey           string `yaml:"apiKey" env:"ALCHEMY_API_KEY"`
	SimulationMode   string `yaml:"simulationMode"`
	BaseURL          string `yaml:"baseURL"`
	RequestTimeoutMs int64  `yaml:"requestTimeoutMs"`
}

// ZapperConfig holds the portfolio-aggregation API configuration.
type ZapperConfig struct {
	APIKey           string `yaml:"apiKey" env:"ZAPPER_API_KEY"`
	BaseURL          string `yaml:"baseURL"`
	RequestTimeoutMs int64  `yaml:"requestTimeoutMs"`
}

// PortfolioConfig selects where wallet snapshots come from.
type PortfolioConfig struct {
	Source string       `yaml:"source"`
	Zapper ZapperConfig `yaml:"zapper"`
}

// PricingConfig holds the placeholder price table.
type PricingConfig struct {
	NativePriceUSD string `yaml:"nativePriceUSD"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecPath string `yaml:"specPath"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Network   NetworkConfig   `yaml:"network"`
	Alchemy   AlchemyConfig   `yaml:"alchemy"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Swagger   SwaggerConfig   `yaml:"swagger"`
}

// Load reads the YAML file at path, overlays environment variables and fills defaults.
// A missing file is not an error: the service can run from environment and defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		logrus.Infof("Loading configuration from path: %s", path)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using environment and defaults", path)
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		logrus.Infof("Logging.Level not set, defaulting to %s", cfg.Logging.Level)
	}

	if cfg.Network.Supported == "" {
		cfg.Network.Supported = "sepolia"
		logrus.Infof("Network.Supported not set, defaulting to %s", cfg.Network.Supported)
	}
	if cfg.Network.RPCURLTemplate == "" {
		cfg.Network.RPCURLTemplate = "https://eth-sepolia.g.alchemy.com/v2/{apiKey}"
		logrus.Infof("Network.RPCURLTemplate not set, defaulting to %s", cfg.Network.RPCURLTemplate)
	}
	if cfg.Network.RPCTimeoutMs <= 0 {
		cfg.Network.RPCTimeoutMs = 10000
		logrus.Infof("Network.RPCTimeoutMs not set, defaulting to %d ms", cfg.Network.RPCTimeoutMs)
	}
	if cfg.Network.DialTimeoutMs <= 0 {
		cfg.Network.DialTimeoutMs = 10000
	}
	if cfg.Network.RateLimit <= 0 {
		cfg.Network.RateLimit = 10
		logrus.Infof("Network.RateLimit not set, defaulting to %.0f req/s", cfg.Network.RateLimit)
	}
	if cfg.Network.BurstLimit <= 0 {
		cfg.Network.BurstLimit = 5
	}

	if cfg.Alchemy.SimulationMode == "" {
		cfg.Alchemy.SimulationMode = SimulationModeSynthetic
		logrus.Infof("Alchemy.SimulationMode not set, defaulting to %s", cfg.Alchemy.SimulationMode)
	}
	if cfg.Alchemy.BaseURL == "" {
		cfg.Alchemy.BaseURL = "https://eth-sepolia.g.alchemy.com/v2"
		logrus.Infof("Alchemy.BaseURL not set, defaulting to %s", cfg.Alchemy.BaseURL)
	}
	if cfg.Alchemy.RequestTimeoutMs <= 0 {
		cfg.Alchemy.RequestTimeoutMs = 15000
		logrus.Infof("Alchemy.RequestTimeoutMs not set, defaulting to %d ms", cfg.Alchemy.RequestTimeoutMs)
	}

	if cfg.Portfolio.Source == "" {
		cfg.Portfolio.Source = PortfolioSourceRPC
		logrus.Infof("Portfolio.Source not set, defaulting to %s", cfg.Portfolio.Source)
	}
	if cfg.Portfolio.Zapper.BaseURL == "" {
		cfg.Portfolio.Zapper.BaseURL = "https://api.zapper.xyz"
	}
	if cfg.Portfolio.Zapper.RequestTimeoutMs <= 0 {
		cfg.Portfolio.Zapper.RequestTimeoutMs = 10000
	}

	if cfg.Pricing.NativePriceUSD == "" {
		cfg.Pricing.NativePriceUSD = "2500"
		logrus.Infof("Pricing.NativePriceUSD not set, defaulting to %s", cfg.Pricing.NativePriceUSD)
	}

	if cfg.Swagger.SpecPath == "" {
		cfg.Swagger.SpecPath = "./docs/swagger.yaml"
	}
}

func (c *Config) validate() error {
	c.Alchemy.SimulationMode = strings.ToLower(c.Alchemy.SimulationMode)
	switch c.Alchemy.SimulationMode {
	case SimulationModeSynthetic, SimulationModeProvider:
	default:
		return fmt.Errorf("unknown alchemy.simulationMode %q", c.Alchemy.SimulationMode)
	}

	c.Portfolio.Source = strings.ToLower(c.Portfolio.Source)
	switch c.Portfolio.Source {
	case PortfolioSourceRPC:
	case PortfolioSourceZapper:
		if c.Portfolio.Zapper.APIKey == "" {
			logrus.Warn("Portfolio.Source is zapper but no Zapper API key is configured")
		}
	default:
		return fmt.Errorf("unknown portfolio.source %q", c.Portfolio.Source)
	}
	return nil
}

// RPCURL renders the RPC endpoint for the configured API key.
func (c *Config) RPCURL() string {
	return strings.ReplaceAll(c.Network.RPCURLTemplate, "{apiKey}", c.Alchemy.APIKey)
}
