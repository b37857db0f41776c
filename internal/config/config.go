package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the main config struct
type Config struct {
	Environment string         `yaml:"environment" env:"ENVIRONMENT" env-default:"production" env-description:"Environment name"`
	Verbose     string         `yaml:"verbose" env:"VERBOSE" env-default:"info" env-description:"Verbose mode for debug output"`
	Database    DatabaseConfig `yaml:"database"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Filter      FilterConfig   `yaml:"filter"`
	API         APIConfig      `yaml:"api"`
	Influx      InfluxConfig   `yaml:"influx"`
	Proxy       ProxyConfig    `yaml:"proxy"`
}

// Telegram config
type TelegramConfig struct {
	Token   string        `yaml:"token" env:"TELEGRAM_TOKEN" env-required:"true" env-description:"Telegram bot token"`
	Timeout time.Duration `yaml:"timeout" env:"TELEGRAM_TIMEOUT" env-default:"10s" env-description:"Long poll timeout"`
}

// Filter config - admission lists for the inbound message path and the
// chat list for the preload pass. All lists are immutable after load.
type FilterConfig struct {
	AllowedChats []int64  `yaml:"allowed_chats" env:"FILTER_ALLOWED_CHATS" env-description:"Chat IDs to aggregate, empty allows all"`
	BlockedUsers []int64  `yaml:"blocked_users" env:"FILTER_BLOCKED_USERS" env-description:"User IDs whose messages are dropped"`
	Keywords     []string `yaml:"keywords" env:"FILTER_KEYWORDS" env-description:"Keywords that admit a message"`
	FlagWords    []string `yaml:"flag_words" env:"FILTER_FLAG_WORDS" env-description:"Flag terms that admit a message"`
}

// API config
type APIConfig struct {
	Host         string        `yaml:"host" env:"API_HOST" env-default:"localhost" env-description:"API host address to bind to"`
	Port         int           `yaml:"port" env:"API_PORT" env-default:"8080" env-description:"API port to bind to"`
	Timeout      time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"API_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"API_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"API_IDLE_TIMEOUT" env-default:"15s"`
}

// SQLite, PostgreSQL or MySQL config
type DatabaseConfig struct {
	// Driver is the database driver to use. Supported drivers are "sqlite3", "postgres" and "mysql".
	Driver     string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3" env-description:"Database driver to use"`
	Connection string `yaml:"connection" env:"DATABASE_CONNECTION" env-default:":memory:" env-description:"Database connection string"`
}

// InfluxDB metrics config. Metrics are disabled when the URL is empty.
type InfluxConfig struct {
	URL    string `yaml:"url" env:"INFLUX_URL" env-default:"" env-description:"InfluxDB URL, empty disables metrics"`
	Token  string `yaml:"token" env:"INFLUX_TOKEN" env-default:""`
	Org    string `yaml:"org" env:"INFLUX_ORG" env-default:""`
	Bucket string `yaml:"bucket" env:"INFLUX_BUCKET" env-default:""`
}

// SOCKS5 proxy config for the bot API client.
type ProxyConfig struct {
	Address  string `yaml:"address" env:"PROXY_ADDRESS" env-default:""`
	Port     int    `yaml:"port" env:"PROXY_PORT" env-default:"0"`
	Username string `yaml:"username" env:"PROXY_USERNAME" env-default:""`
	Password string `yaml:"password" env:"PROXY_PASSWORD" env-default:""`
}

// ConfigError - structured error for config loading failures
type ConfigError struct {
	Message string
}

// Error - implement the error interface
func (e *ConfigError) Error() string {
	return e.Message
}

// MustLoadConfig reads the config file pointed to by CONFIG_PATH
// (default config.yml) with environment overrides. When no file exists,
// the environment alone is used.
func MustLoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	var config Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, &ConfigError{
				Message: "Cannot read config from environment: " + err.Error(),
			}
		}

		return &config, nil
	}

	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		return nil, &ConfigError{
			Message: "Cannot read config file: " + err.Error(),
		}
	}

	return &config, nil
}
