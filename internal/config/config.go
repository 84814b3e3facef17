package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"github.com/totegamma/funnelbuilder/internal/domain"
)

type Config struct {
	Telegram Telegram `yaml:"telegram" envPrefix:"FUNNELBUILDER_TELEGRAM_"`
	Server   Server   `yaml:"server" envPrefix:"FUNNELBUILDER_"`
}

type Telegram struct {
	BotToken string        `yaml:"botToken" env:"BOT_TOKEN"`
	MaxAge   time.Duration `yaml:"maxAge" env:"MAX_AGE"`
}

type Server struct {
	Listen        string  `yaml:"listen" env:"LISTEN"`
	ServiceName   string  `yaml:"serviceName" env:"SERVICE_NAME"`
	Store         string  `yaml:"store" env:"STORE"` // postgres, supabase
	PostgresDsn   string  `yaml:"postgresDsn" env:"POSTGRES_DSN"`
	SupabaseURL   string  `yaml:"supabaseUrl" env:"SUPABASE_URL"`
	SupabaseKey   string  `yaml:"supabaseKey" env:"SUPABASE_KEY"`
	RedisAddr     string  `yaml:"redisAddr" env:"REDIS_ADDR"`
	RedisPassword string  `yaml:"redisPassword" env:"REDIS_PASSWORD"`
	RedisDB       int     `yaml:"redisDB" env:"REDIS_DB"`
	MemcachedAddr string  `yaml:"memcachedAddr" env:"MEMCACHED_ADDR"`
	EnableTrace   bool    `yaml:"enableTrace" env:"ENABLE_TRACE"`
	TraceEndpoint string  `yaml:"traceEndpoint" env:"TRACE_ENDPOINT"`
	LogLevel      string  `yaml:"logLevel" env:"LOG_LEVEL"`
	RateLimit     float64 `yaml:"rateLimit" env:"RATE_LIMIT"` // requests per second per user
	RateBurst     int     `yaml:"rateBurst" env:"RATE_BURST"`
}

const (
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
)

func defaults() Config {
	return Config{
		Telegram: Telegram{
			MaxAge: 24 * time.Hour,
		},
		Server: Server{
			Listen:      ":8000",
			ServiceName: "funnelbuilder",
			Store:       StorePostgres,
			LogLevel:    "info",
			RateLimit:   10,
			RateBurst:   20,
		},
	}
}

// Load reads the yaml file at path, if any, then applies environment overrides.
func Load(path string) (Config, error) {
	config := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "decode config")
		}
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.botToken is required")
	}
	switch c.Server.Store {
	case StorePostgres:
		if c.Server.PostgresDsn == "" {
			return errors.New("server.postgresDsn is required for the postgres store")
		}
	case StoreSupabase:
		if c.Server.SupabaseURL == "" || c.Server.SupabaseKey == "" {
			return errors.New("server.supabaseUrl and server.supabaseKey are required for the supabase store")
		}
	default:
		return errors.Errorf("unknown store %q", c.Server.Store)
	}
	return nil
}

// Domain returns the settings the verification gate runs with.
func (c Config) Domain() *domain.Config {
	return &domain.Config{
		BotToken:    c.Telegram.BotToken,
		MaxAge:      c.Telegram.MaxAge,
		ServiceName: c.Server.ServiceName,
	}
}
