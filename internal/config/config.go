package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis    `yaml:"redis"`
	Postgres   Postgres `yaml:"postgres"`
	AI         AI       `yaml:"ai"`
	Skills     Skills   `yaml:"skills"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	MatchTTL time.Duration `yaml:"match-ttl" env:"REDIS_MATCH_TTL" env-default:"24h"`
}

type Postgres struct {
	Enabled         bool          `yaml:"enabled" env:"POSTGRES_ENABLED" env-default:"false"`
	DSN             string        `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxOpenConns    int           `yaml:"max-open-conns" env-default:"16"`
	MaxIdleConns    int           `yaml:"max-idle-conns" env-default:"8"`
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime" env-default:"30m"`
}

type AI struct {
	ThinkMin    time.Duration `yaml:"think-min" env:"AI_THINK_MIN" env-default:"300ms"`
	ThinkMax    time.Duration `yaml:"think-max" env:"AI_THINK_MAX" env-default:"900ms"`
	DefaultTier int           `yaml:"default-tier" env:"AI_DEFAULT_TIER" env-default:"2"`
}

type Skills struct {
	CatalogPath string `yaml:"catalog-path" env:"SKILLS_CATALOG_PATH"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
