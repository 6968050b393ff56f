package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig controls the HTTP/websocket listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DatabaseConfig controls the optional postgres store. An empty DSN
// runs the server with the in-memory store.
type DatabaseConfig struct {
	DSN            string        `mapstructure:"dsn"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// GameConfig overrides the engine's duel constants.
type GameConfig struct {
	StartingLP      int `mapstructure:"starting_lp"`
	OpeningHandSize int `mapstructure:"opening_hand_size"`
	FatigueDamage   int `mapstructure:"fatigue_damage"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8410")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("game.starting_lp", 8000)
	v.SetDefault("game.opening_hand_size", 5)
	v.SetDefault("game.fatigue_damage", 500)
}

// Load reads configuration from the given YAML file (optional) and the
// DUEL_* environment, with hardcoded defaults underneath.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Game.StartingLP <= 0 {
		return nil, fmt.Errorf("game.starting_lp must be positive, got %d", cfg.Game.StartingLP)
	}
	if cfg.Game.OpeningHandSize < 0 {
		return nil, fmt.Errorf("game.opening_hand_size must not be negative")
	}
	return &cfg, nil
}
