// Package config loads settings from defaults, an optional clientbook.yaml,
// and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"env"`  // development|production
	Host            string        `mapstructure:"host"` // bind address
	Port            int           `mapstructure:"port"`
	DBPath          string        `mapstructure:"db_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Suggest         Suggest       `mapstructure:"suggest"`
}

// Suggest configures the remote suggestion service. An empty URL disables it.
type Suggest struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// New returns a viper instance with defaults and env bindings in place.
// CLIENTBOOK_SUGGEST_URL overrides suggest.url; PORT is honoured unprefixed.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("clientbook")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("CLIENTBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 5000)
	v.SetDefault("db_path", "clients.db")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("suggest.url", "")
	v.SetDefault("suggest.token", "")
	v.SetDefault("suggest.timeout", "10s")

	_ = v.BindEnv("port", "PORT", "CLIENTBOOK_PORT")
	return v
}

// Load reads file (or clientbook.yaml from the working directory when file is
// empty) and unmarshals the merged settings. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return nil, errors.New("db_path is empty")
	}
	return &c, nil
}
