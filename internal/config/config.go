package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.DBName)
}

type Config struct {
	Server        ServerConfig   `mapstructure:"server"`
	Postgres      PostgresConfig `mapstructure:"postgres"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	EncryptionKey string         `mapstructure:"encryption_key"`
	TrialWindow   int            `mapstructure:"trial_window_days"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("subtrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults also register each key with viper; AutomaticEnv only feeds
	// Unmarshal for keys it knows about, so without these an env-only
	// deployment (no config.yaml) would lose its settings.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "subtrack")
	v.SetDefault("timeout", 5*time.Second)
	v.SetDefault("trial_window_days", 7)
	v.SetDefault("encryption_key", "")

	if err := v.ReadInConfig(); err != nil {
		// continue if not found
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("encryption_key is required")
	}
	return &cfg, nil
}
