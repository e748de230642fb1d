package config

import "github.com/spf13/viper"

// Config - structure holding the application configuration.
type Config struct {
	ServerAddress     string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn      string `mapstructure:"POSTGRES_CONN"`
	PostgresUser      string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass      string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost      string `mapstructure:"POSTGRES_HOST"`
	PostgresPort      string `mapstructure:"POSTGRES_PORT"`
	PostgresDB        string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL      string `mapstructure:"MIGRATION_URL"`
	RequestTimeoutSec int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	DefaultPageLimit  int    `mapstructure:"DEFAULT_PAGE_LIMIT"`
	MaxPageLimit      int    `mapstructure:"MAX_PAGE_LIMIT"`
}

// LoadConfig loads the configuration from a file.
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 5)
	viper.SetDefault("DEFAULT_PAGE_LIMIT", 5)
	viper.SetDefault("MAX_PAGE_LIMIT", 50)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
