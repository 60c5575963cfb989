package config

import "github.com/spf13/viper"

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Port             string  `mapstructure:"SERVER_PORT"`
	DBPath           string  `mapstructure:"DB_PATH"`
	JWTSecret        string  `mapstructure:"JWT_SECRET"`
	ClientKey        string  `mapstructure:"CLIENT_KEY"`
	BearingSmoothing float64 `mapstructure:"BEARING_SMOOTHING"`
	RateLimit        int     `mapstructure:"RATE_LIMIT"` // requests per minute per IP
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("DB_PATH", "./data/trailplay.db")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("CLIENT_KEY", "dev-client-key")
	viper.SetDefault("BEARING_SMOOTHING", 0.15)
	viper.SetDefault("RATE_LIMIT", 120)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return &cfg
}
