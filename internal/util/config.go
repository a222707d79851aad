package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins       []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress    string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress   string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	GHNBaseURL           string        `mapstructure:"GHN_BASE_URL"`
	GHNAPIToken          string        `mapstructure:"GHN_API_TOKEN"`
	GHNShopID            string        `mapstructure:"GHN_SHOP_ID"`
	ShopDistrictID       int64         `mapstructure:"SHOP_DISTRICT_ID"`
	LocationSyncInterval time.Duration `mapstructure:"LOCATION_SYNC_INTERVAL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("GHN_BASE_URL", "https://dev-online-gateway.ghn.vn/shiip/public-api")
	viper.SetDefault("LOCATION_SYNC_INTERVAL", "24h")

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.GHNAPIToken == "" {
		return fmt.Errorf("GHN_API_TOKEN is required")
	}
	if config.GHNShopID == "" {
		return fmt.Errorf("GHN_SHOP_ID is required")
	}
	if config.ShopDistrictID == 0 {
		return fmt.Errorf("SHOP_DISTRICT_ID is required")
	}

	return nil
}
