// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	GraphQL GraphQLConfig `mapstructure:"graphql"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Server  ServerConfig  `mapstructure:"server"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// GraphQLConfig points at the marketplace backend. Timeout applies to the
// schema fetch; aggregation recomputes carry their own tighter deadline from
// CacheConfig.
type GraphQLConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	AuthHeader string `mapstructure:"auth_header"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type CacheConfig struct {
	SchemaTTL        int  `mapstructure:"schema_ttl"`        // milliseconds
	AggregationTTL   int  `mapstructure:"aggregation_ttl"`   // milliseconds
	RecomputeTimeout int  `mapstructure:"recompute_timeout"` // milliseconds
	SharedEnabled    bool `mapstructure:"shared_enabled"`    // Redis second level
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// PricingConfig names the backend's canonical currency. Price filters record
// the currency in effect at selection time and are converted to the
// canonical one at query time.
type PricingConfig struct {
	CanonicalCurrency string `mapstructure:"canonical_currency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
