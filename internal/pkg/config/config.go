package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL      string `env:"CARJAI_API_URL,      default=http://localhost:8080"`
	AdminPrefix string `env:"CARJAI_ADMIN_PREFIX, default=/admin"`
	StateDir    string `env:"CARJAI_STATE_DIR"`
	Storage     string `env:"CARJAI_STORAGE,      default=file"`
	ClientID    string `env:"CARJAI_CLIENT_ID"`

	HTTPTimeout           time.Duration `env:"CARJAI_HTTP_TIMEOUT,            default=0s"`
	ForeignSignoutTimeout time.Duration `env:"CARJAI_FOREIGN_SIGNOUT_TIMEOUT, default=5s"`

	ProtectedRoutes []string `env:"CARJAI_PROTECTED_ROUTES, default=/settings,/favorites,/listings,/sell"`
	AdminRoute      string   `env:"CARJAI_ADMIN_ROUTE,      default=/admin"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Mongo MongoConfig
	Redis RedisConfig
	Mock  MockConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=carjai_client"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MockConfig configures the development backend served by `carjai mock-server`.
type MockConfig struct {
	Port          string `env:"MOCK_PORT,           default=8080"`
	JWTSecret     string `env:"JWT_SECRET,          default=dev-secret"`
	AdminUsername string `env:"MOCK_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"MOCK_ADMIN_PASSWORD, default=admin123"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if cfg.StateDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.StateDir = filepath.Join(dir, "carjai")
	}
	return &cfg, nil
}
